package auth

import (
	"context"
	"fmt"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Identity is the caller as established by the access token.
type Identity struct {
	UserID    string
	Email     string
	CompanyID string
	Role      user.Role
	DriverID  *string
}

func (i Identity) IsDriver() bool {
	return i.Role == user.RoleDriver
}

// IdentityFromContext reads the verified token claims placed on ctx by the
// jwtauth verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to extract claims from context: %w", ErrInvalidToken)
	}

	var id Identity
	id.UserID, _ = claims["user_id"].(string)
	id.Email, _ = claims["email"].(string)
	id.CompanyID, _ = claims["company_id"].(string)
	role, _ := claims["role"].(string)
	id.Role = user.Role(role)
	if driverID, ok := claims["driver_id"].(string); ok && driverID != "" {
		id.DriverID = &driverID
	}

	if id.UserID == "" || id.CompanyID == "" {
		return Identity{}, fmt.Errorf("user_id or company_id claim is missing: %w", ErrInvalidToken)
	}
	return id, nil
}

// ContextWithIdentity builds an unsigned token carrying id, as the verifier
// would. Used by background jobs and tests.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", id.UserID)
	_ = token.Set("email", id.Email)
	_ = token.Set("company_id", id.CompanyID)
	_ = token.Set("role", string(id.Role))
	_ = token.Set("type", "access")
	if id.DriverID != nil {
		_ = token.Set("driver_id", *id.DriverID)
	}
	return jwtauth.NewContext(ctx, token, nil)
}
