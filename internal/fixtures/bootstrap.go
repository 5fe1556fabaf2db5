package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/company"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

// Owner describes the first company and its admin login.
type Owner struct {
	CompanyName string
	Email       string
	Password    string
}

func (o Owner) enabled() bool {
	return o.Email != "" && o.Password != ""
}

// EnsureOwner seeds the first company and admin user on an empty database.
// It does nothing once any company exists.
func EnsureOwner(ctx context.Context, tx postgresql.Transactor, companies company.CompanyRepository, users user.UserRepository, owner Owner) error {
	if !owner.enabled() {
		return nil
	}

	n, err := companies.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(owner.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash owner password: %w", err)
	}
	hashStr := string(hash)

	name := owner.CompanyName
	if name == "" {
		name = "My Fleet"
	}

	return tx.WithinTx(ctx, func(txCtx context.Context) error {
		created, err := companies.Create(txCtx, name)
		if err != nil {
			return err
		}
		admin, err := users.Create(txCtx, user.User{
			CompanyID:    created.ID,
			Email:        strings.ToLower(strings.TrimSpace(owner.Email)),
			PasswordHash: &hashStr,
			Role:         user.RoleAdmin,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		slog.Info("seeded owner account", "company_id", created.ID, "user_id", admin.ID)
		return nil
	})
}
