package jwt

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// AccessClaims is the authenticated identity carried by access tokens.
type AccessClaims struct {
	UserID    string
	Email     string
	CompanyID string
	Role      user.Role
	DriverID  *string
}

// RevocationStore persists revoked access tokens across instances.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Enabled() bool
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(ctx context.Context, token string, expiresAt time.Time)
	IsTokenRevoked(ctx context.Context, token string) bool
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
	store                      RevocationStore
	revokedTokens              map[string]time.Time
	mu                         sync.RWMutex
	now                        func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService creates the token service. store may be nil, in which case
// revocations are only remembered by this process.
func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, store RevocationStore) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		store:                      store,
		revokedTokens:              make(map[string]time.Time),
		now:                        time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(c AccessClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":    c.UserID,
		"email":      c.Email,
		"company_id": c.CompanyID,
		"driver_id":  returnValueOrNil(c.DriverID),
		"role":       string(c.Role),
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    "refresh",
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeToken blacklists an access token until its expiry.
func (j *JWTService) RevokeToken(ctx context.Context, token string, expiresAt time.Time) {
	ttl := expiresAt.Sub(j.now())
	if ttl <= 0 {
		return
	}

	if j.store != nil && j.store.Enabled() {
		err := j.store.Revoke(ctx, token, ttl)
		if err == nil {
			return
		}
		slog.Warn("failed to store revoked token, keeping it in memory", "error", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
	j.purgeExpiredLocked()
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, token string) bool {
	j.mu.RLock()
	exp, revoked := j.revokedTokens[token]
	j.mu.RUnlock()
	if revoked && exp.After(j.now()) {
		return true
	}

	if j.store != nil && j.store.Enabled() {
		revoked, err := j.store.IsRevoked(ctx, token)
		if err != nil {
			// fail closed: a logged out token must not pass while redis is down
			slog.Error("failed to check revoked token, rejecting it", "error", err)
			return true
		}
		return revoked
	}
	return false
}

func (j *JWTService) purgeExpiredLocked() {
	now := j.now()
	for token, exp := range j.revokedTokens {
		if !exp.After(now) {
			delete(j.revokedTokens, token)
		}
	}
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
