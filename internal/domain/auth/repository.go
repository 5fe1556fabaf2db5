package auth

import "context"

// RefreshTokenRepository stores refresh tokens by hash.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error

	// IsRefreshTokenRevoked returns the token owner and whether the token is
	// revoked or expired. ErrInvalidToken when the token is unknown.
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)

	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
