package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	enabled       bool
	failing       bool
	lookupFailing bool
	tokens        map[string]time.Duration
}

func (f *fakeStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if f.failing {
		return errors.New("redis down")
	}
	f.tokens[token] = ttl
	return nil
}

func (f *fakeStore) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.lookupFailing {
		return false, errors.New("redis down")
	}
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeStore) Enabled() bool { return f.enabled }

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h", nil)
	driverID := "drv-1"

	token, exp, err := svc.GenerateAccessToken(AccessClaims{
		UserID:    "usr-1",
		Email:     "driver@fleet.test",
		CompanyID: "cmp-1",
		Role:      user.RoleDriver,
		DriverID:  &driverID,
	})
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "usr-1", claims["user_id"])
	assert.Equal(t, "cmp-1", claims["company_id"])
	assert.Equal(t, "drv-1", claims["driver_id"])
	assert.Equal(t, "driver", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateRefreshToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "forever", nil)
	_, _, err := svc.GenerateRefreshToken("usr-1")
	assert.Error(t, err)
}

func TestRevokeToken_InMemory(t *testing.T) {
	svc := NewJWTService("test-secret", "1h", "24h", nil)
	ctx := context.Background()

	svc.RevokeToken(ctx, "tok-a", time.Now().Add(time.Hour))
	svc.RevokeToken(ctx, "tok-expired", time.Now().Add(-time.Minute))

	assert.True(t, svc.IsTokenRevoked(ctx, "tok-a"))
	assert.False(t, svc.IsTokenRevoked(ctx, "tok-expired"))
	assert.False(t, svc.IsTokenRevoked(ctx, "tok-b"))
}

func TestRevokeToken_UsesStore(t *testing.T) {
	store := &fakeStore{enabled: true, tokens: map[string]time.Duration{}}
	svc := NewJWTService("test-secret", "1h", "24h", store)
	ctx := context.Background()

	svc.RevokeToken(ctx, "tok-a", time.Now().Add(time.Hour))

	assert.Contains(t, store.tokens, "tok-a")
	assert.True(t, svc.IsTokenRevoked(ctx, "tok-a"))
}

func TestRevokeToken_StoreFailureFallsBackToMemory(t *testing.T) {
	store := &fakeStore{enabled: true, failing: true, tokens: map[string]time.Duration{}}
	svc := NewJWTService("test-secret", "1h", "24h", store)
	ctx := context.Background()

	svc.RevokeToken(ctx, "tok-a", time.Now().Add(time.Hour))

	assert.Empty(t, store.tokens)
	assert.True(t, svc.IsTokenRevoked(ctx, "tok-a"))
}

func TestIsTokenRevoked_StoreLookupFailureRejects(t *testing.T) {
	store := &fakeStore{enabled: true, lookupFailing: true, tokens: map[string]time.Duration{}}
	svc := NewJWTService("test-secret", "1h", "24h", store)

	assert.True(t, svc.IsTokenRevoked(context.Background(), "tok-never-revoked"))

	store.lookupFailing = false
	assert.False(t, svc.IsTokenRevoked(context.Background(), "tok-never-revoked"))
}

func TestIsTokenRevoked_DisabledStoreIsNotConsulted(t *testing.T) {
	store := &fakeStore{enabled: false, lookupFailing: true, tokens: map[string]time.Duration{}}
	svc := NewJWTService("test-secret", "1h", "24h", store)

	assert.False(t, svc.IsTokenRevoked(context.Background(), "tok-a"))
}
