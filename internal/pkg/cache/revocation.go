package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const revokedTokenPrefix = "revoked_token:"

// RevocationStore keeps revoked access tokens in redis until they expire.
type RevocationStore struct {
	client *Client
}

func NewRevocationStore(client *Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func (s *RevocationStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedTokenPrefix + hex.EncodeToString(sum[:])
}

func (s *RevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.SetValue(ctx, s.key(token), "1", ttl)
}

func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.client.Exists(ctx, s.key(token))
}

func (s *RevocationStore) Enabled() bool {
	return s.client.Available()
}
