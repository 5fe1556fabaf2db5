package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotObtained is returned when another holder owns the lock.
var ErrLockNotObtained = errors.New("lock not obtained")

// Client wraps a redis client and its lock client. A nil *Client, or one
// built without an address, is a valid no-op cache.
type Client struct {
	rdb    *redis.Client
	locker *redislock.Client
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 100,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	slog.Info("connected to redis", "addr", addr, "db", db)
	return &Client{rdb: rdb, locker: redislock.New(rdb)}, nil
}

func (c *Client) Available() bool {
	return c != nil && c.rdb != nil
}

func (c *Client) SetValue(ctx context.Context, key, value string, exp time.Duration) error {
	if !c.Available() {
		return nil
	}
	return c.rdb.Set(ctx, key, value, exp).Err()
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	if !c.Available() {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// WithLock runs fn while holding the named lock. Without redis fn runs
// unguarded. ErrLockNotObtained means another instance holds the lock.
func (c *Client) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if !c.Available() {
		return fn(ctx)
	}

	lock, err := c.locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLockNotObtained
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release lock", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}

func (c *Client) Close() error {
	if !c.Available() {
		return nil
	}
	return c.rdb.Close()
}
