// Package cache backs the verification read path with Redis. Entries
// hold settled verification results only; everything else goes to the
// store, which stays the single source of truth.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "verify:"
	ttl       = 10 * time.Minute
)

func NewVerificationCache(addr, password string) *VerificationCache {
	return &VerificationCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

type VerificationCache struct {
	client *redis.Client
}

func (c *VerificationCache) Get(ctx context.Context, contentHash string) ([]byte, bool) {
	b, err := c.client.Get(ctx, keyPrefix+contentHash).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("verification cache get failed", "err", err)
		}
		return nil, false
	}
	return b, true
}

func (c *VerificationCache) Set(ctx context.Context, contentHash string, value []byte) {
	if err := c.client.Set(ctx, keyPrefix+contentHash, value, ttl).Err(); err != nil {
		slog.Warn("verification cache set failed", "err", err)
	}
}

func (c *VerificationCache) Delete(ctx context.Context, contentHash string) {
	if err := c.client.Del(ctx, keyPrefix+contentHash).Err(); err != nil {
		slog.Warn("verification cache delete failed", "err", err)
	}
}

func (c *VerificationCache) Close() error {
	return c.client.Close()
}
