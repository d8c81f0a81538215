package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const qrKeyPrefix = "qr:"

// QRCache stores rendered QR payloads keyed by ticket and event name.
type QRCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, payload string) error
}

// QRKey derives the cache key for a ticket. The event name is hashed so that
// renaming an event produces a new key instead of serving a stale image.
func QRKey(ticketID, eventName string) string {
	sum := sha256.Sum256([]byte(eventName))
	return qrKeyPrefix + ticketID + ":" + hex.EncodeToString(sum[:8])
}

type RedisQRCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisQRCache(client redis.Cmdable, ttl time.Duration) *RedisQRCache {
	return &RedisQRCache{client: client, ttl: ttl}
}

func (c *RedisQRCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("qr cache get: %w", err)
	}
	return val, true, nil
}

func (c *RedisQRCache) Set(ctx context.Context, key, payload string) error {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("qr cache set: %w", err)
	}
	return nil
}

// NoopQRCache is used when no Redis is configured; every lookup misses.
type NoopQRCache struct{}

func (NoopQRCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NoopQRCache) Set(context.Context, string, string) error { return nil }
