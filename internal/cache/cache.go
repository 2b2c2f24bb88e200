// internal/cache/cache.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const entryKeyFmt = "stm:%s"

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 60 * time.Second

// ErrNotFound is returned for missing or expired entries.
var ErrNotFound = errors.New("entry not found")

// Cache is the short-term memory store: key/value with a store-wide TTL.
// Expiry is enforced by redis; no eviction sweep runs here.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache over an existing redis client. ttl <= 0 falls back to
// DefaultTTL.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// TTL returns the store-wide time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Put stores a value under key; the expiry deadline is write time plus TTL.
func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, fmt.Sprintf(entryKeyFmt, key), value, c.ttl).Err()
}

// Get returns the value for key, or ErrNotFound if absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf(entryKeyFmt, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}
