package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by GetBytes when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is the key-value store shared by the page cache and the repository
// read-through caches. Implementations: Redis and in-memory.
type Cache interface {
	// Get unmarshals the cached JSON value into dest.
	// found is false on a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores value as JSON for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// GetBytes and SetBytes store raw payloads, used for rendered pages.
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern such as "page:*".
	DeletePattern(ctx context.Context, pattern string) error

	// Clear removes every key owned by this cache.
	Clear(ctx context.Context) error

	Ping(ctx context.Context) error
}
