// internal/core/ports/cache.go
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present in the cache
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository is a read-through JSON cache for derived views like the
// dashboard. A miss is reported as ErrCacheMiss, never as a failure.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrSet(ctx context.Context, key string, dest interface{}, loader func() (interface{}, error), ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
