// Package cache memoizes expensive upstream lookups. The service keeps
// running when the cache backend is unreachable: failed operations degrade
// to misses and are logged, never raised.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is applied when a caller passes a zero TTL.
const DefaultTTL = time.Hour

// Cacher defines the caching interface.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Exists(ctx context.Context, key string) bool
}
