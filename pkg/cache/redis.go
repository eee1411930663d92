package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Cacher on a Redis connection pool. Keys are namespaced
// so the service can share an instance with other tenants.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis creates a Redis cache from a redis:// URL.
func NewRedis(url, namespace string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{
		client:    redis.NewClient(opts),
		namespace: namespace,
	}, nil
}

func (r *Redis) key(k string) string {
	return r.namespace + ":" + k
}

// Get returns the cached value, or a miss when absent or unreachable.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

// Set stores a value with the given TTL (DefaultTTL when zero).
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.client.Set(ctx, r.key(key), val, ttl).Err(); err != nil {
		slog.Warn("Cache set failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Exists reports whether a key is present. Unreachable backends report false.
func (r *Redis) Exists(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		slog.Warn("Cache exists check failed", "key", key, "error", err)
		return false
	}
	return n > 0
}

// Ping checks reachability for health reporting.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
