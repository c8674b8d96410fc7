package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds the planner's short-lived shared state: serialized travel
// estimates keyed by EstimateKey and per-client request counters keyed by
// RateLimitKey. Implementations must be safe for concurrent use.
type Cache interface {
	// Set stores an encoded estimate for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get reports found=false for a missing or expired estimate.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Delete evicts an entry that could not be decoded.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	// IncrWithExpiry counts a request in the window that opened with the
	// first hit on key. Later hits do not extend the window.
	IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCache is the Redis-backed Cache shared by every planner instance.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache parses redisURL (redis:// or rediss://) and builds a client.
// No connection is made until the first command.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

var _ Cache = (*RedisCache)(nil)
