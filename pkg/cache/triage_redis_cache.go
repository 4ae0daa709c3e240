package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the Redis-backed result cache. Keys are namespaced per cache
// type so classification and intent entries never collide.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache over an existing client.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "triage"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(cacheType, key string) string {
	return c.prefix + ":" + cacheType + ":" + key
}

// GetJSON loads a cached JSON value into dest. Returns false on miss.
func (c *RedisCache) GetJSON(ctx context.Context, cacheType, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.key(cacheType, key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, err
	}

	return true, nil
}

// SetJSON stores a value as JSON with a TTL.
func (c *RedisCache) SetJSON(ctx context.Context, cacheType, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(cacheType, key), data, ttl).Err()
}

// Delete removes one cached entry.
func (c *RedisCache) Delete(ctx context.Context, cacheType, key string) error {
	return c.client.Del(ctx, c.key(cacheType, key)).Err()
}

// Ping verifies connectivity for readiness checks.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
