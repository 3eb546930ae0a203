package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "notecopy:etc:"

// RedisCache shares resolved mappings between processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache wraps client. A zero ttl stores entries without expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: defaultKeyPrefix,
	}
}

// Key returns the Redis key for typeCode.
func (c *RedisCache) Key(typeCode int) string {
	return fmt.Sprintf("%s%d", c.prefix, typeCode)
}

func (c *RedisCache) Get(ctx context.Context, typeCode int) (string, bool, error) {
	if c.client == nil {
		return "", false, fmt.Errorf("Redis client not initialized")
	}

	name, err := c.client.Get(ctx, c.Key(typeCode)).Result()
	if errors.Is(err, redis.Nil) {
		// Cache miss
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (c *RedisCache) Set(ctx context.Context, typeCode int, logicalName string) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return c.client.Set(ctx, c.Key(typeCode), logicalName, c.ttl).Err()
}
