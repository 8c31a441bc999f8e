// ABOUTME: Redis cache implementation using go-redis client
// ABOUTME: Shares translations between service instances; keys are stored without expiry unless a TTL is given

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreerrors "digests-a11y/core/errors"
	"digests-a11y/pkg/config"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis cache instance and verifies the connection
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}

	return &RedisCache{
		client: client,
		prefix: cfg.KeyPrefix,
	}, nil
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &coreerrors.NotFoundError{Resource: "cache key", ID: key}
		}
		return nil, coreerrors.WrapError(err, "redis get")
	}
	return val, nil
}

// Set stores a value in Redis with the given TTL. Redis treats a zero TTL as no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return coreerrors.WrapError(c.client.Set(ctx, c.key(key), value, ttl).Err(), "redis set")
}

// Delete removes a key from Redis. Deleting an absent key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return coreerrors.WrapError(c.client.Del(ctx, c.key(key)).Err(), "redis delete")
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}
