package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix for contextualized link lookups
const linkKeyPrefix = "link:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) GetLink(ctx context.Context, contextualizedLink string) (string, bool, error) {
	link, err := c.client.Get(ctx, linkKeyPrefix+contextualizedLink).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil // Cache miss
	}
	if err != nil {
		return "", false, err
	}
	return link, true, nil
}

func (c *RedisCache) SetLink(ctx context.Context, contextualizedLink, link string, ttl time.Duration) error {
	return c.client.Set(ctx, linkKeyPrefix+contextualizedLink, link, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
