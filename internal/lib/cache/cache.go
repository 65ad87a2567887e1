// Package cache stores JSON values in Redis.
//
// Redis is optional: a Cache without a client, or a Redis error, falls back
// to computing the value so reads never fail because of the cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TTLHome     = 10 * time.Minute
	TTLSettings = 10 * time.Minute
)

const (
	KeyHome     = "roboclub:home"
	KeySettings = "roboclub:settings"
)

// ErrMiss is returned by GetJSON when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
	logger *zerolog.Logger
}

// New returns a Cache. client may be nil.
func New(client *redis.Client, logger *zerolog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// GetJSON unmarshals the value stored at key into dest.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) error {
	if c.client == nil {
		return ErrMiss
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	return json.Unmarshal(val, dest)
}

// SetJSON stores value as JSON under key.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Invalidate deletes keys and logs instead of failing.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate cache")
	}
}

// GetOrSet returns the cached value for key, or computes it with fn and
// caches the result.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(context.Context) (*T, error)) (*T, error) {
	var cached T
	err := c.GetJSON(ctx, key, &cached)
	if err == nil {
		c.logger.Debug().Str("key", key).Msg("cache hit")
		return &cached, nil
	}
	if !errors.Is(err, ErrMiss) {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.SetJSON(ctx, key, value, ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to set cache")
	}

	return value, nil
}
