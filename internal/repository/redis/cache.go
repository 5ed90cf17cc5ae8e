package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/repository"
)

// keyPrefix namespaces storefront cache entries in a shared Redis.
const keyPrefix = "storefront:content:"

// ContentCache is a Redis-backed repository.ContentCache storing JSON
// serialized values.
type ContentCache struct {
	client *redis.Client
}

// NewContentCache creates a cache over an existing Redis client.
func NewContentCache(client *redis.Client) *ContentCache {
	return &ContentCache{client: client}
}

// Connect dials Redis and verifies connectivity.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// Get loads and unmarshals the value at key into out. A missing key is
// reported as repository.ErrCacheMiss.
func (c *ContentCache) Get(ctx context.Context, key string, out any) error {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return repository.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// Set marshals value and stores it with the given TTL.
func (c *ContentCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (c *ContentCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// Ping reports backend health for readiness checks.
func (c *ContentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
