package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventmarket/models"

	"github.com/redis/go-redis/v9"
)

const candidatesKey = "discovery:vendors:v1"

// RedisCache stores the candidate list under one key with a TTL.
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, key: candidatesKey, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) ([]models.VendorMapItem, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	var items []models.VendorMapItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached vendors: %w", err)
	}
	return items, true, nil
}

func (c *RedisCache) Set(ctx context.Context, items []models.VendorMapItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode vendors: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
