package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"photobook/internal/pricing"

	"github.com/redis/go-redis/v9"
)

// PricingCache keeps resolved price tables in Redis, keyed by photographer.
type PricingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 2,
	})
}

func NewPricingCache(client *redis.Client, ttl time.Duration) *PricingCache {
	return &PricingCache{client: client, ttl: ttl}
}

func pricingKey(photographerID int64) string {
	return fmt.Sprintf("pricing:config:%d", photographerID)
}

// Get returns the cached table. ok is false on a miss.
func (c *PricingCache) Get(ctx context.Context, photographerID int64) (cfg pricing.Config, ok bool, err error) {
	data, err := c.client.Get(ctx, pricingKey(photographerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return pricing.Config{}, false, nil
	}
	if err != nil {
		return pricing.Config{}, false, fmt.Errorf("get pricing cache: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return pricing.Config{}, false, fmt.Errorf("decode pricing cache: %w", err)
	}
	return cfg, true, nil
}

func (c *PricingCache) Set(ctx context.Context, photographerID int64, cfg pricing.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal pricing config: %w", err)
	}
	return c.client.Set(ctx, pricingKey(photographerID), data, c.ttl).Err()
}

func (c *PricingCache) Invalidate(ctx context.Context, photographerID int64) error {
	return c.client.Del(ctx, pricingKey(photographerID)).Err()
}
