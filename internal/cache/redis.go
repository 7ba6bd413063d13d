package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pricelist/internal/models"
)

// ProductsKey holds the JSON-encoded, newest-first product list.
const ProductsKey = "pricelist:products:all"

// Config holds Redis connection details.
type Config struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient parses the URL, connects and pings the server.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisProductCache implements services.ProductCache on top of Redis.
type RedisProductCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisProductCache creates a cache whose entries expire after ttl.
func NewRedisProductCache(client redis.Cmdable, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

// GetProducts returns the cached list; ok is false on a miss.
func (c *RedisProductCache) GetProducts(ctx context.Context) ([]models.Product, bool, error) {
	raw, err := c.client.Get(ctx, ProductsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached products: %w", err)
	}

	products := make([]models.Product, 0)
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached products: %w", err)
	}
	return products, true, nil
}

// SetProducts replaces the cached list.
func (c *RedisProductCache) SetProducts(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	if err := c.client.Set(ctx, ProductsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache products: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ProductsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached products: %w", err)
	}
	return nil
}
