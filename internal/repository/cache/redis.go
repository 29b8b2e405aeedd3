package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kervela/product_catalog/internal/domain"
)

// RedisCache implements read-through caching for products
type RedisCache struct {
	client     *redis.Client
	productTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, productTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		productTTL: productTTL,
	}
}

func (c *RedisCache) productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct retrieves a cached product
func (c *RedisCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	val, err := c.client.Get(ctx, c.productKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// SetProduct stores a product in cache
func (c *RedisCache) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.productKey(product.ID), data, c.productTTL).Err()
}

// InvalidateProduct removes a product from cache
func (c *RedisCache) InvalidateProduct(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.productKey(id)).Err()
}
