package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"storefront/internal/domain"
)

const catalogKey = "catalog:products"

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *RedisCache) Get(ctx context.Context) ([]domain.Product, error) {
	data, err := r.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return products, nil
}

func (r *RedisCache) Set(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	if err := r.client.Set(ctx, catalogKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
