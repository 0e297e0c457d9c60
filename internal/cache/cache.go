package cache

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// CatalogCache stores the mapped catalog snapshot between fetches.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
