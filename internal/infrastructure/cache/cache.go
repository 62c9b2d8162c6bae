package cache

import (
	"context"
	"errors"

	"github.com/amelia-salon/storefront/internal/domain/catalog"
)

// CatalogCache holds the full product list under a single key. Writers
// invalidate, readers repopulate.
type CatalogCache interface {
	Get(ctx context.Context) ([]catalog.Product, error)
	Set(ctx context.Context, products []catalog.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
