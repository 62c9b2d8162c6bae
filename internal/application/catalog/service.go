package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	"github.com/amelia-salon/storefront/internal/infrastructure/cache"
	"github.com/amelia-salon/storefront/internal/infrastructure/observability/prometrics"
	"github.com/amelia-salon/storefront/internal/pkg/logging"
)

const listKey = "catalog.list"

// Service serves the storefront catalog. Reads go through the cache
// when one is configured; cache failures fall back to the repository
// and are logged, never surfaced.
type Service struct {
	repo    domcatalog.Repository
	cache   cache.CatalogCache
	metrics *prometrics.Metrics
	sfg     singleflight.Group
}

func NewService(repo domcatalog.Repository, c cache.CatalogCache, metrics *prometrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		cache:   c,
		metrics: metrics,
	}
}

// List returns the full product catalog. Concurrent cache misses are
// collapsed into a single repository read.
func (s *Service) List(ctx context.Context) ([]domcatalog.Product, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}

	v, err, _ := s.sfg.Do(listKey, func() (any, error) {
		products, cacheErr := s.cache.Get(ctx)
		if cacheErr == nil {
			s.metrics.CacheEvent("hit")
			return products, nil
		}

		if cacheErr != cache.ErrCacheMiss {
			s.metrics.CacheEvent("error")
			logging.FromContext(ctx).Warn("catalog_cache_get_failed", zap.Error(cacheErr))
		} else {
			s.metrics.CacheEvent("miss")
		}

		products, repoErr := s.repo.List(ctx)
		if repoErr != nil {
			return nil, repoErr
		}

		go func() {
			if setErr := s.cache.Set(context.Background(), products); setErr != nil {
				logging.FromContext(ctx).Warn("catalog_cache_set_failed", zap.Error(setErr))
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domcatalog.Product), nil
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (*domcatalog.Product, error) {
	return s.repo.Get(ctx, id)
}
