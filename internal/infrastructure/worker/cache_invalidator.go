package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/amelia-salon/storefront/internal/domain/catalog"
	"github.com/amelia-salon/storefront/internal/domain/event"
	"github.com/amelia-salon/storefront/internal/infrastructure/cache"
	"github.com/amelia-salon/storefront/internal/pkg/logging"
)

// CacheInvalidator drops the cached catalog whenever a product changes,
// so reads after an admin edit or a stock decrement see fresh data.
type CacheInvalidator struct {
	subscriber event.Subscriber
	cache      cache.CatalogCache
}

func NewCacheInvalidator(subscriber event.Subscriber, c cache.CatalogCache) *CacheInvalidator {
	return &CacheInvalidator{
		subscriber: subscriber,
		cache:      c,
	}
}

func (w *CacheInvalidator) Start() {
	w.subscriber.Subscribe(catalog.ProductChangedEvent{}.EventName(), w.handleProductChanged)
}

func (w *CacheInvalidator) handleProductChanged(ctx context.Context, e event.Event) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "cache_invalidator"))
	evt, ok := e.(catalog.ProductChangedEvent)
	if !ok {
		return nil
	}

	if err := w.cache.Invalidate(ctx); err != nil {
		logger.Warn("catalog_cache_invalidate_failed",
			zap.String("product_id", evt.ProductID),
			zap.String("change", evt.Change),
			zap.Error(err),
		)
		return err
	}

	logger.Debug("catalog_cache_invalidated",
		zap.String("product_id", evt.ProductID),
		zap.String("change", evt.Change),
	)
	return nil
}
