package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	"github.com/amelia-salon/storefront/internal/domain/event"
	dominv "github.com/amelia-salon/storefront/internal/domain/inventory"
	"github.com/amelia-salon/storefront/internal/infrastructure/observability/prometrics"
	"github.com/amelia-salon/storefront/internal/pkg/logging"
)

const useCaseAdjust = "inventory.adjust"

// Service applies stock decrements after a confirmed checkout. Each
// line is handled independently; lines applied before a later failure
// stay applied.
type Service struct {
	products  domcatalog.Repository
	publisher event.Publisher
	metrics   *prometrics.Metrics
}

func NewService(products domcatalog.Repository, publisher event.Publisher, metrics *prometrics.Metrics) *Service {
	return &Service{
		products:  products,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Adjust decrements stock for every line, reporting a per-line
// breakdown. The aggregate succeeds only when every line succeeded.
func (s *Service) Adjust(ctx context.Context, lines []dominv.LineRequest) *dominv.Result {
	logger := logging.FromContext(ctx).With(zap.String("use_case", useCaseAdjust))
	start := time.Now()

	result := &dominv.Result{Success: true, Lines: make([]dominv.LineResult, 0, len(lines))}
	for _, line := range lines {
		result.Lines = append(result.Lines, s.adjustLine(ctx, line))
	}
	for _, lr := range result.Lines {
		if !lr.Success {
			result.Success = false
			break
		}
	}

	outcome := "success"
	result.Message = "Inventory updated successfully"
	if !result.Success {
		outcome = "error"
		result.Message = "Some inventory updates failed"
	}

	s.metrics.ObserveUsecase(useCaseAdjust, outcome, time.Since(start).Seconds())
	logger.Info("use_case_done",
		zap.String("outcome", outcome),
		zap.Int("lines", len(lines)),
		zap.Float64("latency_seconds", time.Since(start).Seconds()),
	)
	return result
}

func (s *Service) adjustLine(ctx context.Context, line dominv.LineRequest) dominv.LineResult {
	if line.ProductID == "" || line.Quantity <= 0 {
		return dominv.LineResult{
			ProductID: line.ProductID,
			Message:   "Invalid item data",
		}
	}

	remaining, err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity)
	switch {
	case err == nil:
		s.publish(ctx, line.ProductID)
		return dominv.LineResult{
			ProductID: line.ProductID,
			Success:   true,
			NewStock:  &remaining,
		}
	case errors.Is(err, domcatalog.ErrNotFound):
		return dominv.LineResult{
			ProductID: line.ProductID,
			Message:   "Product not found",
		}
	case errors.Is(err, domcatalog.ErrInsufficientStock):
		available := s.availableStock(ctx, line.ProductID)
		return dominv.LineResult{
			ProductID:      line.ProductID,
			Message:        fmt.Sprintf("Insufficient stock. Only %d available.", available),
			AvailableStock: &available,
		}
	default:
		logging.FromContext(ctx).Error("stock_decrement_failed",
			zap.String("product_id", line.ProductID),
			zap.Error(err),
		)
		return dominv.LineResult{
			ProductID: line.ProductID,
			Message:   "Failed to update inventory",
		}
	}
}

func (s *Service) availableStock(ctx context.Context, productID string) int {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return 0
	}
	return p.Stock
}

func (s *Service) publish(ctx context.Context, productID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, domcatalog.NewProductChangedEvent(productID, domcatalog.ChangeStockAdjusted)); err != nil {
		logging.FromContext(ctx).Warn("stock_event_publish_failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}
