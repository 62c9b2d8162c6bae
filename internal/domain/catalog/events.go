package catalog

import "time"

// ProductChangedEvent is emitted on any product mutation (create, update,
// delete or stock adjustment). Cached catalog views subscribe to it.
type ProductChangedEvent struct {
	ProductID  string
	Change     string
	OccurredAt time.Time
}

const (
	ChangeCreated       = "created"
	ChangeUpdated       = "updated"
	ChangeDeleted       = "deleted"
	ChangeStockAdjusted = "stock_adjusted"
)

func (ProductChangedEvent) EventName() string { return "catalog.product_changed" }

func NewProductChangedEvent(productID, change string) ProductChangedEvent {
	return ProductChangedEvent{
		ProductID:  productID,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	}
}
