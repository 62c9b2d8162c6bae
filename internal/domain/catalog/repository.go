package catalog

import "context"

// Repository is the product store port. DecrementStock must be an atomic
// conditional decrement: it fails with ErrInsufficientStock without
// changing anything when stock < quantity, so concurrent checkouts
// cannot oversell a product.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id string, u Update) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
	DecrementStock(ctx context.Context, id string, quantity int) (remaining int, err error)
}
