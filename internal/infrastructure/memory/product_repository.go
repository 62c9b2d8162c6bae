package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amelia-salon/storefront/internal/domain/catalog"
)

// ProductRepository is a mutex-guarded product store used by tests and
// local dev mode. Semantics match the MongoDB implementation, including
// the atomic conditional stock decrement.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*catalog.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*catalog.Product)}
}

func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *p
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.products[clone.ID] = &clone

	result := clone
	return &result, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, u catalog.Update) (*catalog.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	u.Apply(p)
	clone := *p
	return &clone, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	delete(r.products, id)
	clone := *p
	return &clone, nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	_ = ctx
	if quantity <= 0 {
		return 0, catalog.ErrInvalidStock
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, catalog.ErrNotFound
	}
	if p.Stock < quantity {
		return 0, catalog.ErrInsufficientStock
	}
	p.Stock -= quantity
	return p.Stock, nil
}
