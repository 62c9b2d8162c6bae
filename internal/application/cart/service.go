package cart

import (
	"context"
	"fmt"

	domcart "github.com/amelia-salon/storefront/internal/domain/cart"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	"github.com/amelia-salon/storefront/internal/infrastructure/memory"
)

// Service applies cart operations for one session. The stock ceiling is
// taken from the product store at mutation time; the authoritative
// check happens again at inventory adjustment.
type Service struct {
	carts    *memory.CartStore
	products domcatalog.Repository
}

func NewService(carts *memory.CartStore, products domcatalog.Repository) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// Get returns the session cart, creating an empty one on first touch.
func (s *Service) Get(ctx context.Context, cartID string) (*domcart.Cart, error) {
	_ = ctx
	return s.carts.GetOrCreate(cartID), nil
}

// AddItem merges quantity into the session cart, capped by the
// product's current stock.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domcart.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cart add: %w", err)
	}

	item := domcart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Currency:  product.Currency,
		Image:     product.Image,
		Quantity:  quantity,
	}

	err = s.carts.Mutate(cartID, func(c *domcart.Cart) error {
		return c.Add(item, product.Stock)
	})
	if err != nil {
		return nil, err
	}
	return s.carts.Get(cartID), nil
}

// SetQuantity replaces a line quantity, clamped to [1, stock].
func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domcart.Cart, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cart set quantity: %w", err)
	}

	err = s.carts.Mutate(cartID, func(c *domcart.Cart) error {
		return c.SetQuantity(productID, quantity, product.Stock)
	})
	if err != nil {
		return nil, err
	}
	return s.carts.Get(cartID), nil
}

// RemoveItem deletes the line for the product.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (*domcart.Cart, error) {
	_ = ctx
	err := s.carts.Mutate(cartID, func(c *domcart.Cart) error {
		return c.Remove(productID)
	})
	if err != nil {
		return nil, err
	}
	return s.carts.Get(cartID), nil
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	_ = ctx
	return s.carts.Mutate(cartID, func(c *domcart.Cart) error {
		c.Clear()
		return nil
	})
}
