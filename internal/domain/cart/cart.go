package cart

import (
	"errors"
	"time"
)

var (
	ErrLineNotFound      = errors.New("cart: item not in cart")
	ErrQuantityTooLow    = errors.New("cart: quantity must be at least 1")
	ErrInsufficientStock = errors.New("cart: requested quantity exceeds available stock")
)

// Item is one cart line: a product reference plus the requested quantity.
// Price and currency are snapshotted at add time so totals stay stable
// while the cart is open.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the lines selected during one browser session. It lives in
// process memory only and is never persisted.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func New(id string) *Cart {
	now := time.Now().UTC()
	return &Cart{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Add merges quantity into an existing line for the product, or appends
// a new line. stock is the product's current stock; the resulting line
// quantity may never exceed it, and a zero-stock product cannot be added.
func (c *Cart) Add(item Item, stock int) error {
	if item.Quantity < 1 {
		return ErrQuantityTooLow
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			if c.Items[i].Quantity+item.Quantity > stock {
				return ErrInsufficientStock
			}
			c.Items[i].Quantity += item.Quantity
			c.touch()
			return nil
		}
	}
	if item.Quantity > stock {
		return ErrInsufficientStock
	}
	c.Items = append(c.Items, item)
	c.touch()
	return nil
}

// SetQuantity replaces a line's quantity, clamped to the stock ceiling.
// Quantities below 1 are rejected without changing the line.
func (c *Cart) SetQuantity(productID string, quantity, stock int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity > stock {
				quantity = stock
			}
			if quantity < 1 {
				return ErrInsufficientStock
			}
			c.Items[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return ErrLineNotFound
}

// Remove deletes the line for the product.
func (c *Cart) Remove(productID string) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.Items = nil
	c.touch()
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums price times quantity. A cart is assumed to hold a
// single currency.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Currency returns the cart currency, taken from the first line.
func (c *Cart) Currency() string {
	if len(c.Items) > 0 {
		return c.Items[0].Currency
	}
	return "EUR"
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
