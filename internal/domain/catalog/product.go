package catalog

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrInvalidProduct    = errors.New("catalog: missing required product fields")
	ErrInvalidStock      = errors.New("catalog: stock must be zero or greater")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
)

const DefaultCurrency = "EUR"

// Product is a sellable item in the salon catalog. Prices are decimal
// major units (euros), converted to cents only at payment time.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Stock       int       `json:"stock" bson:"stock"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Featured    bool      `json:"featured" bson:"featured"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// NewProduct validates required fields and applies defaults, mirroring
// the storage-layer validation rules: name, price, image and description
// are mandatory, currency defaults to EUR, stock to zero.
func NewProduct(name string, price float64, image, description, currency, category string, stock int, featured bool) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 || image == "" || description == "" {
		return nil, ErrInvalidProduct
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Product{
		Name:        name,
		Price:       price,
		Currency:    currency,
		Description: description,
		Image:       image,
		Stock:       stock,
		Category:    category,
		Featured:    featured,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Update carries a partial field replacement for a product. Nil fields
// are left untouched, which is what the admin list view relies on for
// stock-only edits.
type Update struct {
	Name        *string
	Price       *float64
	Currency    *string
	Description *string
	Image       *string
	Stock       *int
	Category    *string
	Featured    *bool
}

func (u Update) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Currency == nil &&
		u.Description == nil && u.Image == nil && u.Stock == nil &&
		u.Category == nil && u.Featured == nil
}

// Validate rejects updates that would break the required-field rules.
func (u Update) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrInvalidProduct
	}
	if u.Price != nil && *u.Price <= 0 {
		return ErrInvalidProduct
	}
	if u.Stock != nil && *u.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Apply merges the update into the product in place.
func (u Update) Apply(p *Product) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Currency != nil {
		p.Currency = *u.Currency
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
}
