package payment

import (
	"context"
	"errors"
)

var ErrIntentNotFound = errors.New("payment: intent not found")

// Status mirrors the processor's payment intent lifecycle. Only the
// values the storefront reacts to are named; anything else is passed
// through untouched.
type Status string

const (
	StatusRequiresPaymentMethod Status = "requires_payment_method"
	StatusProcessing            Status = "processing"
	StatusSucceeded             Status = "succeeded"
	StatusCanceled              Status = "canceled"
)

// Intent is the processor-owned representation of an attempted charge.
type Intent struct {
	ID            string
	ClientSecret  string
	Status        Status
	Amount        int64 // minor currency units
	Currency      string
	CustomerEmail string
	Created       int64 // unix seconds
	PaymentMethod string
}

// CreateIntentParams carries everything the processor needs to open a
// charge: the amount in cents plus order metadata for reconciliation.
type CreateIntentParams struct {
	Amount        int64
	Currency      string
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Address       string
	PostalCode    string
	Phone         string
	ItemSummary   string // compact JSON of {id, name, quantity} per line
}

// Processor is the external payment processor port.
type Processor interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
