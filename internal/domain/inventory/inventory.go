package inventory

import "errors"

var (
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
	ErrNotFound          = errors.New("inventory: product not found")
)

// LineRequest asks for one product's stock to be decremented.
type LineRequest struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

// LineResult reports the outcome for a single line. AvailableStock is
// populated on insufficient-stock failures so the buyer can reduce the
// requested quantity; NewStock on success.
type LineResult struct {
	ProductID      string `json:"id"`
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	AvailableStock *int   `json:"availableStock,omitempty"`
	NewStock       *int   `json:"newStock,omitempty"`
}

// Result aggregates per-line outcomes. Success is true only when every
// line succeeded. Lines that succeeded before a later failure stay
// applied; there is no rollback.
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Lines   []LineResult `json:"results"`
}
