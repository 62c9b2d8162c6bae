package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces identifiers for requests and orders.
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

// NewRequestID returns a plain uuid string.
func (Generator) NewRequestID() string { return uuid.NewString() }

// NewOrderID returns a short, human-readable order token like
// "SB-9F3A2C41". It is never persisted; it only travels in payment
// intent metadata and the confirmation URL.
func (Generator) NewOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SB-" + strings.ToUpper(raw[:8])
}
