package checkout

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound    = errors.New("checkout: session not found")
	ErrIllegalTransition  = errors.New("checkout: illegal state transition")
	ErrShippingIncomplete = errors.New("checkout: shipping information is incomplete")
)

// State is the checkout flow position for one session.
type State string

const (
	StateCollectingShipping State = "collecting-shipping"
	StateCollectingPayment  State = "collecting-payment"
	StateSubmitting         State = "submitting"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Session tracks one buyer's progress through the two-step checkout.
// It is keyed by the cart id and lives only in process memory.
type Session struct {
	CartID         string
	State          State
	Shipping       ShippingInfo
	OrderID        string
	IntentID       string
	FailureMessage string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewSession(cartID string) *Session {
	now := time.Now().UTC()
	return &Session{
		CartID:    cartID,
		State:     StateCollectingShipping,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SubmitShipping stores validated shipping info and advances to payment
// collection. Submitting new shipping from the payment step is allowed
// (the form has a back button); later states are not.
func (s *Session) SubmitShipping(info ShippingInfo) error {
	if s.State != StateCollectingShipping && s.State != StateCollectingPayment {
		return ErrIllegalTransition
	}
	if errs := info.Validate(); len(errs) > 0 {
		return ErrShippingIncomplete
	}
	s.Shipping = info
	s.State = StateCollectingPayment
	s.touch()
	return nil
}

// BeginSubmission moves the session into submitting. A session already
// submitting rejects a second submission, which is all the duplicate
// protection the flow offers.
func (s *Session) BeginSubmission(orderID, intentID string) error {
	if s.State != StateCollectingPayment {
		return ErrIllegalTransition
	}
	s.OrderID = orderID
	s.IntentID = intentID
	s.State = StateSubmitting
	s.touch()
	return nil
}

// Succeed terminates the session after a confirmed payment.
func (s *Session) Succeed() error {
	if s.State != StateSubmitting {
		return ErrIllegalTransition
	}
	s.State = StateSucceeded
	s.touch()
	return nil
}

// Fail records the processor message verbatim. The session drops back to
// payment collection afterwards via Reopen so the buyer may retry.
func (s *Session) Fail(message string) error {
	if s.State != StateSubmitting {
		return ErrIllegalTransition
	}
	s.FailureMessage = message
	s.State = StateFailed
	s.touch()
	return nil
}

// Reopen returns a failed session to payment collection for a retry.
func (s *Session) Reopen() error {
	if s.State != StateFailed {
		return ErrIllegalTransition
	}
	s.FailureMessage = ""
	s.OrderID = ""
	s.IntentID = ""
	s.State = StateCollectingPayment
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
