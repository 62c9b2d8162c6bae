package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		Name:       "Maria Silva",
		Address:    "Rua das Flores 10",
		PostalCode: "1000-100",
		Phone:      "912345678",
		Email:      "maria@example.com",
	}
}

func TestSession_HappyPath(t *testing.T) {
	s := NewSession("cart-1")
	assert.Equal(t, StateCollectingShipping, s.State)

	require.NoError(t, s.SubmitShipping(validShipping()))
	assert.Equal(t, StateCollectingPayment, s.State)

	require.NoError(t, s.BeginSubmission("SB-ABCD1234", "pi_123"))
	assert.Equal(t, StateSubmitting, s.State)
	assert.Equal(t, "SB-ABCD1234", s.OrderID)
	assert.Equal(t, "pi_123", s.IntentID)

	require.NoError(t, s.Succeed())
	assert.Equal(t, StateSucceeded, s.State)
	assert.True(t, s.State.Terminal())
}

func TestSession_ShippingMayBeResubmittedBeforePayment(t *testing.T) {
	s := NewSession("cart-1")
	require.NoError(t, s.SubmitShipping(validShipping()))

	updated := validShipping()
	updated.Address = "Avenida da Liberdade 99"
	require.NoError(t, s.SubmitShipping(updated))
	assert.Equal(t, "Avenida da Liberdade 99", s.Shipping.Address)
	assert.Equal(t, StateCollectingPayment, s.State)
}

func TestSession_RejectsShippingAfterSubmission(t *testing.T) {
	s := NewSession("cart-1")
	require.NoError(t, s.SubmitShipping(validShipping()))
	require.NoError(t, s.BeginSubmission("SB-1", "pi_1"))

	require.ErrorIs(t, s.SubmitShipping(validShipping()), ErrIllegalTransition)
}

func TestSession_RejectsIncompleteShipping(t *testing.T) {
	s := NewSession("cart-1")
	info := validShipping()
	info.Email = "not-an-email"
	require.ErrorIs(t, s.SubmitShipping(info), ErrShippingIncomplete)
	assert.Equal(t, StateCollectingShipping, s.State)
}

func TestSession_BeginSubmissionRequiresPaymentStep(t *testing.T) {
	s := NewSession("cart-1")
	require.ErrorIs(t, s.BeginSubmission("SB-1", "pi_1"), ErrIllegalTransition)
}

func TestSession_DoubleSubmissionRejected(t *testing.T) {
	s := NewSession("cart-1")
	require.NoError(t, s.SubmitShipping(validShipping()))
	require.NoError(t, s.BeginSubmission("SB-1", "pi_1"))

	require.ErrorIs(t, s.BeginSubmission("SB-2", "pi_2"), ErrIllegalTransition)
}

func TestSession_FailAndReopen(t *testing.T) {
	s := NewSession("cart-1")
	require.NoError(t, s.SubmitShipping(validShipping()))
	require.NoError(t, s.BeginSubmission("SB-1", "pi_1"))
	require.NoError(t, s.Fail("Your card was declined."))

	assert.Equal(t, StateFailed, s.State)
	assert.Equal(t, "Your card was declined.", s.FailureMessage)
	assert.True(t, s.State.Terminal())

	require.NoError(t, s.Reopen())
	assert.Equal(t, StateCollectingPayment, s.State)
	assert.Empty(t, s.FailureMessage)
	assert.Empty(t, s.OrderID)
	assert.Empty(t, s.IntentID)
	assert.Equal(t, "Maria Silva", s.Shipping.Name, "shipping survives a retry")
}

func TestSession_SucceedOnlyWhileSubmitting(t *testing.T) {
	s := NewSession("cart-1")
	require.ErrorIs(t, s.Succeed(), ErrIllegalTransition)
	require.ErrorIs(t, s.Fail("nope"), ErrIllegalTransition)
	require.ErrorIs(t, s.Reopen(), ErrIllegalTransition)
}
