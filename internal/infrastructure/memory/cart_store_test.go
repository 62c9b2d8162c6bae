package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelia-salon/storefront/internal/domain/cart"
	"github.com/amelia-salon/storefront/internal/domain/checkout"
)

func TestCartStore_GetOrCreate(t *testing.T) {
	s := NewCartStore(time.Hour)
	defer s.Close()

	assert.Nil(t, s.Get("c1"))

	c := s.GetOrCreate("c1")
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.ID)
	assert.Same(t, c, s.GetOrCreate("c1"))
	assert.Same(t, c, s.Get("c1"))
}

func TestCartStore_Mutate(t *testing.T) {
	s := NewCartStore(time.Hour)
	defer s.Close()

	err := s.Mutate("c1", func(c *cart.Cart) error {
		return c.Add(cart.Item{ProductID: "p1", Price: 15, Currency: "EUR", Quantity: 2}, 25)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Get("c1").ItemCount())
}

func TestCartStore_ExpiresIdleCarts(t *testing.T) {
	s := NewCartStore(10 * time.Millisecond)
	defer s.Close()

	s.GetOrCreate("c1")
	time.Sleep(20 * time.Millisecond)
	s.expire()

	assert.Nil(t, s.Get("c1"))
}

func TestCheckoutStore_GetOrCreateSkipsTerminalSessions(t *testing.T) {
	s := NewCheckoutStore(time.Hour)
	defer s.Close()

	sess := s.GetOrCreate("c1")
	require.NoError(t, sess.SubmitShipping(checkout.ShippingInfo{
		Name:       "Maria Silva",
		Address:    "Rua das Flores 10",
		PostalCode: "1000-100",
		Phone:      "912345678",
		Email:      "maria@example.com",
	}))
	require.NoError(t, sess.BeginSubmission("SB-1", "pi_1"))
	require.NoError(t, sess.Succeed())

	fresh := s.GetOrCreate("c1")
	assert.NotSame(t, sess, fresh, "a terminated session must not be reused")
	assert.Equal(t, checkout.StateCollectingShipping, fresh.State)
}

func TestCheckoutStore_GetAndDrop(t *testing.T) {
	s := NewCheckoutStore(time.Hour)
	defer s.Close()

	_, err := s.Get("c1")
	require.ErrorIs(t, err, checkout.ErrSessionNotFound)

	s.GetOrCreate("c1")
	_, err = s.Get("c1")
	require.NoError(t, err)

	s.Drop("c1")
	_, err = s.Get("c1")
	require.ErrorIs(t, err, checkout.ErrSessionNotFound)
}
