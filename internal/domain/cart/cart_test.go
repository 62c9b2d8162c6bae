package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shampoo(qty int) Item {
	return Item{ProductID: "p1", Name: "Shampoo", Price: 15, Currency: "EUR", Quantity: qty}
}

func conditioner(qty int) Item {
	return Item{ProductID: "p2", Name: "Conditioner", Price: 18, Currency: "EUR", Quantity: qty}
}

func TestAdd_NewLine(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(2), 25))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 2, c.ItemCount())
}

func TestAdd_SameProductMergesLine(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(2), 25))
	require.NoError(t, c.Add(shampoo(3), 25))

	require.Len(t, c.Items, 1, "same product must not create a duplicate line")
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAdd_RejectsQuantityBeyondStock(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(2), 3))

	err := c.Add(shampoo(2), 3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, c.Items[0].Quantity, "failed add must not change the line")
}

func TestAdd_ZeroStockProduct(t *testing.T) {
	c := New("c1")
	err := c.Add(shampoo(1), 0)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, c.Items)
}

func TestAdd_QuantityBelowOne(t *testing.T) {
	c := New("c1")
	require.ErrorIs(t, c.Add(shampoo(0), 25), ErrQuantityTooLow)
	require.ErrorIs(t, c.Add(shampoo(-1), 25), ErrQuantityTooLow)
}

func TestSetQuantity_ClampsToStock(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(1), 25))

	require.NoError(t, c.SetQuantity("p1", 40, 25))
	assert.Equal(t, 25, c.Items[0].Quantity)
}

func TestSetQuantity_BelowOneLeavesLineUntouched(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(3), 25))

	err := c.SetQuantity("p1", 0, 25)
	require.ErrorIs(t, err, ErrQuantityTooLow)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestSetQuantity_UnknownLine(t *testing.T) {
	c := New("c1")
	require.ErrorIs(t, c.SetQuantity("missing", 1, 10), ErrLineNotFound)
}

func TestRemove(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(1), 25))
	require.NoError(t, c.Add(conditioner(2), 20))

	require.NoError(t, c.Remove("p1"))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ProductID)

	require.ErrorIs(t, c.Remove("p1"), ErrLineNotFound)
}

func TestTotals(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(2), 25))     // 30.00
	require.NoError(t, c.Add(conditioner(1), 20)) // 18.00

	assert.Equal(t, 3, c.ItemCount())
	assert.InDelta(t, 48.0, c.TotalPrice(), 1e-9)
	assert.Equal(t, "EUR", c.Currency())
}

func TestClear(t *testing.T) {
	c := New("c1")
	require.NoError(t, c.Add(shampoo(2), 25))

	c.Clear()
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.ItemCount())
	assert.Zero(t, c.TotalPrice())
}
