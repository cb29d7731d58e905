package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHistory_EmptyCartIsNoop(t *testing.T) {
	h := NewOrderHistory()
	c := NewCart()

	_, placed := h.PlaceOrder(c)
	assert.False(t, placed)
	assert.Equal(t, 0, h.Len())
	assert.True(t, c.Empty())
}

func TestOrderHistory_PlaceOrderSnapshotsCart(t *testing.T) {
	h := NewOrderHistory()
	c := NewCart()
	c.AddToCart(milkTea)
	c.AddToCart(milkTea)
	c.AddToCart(latte)
	before := c.Lines()

	order, placed := h.PlaceOrder(c)
	require.True(t, placed)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, before, order.Lines)
	assert.True(t, c.Empty())
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "390.50", order.Total().StringFixed(2))
	assert.Equal(t, 3, order.ItemCount())
}

func TestOrderHistory_OrdersAreNotMerged(t *testing.T) {
	h := NewOrderHistory()
	c := NewCart()

	c.AddToCart(milkTea)
	first, _ := h.PlaceOrder(c)
	c.AddToCart(milkTea)
	second, _ := h.PlaceOrder(c)

	orders := h.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
	assert.Equal(t, 1, orders[0].Lines[0].Quantity)
	assert.Equal(t, 1, orders[1].Lines[0].Quantity)
}

func TestOrderHistory_SnapshotIsImmutable(t *testing.T) {
	h := NewOrderHistory()
	c := NewCart()
	c.AddToCart(milkTea)

	order, _ := h.PlaceOrder(c)
	order.Lines[0].Quantity = 99

	listed := h.Orders()
	listed[0].Lines[0].Quantity = 42

	assert.Equal(t, 1, h.Orders()[0].Lines[0].Quantity)
}
