package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

// OrderHistory is the append-only list of orders placed in one session.
type OrderHistory struct {
	orders []domain.Order
	now    func() time.Time
}

func NewOrderHistory() *OrderHistory {
	return &OrderHistory{now: time.Now}
}

// PlaceOrder snapshots the cart into a new order and empties the cart.
// An empty cart places nothing and returns false.
func (h *OrderHistory) PlaceOrder(cart *Cart) (domain.Order, bool) {
	if cart.Empty() {
		return domain.Order{}, false
	}
	order := domain.Order{
		ID:       uuid.NewString(),
		Lines:    cart.Lines(),
		PlacedAt: h.now(),
	}
	h.orders = append(h.orders, order)
	cart.Clear()
	return order.Clone(), true
}

func (h *OrderHistory) Orders() []domain.Order {
	out := make([]domain.Order, len(h.orders))
	for i, o := range h.orders {
		out[i] = o.Clone()
	}
	return out
}

func (h *OrderHistory) Len() int {
	return len(h.orders)
}
