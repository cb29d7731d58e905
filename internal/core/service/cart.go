package service

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

// Cart holds at most one line per storefront item, in the order items were
// first added.
type Cart struct {
	lines []domain.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) AddToCart(item domain.CatalogItem) domain.CartLine {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return c.lines[i]
	}
	line := domain.CartLine{Item: item, Quantity: 1}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity adds delta to the line's quantity. A line that would reach
// zero or below is removed; removed reports whether that happened.
func (c *Cart) UpdateQuantity(itemID int64, delta int) (line domain.CartLine, removed bool, err error) {
	i := c.index(itemID)
	if i < 0 {
		return domain.CartLine{}, false, domain.ErrCartLineNotFound
	}
	next := c.lines[i].Quantity + delta
	if next <= 0 {
		line = c.lines[i]
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return line, true, nil
	}
	c.lines[i].Quantity = next
	return c.lines[i], false, nil
}

func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) index(itemID int64) int {
	for i, l := range c.lines {
		if l.Item.ID == itemID {
			return i
		}
	}
	return -1
}
