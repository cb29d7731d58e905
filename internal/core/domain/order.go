package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one storefront item in the cart with its quantity (>= 1).
type CartLine struct {
	Item     CatalogItem
	Quantity int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is an immutable snapshot of the cart taken when it was placed.
type Order struct {
	ID       string
	Lines    []CartLine
	PlacedAt time.Time
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Clone returns a copy whose line slice does not alias o.
func (o Order) Clone() Order {
	lines := make([]CartLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

// ArchivedOrder is a placed order together with the account that placed it.
type ArchivedOrder struct {
	Order
	Username string
}
