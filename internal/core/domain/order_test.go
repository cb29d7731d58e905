package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestArchivedOrder_ExposesOrder(t *testing.T) {
	item := CatalogItem{ID: 1, Name: "Classic Brown Sugar Milk Tea", Price: decimal.NewFromInt(120)}
	archived := ArchivedOrder{
		Order:    Order{ID: "ord-1", Lines: []CartLine{{Item: item, Quantity: 2}}},
		Username: "customer",
	}

	assert.Equal(t, "ord-1", archived.ID)
	assert.Equal(t, "240.00", archived.Total().StringFixed(2))
	assert.Equal(t, 2, archived.ItemCount())
	assert.Equal(t, archived.Order.ID, archived.ID)
}

func TestOrder_CloneDoesNotAlias(t *testing.T) {
	item := CatalogItem{ID: 2, Name: "Brown Sugar Boba Latte", Price: decimal.NewFromInt(150)}
	o := Order{ID: "ord-2", Lines: []CartLine{{Item: item, Quantity: 1}}}

	c := o.Clone()
	c.Lines[0].Quantity = 5

	assert.Equal(t, 1, o.Lines[0].Quantity)
}
