package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Product is an admin-managed inventory record.
type Product struct {
	ID         int64
	ImageURL   string
	Name       string
	Quantity   int
	Price      decimal.Decimal
	ExpiryDate string // YYYY-MM-DD, not calendar checked
}

// ProductForm holds the raw text fields of the add/edit product form.
type ProductForm struct {
	ImageURL   string
	Name       string
	Quantity   string
	Price      string
	ExpiryDate string
}

// Form returns the product as prefilled form fields for editing.
func (p Product) Form() ProductForm {
	return ProductForm{
		ImageURL:   p.ImageURL,
		Name:       p.Name,
		Quantity:   strconv.Itoa(p.Quantity),
		Price:      p.Price.String(),
		ExpiryDate: p.ExpiryDate,
	}
}

// DisplayPrice renders the price with exactly two decimals.
func (p Product) DisplayPrice() string {
	return p.Price.StringFixed(2)
}

// CatalogItem is a storefront listing entry shown to customers. It is a
// separate schema from Product: the storefront is not derived from inventory.
type CatalogItem struct {
	ID    int64           `yaml:"id"`
	Name  string          `yaml:"name"`
	Price decimal.Decimal `yaml:"price"`
	Image string          `yaml:"image"`
}

func (c CatalogItem) DisplayPrice() string {
	return c.Price.StringFixed(2)
}
