package service

import (
	"sync"
	"time"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

// IDSource hands out product identifiers.
type IDSource interface {
	NextID() int64
}

// ClockIDs issues creation-time identifiers in milliseconds, bumped forward
// when two products are created within the same millisecond.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

func (c *ClockIDs) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Catalog is the ordered product list managed from the admin screen.
// It is not safe for concurrent use; the owning session serializes access.
type Catalog struct {
	products []domain.Product
	ids      IDSource
}

func NewCatalog(ids IDSource) *Catalog {
	return &Catalog{ids: ids}
}

func (c *Catalog) AddProduct(form domain.ProductForm) (domain.Product, error) {
	p, err := form.Parse()
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = c.ids.NextID()
	c.products = append(c.products, p)
	return p, nil
}

// UpdateProduct replaces the product in place, keeping its ID and position.
func (c *Catalog) UpdateProduct(id int64, form domain.ProductForm) (domain.Product, error) {
	i := c.index(id)
	if i < 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	p, err := form.Parse()
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	c.products[i] = p
	return p, nil
}

// DeleteProduct removes the product immediately. Callers go through a
// confirmation first.
func (c *Catalog) DeleteProduct(id int64) error {
	i := c.index(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	return nil
}

func (c *Catalog) Product(id int64) (domain.Product, error) {
	i := c.index(id)
	if i < 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return c.products[i], nil
}

// ListProducts returns a copy in insertion order.
func (c *Catalog) ListProducts() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Empty() bool {
	return len(c.products) == 0
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) index(id int64) int {
	for i, p := range c.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
