package service

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

//go:embed storefront.yaml
var defaultStorefront []byte

type storefrontFile struct {
	Items []domain.CatalogItem `yaml:"items"`
}

// Storefront is the read-only listing customers browse.
type Storefront struct {
	items []domain.CatalogItem
}

func DefaultStorefront() *Storefront {
	s, err := ParseStorefront(defaultStorefront)
	if err != nil {
		panic(fmt.Sprintf("embedded storefront: %v", err))
	}
	return s
}

// LoadStorefront reads a listing file, falling back to the embedded one when
// path is empty.
func LoadStorefront(path string) (*Storefront, error) {
	if path == "" {
		return DefaultStorefront(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read storefront: %w", err)
	}
	return ParseStorefront(data)
}

func ParseStorefront(data []byte) (*Storefront, error) {
	var f storefrontFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse storefront: %w", err)
	}
	seen := make(map[int64]bool, len(f.Items))
	for _, it := range f.Items {
		if seen[it.ID] {
			return nil, fmt.Errorf("parse storefront: duplicate item id %d", it.ID)
		}
		if it.Name == "" || !it.Price.IsPositive() {
			return nil, fmt.Errorf("parse storefront: item %d needs a name and a positive price", it.ID)
		}
		seen[it.ID] = true
	}
	return &Storefront{items: f.Items}, nil
}

func (s *Storefront) Items() []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Storefront) Item(id int64) (domain.CatalogItem, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.CatalogItem{}, domain.ErrItemNotFound
}
