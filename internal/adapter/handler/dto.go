package handler

import (
	"time"

	"github.com/rl1809/boba-shop/internal/core/domain"
	"github.com/rl1809/boba-shop/internal/core/service"
)

type LoginRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type NavigateRequest struct {
	Page string `json:"page"`
}

type ResolveRequest struct {
	ConfirmationID string `json:"confirmation_id"`
	Confirm        bool   `json:"confirm"`
}

type ProductFormJSON struct {
	ImageURL   string `json:"image_url"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Price      string `json:"price"`
	ExpiryDate string `json:"expiry_date"`
}

type DraftEditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type CartAddRequest struct {
	ItemID int64 `json:"item_id"`
}

type CartUpdateRequest struct {
	ItemID int64 `json:"item_id"`
	Delta  int   `json:"delta"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type SessionJSON struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Screen   string `json:"screen"`
	Page     string `json:"page"`
}

type ProductJSON struct {
	ID         int64  `json:"id"`
	ImageURL   string `json:"image_url"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
	ExpiryDate string `json:"expiry_date"`

	// Form holds the fields as the edit form shows them.
	Form ProductFormJSON `json:"form"`
}

type ProductListJSON struct {
	Products []ProductJSON `json:"products"`
	Empty    bool          `json:"empty"`
}

type ItemJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

type CartLineJSON struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type CartJSON struct {
	Lines     []CartLineJSON `json:"lines"`
	Total     string         `json:"total"`
	ItemCount int            `json:"item_count"`
}

type OrderJSON struct {
	ID        string         `json:"id"`
	Lines     []CartLineJSON `json:"lines"`
	Total     string         `json:"total"`
	ItemCount int            `json:"item_count"`
	PlacedAt  time.Time      `json:"placed_at"`
}

type PlaceOrderJSON struct {
	Placed bool       `json:"placed"`
	Order  *OrderJSON `json:"order,omitempty"`
}

type ConfirmationJSON struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Prompt    string `json:"prompt"`
	ProductID int64  `json:"product_id,omitempty"`
}

type ResolutionJSON struct {
	Kind    string `json:"kind"`
	Applied bool   `json:"applied"`
	Screen  string `json:"screen"`
}

type DraftJSON struct {
	Accepted bool            `json:"accepted"`
	Draft    ProductFormJSON `json:"draft"`
}

func (f ProductFormJSON) toDomain() domain.ProductForm {
	return domain.ProductForm{
		ImageURL:   f.ImageURL,
		Name:       f.Name,
		Quantity:   f.Quantity,
		Price:      f.Price,
		ExpiryDate: f.ExpiryDate,
	}
}

func toFormJSON(f domain.ProductForm) ProductFormJSON {
	return ProductFormJSON{
		ImageURL:   f.ImageURL,
		Name:       f.Name,
		Quantity:   f.Quantity,
		Price:      f.Price,
		ExpiryDate: f.ExpiryDate,
	}
}

func toSessionJSON(v service.SessionView) SessionJSON {
	return SessionJSON{
		Token:    v.Token,
		Username: v.Username,
		Role:     string(v.Role),
		Screen:   string(v.Screen),
		Page:     string(v.Page),
	}
}

func toProductJSON(p domain.Product) ProductJSON {
	return ProductJSON{
		ID:         p.ID,
		ImageURL:   p.ImageURL,
		Name:       p.Name,
		Quantity:   p.Quantity,
		Price:      p.DisplayPrice(),
		ExpiryDate: p.ExpiryDate,
		Form:       toFormJSON(p.Form()),
	}
}

func toProductListJSON(products []domain.Product) ProductListJSON {
	out := ProductListJSON{Products: make([]ProductJSON, 0, len(products)), Empty: len(products) == 0}
	for _, p := range products {
		out.Products = append(out.Products, toProductJSON(p))
	}
	return out
}

func toItemsJSON(items []domain.CatalogItem) []ItemJSON {
	out := make([]ItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, ItemJSON{ID: it.ID, Name: it.Name, Price: it.DisplayPrice(), Image: it.Image})
	}
	return out
}

func toLinesJSON(lines []domain.CartLine) []CartLineJSON {
	out := make([]CartLineJSON, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLineJSON{
			ItemID:   l.Item.ID,
			Name:     l.Item.Name,
			Price:    l.Item.DisplayPrice(),
			Image:    l.Item.Image,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal().StringFixed(2),
		})
	}
	return out
}

func toCartJSON(c service.CartView) CartJSON {
	return CartJSON{
		Lines:     toLinesJSON(c.Lines),
		Total:     c.Total.StringFixed(2),
		ItemCount: c.ItemCount,
	}
}

func toOrderJSON(o domain.Order) OrderJSON {
	return OrderJSON{
		ID:        o.ID,
		Lines:     toLinesJSON(o.Lines),
		Total:     o.Total().StringFixed(2),
		ItemCount: o.ItemCount(),
		PlacedAt:  o.PlacedAt,
	}
}

func toOrdersJSON(orders []domain.Order) []OrderJSON {
	out := make([]OrderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	return out
}

func toConfirmationJSON(c domain.Confirmation) ConfirmationJSON {
	return ConfirmationJSON{ID: c.ID, Kind: string(c.Kind), Prompt: c.Prompt, ProductID: c.ProductID}
}

func toResolutionJSON(r service.Resolution) ResolutionJSON {
	return ResolutionJSON{Kind: string(r.Kind), Applied: r.Applied, Screen: string(r.Screen)}
}
