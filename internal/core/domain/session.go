package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", ErrUnknownRole
	}
}

type Credential struct {
	Username string
	Password string
}

// Screen is the top-level screen a client should show.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenAdmin    Screen = "admin"
	ScreenCustomer Screen = "customer"
)

// HomeScreen is where a successful login with role r leads.
func HomeScreen(r Role) Screen {
	if r == RoleAdmin {
		return ScreenAdmin
	}
	return ScreenCustomer
}

// Page is a tab inside a home screen.
type Page string

const (
	PageProducts Page = "products"
	PageCart     Page = "cart"
	PageOrders   Page = "orders"
)

// Allows reports whether role r can navigate to page p.
func (p Page) Allows(r Role) bool {
	switch p {
	case PageProducts, PageOrders:
		return true
	case PageCart:
		return r == RoleCustomer
	default:
		return false
	}
}

type ConfirmationKind string

const (
	ConfirmDeleteProduct ConfirmationKind = "delete_product"
	ConfirmLogout        ConfirmationKind = "logout"
)

// Confirmation is a pending destructive action awaiting an explicit answer.
type Confirmation struct {
	ID        string
	Kind      ConfirmationKind
	ProductID int64
	Prompt    string
	CreatedAt time.Time
}
