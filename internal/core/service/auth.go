package service

import (
	"strings"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

// DefaultCredentials is the built-in credential table, one account per role.
func DefaultCredentials() map[domain.Role]domain.Credential {
	return map[domain.Role]domain.Credential{
		domain.RoleAdmin:    {Username: "admin", Password: "admin"},
		domain.RoleCustomer: {Username: "customer", Password: "1234"},
	}
}

// AuthGate compares entered credentials against a fixed table. Plain text,
// exact match, no lockout.
type AuthGate struct {
	credentials map[domain.Role]domain.Credential
}

func NewAuthGate(credentials map[domain.Role]domain.Credential) *AuthGate {
	return &AuthGate{credentials: credentials}
}

func (a *AuthGate) Login(role, username, password string) (domain.Role, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return "", err
	}
	want, ok := a.credentials[r]
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(username) != want.Username || strings.TrimSpace(password) != want.Password {
		return "", domain.ErrInvalidCredentials
	}
	return r, nil
}

// Signup accepts any account and sends the user back to login. Nothing is
// stored.
func (a *AuthGate) Signup(username, password string) domain.Screen {
	return domain.ScreenLogin
}
