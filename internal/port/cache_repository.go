package port

import (
	"context"
	"time"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

type CacheRepository interface {
	// PutSession registers a login token for role, expiring after ttl
	PutSession(ctx context.Context, token string, role domain.Role, ttl time.Duration) error

	// SessionRole looks up a live token, returns false if unknown or expired
	SessionRole(ctx context.Context, token string) (domain.Role, bool, error)

	// DeleteSession forgets a token (logout)
	DeleteSession(ctx context.Context, token string) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
