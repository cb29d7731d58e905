package port

import (
	"context"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

type DatabaseRepository interface {
	// ArchiveOrder stores a placed order and its lines in one transaction
	ArchiveOrder(ctx context.Context, order domain.ArchivedOrder) error

	// GetArchivedOrder retrieves an archived order by ID, nil if absent
	GetArchivedOrder(ctx context.Context, orderID string) (*domain.ArchivedOrder, error)
}
