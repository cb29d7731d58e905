package storage

import (
	"context"
	"sync"

	"github.com/rl1809/boba-shop/internal/core/domain"
	"github.com/rl1809/boba-shop/internal/logx"
)

// MemoryArchive keeps archived orders in process memory and logs each one.
// It stands in for MySQL when no DSN is configured.
type MemoryArchive struct {
	mu     sync.RWMutex
	orders map[string]domain.ArchivedOrder
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{orders: make(map[string]domain.ArchivedOrder)}
}

func (a *MemoryArchive) ArchiveOrder(ctx context.Context, archived domain.ArchivedOrder) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.orders[archived.Order.ID]; ok {
		return ErrAlreadyArchived
	}
	archived.Order = archived.Order.Clone()
	a.orders[archived.Order.ID] = archived

	logx.Info().
		Str("order_id", archived.Order.ID).
		Str("username", archived.Username).
		Int("items", archived.Order.ItemCount()).
		Str("total", archived.Order.Total().StringFixed(2)).
		Msg("order archived in memory")
	return nil
}

func (a *MemoryArchive) GetArchivedOrder(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	archived, ok := a.orders[orderID]
	if !ok {
		return nil, nil
	}
	archived.Order = archived.Order.Clone()
	return &archived, nil
}
