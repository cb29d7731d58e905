package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

type memoryEntry struct {
	role      domain.Role
	expiresAt time.Time
}

// memoryPruneInterval bounds how often a write scans both maps for expired
// entries.
const memoryPruneInterval = time.Minute

// MemoryAdapter is an in-process CacheRepository used when no Redis URL is
// configured. Entries expire lazily on read and are pruned on write.
type MemoryAdapter struct {
	mu          sync.Mutex
	sessions    map[string]memoryEntry
	idempotency map[string]time.Time
	now         func() time.Time
	lastPrune   time.Time
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		sessions:    make(map[string]memoryEntry),
		idempotency: make(map[string]time.Time),
		now:         time.Now,
	}
}

func (m *MemoryAdapter) PutSession(ctx context.Context, token string, role domain.Role, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.pruneLocked(now)
	m.sessions[token] = memoryEntry{role: role, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryAdapter) SessionRole(ctx context.Context, token string) (domain.Role, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[token]
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.sessions, token)
		return "", false, nil
	}
	return e.role, true, nil
}

func (m *MemoryAdapter) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if exp, ok := m.idempotency[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.pruneLocked(now)
	m.idempotency[key] = now.Add(idempotencyKeyTTL)
	return true, nil
}

// pruneLocked drops expired sessions and idempotency keys, at most once per
// memoryPruneInterval. Caller holds m.mu.
func (m *MemoryAdapter) pruneLocked(now time.Time) {
	if now.Sub(m.lastPrune) < memoryPruneInterval {
		return
	}
	m.lastPrune = now
	for token, e := range m.sessions {
		if !now.Before(e.expiresAt) {
			delete(m.sessions, token)
		}
	}
	for key, exp := range m.idempotency {
		if !now.Before(exp) {
			delete(m.idempotency, key)
		}
	}
}
