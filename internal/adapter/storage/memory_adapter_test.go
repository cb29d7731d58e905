package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/boba-shop/internal/core/domain"
)

func TestMemoryAdapter_SessionLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAdapter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.PutSession(ctx, "tok", domain.RoleAdmin, time.Minute))

	role, ok, err := m.SessionRole(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, role)

	now = now.Add(time.Minute)
	_, ok, _ = m.SessionRole(ctx, "tok")
	assert.False(t, ok, "session expires at its ttl")

	m.PutSession(ctx, "tok2", domain.RoleCustomer, time.Hour)
	require.NoError(t, m.DeleteSession(ctx, "tok2"))
	_, ok, _ = m.SessionRole(ctx, "tok2")
	assert.False(t, ok)
}

func TestMemoryAdapter_Idempotency(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAdapter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := m.SetIdempotency(ctx, "k")
	assert.True(t, ok)
	ok, _ = m.SetIdempotency(ctx, "k")
	assert.False(t, ok)

	now = now.Add(idempotencyKeyTTL)
	ok, _ = m.SetIdempotency(ctx, "k")
	assert.True(t, ok, "key is reusable after its ttl")
}

func TestMemoryAdapter_PrunesExpiredOnWrite(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryAdapter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		ok, err := m.SetIdempotency(ctx, k)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, m.PutSession(ctx, "old", domain.RoleCustomer, time.Minute))

	now = now.Add(idempotencyKeyTTL)
	ok, err := m.SetIdempotency(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, ok)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Len(t, m.idempotency, 1)
	assert.Contains(t, m.idempotency, "fresh")
	assert.Empty(t, m.sessions)
}
