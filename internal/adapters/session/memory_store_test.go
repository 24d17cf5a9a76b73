package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akimov/cookiescrub/internal/ports"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(zap.NewNop(), time.Minute, time.Hour)
	t.Cleanup(store.Stop)
	return store
}

func TestMemoryStore_GetMissingSession(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := &ports.Session{
		ChatID:          42,
		State:           ports.StateAwaitingFile,
		StatusMessageID: 7,
	}
	require.NoError(t, store.Set(ctx, sess))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, ports.StateAwaitingFile, got.State)
	assert.False(t, got.LastSeen.IsZero())
	assert.True(t, got.ExpiresAt.After(got.LastSeen))
}

func TestMemoryStore_GetExpiredSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := &ports.Session{ChatID: 42}
	require.NoError(t, store.Set(ctx, sess))
	sess.ExpiresAt = time.Now().Add(-time.Second)

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetRefreshesExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := &ports.Session{ChatID: 42}
	require.NoError(t, store.Set(ctx, sess))
	sess.ExpiresAt = time.Now().Add(-time.Second)

	require.NoError(t, store.Set(ctx, sess))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.After(time.Now()))
}

func TestMemoryStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &ports.Session{ChatID: 42}))
	require.NoError(t, store.Delete(ctx, 42))

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown chat is not an error.
	assert.NoError(t, store.Delete(ctx, 99))
}

func TestMemoryStore_CleanupRemovesExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stale := &ports.Session{ChatID: 1}
	live := &ports.Session{ChatID: 2}
	require.NoError(t, store.Set(ctx, stale))
	require.NoError(t, store.Set(ctx, live))
	stale.ExpiresAt = time.Now().Add(-time.Second)

	require.NoError(t, store.Cleanup(ctx))

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, 2)
	assert.NoError(t, err)
}
