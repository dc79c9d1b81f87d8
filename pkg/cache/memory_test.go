package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDel(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", val)

	require.NoError(t, store.Del(ctx, "k"))
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", "v", 10*time.Millisecond))
	require.NoError(t, store.Set(ctx, "forever", "v", 0))

	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "short")
	require.ErrorIs(t, err, ErrCacheMiss)

	// zero ttl means no expiry
	val, err := store.Get(ctx, "forever")
	require.NoError(t, err)
	require.Equal(t, "v", val)
}

func TestMemoryStore_SetNX(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "marker", "1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.SetNX(ctx, "marker", "2", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	val, err := store.Get(ctx, "marker")
	require.NoError(t, err)
	require.Equal(t, "1", val)
}

func TestMemoryStore_SetNXAfterExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "marker", "1", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	ok, err = store.SetNX(ctx, "marker", "2", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStore_DelPattern(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "wallet:txs:42:p1:l20", "a", time.Minute))
	require.NoError(t, store.Set(ctx, "wallet:txs:42:p2:l20", "b", time.Minute))
	require.NoError(t, store.Set(ctx, "wallet:txs:99:p1:l20", "c", time.Minute))
	require.NoError(t, store.Set(ctx, "wallet:balance:42", "70", time.Minute))

	require.NoError(t, store.DelPattern(ctx, "wallet:txs:42:*"))

	_, err := store.Get(ctx, "wallet:txs:42:p1:l20")
	require.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "wallet:txs:42:p2:l20")
	require.ErrorIs(t, err, ErrCacheMiss)

	_, err = store.Get(ctx, "wallet:txs:99:p1:l20")
	require.NoError(t, err)
	_, err = store.Get(ctx, "wallet:balance:42")
	require.NoError(t, err)
}

func TestMemoryStore_PublishInvalidationLoopsBack(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "wallet:txs:42:p1:l20", "a", time.Minute))
	require.NoError(t, store.PublishInvalidation(ctx, "wallet:txs:42:*"))

	_, err := store.Get(ctx, "wallet:txs:42:p1:l20")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestOpen(t *testing.T) {
	store, err := Open(BackendMemory, "", "")
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open("bolt", "", "")
	require.Error(t, err)
}
