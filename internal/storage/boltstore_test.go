package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimoney/vimoney/internal/common"
)

func newTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "models.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestBoltStore_RoundTrip(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "classifier:vocabulary", []byte(`{"terms":{}}`)))

	got, err := store.Get(ctx, "classifier:vocabulary")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"terms":{}}`), got)
}

func TestBoltStore_GetMissing(t *testing.T) {
	store := newTestBoltStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBoltStore_Overwrite(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))
	require.NoError(t, store.Set(ctx, "k", []byte("v2")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestBoltStore_Delete(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestBoltStore_Keys(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Set(ctx, "lifestyle:weights", []byte("a")))
	require.NoError(t, store.Set(ctx, "budget:weights", []byte("b")))

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"budget:weights", "lifestyle:weights"}, keys)
}

func TestBoltStore_ReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	ctx := context.Background()

	store, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "budget:weights", []byte("blob")))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, reopened.Close())
	}()

	got, err := reopened.Get(ctx, "budget:weights")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got)
}
