package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs", "preferences.db")

	store, err := New(path)
	require.NoError(t, err)

	_, err = store.Get(ctx, "operations.filter")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, store.Set(ctx, "operations.filter", []byte(`{"searchText":"rent"}`)))
	require.NoError(t, store.Set(ctx, "accounts.lastAccessed", []byte("acc-1")))
	require.NoError(t, store.Set(ctx, "accounts.lastAccessed", []byte("acc-2")))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "operations.filter")
	require.NoError(t, err)
	assert.JSONEq(t, `{"searchText":"rent"}`, string(value))

	value, err = reopened.Get(ctx, "accounts.lastAccessed")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", string(value))
}
