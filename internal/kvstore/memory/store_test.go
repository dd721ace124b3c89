package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpark/parking-portal/internal/kvstore"
)

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, store.Set(ctx, "token", "abc"))
	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, store.Set(ctx, "token", "def"))
	got, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def", got)

	require.NoError(t, store.Delete(ctx, "token"))
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	store := New()
	assert.NoError(t, store.Delete(context.Background(), "never-set"))
}
