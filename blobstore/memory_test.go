package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	w, err := store.Create(ctx, "a/1")
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())

	_, err = store.Open(ctx, "a/1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())

	src := []byte("xyz")
	require.NoError(t, store.Put(ctx, "a/2", src))
	src[0] = 'Q'

	data, err := ReadAll(ctx, store, "a/2")
	require.NoError(t, err)
	assert.Equal(t, "xyz", string(data))

	blob, err := store.Open(ctx, "a/1")
	require.NoError(t, err)
	r, err := blob.ReadRange(ctx, 1, 100)
	require.NoError(t, err)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "bc", string(rest))
	require.NoError(t, blob.Close())

	require.True(t, store.Corrupt("a/1", 0))
	data, err = ReadAll(ctx, store, "a/1")
	require.NoError(t, err)
	assert.NotEqual(t, "abc", string(data))
	assert.False(t, store.Corrupt("missing", 0))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, names)

	require.NoError(t, store.Delete(ctx, "a/1"))
	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/2"}, names)
}
