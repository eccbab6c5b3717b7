package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	_, err := st.Read(ctx, KeyCart)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Write(ctx, KeyCart, []byte("[]")))
	data, err := st.Read(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, st.Delete(ctx, KeyCart))
	_, err = st.Read(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CopiesBlobs(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	blob := []byte("abc")
	require.NoError(t, st.Write(ctx, "k", blob))
	blob[0] = 'x'

	data, err := st.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data[0] = 'y'
	again, err := st.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
