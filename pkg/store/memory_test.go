package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstore/pkg/store"
)

func TestMemoryConnection_RoundTrip(t *testing.T) {
	t.Parallel()

	conn := store.NewMemoryConnection()
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, conn.Set(ctx, "sess1", []byte("payload"), time.Minute))

		data, err := conn.Get(ctx, "sess1")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		require.NoError(t, conn.Set(ctx, "iso", []byte("abc"), time.Minute))

		data, err := conn.Get(ctx, "iso")
		require.NoError(t, err)
		data[0] = 'X'

		again, err := conn.Get(ctx, "iso")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := conn.Get(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		require.NoError(t, conn.Set(ctx, "here", []byte("x"), time.Minute))

		ok, err := conn.Exists(ctx, "here")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = conn.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, conn.Set(ctx, "victim", []byte("x"), time.Minute))
		require.NoError(t, conn.Delete(ctx, "victim"))

		_, err := conn.Get(ctx, "victim")
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.NoError(t, conn.Delete(ctx, "victim"))
	})
}

func TestMemoryConnection_Expiry(t *testing.T) {
	t.Parallel()

	conn := store.NewMemoryConnection()
	ctx := context.Background()

	t.Run("expired entries behave as absent", func(t *testing.T) {
		require.NoError(t, conn.Set(ctx, "short", []byte("x"), 50*time.Millisecond))

		ok, err := conn.Exists(ctx, "short")
		require.NoError(t, err)
		assert.True(t, ok)

		time.Sleep(100 * time.Millisecond)

		_, err = conn.Get(ctx, "short")
		assert.ErrorIs(t, err, store.ErrNotFound)

		ok, err = conn.Exists(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.ErrorIs(t, conn.RefreshTTL(ctx, "short", time.Minute), store.ErrNotFound)
	})

	t.Run("refresh extends lifetime", func(t *testing.T) {
		require.NoError(t, conn.Set(ctx, "extended", []byte("x"), 50*time.Millisecond))
		require.NoError(t, conn.RefreshTTL(ctx, "extended", time.Minute))

		time.Sleep(100 * time.Millisecond)

		data, err := conn.Get(ctx, "extended")
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), data)
	})

	t.Run("refresh of missing key", func(t *testing.T) {
		assert.ErrorIs(t, conn.RefreshTTL(ctx, "never", time.Minute), store.ErrNotFound)
	})
}

func TestMemoryConnection_ScanKeys(t *testing.T) {
	t.Parallel()

	conn := store.NewMemoryConnection()
	ctx := context.Background()

	require.NoError(t, conn.Set(ctx, "user:2", []byte("b"), time.Minute))
	require.NoError(t, conn.Set(ctx, "user:1", []byte("a"), time.Minute))
	require.NoError(t, conn.Set(ctx, "admin:1", []byte("c"), time.Minute))
	require.NoError(t, conn.Set(ctx, "stale", []byte("d"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	t.Run("glob filters and output is sorted", func(t *testing.T) {
		keys, err := conn.ScanKeys(ctx, "user:*")
		require.NoError(t, err)
		assert.Equal(t, []string{"user:1", "user:2"}, keys)
	})

	t.Run("empty pattern matches everything live", func(t *testing.T) {
		keys, err := conn.ScanKeys(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin:1", "user:1", "user:2"}, keys)
	})

	t.Run("invalid glob", func(t *testing.T) {
		_, err := conn.ScanKeys(ctx, "[")
		assert.ErrorIs(t, err, store.ErrInvalidPattern)
	})
}

func TestMemoryConnection_EmptyKey(t *testing.T) {
	t.Parallel()

	conn := store.NewMemoryConnection()
	ctx := context.Background()

	_, err := conn.Get(ctx, "")
	assert.ErrorIs(t, err, store.ErrEmptyKey)
	assert.ErrorIs(t, conn.Set(ctx, "", nil, time.Minute), store.ErrEmptyKey)
	assert.ErrorIs(t, conn.Delete(ctx, ""), store.ErrEmptyKey)
	_, err = conn.Exists(ctx, "")
	assert.ErrorIs(t, err, store.ErrEmptyKey)
	assert.ErrorIs(t, conn.RefreshTTL(ctx, "", time.Minute), store.ErrEmptyKey)
}

func TestMemoryConnection_Lifecycle(t *testing.T) {
	t.Parallel()

	conn := store.NewMemoryConnection()
	ctx := context.Background()

	assert.True(t, conn.Connected())
	assert.NoError(t, conn.Connect(ctx))
	assert.NoError(t, conn.Connect(ctx))
	assert.NoError(t, conn.Close())
}
