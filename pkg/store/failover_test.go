package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstore/pkg/store"
)

func TestFailover_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("primary serves silently", func(t *testing.T) {
		logger, buf := newTestLogger()
		primary := &stubConn{getFn: func(context.Context, string) ([]byte, error) {
			return []byte("from-primary"), nil
		}}
		backup := &stubConn{}
		fo := store.NewFailover([]store.Connection{primary, backup}, store.WithLogger(logger))

		data, err := fo.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("from-primary"), data)
		assert.Empty(t, backup.calls)
		assert.Empty(t, buf.String())
	})

	t.Run("unavailable primary falls back with warning", func(t *testing.T) {
		logger, buf := newTestLogger()
		primary := &stubConn{getFn: func(context.Context, string) ([]byte, error) {
			return nil, store.ErrUnavailable
		}}
		backup := &stubConn{getFn: func(context.Context, string) ([]byte, error) {
			return []byte("from-backup"), nil
		}}
		fo := store.NewFailover([]store.Connection{primary, backup}, store.WithLogger(logger))

		data, err := fo.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("from-backup"), data)
		assert.Contains(t, buf.String(), "failover member served request")
		assert.Contains(t, buf.String(), "member=1")
	})

	t.Run("absence advances like failure", func(t *testing.T) {
		logger, _ := newTestLogger()
		primary := &stubConn{} // defaults to ErrNotFound
		backup := &stubConn{getFn: func(context.Context, string) ([]byte, error) {
			return []byte("x"), nil
		}}
		fo := store.NewFailover([]store.Connection{primary, backup}, store.WithLogger(logger))

		data, err := fo.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), data)
	})

	t.Run("all members miss returns last error", func(t *testing.T) {
		logger, _ := newTestLogger()
		fo := store.NewFailover([]store.Connection{&stubConn{}, &stubConn{}}, store.WithLogger(logger))

		_, err := fo.Get(ctx, "k")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("no members", func(t *testing.T) {
		fo := store.NewFailover(nil)
		_, err := fo.Get(ctx, "k")
		assert.ErrorIs(t, err, store.ErrNoMembers)
	})
}

func TestFailover_Writes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set falls over to next member", func(t *testing.T) {
		logger, buf := newTestLogger()
		primary := &stubConn{setFn: func(context.Context, string, []byte, time.Duration) error {
			return store.ErrUnavailable
		}}
		backup := &stubConn{}
		fo := store.NewFailover([]store.Connection{primary, backup}, store.WithLogger(logger))

		require.NoError(t, fo.Set(ctx, "k", []byte("v"), time.Minute))
		assert.Contains(t, backup.calls, "set:k")
		assert.Contains(t, buf.String(), "member=1")
	})

	t.Run("all writes fail", func(t *testing.T) {
		logger, _ := newTestLogger()
		fail := func(context.Context, string, []byte, time.Duration) error { return store.ErrUnavailable }
		fo := store.NewFailover([]store.Connection{
			&stubConn{setFn: fail},
			&stubConn{setFn: fail},
		}, store.WithLogger(logger))

		assert.ErrorIs(t, fo.Set(ctx, "k", nil, time.Minute), store.ErrUnavailable)
	})
}

func TestFailover_Exists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("false advances to next member", func(t *testing.T) {
		logger, buf := newTestLogger()
		primary := &stubConn{} // defaults to false
		backup := &stubConn{existsFn: func(context.Context, string) (bool, error) {
			return true, nil
		}}
		fo := store.NewFailover([]store.Connection{primary, backup}, store.WithLogger(logger))

		ok, err := fo.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, buf.String(), "member=1")
	})

	t.Run("unanimous false is not an error", func(t *testing.T) {
		fo := store.NewFailover([]store.Connection{&stubConn{}, &stubConn{}})
		ok, err := fo.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFailover_ScanKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first non-empty set wins", func(t *testing.T) {
		logger, _ := newTestLogger()
		empty := &stubConn{scanFn: func(context.Context, string) ([]string, error) {
			return []string{}, nil
		}}
		full := &stubConn{scanFn: func(context.Context, string) ([]string, error) {
			return []string{"a", "b"}, nil
		}}
		fo := store.NewFailover([]store.Connection{empty, full}, store.WithLogger(logger))

		keys, err := fo.ScanKeys(ctx, "*")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, keys)
	})

	t.Run("all empty yields empty", func(t *testing.T) {
		fo := store.NewFailover([]store.Connection{&stubConn{}, &stubConn{}})
		keys, err := fo.ScanKeys(ctx, "*")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestFailover_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("connect succeeds when any member connects", func(t *testing.T) {
		logger, buf := newTestLogger()
		bad := &stubConn{connectFn: func(context.Context) error { return store.ErrConnectFailed }}
		good := &stubConn{}
		fo := store.NewFailover([]store.Connection{bad, good}, store.WithLogger(logger))

		require.NoError(t, fo.Connect(ctx))
		assert.True(t, fo.Connected())
		assert.Contains(t, buf.String(), "failover member did not connect")
	})

	t.Run("connect fails when all members fail", func(t *testing.T) {
		logger, _ := newTestLogger()
		bad := func() *stubConn {
			return &stubConn{connectFn: func(context.Context) error { return store.ErrConnectFailed }}
		}
		fo := store.NewFailover([]store.Connection{bad(), bad()}, store.WithLogger(logger))

		err := fo.Connect(ctx)
		assert.ErrorIs(t, err, store.ErrConnectFailed)
		assert.False(t, fo.Connected())
	})

	t.Run("close joins member errors", func(t *testing.T) {
		boom := &stubConn{closeFn: func() error { return store.ErrUnavailable }}
		fo := store.NewFailover([]store.Connection{boom, &stubConn{}})
		assert.ErrorIs(t, fo.Close(), store.ErrUnavailable)
	})
}
