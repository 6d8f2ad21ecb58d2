package sessionstore_test

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/store"
)

// stubConn is a scriptable store.Connection for pipeline and handler
// behavior tests. Unset behaviors default to the benign case and every
// call is recorded as "op:key".
type stubConn struct {
	calls     []string
	connected bool

	connectFn func(ctx context.Context) error
	getFn     func(ctx context.Context, key string) ([]byte, error)
	setFn     func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFn  func(ctx context.Context, key string) error
	existsFn  func(ctx context.Context, key string) (bool, error)
	refreshFn func(ctx context.Context, key string, ttl time.Duration) error
	scanFn    func(ctx context.Context, pattern string) ([]string, error)
	closeFn   func() error
}

func (s *stubConn) Connect(ctx context.Context) error {
	s.calls = append(s.calls, "connect")
	if s.connectFn != nil {
		return s.connectFn(ctx)
	}
	s.connected = true
	return nil
}

func (s *stubConn) Connected() bool { return s.connected }

func (s *stubConn) Get(ctx context.Context, key string) ([]byte, error) {
	s.calls = append(s.calls, "get:"+key)
	if s.getFn != nil {
		return s.getFn(ctx, key)
	}
	return nil, store.ErrNotFound
}

func (s *stubConn) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.calls = append(s.calls, "set:"+key)
	if s.setFn != nil {
		return s.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (s *stubConn) Delete(ctx context.Context, key string) error {
	s.calls = append(s.calls, "delete:"+key)
	if s.deleteFn != nil {
		return s.deleteFn(ctx, key)
	}
	return nil
}

func (s *stubConn) Exists(ctx context.Context, key string) (bool, error) {
	s.calls = append(s.calls, "exists:"+key)
	if s.existsFn != nil {
		return s.existsFn(ctx, key)
	}
	return false, nil
}

func (s *stubConn) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	s.calls = append(s.calls, "refresh_ttl:"+key)
	if s.refreshFn != nil {
		return s.refreshFn(ctx, key, ttl)
	}
	return nil
}

func (s *stubConn) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	s.calls = append(s.calls, "scan:"+pattern)
	if s.scanFn != nil {
		return s.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (s *stubConn) Close() error {
	s.calls = append(s.calls, "close")
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

// newTestLogger returns a logger writing plain text into the buffer.
// Debug level is enabled so cancellation and degradation records show up.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
