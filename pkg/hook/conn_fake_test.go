package hook_test

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/store"
)

// fakeConn is an in-memory store.Connection with call recording and
// failure injection, enough to observe how hooks drive storage.
type fakeConn struct {
	mu    sync.Mutex
	data  map[string][]byte
	ttls  map[string]time.Duration
	calls []string

	getErr error
	setErr error
	onOp   func(op string) // runs inside every operation when set
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeConn) record(op, key string) {
	f.mu.Lock()
	f.calls = append(f.calls, op+":"+key)
	onOp := f.onOp
	f.mu.Unlock()
	if onOp != nil {
		onOp(op)
	}
}

func (f *fakeConn) Connect(ctx context.Context) error {
	f.record("connect", "")
	return nil
}

func (f *fakeConn) Connected() bool { return true }

func (f *fakeConn) Get(ctx context.Context, key string) ([]byte, error) {
	f.record("get", key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (f *fakeConn) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.record("set", key)
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = bytes.Clone(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeConn) Delete(ctx context.Context, key string) error {
	f.record("delete", key)
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeConn) Exists(ctx context.Context, key string) (bool, error) {
	f.record("exists", key)
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeConn) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	f.record("refresh_ttl", key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return store.ErrNotFound
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeConn) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	f.record("scan", pattern)
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (f *fakeConn) Close() error {
	f.record("close", "")
	return nil
}

func (f *fakeConn) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeConn) stored(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeConn) storedTTL(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

// newTestLogger returns a logger writing plain text into the buffer.
// Debug level is enabled because several hooks report skips at debug.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
