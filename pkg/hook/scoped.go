package hook

import (
	"context"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/store"
)

var _ store.Connection = (*ScopedConnection)(nil)

// ScopedConnection decorates a store.Connection so every operation counts
// against a shared ExecutionContext. Hooks that need storage must go
// through one bound to their pipeline's context; raw connections would
// nest invisibly and defeat the recursion guard.
type ScopedConnection struct {
	conn store.Connection
	exec *ExecutionContext
}

// NewScopedConnection binds conn to exec. The same exec instance must be
// the one the owning pipeline counts with.
func NewScopedConnection(conn store.Connection, exec *ExecutionContext) *ScopedConnection {
	return &ScopedConnection{conn: conn, exec: exec}
}

func (s *ScopedConnection) Connect(ctx context.Context) error {
	defer s.exec.Enter(ctx, "connect", "")()
	return s.conn.Connect(ctx)
}

func (s *ScopedConnection) Connected() bool { return s.conn.Connected() }

func (s *ScopedConnection) Get(ctx context.Context, key string) ([]byte, error) {
	defer s.exec.Enter(ctx, "get", key)()
	return s.conn.Get(ctx, key)
}

func (s *ScopedConnection) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	defer s.exec.Enter(ctx, "set", key)()
	return s.conn.Set(ctx, key, value, ttl)
}

func (s *ScopedConnection) Delete(ctx context.Context, key string) error {
	defer s.exec.Enter(ctx, "delete", key)()
	return s.conn.Delete(ctx, key)
}

func (s *ScopedConnection) Exists(ctx context.Context, key string) (bool, error) {
	defer s.exec.Enter(ctx, "exists", key)()
	return s.conn.Exists(ctx, key)
}

func (s *ScopedConnection) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	defer s.exec.Enter(ctx, "refresh_ttl", key)()
	return s.conn.RefreshTTL(ctx, key, ttl)
}

func (s *ScopedConnection) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	defer s.exec.Enter(ctx, "scan", pattern)()
	return s.conn.ScanKeys(ctx, pattern)
}

func (s *ScopedConnection) Close() error { return s.conn.Close() }
