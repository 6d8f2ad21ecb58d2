package hook

import (
	"context"
	"log/slog"
	"sync"
)

var _ WriteFilter = (*EmptySessionFilter)(nil)

// EmptySessionFilter vetoes writes whose decoded mapping carries no
// fields. Empty sessions are noise: persisting them spends a storage
// round trip and a TTL slot on a record no read will ever use.
type EmptySessionFilter struct {
	mu      sync.Mutex
	emptied map[string]struct{}
	log     *slog.Logger
}

// NewEmptySessionFilter returns a filter that records which keys it
// suppressed. A nil logger falls back to slog.Default().
func NewEmptySessionFilter(logger *slog.Logger) *EmptySessionFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmptySessionFilter{
		emptied: make(map[string]struct{}),
		log:     logger,
	}
}

// ShouldWrite reports whether the session carries any data. Vetoed keys
// are remembered so callers can distinguish "skipped as empty" from
// "never written".
func (f *EmptySessionFilter) ShouldWrite(ctx context.Context, key string, data map[string]any) bool {
	if len(data) > 0 {
		f.mu.Lock()
		delete(f.emptied, key)
		f.mu.Unlock()
		return true
	}

	f.mu.Lock()
	f.emptied[key] = struct{}{}
	f.mu.Unlock()

	f.log.DebugContext(ctx, "empty session write suppressed", slog.String("key", key))
	return false
}

// WasEmpty reports whether the most recent write attempt for key was
// suppressed as empty.
func (f *EmptySessionFilter) WasEmpty(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.emptied[key]
	return ok
}
