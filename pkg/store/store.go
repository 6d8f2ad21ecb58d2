package store

import (
	"context"
	"log/slog"
	"time"
)

// Connection is the contract every session store backend satisfies. The
// read/write pipeline, the composites and the hooks all speak it, so
// backends and composites nest freely.
//
// Data operations follow a strict propagation policy: they never surface a
// raw transport error. Absence is ErrNotFound, any transport failure is
// logged and returned as ErrUnavailable, and an empty key short-circuits
// with ErrEmptyKey before the backend is touched. Only Connect reports the
// real reason a backend is unreachable, as ErrConnectFailed.
type Connection interface {
	// Connect establishes the link. It is idempotent: calling it on a
	// live connection is a no-op. Implementations retry with a linear
	// backoff before giving up.
	Connect(ctx context.Context) error

	// Connected reports whether the link is currently established.
	Connected() bool

	// Get returns the value stored under key, ErrNotFound when the key
	// has no live value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given time to live. Value and
	// expiry land atomically.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key has a live value.
	Exists(ctx context.Context, key string) (bool, error)

	// RefreshTTL re-arms the expiry of key without rewriting its value.
	// ErrNotFound when the key has no live value.
	RefreshTTL(ctx context.Context, key string, ttl time.Duration) error

	// ScanKeys returns the keys matching a glob pattern, with any
	// configured namespace prefix already stripped. An empty pattern
	// matches everything.
	ScanKeys(ctx context.Context, pattern string) ([]string, error)

	// Close releases the link. Persistent connections treat it as a
	// no-op so a pooled client survives handler churn.
	Close() error
}

// Option adjusts a connection or composite at construction time.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for transport failure and fallback
// reporting. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
