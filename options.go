package sessionstore

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/codec"
	"github.com/dmitrymomot/sessionstore/pkg/hook"
)

// Option configures a Pipeline or Handler at construction time.
type Option func(*settings)

type settings struct {
	codec      codec.Codec
	readHooks  []hook.ReadHook
	writeHooks []hook.WriteHook
	filters    []hook.WriteFilter
	keygen     KeyGenerator
	logger     *slog.Logger
	cfg        Config
	exec       *hook.ExecutionContext
}

func newSettings(opts []Option) settings {
	s := settings{
		codec:  codec.PHP{},
		keygen: UUIDGenerator{},
		logger: slog.Default(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.cfg = s.cfg.withDefaults()
	return s
}

// WithCodec replaces the default PHP codec.
func WithCodec(c codec.Codec) Option {
	return func(s *settings) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithReadHook appends a read hook. Hooks run in registration order.
func WithReadHook(h hook.ReadHook) Option {
	return func(s *settings) {
		if h != nil {
			s.readHooks = append(s.readHooks, h)
		}
	}
}

// WithWriteHook appends a write hook. Hooks run in registration order.
func WithWriteHook(h hook.WriteHook) Option {
	return func(s *settings) {
		if h != nil {
			s.writeHooks = append(s.writeHooks, h)
		}
	}
}

// WithWriteFilter appends a write filter. Filters run in registration
// order; the first veto cancels the write.
func WithWriteFilter(f hook.WriteFilter) Option {
	return func(s *settings) {
		if f != nil {
			s.filters = append(s.filters, f)
		}
	}
}

// WithKeyGenerator replaces the default UUID generator.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(s *settings) {
		if g != nil {
			s.keygen = g
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig replaces the whole configuration. Non-positive fields fall
// back to their defaults.
func WithConfig(c Config) Option {
	return func(s *settings) { s.cfg = c }
}

// WithTTL sets the session lifetime handed to the store on writes.
func WithTTL(d time.Duration) Option {
	return func(s *settings) { s.cfg.TTL = d }
}

// WithTTLFloor sets the minimum TTL; every smaller TTL is raised to it
// before reaching the store.
func WithTTLFloor(d time.Duration) Option {
	return func(s *settings) { s.cfg.MinTTL = d }
}

// WithExecutionContext shares an externally built recursion guard. Pass
// the same context the hooks' ScopedConnections were bound to, so
// pipeline and hook storage count against one ceiling.
func WithExecutionContext(e *hook.ExecutionContext) Option {
	return func(s *settings) {
		if e != nil {
			s.exec = e
		}
	}
}
