package sessionstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/codec"
	"github.com/dmitrymomot/sessionstore/pkg/hook"
	"github.com/dmitrymomot/sessionstore/pkg/store"
)

var _ hook.PendingWrites = (*Pipeline)(nil)

// Pipeline orchestrates one session operation at a time: hooks and
// filters around the codec and the store connection. Registries are
// append-only and fixed after construction; every invocation is stateless
// from the pipeline's point of view.
type Pipeline struct {
	conn       store.Connection
	codec      codec.Codec
	readHooks  []hook.ReadHook
	writeHooks []hook.WriteHook
	filters    []hook.WriteFilter
	pending    pendingWrites
	exec       *hook.ExecutionContext
	minTTL     time.Duration
	log        *slog.Logger
}

// NewPipeline wires conn behind the configured hooks and filters. Each
// pipeline operation holds one level of the recursion guard for its whole
// duration, so storage a hook performs mid-operation counts as nested.
// Hooks implementing hook.PendingWritesUser receive the pipeline's
// pending-write view.
func NewPipeline(conn store.Connection, opts ...Option) *Pipeline {
	s := newSettings(opts)
	exec := s.exec
	if exec == nil {
		exec = hook.NewExecutionContext(s.cfg.MaxHookDepth, s.logger)
	}

	p := &Pipeline{
		conn:       conn,
		codec:      s.codec,
		readHooks:  s.readHooks,
		writeHooks: s.writeHooks,
		filters:    s.filters,
		pending:    pendingWrites{m: make(map[string]map[string]any)},
		exec:       exec,
		minTTL:     s.cfg.MinTTL,
		log:        s.logger,
	}

	for _, h := range p.readHooks {
		if u, ok := h.(hook.PendingWritesUser); ok {
			u.UsePendingWrites(p)
		}
	}
	for _, h := range p.writeHooks {
		if u, ok := h.(hook.PendingWritesUser); ok {
			u.UsePendingWrites(p)
		}
	}
	return p
}

// Read fetches the payload for key. Absent sessions read as empty data
// with no error. When the store fails, read hooks may supply fallback
// data; an unrecovered failure is returned to the caller. Payloads the
// codec cannot parse degrade to empty data so corrupt records never reach
// the host runtime.
func (p *Pipeline) Read(ctx context.Context, key string) ([]byte, error) {
	defer p.exec.Enter(ctx, "read", key)()

	for _, h := range p.readHooks {
		p.guarded(ctx, "before_read", key, func() { h.BeforeRead(ctx, key) })
	}

	data, err := p.conn.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		// Absence is a benign result: the after-read chain still runs, so
		// hooks may prime an empty session.
		data, err = nil, nil
	}
	if err != nil {
		for _, h := range p.readHooks {
			var fallback []byte
			p.guarded(ctx, "on_read_error", key, func() { fallback = h.OnReadError(ctx, key, err) })
			if fallback != nil {
				p.log.InfoContext(ctx, "read served from hook fallback",
					slog.String("key", key),
					slog.Any("error", err))
				return fallback, nil
			}
		}
		return nil, err
	}

	for _, h := range p.readHooks {
		p.guarded(ctx, "after_read", key, func() { data = h.AfterRead(ctx, key, data) })
	}

	if len(data) > 0 {
		if _, derr := p.codec.Decode(data); derr != nil {
			p.log.WarnContext(ctx, "stored session data is corrupt, reading as empty",
				slog.String("key", key),
				slog.String("codec", p.codec.Name()),
				slog.Any("error", derr))
			return nil, nil
		}
	}
	return data, nil
}

// Write persists data under key with the floored ttl.
//
// The payload is decoded so filters and hooks can see the mapping. A
// filter veto cancels the write and reports success: an intentionally
// unpersisted session is the steady state for empty sessions, not a
// failure. Hook errors escalate, run every OnWriteError, and surface
// wrapped in ErrHookFailed. A payload the codec cannot parse is stored
// verbatim with filters and hooks bypassed; host data is never dropped.
func (p *Pipeline) Write(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	defer p.exec.Enter(ctx, "write", key)()
	ttl = p.floorTTL(ttl)

	values, err := p.codec.Decode(data)
	if err != nil {
		p.log.WarnContext(ctx, "write payload is not decodable, storing verbatim",
			slog.String("key", key),
			slog.String("codec", p.codec.Name()),
			slog.Any("error", err))
		return p.conn.Set(ctx, key, data, ttl)
	}

	for _, f := range p.filters {
		allow := true
		p.guarded(ctx, "write_filter", key, func() { allow = f.ShouldWrite(ctx, key, values) })
		if allow {
			continue
		}
		p.log.DebugContext(ctx, "write cancelled by filter", slog.String("key", key))
		p.notifyAfterWrite(ctx, key, false)
		return nil
	}

	p.pending.set(key, values)
	defer p.pending.clear(key)

	for _, h := range p.writeHooks {
		next, hookErr := values, error(nil)
		p.guarded(ctx, "before_write", key, func() { next, hookErr = h.BeforeWrite(ctx, key, values) })
		if hookErr != nil {
			p.log.ErrorContext(ctx, "write abandoned by hook",
				slog.String("key", key),
				slog.Any("error", hookErr))
			p.notifyWriteError(ctx, key, hookErr)
			return errors.Join(ErrHookFailed, hookErr)
		}
		values = next
	}
	p.pending.set(key, values)

	encoded, err := p.codec.Encode(values)
	if err != nil {
		p.log.ErrorContext(ctx, "session mapping is not encodable",
			slog.String("key", key),
			slog.String("codec", p.codec.Name()),
			slog.Any("error", err))
		p.notifyWriteError(ctx, key, err)
		return errors.Join(ErrHookFailed, err)
	}

	setErr := p.conn.Set(ctx, key, encoded, ttl)

	escalation := p.notifyAfterWrite(ctx, key, setErr == nil)
	if setErr != nil {
		return setErr
	}
	if escalation != nil {
		p.notifyWriteError(ctx, key, escalation)
		return errors.Join(ErrHookFailed, escalation)
	}
	return nil
}

// RefreshTTL extends the lifetime of an existing record without touching
// its payload. The floor applies here the same as on writes.
func (p *Pipeline) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	defer p.exec.Enter(ctx, "refresh_ttl", key)()
	return p.conn.RefreshTTL(ctx, key, p.floorTTL(ttl))
}

// PendingWrite exposes the decoded mapping of a write currently in
// flight. After-write hooks use it to reach the stored data without
// re-decoding.
func (p *Pipeline) PendingWrite(key string) (map[string]any, bool) {
	return p.pending.get(key)
}

// ExecutionContext returns the recursion guard pipeline operations count
// against, for wiring ScopedConnections or reading the current depth.
func (p *Pipeline) ExecutionContext() *hook.ExecutionContext {
	return p.exec
}

func (p *Pipeline) floorTTL(ttl time.Duration) time.Duration {
	if ttl < p.minTTL {
		return p.minTTL
	}
	return ttl
}

// notifyAfterWrite tells every write hook the outcome and joins any
// escalation errors. Escalations are logged here; acting on them is the
// caller's branch.
func (p *Pipeline) notifyAfterWrite(ctx context.Context, key string, ok bool) error {
	var errs []error
	for _, h := range p.writeHooks {
		var err error
		p.guarded(ctx, "after_write", key, func() { err = h.AfterWrite(ctx, key, ok) })
		if err != nil {
			p.log.ErrorContext(ctx, "write hook escalated",
				slog.String("key", key),
				slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) notifyWriteError(ctx context.Context, key string, err error) {
	for _, h := range p.writeHooks {
		p.guarded(ctx, "on_write_error", key, func() { h.OnWriteError(ctx, key, err) })
	}
}

// guarded runs one hook invocation and contains its panic. A broken hook
// is logged and skipped; it never takes down the primary path.
func (p *Pipeline) guarded(ctx context.Context, phase, key string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "session hook panicked",
				slog.String("phase", phase),
				slog.String("key", key),
				slog.Any("panic", r))
		}
	}()
	fn()
}

// pendingWrites is the per-key in-flight write buffer. Entries live only
// between a write's before-write step and its after-write/on-error step.
// The mutex exists for the map's sake; pipeline semantics stay
// single-flow.
type pendingWrites struct {
	mu sync.Mutex
	m  map[string]map[string]any
}

func (p *pendingWrites) set(key string, values map[string]any) {
	p.mu.Lock()
	p.m[key] = values
	p.mu.Unlock()
}

func (p *pendingWrites) get(key string) (map[string]any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok
}

func (p *pendingWrites) clear(key string) {
	p.mu.Lock()
	delete(p.m, key)
	p.mu.Unlock()
}
