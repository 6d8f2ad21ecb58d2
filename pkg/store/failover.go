package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var _ Connection = (*Failover)(nil)

// Failover chains connections in priority order. Every operation walks the
// members until one yields a usable result: a found value for Get, true
// for Exists, plain success for writes. Absence advances the walk the same
// as unavailability, so a value that survives only on a backup is still
// found.
//
// Members are near-identical replicas, not partitions. ScanKeys therefore
// returns the first non-empty key set instead of merging.
type Failover struct {
	members []Connection
	log     *slog.Logger
}

// NewFailover builds a failover chain. members[0] is the primary; the rest
// are consulted in order only when earlier members cannot serve.
func NewFailover(members []Connection, opts ...Option) *Failover {
	s := applyOptions(opts)
	return &Failover{members: members, log: s.logger}
}

// Connect succeeds when at least one member connects. Members that fail to
// connect stay in the chain; they may come back later.
func (f *Failover) Connect(ctx context.Context) error {
	if len(f.members) == 0 {
		return ErrNoMembers
	}
	var errs []error
	connected := false
	for i, m := range f.members {
		if err := m.Connect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("member %d: %w", i, err))
			continue
		}
		connected = true
	}
	if connected {
		for _, err := range errs {
			f.log.WarnContext(ctx, "failover member did not connect", slog.String("error", err.Error()))
		}
		return nil
	}
	return errors.Join(errs...)
}

// Connected reports whether any member is connected.
func (f *Failover) Connected() bool {
	for _, m := range f.members {
		if m.Connected() {
			return true
		}
	}
	return false
}

func (f *Failover) Get(ctx context.Context, key string) ([]byte, error) {
	lastErr := ErrNoMembers
	for i, m := range f.members {
		data, err := m.Get(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}
		f.noteFallback(ctx, "get", key, i)
		return data, nil
	}
	return nil, lastErr
}

func (f *Failover) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	lastErr := ErrNoMembers
	for i, m := range f.members {
		if err := m.Set(ctx, key, value, ttl); err != nil {
			lastErr = err
			continue
		}
		f.noteFallback(ctx, "set", key, i)
		return nil
	}
	return lastErr
}

func (f *Failover) Delete(ctx context.Context, key string) error {
	lastErr := ErrNoMembers
	for i, m := range f.members {
		if err := m.Delete(ctx, key); err != nil {
			lastErr = err
			continue
		}
		f.noteFallback(ctx, "delete", key, i)
		return nil
	}
	return lastErr
}

// Exists treats false as a reason to try the next member; only a positive
// answer stops the walk. All members answering false is false, not an
// error.
func (f *Failover) Exists(ctx context.Context, key string) (bool, error) {
	lastErr := ErrNoMembers
	answered := false
	for i, m := range f.members {
		ok, err := m.Exists(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}
		answered = true
		if ok {
			f.noteFallback(ctx, "exists", key, i)
			return true, nil
		}
	}
	if answered {
		return false, nil
	}
	return false, lastErr
}

func (f *Failover) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	lastErr := ErrNoMembers
	for i, m := range f.members {
		if err := m.RefreshTTL(ctx, key, ttl); err != nil {
			lastErr = err
			continue
		}
		f.noteFallback(ctx, "refresh_ttl", key, i)
		return nil
	}
	return lastErr
}

// ScanKeys returns the first non-empty key set. An empty result from every
// reachable member is an empty result.
func (f *Failover) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	lastErr := ErrNoMembers
	answered := false
	for i, m := range f.members {
		keys, err := m.ScanKeys(ctx, pattern)
		if err != nil {
			lastErr = err
			continue
		}
		answered = true
		if len(keys) > 0 {
			f.noteFallback(ctx, "scan", pattern, i)
			return keys, nil
		}
	}
	if answered {
		return []string{}, nil
	}
	return nil, lastErr
}

func (f *Failover) Close() error {
	var errs []error
	for i, m := range f.members {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("member %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// noteFallback makes silent backup use visible: any member other than the
// primary serving a call is worth an alert.
func (f *Failover) noteFallback(ctx context.Context, op, key string, index int) {
	if index == 0 {
		return
	}
	f.log.WarnContext(ctx, "failover member served request",
		slog.String("op", op),
		slog.String("key", key),
		slog.Int("member", index))
}
