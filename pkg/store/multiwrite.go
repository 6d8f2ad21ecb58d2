package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var _ Connection = (*MultiWrite)(nil)

// MultiWrite keeps several stores in sync by fanning every write out to
// all members, sequentially and in registration order. Reads are served by
// the primary alone; the other members exist to be written, typically
// during a store migration where the new backend warms up behind the old
// one.
type MultiWrite struct {
	members    []Connection
	requireAll bool
	log        *slog.Logger
}

// NewMultiWrite builds a write fan-out. members[0] is the read primary.
// With requireAllWrites, a write fails unless every member takes it;
// otherwise one accepting member is enough and the rest are best-effort.
func NewMultiWrite(members []Connection, requireAllWrites bool, opts ...Option) *MultiWrite {
	s := applyOptions(opts)
	return &MultiWrite{members: members, requireAll: requireAllWrites, log: s.logger}
}

// Connect mirrors the write policy: with requireAllWrites every member
// must connect, otherwise one is enough.
func (m *MultiWrite) Connect(ctx context.Context) error {
	if len(m.members) == 0 {
		return ErrNoMembers
	}
	var errs []error
	connected := 0
	for i, conn := range m.members {
		if err := conn.Connect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("member %d: %w", i, err))
			continue
		}
		connected++
	}
	if m.requireAll && len(errs) > 0 {
		return errors.Join(errs...)
	}
	if connected == 0 {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		m.log.WarnContext(ctx, "multi-write member did not connect", slog.String("error", err.Error()))
	}
	return nil
}

func (m *MultiWrite) Connected() bool {
	if len(m.members) == 0 {
		return false
	}
	if m.requireAll {
		for _, conn := range m.members {
			if !conn.Connected() {
				return false
			}
		}
		return true
	}
	for _, conn := range m.members {
		if conn.Connected() {
			return true
		}
	}
	return false
}

// Get reads from the primary only. Secondaries may lag a failed primary
// write, so reading them would serve inconsistent data silently.
func (m *MultiWrite) Get(ctx context.Context, key string) ([]byte, error) {
	if len(m.members) == 0 {
		return nil, ErrNoMembers
	}
	return m.members[0].Get(ctx, key)
}

func (m *MultiWrite) Exists(ctx context.Context, key string) (bool, error) {
	if len(m.members) == 0 {
		return false, ErrNoMembers
	}
	return m.members[0].Exists(ctx, key)
}

func (m *MultiWrite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.fanOut(ctx, "set", key, func(conn Connection) error {
		return conn.Set(ctx, key, value, ttl)
	})
}

func (m *MultiWrite) Delete(ctx context.Context, key string) error {
	return m.fanOut(ctx, "delete", key, func(conn Connection) error {
		return conn.Delete(ctx, key)
	})
}

func (m *MultiWrite) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	return m.fanOut(ctx, "refresh_ttl", key, func(conn Connection) error {
		return conn.RefreshTTL(ctx, key, ttl)
	})
}

// ScanKeys merges the key sets of all members, de-duplicated, keeping
// first-seen order across the member walk.
func (m *MultiWrite) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if len(m.members) == 0 {
		return nil, ErrNoMembers
	}
	seen := make(map[string]struct{})
	keys := []string{}
	var errs []error
	for i, conn := range m.members {
		batch, err := conn.ScanKeys(ctx, pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("member %d: %w", i, err))
			continue
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	if len(errs) == len(m.members) {
		return nil, errors.Join(errs...)
	}
	if len(errs) > 0 {
		m.log.WarnContext(ctx, "multi-write scan skipped members",
			slog.String("pattern", pattern),
			slog.String("error", errors.Join(errs...).Error()))
	}
	return keys, nil
}

func (m *MultiWrite) Close() error {
	var errs []error
	for i, conn := range m.members {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("member %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// fanOut applies one write to every member in order. Fan-out is
// deliberately sequential: parallel writes would reorder concurrent
// updates differently per member and drift the replicas apart.
func (m *MultiWrite) fanOut(ctx context.Context, op, key string, fn func(Connection) error) error {
	if len(m.members) == 0 {
		return ErrNoMembers
	}
	var errs []error
	for i, conn := range m.members {
		if err := fn(conn); err != nil {
			m.log.ErrorContext(ctx, "multi-write member failed",
				slog.String("op", op),
				slog.String("key", key),
				slog.Int("member", i),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("member %d: %w", i, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if m.requireAll || len(errs) == len(m.members) {
		return errors.Join(errs...)
	}
	return nil
}
