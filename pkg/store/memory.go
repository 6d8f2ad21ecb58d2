package store

import (
	"bytes"
	"context"
	"errors"
	"path"
	"slices"
	"sync"
	"time"
)

var _ Connection = (*MemoryConnection)(nil)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryConnection keeps sessions in a process-local map with lazy expiry.
// It ships for tests and single-process setups; it satisfies the full
// contract, including glob scans, so it can stand in for any backend.
type MemoryConnection struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryConnection returns a ready-to-use in-memory store.
func NewMemoryConnection() *MemoryConnection {
	return &MemoryConnection{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryConnection) Connect(context.Context) error { return nil }

func (c *MemoryConnection) Connected() bool { return true }

func (c *MemoryConnection) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.expired(entry) {
		return nil, ErrNotFound
	}
	return bytes.Clone(entry.data), nil
}

func (c *MemoryConnection) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		data:      bytes.Clone(value),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryConnection) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *MemoryConnection) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	return ok && !c.expired(entry), nil
}

func (c *MemoryConnection) RefreshTTL(_ context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.expired(entry) {
		return ErrNotFound
	}
	entry.expiresAt = c.now().Add(ttl)
	c.entries[key] = entry
	return nil
}

// ScanKeys returns live keys matching the glob, sorted for deterministic
// output since map iteration order is random.
func (c *MemoryConnection) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for key, entry := range c.entries {
		if c.expired(entry) {
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (c *MemoryConnection) Close() error { return nil }

func (c *MemoryConnection) expired(entry memoryEntry) bool {
	return c.now().After(entry.expiresAt)
}
