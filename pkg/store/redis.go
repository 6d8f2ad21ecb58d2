package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Connection = (*RedisConnection)(nil)

// RedisConnection stores each session as a string key with a server-side
// TTL, so garbage collection is entirely the server's business.
type RedisConnection struct {
	cfg RedisConfig
	log *slog.Logger

	mu     sync.Mutex
	client redis.UniversalClient
}

// NewRedisConnection builds an unconnected RedisConnection. The first data
// operation connects on demand; call Connect eagerly to surface
// configuration problems early.
func NewRedisConnection(cfg RedisConfig, opts ...Option) *RedisConnection {
	s := applyOptions(opts)
	return &RedisConnection{cfg: cfg, log: s.logger}
}

// Connect dials the server, validating the link with PING. Attempts are
// spaced by RetryInterval times the attempt number and the whole loop is
// bounded by ConnectTimeout. Idempotent: a live connection returns nil
// immediately.
func (c *RedisConnection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}

	opt, err := redis.ParseURL(c.cfg.ConnectionURL)
	if err != nil {
		// The raw parse error may echo the URL, credential included.
		return fmt.Errorf("%w: invalid connection url", ErrConnectFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	attempts := max(c.cfg.RetryAttempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			c.client = client
			return nil
		}
		_ = client.Close()

		// No backoff after the final attempt; the caller gets the error
		// immediately.
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s after %d attempts", ErrConnectFailed, opt.Addr, attempt)
		case <-time.After(c.cfg.RetryInterval * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrConnectFailed, opt.Addr, attempts)
}

// Connected reports whether the client has been established.
func (c *RedisConnection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

func (c *RedisConnection) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	client, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	val, err := client.Get(ctx, c.prefixed(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrNotFound
	case err != nil:
		return nil, c.unavailable(ctx, "get", key, err)
	}
	return val, nil
}

func (c *RedisConnection) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	client, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	// Single SET with expiry, so value and TTL land atomically.
	if err := client.Set(ctx, c.prefixed(key), value, ttl).Err(); err != nil {
		return c.unavailable(ctx, "set", key, err)
	}
	return nil
}

func (c *RedisConnection) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	client, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	if err := client.Del(ctx, c.prefixed(key)).Err(); err != nil {
		return c.unavailable(ctx, "delete", key, err)
	}
	return nil
}

func (c *RedisConnection) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	client, err := c.ensure(ctx)
	if err != nil {
		return false, err
	}
	n, err := client.Exists(ctx, c.prefixed(key)).Result()
	if err != nil {
		return false, c.unavailable(ctx, "exists", key, err)
	}
	return n > 0, nil
}

func (c *RedisConnection) RefreshTTL(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	client, err := c.ensure(ctx)
	if err != nil {
		return err
	}
	ok, err := client.Expire(ctx, c.prefixed(key), ttl).Result()
	if err != nil {
		return c.unavailable(ctx, "refresh_ttl", key, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ScanKeys walks the keyspace with cursor SCAN so the server is never
// blocked the way KEYS would. The configured prefix is prepended to the
// MATCH pattern and stripped from every result.
func (c *RedisConnection) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	client, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	match := c.cfg.KeyPrefix + pattern
	keys := make([]string, 0, c.cfg.ScanBatchSize)
	var cursor uint64
	for {
		batch, next, err := client.Scan(ctx, cursor, match, int64(c.cfg.ScanBatchSize)).Result()
		if err != nil {
			return nil, c.unavailable(ctx, "scan", pattern, err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, c.cfg.KeyPrefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Close is a no-op for persistent connections; otherwise it releases the
// client so the next operation reconnects.
func (c *RedisConnection) Close() error {
	if c.cfg.Persistent {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// ensure connects on first use. Connect failures on the data path are
// logged and degraded to ErrUnavailable per the propagation policy.
func (c *RedisConnection) ensure(ctx context.Context) (redis.UniversalClient, error) {
	if err := c.Connect(ctx); err != nil {
		c.log.ErrorContext(ctx, "session store unreachable",
			slog.String("store", "redis"),
			slog.String("error", err.Error()))
		return nil, ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client, nil
}

func (c *RedisConnection) unavailable(ctx context.Context, op, key string, err error) error {
	c.log.ErrorContext(ctx, "redis operation failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()))
	return ErrUnavailable
}

func (c *RedisConnection) prefixed(key string) string {
	return c.cfg.KeyPrefix + key
}
