package sessionstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/store"
)

// Handler is the lifecycle facade a host runtime drives on every request:
// open, read, write, destroy, garbage-collect, validate, refresh, and key
// generation, all over one Pipeline.
//
// Failure semantics follow the host contract rather than raw Go
// convention: a failed read degrades to empty data (no prior session), a
// filter-cancelled write reports success, and only write failures and key
// generation exhaustion surface as errors.
type Handler struct {
	conn     store.Connection
	pipeline *Pipeline
	keygen   KeyGenerator
	cfg      Config
	log      *slog.Logger
}

// NewHandler builds a Handler and its Pipeline over conn.
func NewHandler(conn store.Connection, opts ...Option) *Handler {
	s := newSettings(opts)
	return &Handler{
		conn:     conn,
		pipeline: NewPipeline(conn, opts...),
		keygen:   s.keygen,
		cfg:      s.cfg,
		log:      s.logger,
	}
}

// Pipeline returns the underlying read/write pipeline.
func (h *Handler) Pipeline() *Pipeline { return h.pipeline }

// Open establishes the store connection. The location hint and session
// name come from the host runtime and are recorded for diagnostics only;
// the connection already knows its own address.
func (h *Handler) Open(ctx context.Context, locationHint, name string) error {
	h.log.DebugContext(ctx, "session handler opened",
		slog.String("location_hint", locationHint),
		slog.String("session_name", name))
	return h.conn.Connect(ctx)
}

// Close releases the connection. Persistent connections treat this as a
// no-op.
func (h *Handler) Close() error {
	return h.conn.Close()
}

// Read returns the session payload for key, or empty data when there is
// none to give: absent sessions, store failures, and corrupt payloads all
// degrade rather than fail, so a broken session never breaks a request.
func (h *Handler) Read(ctx context.Context, key string) []byte {
	data, err := h.pipeline.Read(ctx, key)
	if err != nil {
		h.log.WarnContext(ctx, "session read degraded to empty",
			slog.String("key", key),
			slog.Any("error", err))
		return nil
	}
	return data
}

// Write persists the session payload under key using the configured TTL.
func (h *Handler) Write(ctx context.Context, key string, data []byte) error {
	return h.pipeline.Write(ctx, key, data, h.cfg.TTL)
}

// Destroy removes the session record. Destroying an absent session is not
// an error.
func (h *Handler) Destroy(ctx context.Context, key string) error {
	return h.conn.Delete(ctx, key)
}

// CollectGarbage reports zero collected sessions: expiry is enforced by
// the store's native TTL, so there is nothing to sweep here.
func (h *Handler) CollectGarbage(ctx context.Context, maxLifetime time.Duration) (int, error) {
	return 0, nil
}

// ValidateKey reports whether a session record exists for key. Store
// failures count as "does not exist".
func (h *Handler) ValidateKey(ctx context.Context, key string) bool {
	ok, err := h.conn.Exists(ctx, key)
	return err == nil && ok
}

// RefreshTimestamp extends the session's lifetime without rewriting its
// payload. The data argument mirrors the host contract and is unused
// here.
func (h *Handler) RefreshTimestamp(ctx context.Context, key string, data []byte) error {
	return h.pipeline.RefreshTTL(ctx, key, h.cfg.TTL)
}

// GenerateKey returns a fresh session key, probing the store so a key
// already in use is never handed out. A store probe that fails counts as
// free: generators produce effectively unique keys, and refusing to issue
// one while the store is down would block every new session. The probe
// budget exhausting means the generator is broken, which is fatal.
func (h *Handler) GenerateKey(ctx context.Context) (string, error) {
	for range h.cfg.KeyProbeAttempts {
		key := h.keygen.Generate()
		exists, err := h.conn.Exists(ctx, key)
		if err != nil || !exists {
			return key, nil
		}
		h.log.DebugContext(ctx, "generated session key collides, retrying",
			slog.String("key", key))
	}
	return "", fmt.Errorf("%w: %d attempts", ErrKeyGeneration, h.cfg.KeyProbeAttempts)
}
