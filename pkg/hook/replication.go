package hook

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/codec"
	"github.com/dmitrymomot/sessionstore/pkg/store"
)

var (
	_ WriteHook         = (*ReplicationHook)(nil)
	_ PendingWritesUser = (*ReplicationHook)(nil)
)

// ReplicationConfig tunes a ReplicationHook.
type ReplicationConfig struct {
	TTL            time.Duration `yaml:"ttl"             env:"SESSION_REPLICATION_TTL"             envDefault:"24m"`   // Lifetime of replica records.
	RequireSuccess bool          `yaml:"require_success" env:"SESSION_REPLICATION_REQUIRE_SUCCESS" envDefault:"false"` // Escalate replica failure into write failure.
}

// DefaultReplicationConfig returns the config used when none is supplied.
func DefaultReplicationConfig() ReplicationConfig {
	return ReplicationConfig{TTL: 24 * time.Minute}
}

// ReplicationHook copies every successful write to a second connection.
// It consumes the pipeline's pending-write view, so the mapping is
// re-encoded with the hook's own codec rather than re-decoded from the
// primary payload. The target is normally a ScopedConnection so replica
// traffic counts against the pipeline's recursion ceiling.
type ReplicationHook struct {
	target  store.Connection
	codec   codec.Codec
	cfg     ReplicationConfig
	pending PendingWrites
	log     *slog.Logger
}

// NewReplicationHook replicates writes to target, encoding with c. A nil
// codec falls back to codec.PHP, a zero cfg.TTL to the default TTL, and a
// nil logger to slog.Default().
func NewReplicationHook(target store.Connection, c codec.Codec, cfg ReplicationConfig, logger *slog.Logger) *ReplicationHook {
	if c == nil {
		c = codec.PHP{}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultReplicationConfig().TTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReplicationHook{target: target, codec: c, cfg: cfg, log: logger}
}

// UsePendingWrites receives the pipeline's in-flight write view.
func (h *ReplicationHook) UsePendingWrites(p PendingWrites) { h.pending = p }

// BeforeWrite passes the mapping through untouched.
func (h *ReplicationHook) BeforeWrite(ctx context.Context, key string, values map[string]any) (map[string]any, error) {
	return values, nil
}

// AfterWrite replicates the pending mapping when the primary write
// succeeded. Failures escalate only when RequireSuccess is set;
// otherwise the primary write stands and the failure is logged.
func (h *ReplicationHook) AfterWrite(ctx context.Context, key string, ok bool) error {
	if !ok {
		return nil
	}
	if h.pending == nil {
		h.log.DebugContext(ctx, "replication skipped, no pending-write view",
			slog.String("key", key))
		return nil
	}
	values, found := h.pending.PendingWrite(key)
	if !found {
		h.log.DebugContext(ctx, "replication skipped, write not pending",
			slog.String("key", key))
		return nil
	}

	data, err := h.codec.Encode(values)
	if err == nil {
		err = h.target.Set(ctx, key, data, h.cfg.TTL)
	}
	if err == nil {
		return nil
	}
	if h.cfg.RequireSuccess {
		return errors.Join(ErrReplicationFailed, err)
	}
	h.log.WarnContext(ctx, "replication failed",
		slog.String("key", key),
		slog.Any("error", err))
	return nil
}

// OnWriteError is a no-op: a failed primary write leaves the replica
// untouched.
func (h *ReplicationHook) OnWriteError(ctx context.Context, key string, err error) {}
