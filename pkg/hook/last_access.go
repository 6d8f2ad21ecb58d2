package hook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstore/pkg/phpserialize"
	"github.com/dmitrymomot/sessionstore/pkg/store"
)

var (
	_ ReadHook  = (*LastAccessHook)(nil)
	_ WriteHook = (*LastAccessHook)(nil)
)

// LastAccessConfig tunes a LastAccessHook.
type LastAccessConfig struct {
	Suffix string        `yaml:"suffix" env:"SESSION_LAST_ACCESS_SUFFIX" envDefault:":last_access"` // Appended to the session key to form the tracking key.
	TTL    time.Duration `yaml:"ttl"    env:"SESSION_LAST_ACCESS_TTL"    envDefault:"24m"`          // Lifetime of tracking records.
}

// DefaultLastAccessConfig returns the config used when none is supplied.
func DefaultLastAccessConfig() LastAccessConfig {
	return LastAccessConfig{Suffix: ":last_access", TTL: 24 * time.Minute}
}

// LastAccessHook records when each session was last read or written,
// under <session key><suffix>. Recording is best-effort: a failed touch
// never fails the host operation. The connection is normally a
// ScopedConnection so tracking traffic counts against the pipeline's
// recursion ceiling.
type LastAccessHook struct {
	conn store.Connection
	cfg  LastAccessConfig
	log  *slog.Logger
	now  func() time.Time
}

// NewLastAccessHook tracks access times through conn. Zero config fields
// fall back to defaults; a nil logger falls back to slog.Default().
func NewLastAccessHook(conn store.Connection, cfg LastAccessConfig, logger *slog.Logger) *LastAccessHook {
	def := DefaultLastAccessConfig()
	if cfg.Suffix == "" {
		cfg.Suffix = def.Suffix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LastAccessHook{conn: conn, cfg: cfg, log: logger, now: time.Now}
}

func (h *LastAccessHook) BeforeRead(ctx context.Context, key string) {}

// AfterRead touches the tracking key and passes the payload through.
func (h *LastAccessHook) AfterRead(ctx context.Context, key string, data []byte) []byte {
	h.touch(ctx, key)
	return data
}

func (h *LastAccessHook) OnReadError(ctx context.Context, key string, err error) []byte {
	return nil
}

// BeforeWrite passes the mapping through untouched.
func (h *LastAccessHook) BeforeWrite(ctx context.Context, key string, values map[string]any) (map[string]any, error) {
	return values, nil
}

// AfterWrite touches the tracking key for successful writes only.
func (h *LastAccessHook) AfterWrite(ctx context.Context, key string, ok bool) error {
	if ok {
		h.touch(ctx, key)
	}
	return nil
}

func (h *LastAccessHook) OnWriteError(ctx context.Context, key string, err error) {}

// LastAccess reads the recorded timestamp for key. Absence surfaces as
// the connection's not-found error.
func (h *LastAccessHook) LastAccess(ctx context.Context, key string) (time.Time, error) {
	data, err := h.conn.Get(ctx, key+h.cfg.Suffix)
	if err != nil {
		return time.Time{}, err
	}
	v, err := phpserialize.DecodeValue(data)
	if err != nil {
		return time.Time{}, err
	}
	sec, ok := v.(int)
	if !ok {
		return time.Time{}, fmt.Errorf("last-access record has type %T, want int", v)
	}
	return time.Unix(int64(sec), 0), nil
}

func (h *LastAccessHook) touch(ctx context.Context, key string) {
	data, err := phpserialize.EncodeValue(int(h.now().Unix()))
	if err == nil {
		err = h.conn.Set(ctx, key+h.cfg.Suffix, data, h.cfg.TTL)
	}
	if err != nil {
		h.log.DebugContext(ctx, "last-access touch failed",
			slog.String("key", key),
			slog.Any("error", err))
	}
}
