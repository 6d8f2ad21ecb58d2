package hook

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// DefaultMaxDepth is the recursion ceiling used when none is configured.
// Depth 1 is the host-initiated operation itself, so the default tolerates
// two levels of hook-initiated storage beneath it.
const DefaultMaxDepth = 3

// ExecutionContext tracks how deeply storage operations nest when hooks
// themselves touch the store. One instance is shared between a pipeline
// and every ScopedConnection its hooks use, so all nested work counts
// against the same ceiling.
//
// The guard fails open: exceeding the ceiling logs a warning naming the
// operation and carries on. Cutting a hook off mid-flight would be a
// worse failure than the noise it causes.
type ExecutionContext struct {
	depth   atomic.Int32
	ceiling int32
	log     *slog.Logger
}

// NewExecutionContext builds a guard with the given ceiling. A
// non-positive maxDepth falls back to DefaultMaxDepth; a nil logger falls
// back to slog.Default().
func NewExecutionContext(maxDepth int, logger *slog.Logger) *ExecutionContext {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecutionContext{ceiling: int32(maxDepth), log: logger}
}

// Depth returns the current nesting level. Zero means no operation is in
// flight.
func (e *ExecutionContext) Depth() int {
	return int(e.depth.Load())
}

// Enter records one nesting level and returns the matching exit. Callers
// defer the exit immediately so the counter is restored on every path:
//
//	defer exec.Enter(ctx, "get", key)()
//
// Each call that lands above the ceiling logs exactly one warning.
func (e *ExecutionContext) Enter(ctx context.Context, op, key string) func() {
	depth := e.depth.Add(1)
	if depth > e.ceiling {
		e.log.WarnContext(ctx, "storage recursion exceeded ceiling",
			slog.String("op", op),
			slog.String("key", key),
			slog.Int("depth", int(depth)),
			slog.Int("ceiling", int(e.ceiling)))
	}
	return func() {
		e.depth.Add(-1)
	}
}
