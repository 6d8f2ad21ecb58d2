package hook

import "context"

// ReadHook observes and may transform the read path. AfterRead results are
// chained: each hook receives the previous hook's output.
type ReadHook interface {
	// BeforeRead fires before the store is consulted.
	BeforeRead(ctx context.Context, key string)

	// AfterRead receives the data read so far and returns the data to
	// continue with. Return the input unchanged to observe only.
	AfterRead(ctx context.Context, key string, data []byte) []byte

	// OnReadError fires when the store could not serve the read. A
	// non-nil return becomes the fallback payload; nil lets the read
	// degrade to empty.
	OnReadError(ctx context.Context, key string, err error) []byte
}

// WriteHook observes and may transform the write path. BeforeWrite results
// are chained the way AfterRead results are.
type WriteHook interface {
	// BeforeWrite receives the decoded mapping about to be stored and
	// returns the mapping to continue with. A non-nil error escalates:
	// the write is abandoned and reported failed.
	BeforeWrite(ctx context.Context, key string, values map[string]any) (map[string]any, error)

	// AfterWrite fires after the store write with its outcome. A
	// non-nil error escalates an otherwise successful write to failure.
	AfterWrite(ctx context.Context, key string, ok bool) error

	// OnWriteError fires once per hook when the write path failed,
	// whatever the reason.
	OnWriteError(ctx context.Context, key string, err error)
}

// WriteFilter can veto a write. A false from any filter cancels the store
// write; the host still sees success, because a vetoed write is a policy
// outcome, not a failure.
type WriteFilter interface {
	ShouldWrite(ctx context.Context, key string, values map[string]any) bool
}

// PendingWrites is a read-only view of writes currently in flight, keyed
// by session key. The pipeline implements it so after-write hooks reach
// the decoded mapping without re-decoding the payload.
type PendingWrites interface {
	PendingWrite(key string) (map[string]any, bool)
}

// PendingWritesUser is implemented by hooks that want the pipeline's
// pending-write view injected when they are registered.
type PendingWritesUser interface {
	UsePendingWrites(PendingWrites)
}
