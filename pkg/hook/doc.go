// Package hook extends the session pipeline's read and write paths with
// observer and filter plugins.
//
// Three plugin shapes exist:
//
//   - ReadHook observes reads and may transform the payload or recover a
//     failed read.
//   - WriteHook observes writes and may transform the mapping or escalate
//     the outcome to failure.
//   - WriteFilter vetoes writes; a veto is a policy outcome, not a failure.
//
// Hooks that need storage of their own wrap a connection in a
// ScopedConnection bound to the pipeline's ExecutionContext. The context
// counts nesting depth so a hook that triggers further storage operations
// cannot recurse unbounded; the guard fails open and logs each operation
// that exceeds the ceiling.
//
// Built-ins cover the common cases: EmptySessionFilter suppresses writes
// of empty sessions, ReplicationHook copies each successful write to a
// second connection, and LastAccessHook records per-key access times.
package hook
