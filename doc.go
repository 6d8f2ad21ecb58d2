// Package sessionstore persists opaque session payloads in a remote
// key-value store with per-key expiry, behind the fixed lifecycle contract
// a host web runtime drives on every request.
//
// Key Features:
//
//   - Legacy "name|typed-value" session codec covering the full
//     serialize() grammar, opaque objects included, plus a JSON codec
//     behind the same interface
//   - Redis, MongoDB, and in-memory connections with connect retry,
//     cursor-based key scans, and a namespace prefix callers never see
//   - Failover and multi-write composites that satisfy the same
//     connection contract, so the pipeline cannot tell them apart
//   - Ordered read/write hooks and write filters around every operation,
//     with a depth guard so hooks can safely use storage of their own
//
// Basic Usage:
//
//	conn := store.NewRedisConnection(store.DefaultRedisConfig())
//	handler := sessionstore.NewHandler(conn)
//
//	if err := handler.Open(ctx, "", "PHPSESSID"); err != nil {
//		return err
//	}
//	defer handler.Close()
//
//	key, err := handler.GenerateKey(ctx)
//	if err != nil {
//		return err
//	}
//	if err := handler.Write(ctx, key, []byte(`user_id|i:123;`)); err != nil {
//		return err
//	}
//	data := handler.Read(ctx, key) // []byte(`user_id|i:123;`)
//
// Hooks and Filters:
//
// Hooks observe and transform reads and writes; filters veto writes. A
// hook that needs storage of its own goes through a ScopedConnection bound
// to the pipeline's ExecutionContext, so nested storage counts against one
// recursion ceiling:
//
//	exec := hook.NewExecutionContext(3, logger)
//	replica := hook.NewScopedConnection(replicaConn, exec)
//
//	handler := sessionstore.NewHandler(primary,
//		sessionstore.WithWriteFilter(hook.NewEmptySessionFilter(logger)),
//		sessionstore.WithWriteHook(hook.NewReplicationHook(replica, codec.PHP{}, replCfg, logger)),
//		sessionstore.WithExecutionContext(exec),
//		sessionstore.WithLogger(logger),
//	)
//
// Failure Semantics:
//
// The handler follows the host contract rather than raw Go convention: a
// failed or corrupt read degrades to empty data, a filter-cancelled write
// reports success, and transport errors never carry credentials. Only
// write failures and key generation exhaustion surface as errors.
package sessionstore
