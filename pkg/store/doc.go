// Package store defines the Connection contract session data lives behind
// and ships its implementations: Redis, MongoDB, an in-memory map, and two
// composites that combine other connections.
//
// Every backend satisfies the same narrow interface, so composites nest
// freely: a Failover of MultiWrites is as valid as a single Redis node.
//
//   - RedisConnection — one string key per session, server-side TTL.
//   - MongoConnection — one document per session in a TTL-indexed collection.
//   - MemoryConnection — process-local map for tests and single-node use.
//   - Failover — ordered chain; later members serve only when earlier ones
//     cannot, and doing so is logged loudly.
//   - MultiWrite — reads from the primary, writes fanned out to every
//     member; the workhorse of live store migrations.
//
// # Error Policy
//
// Data operations never leak transport errors. A missing key is
// ErrNotFound; everything else the backend can throw is logged with the
// operation and key and comes back as the benign ErrUnavailable, keeping
// the calling request alive. Only Connect tells the truth in its error,
// and even then it names the address and attempt count, never the
// credential.
//
// # Usage
//
// Build a connection from configuration:
//
//	conn := store.NewRedisConnection(store.RedisConfig{
//	    ConnectionURL: "redis://localhost:6379/0",
//	    KeyPrefix:     "sess:",
//	}, store.WithLogger(logger))
//
// Or let a YAML topology decide the shape:
//
//	var cfg store.ClusterConfig
//	if err := config.LoadFile("cluster.yaml", &cfg); err != nil { ... }
//	conn, err := store.NewFromClusterConfig(cfg, store.WithLogger(logger))
//
// Connections connect lazily on first use; call Connect eagerly when you
// want configuration failures at startup instead of first request.
package store
