package hook

import "errors"

var (
	// ErrReplicationFailed indicates the replica copy of a write did not
	// land. Returned by ReplicationHook.AfterWrite only when the hook is
	// configured to require success.
	ErrReplicationFailed = errors.New("hook.replication_failed")
)
