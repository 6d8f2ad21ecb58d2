package store

import "errors"

var (
	// ErrConnectFailed indicates a connection could not be established.
	// Only Connect returns it; the message names the address and the
	// attempt count, never the credential.
	ErrConnectFailed = errors.New("store.connect_failed")

	// ErrNotFound indicates the key has no live value.
	ErrNotFound = errors.New("store.not_found")

	// ErrUnavailable replaces any transport failure on a data operation.
	// The underlying cause is logged, not returned.
	ErrUnavailable = errors.New("store.unavailable")

	// ErrEmptyKey indicates a data operation was called with an empty key.
	ErrEmptyKey = errors.New("store.empty_key")

	// ErrNoMembers indicates a composite was built without members.
	ErrNoMembers = errors.New("store.no_members")

	// ErrInvalidPattern indicates a ScanKeys glob that does not parse.
	ErrInvalidPattern = errors.New("store.invalid_scan_pattern")

	// ErrInvalidConfig indicates a cluster topology that cannot be built.
	ErrInvalidConfig = errors.New("store.invalid_config")
)
