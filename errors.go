package sessionstore

import "errors"

var (
	// ErrKeyGeneration is returned by Handler.GenerateKey when every
	// candidate key collided with an existing session.
	ErrKeyGeneration = errors.New("sessionstore.key_generation_exhausted")

	// ErrHookFailed wraps an error a write hook escalated. The hook's own
	// error stays in the chain, so errors.Is can still identify it.
	ErrHookFailed = errors.New("sessionstore.hook_failed")
)
