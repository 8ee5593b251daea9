package session

import "errors"

var (
	// ErrHostUnavailable means the host window could not be resolved.
	// The operation performed no mutation.
	ErrHostUnavailable = errors.New("host window unavailable")

	// ErrNotFound means the referenced tab id is absent.
	ErrNotFound = errors.New("tab not found")

	// ErrIndexOutOfBounds means the referenced tab index is absent.
	ErrIndexOutOfBounds = errors.New("tab index out of bounds")
)
