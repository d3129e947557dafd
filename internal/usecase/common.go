package usecase

import "errors"

// Error taxonomy shared across the service. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.
var (
	// ErrNotFound is a normal lookup miss, never logged as an error.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals an identifier collision on create.
	ErrConflict = errors.New("conflict")

	// ErrValidation wraps bad caller input; not retryable as-is.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyPending rejects a second anchoring attempt while a
	// submission for the same asset is still outstanding.
	ErrAlreadyPending = errors.New("chain anchoring already pending")

	// ErrInvalidTransition guards the forward-only chain status machine.
	ErrInvalidTransition = errors.New("invalid chain status transition")
)
