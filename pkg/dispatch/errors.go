package dispatch

import "errors"

var (
	// ErrInvalidRequest is returned when a create request fails validation.
	ErrInvalidRequest = errors.New("invalid notification request")

	// ErrInvalidState is returned when an operation is not allowed in the
	// notification's current status.
	ErrInvalidState = errors.New("invalid notification state")
)
