package notification

import "errors"

var (
	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrNotClaimable is returned by ClaimPending when the notification is
	// not PENDING or has exhausted its delivery attempts.
	ErrNotClaimable = errors.New("notification cannot be claimed for processing")

	// ErrInvalidTransition is returned by Transition when the current
	// status does not allow the requested change.
	ErrInvalidTransition = errors.New("invalid notification status transition")
)
