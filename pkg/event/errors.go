package event

import "errors"

var (
	// ErrMalformedEvent is returned when an event payload cannot be decoded.
	ErrMalformedEvent = errors.New("malformed event payload")

	// ErrUnknownStream is returned for messages from a stream the consumer
	// has no handler for.
	ErrUnknownStream = errors.New("unknown event stream")
)
