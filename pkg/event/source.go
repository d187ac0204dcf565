package event

import "context"

// Message is one raw event pulled from a stream. ID is the transport's
// delivery tag used for acknowledgement.
type Message struct {
	ID      string
	Stream  string
	Payload []byte
}

// Source is a stream transport the consumer reads from. Messages stay
// pending until acknowledged, so an unacked message is redelivered after a
// crash.
type Source interface {
	// Fetch blocks until messages are available or ctx is cancelled.
	Fetch(ctx context.Context) ([]Message, error)

	// Ack marks the message as processed.
	Ack(ctx context.Context, msg Message) error
}
