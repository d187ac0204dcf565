package event

import (
	"context"
	"sync"
)

// MemorySource is a channel-backed Source for development and testing.
type MemorySource struct {
	ch chan Message

	mu    sync.Mutex
	acked []Message
}

// NewMemorySource creates an in-memory event source.
func NewMemorySource(buffer int) *MemorySource {
	return &MemorySource{ch: make(chan Message, buffer)}
}

// Emit queues a message for the consumer.
func (s *MemorySource) Emit(msg Message) {
	s.ch <- msg
}

func (s *MemorySource) Fetch(ctx context.Context) ([]Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg := <-s.ch:
		return []Message{msg}, nil
	}
}

func (s *MemorySource) Ack(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, msg)
	return nil
}

// Acked returns the messages acknowledged so far.
func (s *MemorySource) Acked() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.acked...)
}
