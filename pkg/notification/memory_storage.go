package notification

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing. All transitions happen under a
// single mutex, which gives the atomic read-modify-write the Store
// contract requires.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Notification
}

// NewMemoryStore creates a new in-memory notification store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*Notification),
	}
}

func (s *MemoryStore) Create(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	s.records[n.ID] = n.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[n.ID]; !ok {
		return ErrNotFound
	}
	n.UpdatedAt = time.Now()
	s.records[n.ID] = n.Clone()
	return nil
}

func (s *MemoryStore) ClaimPending(ctx context.Context, id uuid.UUID) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if n.Status != StatusPending || n.DeliveryAttempts >= n.MaxAttempts {
		return n.Clone(), ErrNotClaimable
	}

	n.Status = StatusProcessing
	n.DeliveryAttempts++
	n.UpdatedAt = time.Now()
	return n.Clone(), nil
}

func (s *MemoryStore) Transition(ctx context.Context, id uuid.UUID, to Status, from ...Status) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !slices.Contains(from, n.Status) {
		return n.Clone(), ErrInvalidTransition
	}

	n.Status = to
	n.UpdatedAt = time.Now()
	return n.Clone(), nil
}

func (s *MemoryStore) ListDue(ctx context.Context, now time.Time) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []*Notification
	for _, n := range s.records {
		if n.Status == StatusPending && !n.ScheduledAt.After(now) {
			due = append(due, n.Clone())
		}
	}

	// Priority-first ordering; earlier scheduledAt breaks ties.
	slices.SortFunc(due, func(a, b *Notification) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})

	return due, nil
}

func (s *MemoryStore) ListRetryable(ctx context.Context) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var retryable []*Notification
	for _, n := range s.records {
		if n.Retryable() {
			retryable = append(retryable, n.Clone())
		}
	}

	slices.SortFunc(retryable, func(a, b *Notification) int {
		return b.Priority - a.Priority
	})

	return retryable, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Notification
	for _, n := range s.records {
		if n.UserID == userID {
			out = append(out, n.Clone())
		}
	}

	slices.SortFunc(out, func(a, b *Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset > len(out) {
		return []*Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
