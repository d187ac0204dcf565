package inbox

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// NewMemoryStore creates a new in-memory inbox store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]*Entry),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	clone := *e
	s.entries[e.ID] = &clone
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID, userID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrEntryNotFound
	}
	clone := *e
	return &clone, nil
}

func (s *MemoryStore) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for _, e := range s.entries {
		if e.UserID != userID || !matches(e, filter) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}

	slices.SortFunc(out, func(a, b *Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset > len(out) {
		return []*Entry{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func matches(e *Entry, f Filter) bool {
	if f.UnreadOnly && e.Read {
		return false
	}
	if f.ActiveOnly && e.Archived {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Priority != "" && e.Priority != f.Priority {
		return false
	}
	return true
}

func (s *MemoryStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, e := range s.entries {
		if e.UserID == userID && !e.Read {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, id uuid.UUID, userID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	if !e.Read {
		e.Read = true
		e.ReadAt = &at
		e.UpdatedAt = at
	}
	return true, nil
}

func (s *MemoryStore) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, e := range s.entries {
		if e.UserID == userID && !e.Read {
			e.Read = true
			e.ReadAt = &at
			e.UpdatedAt = at
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) Archive(ctx context.Context, id uuid.UUID, userID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	if !e.Archived {
		e.Archived = true
		e.ArchivedAt = &at
		e.UpdatedAt = at
	}
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, id)
			count++
		}
	}
	return count, nil
}
