package template

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/notification"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	byName  map[string]*Template
	ordered []string
}

// NewMemoryStore creates a new in-memory template store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]*Template),
	}
}

func (s *MemoryStore) Create(ctx context.Context, t *Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[t.Name]; ok {
		return ErrTemplateExists
	}

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Language == "" {
		t.Language = DefaultLanguage
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	clone := *t
	s.byName[t.Name] = &clone
	s.ordered = append(s.ordered, t.Name)
	return nil
}

func (s *MemoryStore) GetByName(ctx context.Context, name string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byName[name]
	if !ok || !t.Active {
		return nil, ErrTemplateNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *MemoryStore) Find(ctx context.Context, typ notification.Type, channel notification.Channel, language string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if language == "" {
		language = DefaultLanguage
	}
	for _, name := range s.ordered {
		t := s.byName[name]
		if t.Active && t.Type == typ && t.Channel == channel && strings.EqualFold(t.Language, language) {
			clone := *t
			return &clone, nil
		}
	}
	return nil, ErrTemplateNotFound
}

func (s *MemoryStore) List(ctx context.Context) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Template, 0, len(s.byName))
	for _, name := range s.ordered {
		clone := *s.byName[name]
		out = append(out, &clone)
	}
	slices.SortFunc(out, func(a, b *Template) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
