package template

import (
	"context"

	"github.com/kstorelabs/notify/pkg/notification"
)

// Store handles template persistence and lookup.
type Store interface {
	// Create stores a new template. Names are unique.
	Create(ctx context.Context, t *Template) error

	// GetByName returns the active template with the given name.
	GetByName(ctx context.Context, name string) (*Template, error)

	// Find returns the active template for a (type, channel, language)
	// triple.
	Find(ctx context.Context, typ notification.Type, channel notification.Channel, language string) (*Template, error)

	// List returns all templates.
	List(ctx context.Context) ([]*Template, error)
}
