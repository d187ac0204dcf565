package inbox

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/notification"
)

// Filter narrows inbox listings. Zero value means no filtering.
type Filter struct {
	UnreadOnly bool
	ActiveOnly bool // exclude archived entries
	Type       notification.Type
	Priority   Priority
}

// Store persists inbox entries. All per-entry mutations are scoped by
// (id, userID) so a user can never touch another user's inbox; a scope
// miss reports false, not an error.
type Store interface {
	Insert(ctx context.Context, e *Entry) error

	// Get returns the entry only if it belongs to userID.
	Get(ctx context.Context, id uuid.UUID, userID string) (*Entry, error)

	// List returns the user's entries matching filter, newest first.
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Entry, error)

	// UnreadCount returns the number of unread entries for the user.
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// MarkRead sets the read flag and timestamp. Reports whether a row matched.
	MarkRead(ctx context.Context, id uuid.UUID, userID string, at time.Time) (bool, error)

	// MarkAllRead marks every unread entry of the user and returns the count.
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)

	// Archive sets the archived flag and timestamp. Reports whether a row matched.
	Archive(ctx context.Context, id uuid.UUID, userID string, at time.Time) (bool, error)

	// Delete removes the entry. Reports whether a row matched.
	Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error)

	// DeleteExpired removes entries whose retention window has passed and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
