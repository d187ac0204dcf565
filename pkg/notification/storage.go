package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store handles notification persistence. Implementations must apply every
// status transition as a single atomic read-modify-write so two concurrent
// dispatch attempts on the same id cannot both claim it.
type Store interface {
	// Create stores a new notification.
	Create(ctx context.Context, n *Notification) error

	// Get retrieves a single notification by id.
	Get(ctx context.Context, id uuid.UUID) (*Notification, error)

	// Update persists the mutable delivery fields (status, attempts,
	// sent_at, error_message, external_message_id).
	Update(ctx context.Context, n *Notification) error

	// ClaimPending atomically moves a PENDING notification with remaining
	// attempts to PROCESSING, incrementing its delivery attempt counter.
	// If the notification exists but cannot be claimed, the current record
	// is returned together with ErrNotClaimable.
	ClaimPending(ctx context.Context, id uuid.UUID) (*Notification, error)

	// Transition atomically changes status to the given state if the
	// current status is one of from. Returns the updated record, or the
	// current record together with ErrInvalidTransition.
	Transition(ctx context.Context, id uuid.UUID, to Status, from ...Status) (*Notification, error)

	// ListDue returns PENDING notifications with scheduledAt <= now,
	// ordered by priority descending then scheduledAt ascending.
	ListDue(ctx context.Context, now time.Time) ([]*Notification, error)

	// ListRetryable returns FAILED notifications with remaining attempts,
	// ordered by priority descending.
	ListRetryable(ctx context.Context) ([]*Notification, error)

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
}
