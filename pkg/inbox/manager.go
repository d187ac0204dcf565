package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// Retention windows per notification type. Order and payment history is
// kept the longest; security notifications expire after a day.
const (
	retentionDefault     = 30 * 24 * time.Hour
	retentionPromotional = 7 * 24 * time.Hour
	retentionSystem      = 3 * 24 * time.Hour
	retentionOrder       = 90 * 24 * time.Hour
	retentionSecurity    = 24 * time.Hour
)

// RetentionFor returns how long an inbox entry of the given type is kept.
func RetentionFor(typ notification.Type) time.Duration {
	switch typ {
	case notification.TypePromotional:
		return retentionPromotional
	case notification.TypeSystemAlert, notification.TypeSystem:
		return retentionSystem
	case notification.TypeOrderConfirmation, notification.TypeOrderShipped,
		notification.TypeOrderDelivered, notification.TypePaymentSuccessful,
		notification.TypePaymentFailed:
		return retentionOrder
	case notification.TypePasswordReset, notification.TypeAccountVerification:
		return retentionSecurity
	default:
		return retentionDefault
	}
}

// Manager is the inbox lifecycle service: it files delivered web
// notifications into user inboxes and handles read/archive/cleanup.
type Manager struct {
	store Store
	log   *slog.Logger
}

// NewManager creates an inbox manager.
func NewManager(store Store, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		log:   log.With(logger.Component("inbox")),
	}
}

// SaveToInbox files a notification into the recipient's inbox, mapping the
// delivery priority to an inbox priority and stamping the retention-based
// expiry.
func (m *Manager) SaveToInbox(ctx context.Context, n *notification.Notification) error {
	entry := &Entry{
		UserID:         n.UserID,
		NotificationID: n.ID,
		Title:          n.Subject,
		Message:        n.Content,
		Type:           n.Type,
		Priority:       PriorityFromLevel(n.Priority),
		ExpiresAt:      time.Now().Add(RetentionFor(n.Type)),
	}

	if err := m.store.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to save notification to inbox: %w", err)
	}

	m.log.InfoContext(ctx, "notification saved to inbox",
		logger.UserID(n.UserID),
		logger.NotificationID(n.ID),
		slog.String("entry_id", entry.ID.String()),
	)
	return nil
}

// Get returns the entry if it belongs to the user.
func (m *Manager) Get(ctx context.Context, id uuid.UUID, userID string) (*Entry, error) {
	return m.store.Get(ctx, id, userID)
}

// List returns the user's entries, newest first.
func (m *Manager) List(ctx context.Context, userID string, limit, offset int) ([]*Entry, error) {
	return m.store.List(ctx, userID, Filter{}, limit, offset)
}

// ListUnread returns the user's unread entries, newest first.
func (m *Manager) ListUnread(ctx context.Context, userID string, limit, offset int) ([]*Entry, error) {
	return m.store.List(ctx, userID, Filter{UnreadOnly: true}, limit, offset)
}

// ListActive returns the user's non-archived entries, newest first.
func (m *Manager) ListActive(ctx context.Context, userID string, limit, offset int) ([]*Entry, error) {
	return m.store.List(ctx, userID, Filter{ActiveOnly: true}, limit, offset)
}

// ListByType returns the user's entries of one notification type.
func (m *Manager) ListByType(ctx context.Context, userID string, typ notification.Type, limit, offset int) ([]*Entry, error) {
	return m.store.List(ctx, userID, Filter{Type: typ}, limit, offset)
}

// ListByPriority returns the user's entries of one inbox priority.
func (m *Manager) ListByPriority(ctx context.Context, userID string, priority Priority, limit, offset int) ([]*Entry, error) {
	return m.store.List(ctx, userID, Filter{Priority: priority}, limit, offset)
}

// UnreadCount returns the number of unread entries for the user.
func (m *Manager) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return m.store.UnreadCount(ctx, userID)
}

// MarkRead marks a single entry as read.
func (m *Manager) MarkRead(ctx context.Context, id uuid.UUID, userID string) error {
	ok, err := m.store.MarkRead(ctx, id, userID, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}

// MarkAllRead marks all of the user's unread entries as read and returns
// how many were updated.
func (m *Manager) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := m.store.MarkAllRead(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}
	m.log.InfoContext(ctx, "marked all inbox entries read",
		logger.UserID(userID),
		slog.Int64("count", count),
	)
	return count, nil
}

// Archive hides an entry from the active inbox without deleting it.
func (m *Manager) Archive(ctx context.Context, id uuid.UUID, userID string) error {
	ok, err := m.store.Archive(ctx, id, userID, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}

// Delete permanently removes an entry from the user's inbox.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	ok, err := m.store.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}

// CleanupExpired removes entries past their retention window and returns
// how many were removed.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	count, err := m.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		m.log.InfoContext(ctx, "cleaned up expired inbox entries", slog.Int64("count", count))
	}
	return count, nil
}
