package inbox_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/inbox"
	"github.com/kstorelabs/notify/pkg/notification"
)

func newManager(t *testing.T) (*inbox.Manager, *inbox.MemoryStore) {
	t.Helper()
	store := inbox.NewMemoryStore()
	return inbox.NewManager(store, slog.New(slog.DiscardHandler)), store
}

func deliverWeb(t *testing.T, m *inbox.Manager, userID string, typ notification.Type, priority int) *inbox.Entry {
	t.Helper()

	n := &notification.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     typ,
		Channel:  notification.ChannelWeb,
		Subject:  "subject",
		Content:  "content",
		Priority: priority,
	}
	require.NoError(t, m.SaveToInbox(context.Background(), n))

	entries, err := m.List(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	for _, e := range entries {
		if e.NotificationID == n.ID {
			return e
		}
	}
	t.Fatalf("entry for notification %s not found", n.ID)
	return nil
}

func TestManager_SaveToInbox(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	entry := deliverWeb(t, m, "u1", notification.TypeOrderConfirmation, 4)

	assert.Equal(t, inbox.PriorityCritical, entry.Priority)
	assert.Equal(t, "subject", entry.Title)
	assert.Equal(t, "content", entry.Message)
	assert.False(t, entry.Read)
	assert.False(t, entry.Archived)

	// Order notifications are retained for 90 days.
	expected := time.Now().Add(90 * 24 * time.Hour)
	assert.WithinDuration(t, expected, entry.ExpiresAt, time.Minute)
}

func TestPriorityFromLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, inbox.PriorityLow, inbox.PriorityFromLevel(1))
	assert.Equal(t, inbox.PriorityMedium, inbox.PriorityFromLevel(2))
	assert.Equal(t, inbox.PriorityHigh, inbox.PriorityFromLevel(3))
	assert.Equal(t, inbox.PriorityCritical, inbox.PriorityFromLevel(4))
	assert.Equal(t, inbox.PriorityMedium, inbox.PriorityFromLevel(0))
	assert.Equal(t, inbox.PriorityMedium, inbox.PriorityFromLevel(9))
}

func TestRetentionFor(t *testing.T) {
	t.Parallel()

	day := 24 * time.Hour
	assert.Equal(t, 7*day, inbox.RetentionFor(notification.TypePromotional))
	assert.Equal(t, 3*day, inbox.RetentionFor(notification.TypeSystemAlert))
	assert.Equal(t, 3*day, inbox.RetentionFor(notification.TypeSystem))
	assert.Equal(t, 90*day, inbox.RetentionFor(notification.TypePaymentFailed))
	assert.Equal(t, day, inbox.RetentionFor(notification.TypePasswordReset))
	assert.Equal(t, 30*day, inbox.RetentionFor(notification.TypeCustom))
}

func TestManager_ReadLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newManager(t)

	entry := deliverWeb(t, m, "u1", notification.TypeWelcome, 1)
	deliverWeb(t, m, "u1", notification.TypeWelcome, 1)

	count, err := m.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, m.MarkRead(ctx, entry.ID, "u1"))

	got, err := m.Get(ctx, entry.ID, "u1")
	require.NoError(t, err)
	assert.True(t, got.Read)
	require.NotNil(t, got.ReadAt)

	count, err = m.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	updated, err := m.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	unread, err := m.ListUnread(ctx, "u1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestManager_UserScoping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newManager(t)

	entry := deliverWeb(t, m, "u1", notification.TypeWelcome, 1)

	// Another user cannot see or mutate u1's entry.
	_, err := m.Get(ctx, entry.ID, "u2")
	assert.ErrorIs(t, err, inbox.ErrEntryNotFound)
	assert.ErrorIs(t, m.MarkRead(ctx, entry.ID, "u2"), inbox.ErrEntryNotFound)
	assert.ErrorIs(t, m.Archive(ctx, entry.ID, "u2"), inbox.ErrEntryNotFound)
	assert.ErrorIs(t, m.Delete(ctx, entry.ID, "u2"), inbox.ErrEntryNotFound)

	// The entry is still intact for its owner.
	got, err := m.Get(ctx, entry.ID, "u1")
	require.NoError(t, err)
	assert.False(t, got.Read)
}

func TestManager_ArchiveAndFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newManager(t)

	order := deliverWeb(t, m, "u1", notification.TypeOrderConfirmation, 3)
	deliverWeb(t, m, "u1", notification.TypePromotional, 1)

	require.NoError(t, m.Archive(ctx, order.ID, "u1"))

	active, err := m.ListActive(ctx, "u1", 0, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, notification.TypePromotional, active[0].Type)

	byType, err := m.ListByType(ctx, "u1", notification.TypeOrderConfirmation, 0, 0)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.True(t, byType[0].Archived)

	byPriority, err := m.ListByPriority(ctx, "u1", inbox.PriorityHigh, 0, 0)
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, order.ID, byPriority[0].ID)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newManager(t)

	entry := deliverWeb(t, m, "u1", notification.TypeWelcome, 1)
	require.NoError(t, m.Delete(ctx, entry.ID, "u1"))

	_, err := m.Get(ctx, entry.ID, "u1")
	assert.ErrorIs(t, err, inbox.ErrEntryNotFound)

	assert.ErrorIs(t, m.Delete(ctx, entry.ID, "u1"), inbox.ErrEntryNotFound)
}

func TestManager_CleanupExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, store := newManager(t)

	expired := &inbox.Entry{
		UserID:    "u1",
		Type:      notification.TypePromotional,
		Priority:  inbox.PriorityLow,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Insert(ctx, expired))

	deliverWeb(t, m, "u1", notification.TypeWelcome, 1)

	count, err := m.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	remaining, err := m.List(ctx, "u1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
