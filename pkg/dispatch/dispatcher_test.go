package dispatch_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/channel"
	"github.com/kstorelabs/notify/pkg/dispatch"
	"github.com/kstorelabs/notify/pkg/notification"
	"github.com/kstorelabs/notify/pkg/template"
)

// recordingAdapter delivers on a fixed channel and remembers what it saw.
type recordingAdapter struct {
	mu      sync.Mutex
	channel notification.Channel
	ok      bool
	panics  bool
	sent    []*notification.Notification
}

func (a *recordingAdapter) Name() string { return string(a.channel) }

func (a *recordingAdapter) Supports(ch notification.Channel) bool { return ch == a.channel }

func (a *recordingAdapter) Send(ctx context.Context, n *notification.Notification) bool {
	if a.panics {
		panic("adapter exploded")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, n.Clone())
	return a.ok
}

func (a *recordingAdapter) delivered() []*notification.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*notification.Notification(nil), a.sent...)
}

type fixture struct {
	dispatcher *dispatch.Dispatcher
	store      *notification.MemoryStore
	templates  *template.MemoryStore
	email      *recordingAdapter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	store := notification.NewMemoryStore()
	templates := template.NewMemoryStore()
	email := &recordingAdapter{channel: notification.ChannelEmail, ok: true}
	router := channel.NewRouter(log, email)

	return &fixture{
		dispatcher: dispatch.NewDispatcher(store, router, templates, log),
		store:      store,
		templates:  templates,
		email:      email,
	}
}

func TestDispatcher_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	n, err := f.dispatcher.Create(ctx, dispatch.CreateParams{
		UserID:    "u1",
		Recipient: "u1@example.com",
		Type:      notification.TypeWelcome,
		Channel:   notification.ChannelEmail,
		Subject:   "hi",
		Content:   "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, notification.StatusPending, n.Status)
	assert.Equal(t, notification.PriorityDefault, n.Priority)
	assert.Equal(t, notification.AttemptsDefault, n.MaxAttempts)
	assert.WithinDuration(t, time.Now(), n.ScheduledAt, time.Second)
	assert.Zero(t, n.DeliveryAttempts)
}

func TestDispatcher_CreateValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.dispatcher.Create(ctx, dispatch.CreateParams{
		Channel: notification.ChannelEmail,
	})
	assert.ErrorIs(t, err, dispatch.ErrInvalidRequest)

	_, err = f.dispatcher.Create(ctx, dispatch.CreateParams{
		Recipient: "u1@example.com",
		Channel:   notification.ChannelEmail,
		Priority:  5,
	})
	assert.ErrorIs(t, err, dispatch.ErrInvalidRequest)

	_, err = f.dispatcher.Create(ctx, dispatch.CreateParams{
		Recipient:   "u1@example.com",
		Channel:     notification.ChannelEmail,
		MaxAttempts: 11,
	})
	assert.ErrorIs(t, err, dispatch.ErrInvalidRequest)
}

func TestDispatcher_CreateFromTemplate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.templates.Create(ctx, &template.Template{
		Name:            "WELCOME_EMAIL",
		Type:            notification.TypeWelcome,
		Channel:         notification.ChannelEmail,
		SubjectTemplate: "Welcome, {{firstName}}!",
		ContentTemplate: "Hello {{firstName}} {{lastName}}",
		Active:          true,
	}))

	n, err := f.dispatcher.Create(ctx, dispatch.CreateParams{
		UserID:       "u1",
		Recipient:    "u1@example.com",
		Type:         notification.TypeWelcome,
		Channel:      notification.ChannelEmail,
		TemplateName: "WELCOME_EMAIL",
		Parameters:   map[string]string{"firstName": "Ada"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Welcome, Ada!", n.Subject)
	// Missing parameters stay as placeholders.
	assert.Equal(t, "Hello Ada {{lastName}}", n.Content)
	assert.Equal(t, "WELCOME_EMAIL", n.TemplateName)
}

func TestDispatcher_CreateUnknownTemplate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.dispatcher.Create(context.Background(), dispatch.CreateParams{
		Recipient:    "u1@example.com",
		Channel:      notification.ChannelEmail,
		TemplateName: "MISSING",
	})
	assert.ErrorIs(t, err, template.ErrTemplateNotFound)
}

func createPending(t *testing.T, f *fixture, ch notification.Channel) *notification.Notification {
	t.Helper()

	n, err := f.dispatcher.Create(context.Background(), dispatch.CreateParams{
		UserID:    "u1",
		Recipient: "u1@example.com",
		Type:      notification.TypeWelcome,
		Channel:   ch,
		Subject:   "hi",
		Content:   "hello",
	})
	require.NoError(t, err)
	return n
}

func TestDispatcher_DispatchSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	n := createPending(t, f, notification.ChannelEmail)

	sent, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)

	assert.Equal(t, notification.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, 1, sent.DeliveryAttempts)
	assert.Empty(t, sent.ErrorMessage)
	assert.Len(t, f.email.delivered(), 1)
}

func TestDispatcher_DispatchSendFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.email.ok = false
	n := createPending(t, f, notification.ChannelEmail)

	failed, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)

	assert.Equal(t, notification.StatusFailed, failed.Status)
	assert.Equal(t, "failed to send via EMAIL", failed.ErrorMessage)
	assert.Nil(t, failed.SentAt)
	assert.Equal(t, 1, failed.DeliveryAttempts)
}

func TestDispatcher_DispatchNoAdapter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	n := createPending(t, f, notification.ChannelSMS)

	failed, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)

	assert.Equal(t, notification.StatusFailed, failed.Status)
	assert.Equal(t, "no channel adapter registered for SMS", failed.ErrorMessage)
}

func TestDispatcher_DispatchAdapterPanic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.email.panics = true
	n := createPending(t, f, notification.ChannelEmail)

	failed, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)

	assert.Equal(t, notification.StatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMessage, "adapter exploded")
}

func TestDispatcher_DispatchNotPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	n := createPending(t, f, notification.ChannelEmail)

	first, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)
	require.Equal(t, notification.StatusSent, first.Status)

	// Re-dispatching a SENT notification is a no-op.
	second, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, second.Status)
	assert.Equal(t, 1, second.DeliveryAttempts)
	assert.Len(t, f.email.delivered(), 1)
}

func TestDispatcher_DispatchUnknown(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.dispatcher.Dispatch(context.Background(), uuid.New())
	assert.ErrorIs(t, err, notification.ErrNotFound)
}

func TestDispatcher_DispatchAsync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	n := createPending(t, f, notification.ChannelEmail)

	sent, err := f.dispatcher.DispatchAsync(ctx, n.ID).Await()
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, sent.Status)
}

func TestDispatcher_Cancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	n := createPending(t, f, notification.ChannelEmail)

	cancelled, err := f.dispatcher.Cancel(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusCancelled, cancelled.Status)

	// A cancelled notification cannot be dispatched.
	after, err := f.dispatcher.Dispatch(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusCancelled, after.Status)
	assert.Empty(t, f.email.delivered())

	// Terminal statuses cannot be cancelled.
	_, err = f.dispatcher.Cancel(ctx, n.ID)
	assert.ErrorIs(t, err, dispatch.ErrInvalidState)
}

func TestDispatcher_UpdateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	n := createPending(t, f, notification.ChannelEmail)

	updated, err := f.dispatcher.UpdateStatus(ctx, n.ID, notification.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, updated.Status)
	assert.NotNil(t, updated.SentAt)
}
