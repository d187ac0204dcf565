package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/async"
	"github.com/kstorelabs/notify/pkg/channel"
	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
	"github.com/kstorelabs/notify/pkg/template"
)

const defaultConcurrency = 16

// Dispatcher orchestrates the delivery lifecycle: it creates notifications,
// claims them for processing, routes them to a channel adapter and records
// the outcome. Delivery failures always land in the FAILED status; the
// dispatcher never lets an adapter error or panic escape.
type Dispatcher struct {
	store     notification.Store
	router    *channel.Router
	templates template.Store
	sem       chan struct{}
	log       *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConcurrency bounds how many deliveries may be in flight at once.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.sem = make(chan struct{}, n)
		}
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(store notification.Store, router *channel.Router, templates template.Store, log *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		router:    router,
		templates: templates,
		sem:       make(chan struct{}, defaultConcurrency),
		log:       log.With(logger.Component("dispatcher")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateParams describes a notification to create. Subject and Content are
// used as-is unless TemplateName is set, in which case the template is
// rendered with Parameters at creation time.
type CreateParams struct {
	UserID       string
	Recipient    string
	Type         notification.Type
	Channel      notification.Channel
	Subject      string
	Content      string
	TemplateName string
	Parameters   map[string]string
	Priority     int
	MaxAttempts  int
	ScheduledAt  time.Time
}

// Create validates the request, renders the template if one is named, and
// persists the notification in PENDING.
func (d *Dispatcher) Create(ctx context.Context, params CreateParams) (*notification.Notification, error) {
	if params.Recipient == "" {
		return nil, fmt.Errorf("%w: recipient is required", ErrInvalidRequest)
	}
	if params.Channel == "" {
		return nil, fmt.Errorf("%w: channel is required", ErrInvalidRequest)
	}

	priority := params.Priority
	if priority == 0 {
		priority = notification.PriorityDefault
	}
	if priority < notification.PriorityMin || priority > notification.PriorityMax {
		return nil, fmt.Errorf("%w: priority must be between %d and %d",
			ErrInvalidRequest, notification.PriorityMin, notification.PriorityMax)
	}

	maxAttempts := params.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = notification.AttemptsDefault
	}
	if maxAttempts < 1 || maxAttempts > notification.AttemptsLimit {
		return nil, fmt.Errorf("%w: max attempts must be between 1 and %d",
			ErrInvalidRequest, notification.AttemptsLimit)
	}

	n := &notification.Notification{
		UserID:      params.UserID,
		Recipient:   params.Recipient,
		Type:        params.Type,
		Channel:     params.Channel,
		Subject:     params.Subject,
		Content:     params.Content,
		Parameters:  params.Parameters,
		Status:      notification.StatusPending,
		Priority:    priority,
		MaxAttempts: maxAttempts,
		ScheduledAt: params.ScheduledAt,
	}
	if n.ScheduledAt.IsZero() {
		n.ScheduledAt = time.Now()
	}

	if params.TemplateName != "" {
		tpl, err := d.templates.GetByName(ctx, params.TemplateName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve template %q: %w", params.TemplateName, err)
		}
		n.TemplateName = tpl.Name
		n.Subject = tpl.RenderSubject(params.Parameters)
		n.Content = tpl.RenderContent(params.Parameters)
	}

	if err := d.store.Create(ctx, n); err != nil {
		return nil, err
	}

	d.log.InfoContext(ctx, "notification created",
		logger.NotificationID(n.ID),
		logger.UserID(n.UserID),
		logger.Channel(string(n.Channel)),
	)
	return n, nil
}

// Dispatch claims the notification and attempts delivery. Claiming is
// atomic: if the notification is no longer PENDING or its attempts are
// exhausted, the call is a no-op returning the current record. Delivery
// failures are recorded in FAILED; Dispatch returns an error only when the
// store itself fails.
func (d *Dispatcher) Dispatch(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	d.sem <- struct{}{}
	defer func() { <-d.sem }()

	n, err := d.store.ClaimPending(ctx, id)
	if err != nil {
		if errors.Is(err, notification.ErrNotClaimable) {
			d.log.WarnContext(ctx, "notification not claimable, skipping",
				logger.NotificationID(id),
				slog.String("status", string(n.Status)),
				logger.Attempts(n.DeliveryAttempts),
			)
			return n, nil
		}
		return nil, err
	}

	ok, deliverErr := d.deliver(ctx, n)

	switch {
	case deliverErr != nil && errors.Is(deliverErr, channel.ErrNoAdapter):
		n.Status = notification.StatusFailed
		n.ErrorMessage = fmt.Sprintf("no channel adapter registered for %s", n.Channel)
	case deliverErr != nil:
		n.Status = notification.StatusFailed
		n.ErrorMessage = deliverErr.Error()
	case !ok:
		n.Status = notification.StatusFailed
		n.ErrorMessage = fmt.Sprintf("failed to send via %s", n.Channel)
	default:
		now := time.Now()
		n.Status = notification.StatusSent
		n.SentAt = &now
		n.ErrorMessage = ""
	}

	if err := d.store.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to record delivery outcome for %s: %w", n.ID, err)
	}

	if n.Status == notification.StatusSent {
		d.log.InfoContext(ctx, "notification sent",
			logger.NotificationID(n.ID),
			logger.Channel(string(n.Channel)),
			logger.Attempts(n.DeliveryAttempts),
		)
	} else {
		d.log.ErrorContext(ctx, "notification delivery failed",
			logger.NotificationID(n.ID),
			logger.Channel(string(n.Channel)),
			logger.Attempts(n.DeliveryAttempts),
			slog.String("reason", n.ErrorMessage),
		)
	}
	return n, nil
}

// deliver routes and sends, converting adapter panics into errors.
func (d *Dispatcher) deliver(ctx context.Context, n *notification.Notification) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("channel adapter panicked: %v", r)
		}
	}()
	return d.router.Deliver(ctx, n)
}

// DispatchAsync runs Dispatch on a new goroutine and returns a future for
// the outcome.
func (d *Dispatcher) DispatchAsync(ctx context.Context, id uuid.UUID) *async.Future[*notification.Notification] {
	return async.Run(ctx, func(ctx context.Context) (*notification.Notification, error) {
		return d.Dispatch(ctx, id)
	})
}

// Cancel moves a PENDING or PROCESSING notification to CANCELLED. Already
// terminal notifications cannot be cancelled.
func (d *Dispatcher) Cancel(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	n, err := d.store.Transition(ctx, id, notification.StatusCancelled,
		notification.StatusPending, notification.StatusProcessing)
	if err != nil {
		if errors.Is(err, notification.ErrInvalidTransition) {
			return n, fmt.Errorf("%w: cannot cancel notification with status %s", ErrInvalidState, n.Status)
		}
		return nil, err
	}

	d.log.InfoContext(ctx, "notification cancelled", logger.NotificationID(id))
	return n, nil
}

// Get returns a notification by ID.
func (d *Dispatcher) Get(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return d.store.Get(ctx, id)
}

// ListByUser returns a user's notifications, newest first.
func (d *Dispatcher) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*notification.Notification, error) {
	return d.store.ListByUser(ctx, userID, limit, offset)
}

// UpdateStatus is the administrative status override. Moving to SENT stamps
// the sent timestamp.
func (d *Dispatcher) UpdateStatus(ctx context.Context, id uuid.UUID, status notification.Status) (*notification.Notification, error) {
	n, err := d.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	n.Status = status
	if status == notification.StatusSent {
		now := time.Now()
		n.SentAt = &now
	}
	if err := d.store.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
