package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/async"
	"github.com/kstorelabs/notify/pkg/dispatch"
	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// DispatchService is the part of the dispatch orchestrator the consumer
// feeds.
type DispatchService interface {
	Create(ctx context.Context, params dispatch.CreateParams) (*notification.Notification, error)
	DispatchAsync(ctx context.Context, id uuid.UUID) *async.Future[*notification.Notification]
	SendBulk(ctx context.Context, req dispatch.BulkRequest) ([]dispatch.BulkResult, error)
}

// Consumer turns inbound events into persisted notifications. A message is
// acknowledged only after the notification record has been stored, so a
// crash between fetch and persist redelivers the event instead of losing
// it. Delivery itself happens asynchronously after the ack.
type Consumer struct {
	source     Source
	dispatcher DispatchService
	log        *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates an event consumer.
func NewConsumer(source Source, dispatcher DispatchService, log *slog.Logger) *Consumer {
	return &Consumer{
		source:     source,
		dispatcher: dispatcher,
		log:        log.With(logger.Component("event_consumer")),
	}
}

// Start launches the consume loop in the background.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return errors.New("consumer already started")
	}
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.loop(ctx)

	c.log.Info("event consumer started")
	return nil
}

// Stop cancels the loop and waits for the in-flight batch to finish.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return errors.New("consumer not started")
	}
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	c.wg.Wait()

	c.log.Info("event consumer stopped")
	return nil
}

// Run starts the consumer and blocks until ctx is cancelled. Suitable for
// errgroup-style supervision.
func (c *Consumer) Run(ctx context.Context) func() error {
	return func() error {
		if err := c.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return c.Stop()
	}
}

func (c *Consumer) loop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msgs, err := c.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.ErrorContext(ctx, "failed to fetch events", logger.Error(err))
			continue
		}

		for _, msg := range msgs {
			if ctx.Err() != nil {
				return
			}
			c.Process(ctx, msg)
		}
	}
}

// Process handles one message: decode, persist, ack, then dispatch. Failed
// messages are left unacked for redelivery, except malformed payloads,
// which are acked and dropped since they can never succeed.
func (c *Consumer) Process(ctx context.Context, msg Message) {
	var err error
	switch msg.Stream {
	case StreamNotifications:
		err = c.processNotification(ctx, msg)
	case StreamBulkNotifications:
		err = c.processBulk(ctx, msg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownStream, msg.Stream)
	}

	if err != nil && !errors.Is(err, ErrMalformedEvent) {
		c.log.ErrorContext(ctx, "failed to process event, leaving unacked",
			slog.String("stream", msg.Stream),
			slog.String("message_id", msg.ID),
			logger.Error(err),
		)
		return
	}
	if err != nil {
		c.log.WarnContext(ctx, "dropping malformed event",
			slog.String("stream", msg.Stream),
			slog.String("message_id", msg.ID),
			logger.Error(err),
		)
	}

	if ackErr := c.source.Ack(ctx, msg); ackErr != nil {
		c.log.ErrorContext(ctx, "failed to ack event",
			slog.String("stream", msg.Stream),
			slog.String("message_id", msg.ID),
			logger.Error(ackErr),
		)
	}
}

func (c *Consumer) processNotification(ctx context.Context, msg Message) error {
	var evt NotificationEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	evt.Normalize()

	n, err := c.dispatcher.Create(ctx, dispatch.CreateParams{
		UserID:       evt.UserID,
		Recipient:    evt.Recipient,
		Type:         evt.NotificationType,
		Channel:      evt.Channel,
		Subject:      evt.Subject,
		Content:      evt.Content,
		TemplateName: evt.TemplateName,
		Parameters:   evt.Parameters,
		Priority:     evt.Priority,
		ScheduledAt:  evt.ScheduledAt,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrInvalidRequest) {
			return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return err
	}

	c.log.InfoContext(ctx, "notification event processed",
		logger.EventID(evt.EventID),
		logger.EventType(evt.EventType),
		logger.NotificationID(n.ID),
	)

	// The record is durable; delivery proceeds in the background.
	c.dispatcher.DispatchAsync(context.WithoutCancel(ctx), n.ID)
	return nil
}

func (c *Consumer) processBulk(ctx context.Context, msg Message) error {
	var evt BulkNotificationEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	evt.Normalize()

	recipients := make([]dispatch.BulkRecipient, len(evt.Recipients))
	for i, r := range evt.Recipients {
		recipients[i] = dispatch.BulkRecipient{
			UserID:                 r.UserID,
			Recipient:              r.Recipient,
			PersonalizedParameters: r.PersonalizedParameters,
		}
	}

	results, err := c.dispatcher.SendBulk(ctx, dispatch.BulkRequest{
		TemplateName:     evt.TemplateName,
		GlobalParameters: evt.GlobalParameters,
		Recipients:       recipients,
	})
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	c.log.InfoContext(ctx, "bulk notification event processed",
		logger.EventID(evt.EventID),
		slog.Int("recipients", len(results)),
		slog.Int("failed", failed),
	)
	return nil
}
