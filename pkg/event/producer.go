package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Producer publishes notification events to the Redis streams the consumer
// group reads. Upstream services embed this to request deliveries.
type Producer struct {
	client redis.UniversalClient
}

// NewProducer creates an event producer.
func NewProducer(client redis.UniversalClient) *Producer {
	return &Producer{client: client}
}

// Publish emits a single-notification event.
func (p *Producer) Publish(ctx context.Context, evt *NotificationEvent) error {
	evt.Normalize()
	return p.add(ctx, StreamNotifications, evt)
}

// PublishBulk emits a bulk-notification event.
func (p *Producer) PublishBulk(ctx context.Context, evt *BulkNotificationEvent) error {
	evt.Normalize()
	return p.add(ctx, StreamBulkNotifications, evt)
}

func (p *Producer) add(ctx context.Context, stream string, evt any) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", stream, err)
	}
	return nil
}
