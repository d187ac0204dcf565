package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/notification"
)

// Stream names the consumer group reads from.
const (
	StreamNotifications     = "notification-events"
	StreamBulkNotifications = "bulk-notification-events"
)

// Well-known event types emitted by upstream services.
const (
	EventUserRegistered         = "USER_REGISTERED"
	EventOrderCreated           = "ORDER_CREATED"
	EventOrderUpdated           = "ORDER_UPDATED"
	EventOrderShipped           = "ORDER_SHIPPED"
	EventOrderDelivered         = "ORDER_DELIVERED"
	EventPaymentProcessed       = "PAYMENT_PROCESSED"
	EventPaymentFailed          = "PAYMENT_FAILED"
	EventPasswordResetRequested = "PASSWORD_RESET_REQUESTED"
	EventStockLow               = "STOCK_LOW"
	EventCustomNotification     = "CUSTOM_NOTIFICATION"
)

// NotificationEvent asks for one notification to one recipient. Subject and
// Content are used directly unless TemplateName is set.
type NotificationEvent struct {
	EventID          string               `json:"event_id"`
	EventType        string               `json:"event_type"`
	Source           string               `json:"source,omitempty"`
	UserID           string               `json:"user_id"`
	Recipient        string               `json:"recipient"`
	NotificationType notification.Type    `json:"notification_type"`
	Channel          notification.Channel `json:"channel"`
	Subject          string               `json:"subject,omitempty"`
	Content          string               `json:"content,omitempty"`
	TemplateName     string               `json:"template_name,omitempty"`
	Parameters       map[string]string    `json:"parameters,omitempty"`
	Priority         int                  `json:"priority,omitempty"`
	ScheduledAt      time.Time            `json:"scheduled_at,omitzero"`
	CreatedAt        time.Time            `json:"created_at,omitzero"`
}

// Normalize fills in the event identity if the producer omitted it.
func (e *NotificationEvent) Normalize() {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
}

// BulkRecipient is one target of a bulk notification event.
type BulkRecipient struct {
	UserID                 string            `json:"user_id"`
	Recipient              string            `json:"recipient"`
	PersonalizedParameters map[string]string `json:"personalized_parameters,omitempty"`
}

// BulkNotificationEvent fans one template out to many recipients.
type BulkNotificationEvent struct {
	EventID          string            `json:"event_id"`
	EventType        string            `json:"event_type"`
	Source           string            `json:"source,omitempty"`
	TemplateName     string            `json:"template_name"`
	GlobalParameters map[string]string `json:"global_parameters,omitempty"`
	Recipients       []BulkRecipient   `json:"recipients"`
	CreatedAt        time.Time         `json:"created_at,omitzero"`
}

// Normalize fills in the event identity if the producer omitted it.
func (e *BulkNotificationEvent) Normalize() {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
}
