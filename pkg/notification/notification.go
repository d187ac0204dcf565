package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies what a notification is about.
type Type string

const (
	TypeOrderConfirmation   Type = "ORDER_CONFIRMATION"
	TypeOrderShipped        Type = "ORDER_SHIPPED"
	TypeOrderDelivered      Type = "ORDER_DELIVERED"
	TypeOrderCancelled      Type = "ORDER_CANCELLED"
	TypePaymentSuccessful   Type = "PAYMENT_SUCCESSFUL"
	TypePaymentFailed       Type = "PAYMENT_FAILED"
	TypePasswordReset       Type = "PASSWORD_RESET"
	TypeAccountVerification Type = "ACCOUNT_VERIFICATION"
	TypeWelcome             Type = "WELCOME"
	TypePromotional         Type = "PROMOTIONAL"
	TypeSystemAlert         Type = "SYSTEM_ALERT"
	TypeSystem              Type = "SYSTEM"
	TypeTransactional       Type = "TRANSACTIONAL"
	TypeCustom              Type = "CUSTOM"
)

// Channel identifies the delivery transport for a notification.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
	ChannelWeb   Channel = "WEB"
)

// Status represents the delivery lifecycle state of a notification.
//
// Valid transitions: PENDING -> PROCESSING -> {SENT, FAILED} and
// {PENDING, PROCESSING} -> CANCELLED. SENT and CANCELLED are terminal;
// FAILED is terminal unless the retry sweep requeues it back to PENDING.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSent       Status = "SENT"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether no further delivery work is expected in
// this status without external intervention.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// Priority bounds. Priority 1 is low, 4 is critical.
const (
	PriorityMin     = 1
	PriorityDefault = 1
	PriorityBulk    = 2
	PriorityMax     = 4
)

// MaxAttempts bounds for a single notification.
const (
	AttemptsDefault = 3
	AttemptsLimit   = 10
)

// Notification is one delivery attempt-set for one recipient on one channel.
type Notification struct {
	ID                uuid.UUID         `json:"id"`
	UserID            string            `json:"user_id"`
	Recipient         string            `json:"recipient"` // email address, phone number or device token
	Type              Type              `json:"type"`
	Channel           Channel           `json:"channel"`
	Subject           string            `json:"subject,omitempty"`
	Content           string            `json:"content,omitempty"`
	TemplateName      string            `json:"template_name,omitempty"`
	Parameters        map[string]string `json:"parameters,omitempty"`
	Status            Status            `json:"status"`
	Priority          int               `json:"priority"`
	ScheduledAt       time.Time         `json:"scheduled_at"`
	SentAt            *time.Time        `json:"sent_at,omitempty"`
	DeliveryAttempts  int               `json:"delivery_attempts"`
	MaxAttempts       int               `json:"max_attempts"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	ExternalMessageID string            `json:"external_message_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Retryable reports whether the failed notification still has delivery
// attempts left.
func (n *Notification) Retryable() bool {
	return n.Status == StatusFailed && n.DeliveryAttempts < n.MaxAttempts
}

// Clone returns a deep copy, so stored records can be handed out without
// aliasing the parameters map.
func (n *Notification) Clone() *Notification {
	c := *n
	if n.Parameters != nil {
		c.Parameters = make(map[string]string, len(n.Parameters))
		for k, v := range n.Parameters {
			c.Parameters[k] = v
		}
	}
	if n.SentAt != nil {
		t := *n.SentAt
		c.SentAt = &t
	}
	return &c
}
