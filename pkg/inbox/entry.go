package inbox

import (
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/notification"
)

// Priority buckets inbox entries for display. It is coarser than the
// numeric delivery priority on notifications.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// PriorityFromLevel maps the numeric delivery priority (1..4) to an inbox
// priority. Anything out of range maps to MEDIUM.
func PriorityFromLevel(level int) Priority {
	switch level {
	case 1:
		return PriorityLow
	case 2:
		return PriorityMedium
	case 3:
		return PriorityHigh
	case 4:
		return PriorityCritical
	default:
		return PriorityMedium
	}
}

// Entry is one notification in a user's web inbox.
type Entry struct {
	ID             uuid.UUID         `bson:"_id" json:"id"`
	UserID         string            `bson:"user_id" json:"user_id"`
	NotificationID uuid.UUID         `bson:"notification_id" json:"notification_id"`
	Title          string            `bson:"title" json:"title"`
	Message        string            `bson:"message" json:"message"`
	Type           notification.Type `bson:"type" json:"type"`
	Priority       Priority          `bson:"priority" json:"priority"`
	Read           bool              `bson:"read" json:"read"`
	Archived       bool              `bson:"archived" json:"archived"`
	ReadAt         *time.Time        `bson:"read_at,omitempty" json:"read_at,omitempty"`
	ArchivedAt     *time.Time        `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	ExpiresAt      time.Time         `bson:"expires_at" json:"expires_at"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the entry is past its retention window.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && e.ExpiresAt.Before(now)
}
