package channel

import (
	"context"
	"log/slog"

	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// InboxWriter persists a notification into the recipient's web inbox.
type InboxWriter interface {
	SaveToInbox(ctx context.Context, n *notification.Notification) error
}

// WebAdapter delivers WEB notifications by storing them in the user's
// inbox. A web notification counts as delivered once it is persisted; the
// user picks it up on their next inbox read.
type WebAdapter struct {
	inbox InboxWriter
	log   *slog.Logger
}

// NewWebAdapter creates a web channel adapter.
func NewWebAdapter(inbox InboxWriter, log *slog.Logger) *WebAdapter {
	return &WebAdapter{
		inbox: inbox,
		log:   log.With(logger.Component("web_adapter")),
	}
}

func (a *WebAdapter) Name() string { return string(notification.ChannelWeb) }

func (a *WebAdapter) Supports(ch notification.Channel) bool {
	return ch == notification.ChannelWeb
}

func (a *WebAdapter) Send(ctx context.Context, n *notification.Notification) bool {
	if err := a.inbox.SaveToInbox(ctx, n); err != nil {
		a.log.ErrorContext(ctx, "failed to store web notification",
			logger.NotificationID(n.ID),
			logger.UserID(n.UserID),
			logger.Error(err),
		)
		return false
	}

	a.log.InfoContext(ctx, "web notification stored",
		logger.NotificationID(n.ID),
		logger.UserID(n.UserID),
	)
	return true
}
