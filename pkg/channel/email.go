package channel

import (
	"context"
	"log/slog"

	"github.com/kstorelabs/notify/pkg/email"
	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// EmailAdapter delivers EMAIL notifications through a transactional email
// sender. Notification content is sent as the HTML body.
type EmailAdapter struct {
	sender email.Sender
	log    *slog.Logger
}

// NewEmailAdapter creates an email channel adapter.
func NewEmailAdapter(sender email.Sender, log *slog.Logger) *EmailAdapter {
	return &EmailAdapter{
		sender: sender,
		log:    log.With(logger.Component("email_adapter")),
	}
}

func (a *EmailAdapter) Name() string { return string(notification.ChannelEmail) }

func (a *EmailAdapter) Supports(ch notification.Channel) bool {
	return ch == notification.ChannelEmail
}

func (a *EmailAdapter) Send(ctx context.Context, n *notification.Notification) bool {
	err := a.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   n.Recipient,
		Subject:  n.Subject,
		BodyHTML: n.Content,
		Tag:      string(n.Type),
	})
	if err != nil {
		a.log.ErrorContext(ctx, "failed to send email notification",
			logger.NotificationID(n.ID),
			logger.Recipient(n.Recipient),
			logger.Error(err),
		)
		return false
	}

	a.log.InfoContext(ctx, "email notification sent",
		logger.NotificationID(n.ID),
		logger.Recipient(n.Recipient),
	)
	return true
}
