package channel

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// SMSConfig holds SNS SMS delivery settings.
type SMSConfig struct {
	SenderID string `env:"SNS_SMS_SENDER_ID" envDefault:"K-Store"`
	SMSType  string `env:"SNS_SMS_TYPE" envDefault:"Transactional"`
}

// snsPublisher is the subset of the SNS client the adapter uses.
type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSAdapter delivers SMS notifications through AWS SNS. The recipient is
// expected to be an E.164 phone number.
type SMSAdapter struct {
	client snsPublisher
	cfg    SMSConfig
	log    *slog.Logger
}

// NewSMSAdapter creates an SMS channel adapter backed by an SNS client.
func NewSMSAdapter(client *sns.Client, cfg SMSConfig, log *slog.Logger) *SMSAdapter {
	return newSMSAdapter(client, cfg, log)
}

func newSMSAdapter(client snsPublisher, cfg SMSConfig, log *slog.Logger) *SMSAdapter {
	return &SMSAdapter{
		client: client,
		cfg:    cfg,
		log:    log.With(logger.Component("sms_adapter")),
	}
}

func (a *SMSAdapter) Name() string { return string(notification.ChannelSMS) }

func (a *SMSAdapter) Supports(ch notification.Channel) bool {
	return ch == notification.ChannelSMS
}

func (a *SMSAdapter) Send(ctx context.Context, n *notification.Notification) bool {
	out, err := a.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.Recipient),
		Message:     aws.String(n.Content),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(a.cfg.SenderID),
			},
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(a.cfg.SMSType),
			},
		},
	})
	if err != nil {
		a.log.ErrorContext(ctx, "failed to send sms notification",
			logger.NotificationID(n.ID),
			logger.Recipient(n.Recipient),
			logger.Error(err),
		)
		return false
	}

	if out.MessageId != nil {
		n.ExternalMessageID = *out.MessageId
	}
	a.log.InfoContext(ctx, "sms notification sent",
		logger.NotificationID(n.ID),
		logger.Recipient(n.Recipient),
		slog.String("message_id", n.ExternalMessageID),
	)
	return true
}
