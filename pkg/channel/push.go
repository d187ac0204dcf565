package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kstorelabs/notify/pkg/logger"
	"github.com/kstorelabs/notify/pkg/notification"
)

// PushConfig holds Firebase Cloud Messaging settings for the HTTP v1 API.
type PushConfig struct {
	ProjectID string `env:"FCM_PROJECT_ID"`
	Endpoint  string `env:"FCM_ENDPOINT" envDefault:"https://fcm.googleapis.com"`
}

// TokenSource returns a bearer token for the FCM API. Implementations
// typically wrap a service-account credential that refreshes itself.
type TokenSource func(ctx context.Context) (string, error)

// PushAdapter delivers PUSH notifications through FCM. The recipient is the
// device registration token.
type PushAdapter struct {
	cfg    PushConfig
	token  TokenSource
	client *http.Client
	log    *slog.Logger
}

// NewPushAdapter creates a push channel adapter.
func NewPushAdapter(cfg PushConfig, token TokenSource, log *slog.Logger) *PushAdapter {
	return &PushAdapter{
		cfg:    cfg,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With(logger.Component("push_adapter")),
	}
}

func (a *PushAdapter) Name() string { return string(notification.ChannelPush) }

func (a *PushAdapter) Supports(ch notification.Channel) bool {
	return ch == notification.ChannelPush
}

type fcmMessage struct {
	Message struct {
		Token        string            `json:"token"`
		Notification fcmNotification   `json:"notification"`
		Data         map[string]string `json:"data,omitempty"`
	} `json:"message"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Name string `json:"name"`
}

func (a *PushAdapter) Send(ctx context.Context, n *notification.Notification) bool {
	name, err := a.send(ctx, n)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to send push notification",
			logger.NotificationID(n.ID),
			logger.Recipient(n.Recipient),
			logger.Error(err),
		)
		return false
	}

	n.ExternalMessageID = name
	a.log.InfoContext(ctx, "push notification sent",
		logger.NotificationID(n.ID),
		logger.Recipient(n.Recipient),
		slog.String("message_name", name),
	)
	return true
}

func (a *PushAdapter) send(ctx context.Context, n *notification.Notification) (string, error) {
	var msg fcmMessage
	msg.Message.Token = n.Recipient
	msg.Message.Notification = fcmNotification{Title: n.Subject, Body: n.Content}
	msg.Message.Data = n.Parameters

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode fcm message: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", a.cfg.Endpoint, a.cfg.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := a.token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain fcm token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fcm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("fcm responded %d: %s", resp.StatusCode, data)
	}

	var out fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode fcm response: %w", err)
	}
	return out.Name, nil
}
