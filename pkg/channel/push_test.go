package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/notification"
)

func staticToken(token string) TokenSource {
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}

func TestPushAdapter_Send(t *testing.T) {
	t.Parallel()

	var received fcmMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/kstore/messages:send", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(fcmResponse{Name: "projects/kstore/messages/42"})
	}))
	defer srv.Close()

	adapter := NewPushAdapter(
		PushConfig{ProjectID: "kstore", Endpoint: srv.URL},
		staticToken("tok"),
		slog.New(slog.DiscardHandler),
	)

	n := &notification.Notification{
		Recipient:  "device-token",
		Channel:    notification.ChannelPush,
		Subject:    "Order Update",
		Content:    "Your order #1042 shipped",
		Parameters: map[string]string{"orderNumber": "1042"},
	}
	require.True(t, adapter.Send(context.Background(), n))
	assert.Equal(t, "projects/kstore/messages/42", n.ExternalMessageID)

	assert.Equal(t, "device-token", received.Message.Token)
	assert.Equal(t, "Order Update", received.Message.Notification.Title)
	assert.Equal(t, "Your order #1042 shipped", received.Message.Notification.Body)
	assert.Equal(t, "1042", received.Message.Data["orderNumber"])
}

func TestPushAdapter_SendRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"UNREGISTERED"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	adapter := NewPushAdapter(
		PushConfig{ProjectID: "kstore", Endpoint: srv.URL},
		staticToken("tok"),
		slog.New(slog.DiscardHandler),
	)

	n := &notification.Notification{Recipient: "stale-token", Channel: notification.ChannelPush}
	assert.False(t, adapter.Send(context.Background(), n))
	assert.Empty(t, n.ExternalMessageID)
}
