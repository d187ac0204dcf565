package channel_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/channel"
	"github.com/kstorelabs/notify/pkg/notification"
)

type fakeInbox struct {
	saved []*notification.Notification
	err   error
}

func (f *fakeInbox) SaveToInbox(ctx context.Context, n *notification.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, n)
	return nil
}

func TestWebAdapter_Send(t *testing.T) {
	t.Parallel()

	inbox := &fakeInbox{}
	adapter := channel.NewWebAdapter(inbox, slog.New(slog.DiscardHandler))

	n := &notification.Notification{
		UserID:  "u1",
		Channel: notification.ChannelWeb,
		Subject: "hello",
	}
	require.True(t, adapter.Send(context.Background(), n))
	require.Len(t, inbox.saved, 1)
	assert.Equal(t, "u1", inbox.saved[0].UserID)
}

func TestWebAdapter_SendFailure(t *testing.T) {
	t.Parallel()

	inbox := &fakeInbox{err: errors.New("mongo down")}
	adapter := channel.NewWebAdapter(inbox, slog.New(slog.DiscardHandler))

	n := &notification.Notification{UserID: "u1", Channel: notification.ChannelWeb}
	assert.False(t, adapter.Send(context.Background(), n))
}
