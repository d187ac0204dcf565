package channel_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/channel"
	"github.com/kstorelabs/notify/pkg/notification"
)

type stubAdapter struct {
	name     string
	channels []notification.Channel
	ok       bool
	sent     int
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Supports(ch notification.Channel) bool {
	for _, c := range s.channels {
		if c == ch {
			return true
		}
	}
	return false
}

func (s *stubAdapter) Send(ctx context.Context, n *notification.Notification) bool {
	s.sent++
	return s.ok
}

func TestRouter_Route(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	email := &stubAdapter{name: "EMAIL", channels: []notification.Channel{notification.ChannelEmail}, ok: true}
	sms := &stubAdapter{name: "SMS", channels: []notification.Channel{notification.ChannelSMS}, ok: true}

	router := channel.NewRouter(log, email, sms)

	a, err := router.Route(notification.ChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, "SMS", a.Name())

	_, err = router.Route(notification.ChannelPush)
	assert.ErrorIs(t, err, channel.ErrNoAdapter)
}

func TestRouter_FirstMatchWins(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	first := &stubAdapter{name: "first", channels: []notification.Channel{notification.ChannelEmail}, ok: true}
	second := &stubAdapter{name: "second", channels: []notification.Channel{notification.ChannelEmail}, ok: true}

	router := channel.NewRouter(log, first, second)

	a, err := router.Route(notification.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, "first", a.Name())
}

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	router := channel.NewRouter(log)

	_, err := router.Route(notification.ChannelWeb)
	require.ErrorIs(t, err, channel.ErrNoAdapter)

	web := &stubAdapter{name: "WEB", channels: []notification.Channel{notification.ChannelWeb}, ok: true}
	router.Register(web)

	a, err := router.Route(notification.ChannelWeb)
	require.NoError(t, err)
	assert.Equal(t, "WEB", a.Name())
}

func TestRouter_Deliver(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	email := &stubAdapter{name: "EMAIL", channels: []notification.Channel{notification.ChannelEmail}, ok: false}
	router := channel.NewRouter(log, email)

	ok, err := router.Deliver(context.Background(), &notification.Notification{
		Channel: notification.ChannelEmail,
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, email.sent)

	ok, err = router.Deliver(context.Background(), &notification.Notification{
		Channel: notification.ChannelPush,
	})
	assert.ErrorIs(t, err, channel.ErrNoAdapter)
	assert.False(t, ok)
}
