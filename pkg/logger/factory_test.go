package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithService("notifyd"))
		log.InfoContext(context.Background(), "hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "notifyd", record["service"])
	})

	t.Run("text format for development", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("notifyd"), logger.WithOutput(&buf))
		log.Debug("debugging")

		assert.True(t, strings.Contains(buf.String(), "msg=debugging"))
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")

		assert.Empty(t, buf.String())
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.UserID(nil))
	assert.Equal(t, "notification_id", logger.NotificationID("abc").Key)
	assert.Equal(t, "channel", logger.Channel("EMAIL").Key)
}
