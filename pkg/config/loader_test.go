package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstorelabs/notify/pkg/config"
)

type testConfig struct {
	Name  string `env:"TEST_CFG_NAME" envDefault:"notifyd"`
	Count int    `env:"TEST_CFG_COUNT" envDefault:"3"`
}

type overrideConfig struct {
	Value string `env:"TEST_CFG_VALUE" envDefault:"default"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "notifyd", cfg.Name)
		assert.Equal(t, 3, cfg.Count)
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_VALUE", "from-env")

		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Value)
	})

	t.Run("caches per type", func(t *testing.T) {
		var first testConfig
		require.NoError(t, config.Load(&first))

		// Environment changes after the first load are not observed.
		t.Setenv("TEST_CFG_NAME", "changed")

		var second testConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
