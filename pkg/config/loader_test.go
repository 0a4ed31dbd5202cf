package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbushq/nimbusflags/pkg/config"
)

type serverTestConfig struct {
	Addr       string        `env:"TEST_SERVER_ADDR" envDefault:":8080"`
	SessionTTL time.Duration `env:"TEST_SESSION_TTL" envDefault:"24h"`
}

type requiredTestConfig struct {
	Secret string `env:"TEST_ABSENT_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults and overrides", func(t *testing.T) {
		t.Setenv("TEST_SERVER_ADDR", ":9090")

		var cfg serverTestConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})

	t.Run("cached across calls", func(t *testing.T) {
		var first serverTestConfig
		require.NoError(t, config.Load(&first))

		// Environment changes after the first load are not observed.
		t.Setenv("TEST_SERVER_ADDR", ":7070")
		var second serverTestConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first.Addr, second.Addr)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredTestConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[serverTestConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}
