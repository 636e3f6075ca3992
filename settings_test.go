package ioc

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	t.Run("it should apply defaults", func(t *testing.T) {
		// WHEN
		settings, err := LoadSettings()

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "info", settings.Log.Level)
		assert.Equal(t, "console", settings.Log.Format)
		assert.Zero(t, settings.Verify.Parallelism)
	})

	t.Run("it should read the environment", func(t *testing.T) {
		// GIVEN
		t.Setenv("IOC_LOG_LEVEL", "debug")
		t.Setenv("IOC_LOG_FORMAT", "json")
		t.Setenv("IOC_VERIFY_PARALLELISM", "3")

		// WHEN
		settings, err := LoadSettings()

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "debug", settings.Log.Level)
		assert.Equal(t, "json", settings.Log.Format)
		assert.Equal(t, 3, settings.Verify.Parallelism)
	})
}

func TestSettings_Logger(t *testing.T) {
	t.Run("it should build a json logger at the configured level", func(t *testing.T) {
		// GIVEN
		settings := &Settings{Log: LogSettings{Level: "warn", Format: "json"}}
		var out bytes.Buffer

		// WHEN
		logger, err := settings.Logger(&out)
		require.NoError(t, err)
		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		// THEN
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), `"message":"shown"`)
	})

	t.Run("it should refuse an unknown level", func(t *testing.T) {
		// GIVEN
		settings := &Settings{Log: LogSettings{Level: "loud", Format: "json"}}

		// WHEN
		_, err := settings.Logger(&bytes.Buffer{})

		// THEN
		assert.Error(t, err)
	})

	t.Run("it should refuse an unknown format", func(t *testing.T) {
		// GIVEN
		settings := &Settings{Log: LogSettings{Level: "info", Format: "xml"}}

		// WHEN
		_, err := settings.Logger(&bytes.Buffer{})

		// THEN
		assert.Error(t, err)
	})

	t.Run("it should log bindings through the configured logger", func(t *testing.T) {
		// GIVEN
		settings := &Settings{Log: LogSettings{Level: "debug", Format: "json"}, Verify: VerifySettings{Parallelism: 1}}
		var out bytes.Buffer
		opts, err := settings.Options(&out)
		require.NoError(t, err)
		config := NewContextConfig(opts...)

		// WHEN
		require.NoError(t, Bind[Dependency](config, &dependencyStub{}))

		// THEN
		assert.Contains(t, out.String(), `"component":"ioc.Dependency"`)
		assert.Contains(t, out.String(), `"message":"component bound"`)
	})
}
