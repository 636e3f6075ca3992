package ioc

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-peyrard/ioc/config"
	"github.com/a-peyrard/ioc/option"
	"github.com/rs/zerolog"
)

const SettingsEnvPrefix = "IOC"

type (
	// Settings holds the ambient configuration of a context, loaded from IOC_* variables.
	Settings struct {
		Log    LogSettings
		Verify VerifySettings
	}

	LogSettings struct {
		// Level is a zerolog level name, info by default.
		Level string
		// Format is either console or json.
		Format string
	}

	VerifySettings struct {
		Parallelism int
	}
)

func (s *Settings) ApplyDefault() {
	if s.Log.Level == "" {
		s.Log.Level = zerolog.InfoLevel.String()
	}
	if s.Log.Format == "" {
		s.Log.Format = "console"
	}
}

func LoadSettings(opts ...option.Option[config.Options]) (*Settings, error) {
	return config.Load[Settings](append([]option.Option[config.Options]{config.WithEnvPrefix(SettingsEnvPrefix)}, opts...)...)
}

// Logger builds a logger writing to w.
func (s *Settings) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(s.Log.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %s: %w", s.Log.Level, err)
	}

	switch strings.ToLower(s.Log.Format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %s, console or json expected", s.Log.Format)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// Options returns the context configuration options matching the settings.
func (s *Settings) Options(w io.Writer) ([]option.Option[ConfigOptions], error) {
	logger, err := s.Logger(w)
	if err != nil {
		return nil, err
	}

	opts := []option.Option[ConfigOptions]{WithLogger(logger)}
	if s.Verify.Parallelism > 0 {
		opts = append(opts, WithVerifyParallelism(s.Verify.Parallelism))
	}
	return opts, nil
}
