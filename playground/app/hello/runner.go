package hello

import (
	"context"
	"time"

	"github.com/a-peyrard/ioc/playground/app/config"
	"github.com/rs/zerolog"
)

type (
	// Ticker paces a runner.
	Ticker struct {
		Interval time.Duration
	}

	// Runner greets the world, then sleeps until the configured duration is over.
	Runner struct {
		Ticker
		Greeter Greeter `inject:""`

		logger zerolog.Logger
	}
)

// Init sets the interval from the configuration.
//
// @inject
func (t *Ticker) Init(cfg *config.Config) {
	t.Interval = cfg.Sleep
}

func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger.With().Str("component", "hello.runner").Logger()}
}

func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info().Msg(r.Greeter.Greet("world"))
	r.logger.Info().Msgf("sleeping for %s", r.Interval)

	deadline := time.After(r.Interval)
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("context cancelled, exiting early")
			return ctx.Err()
		case <-tick.C:
			r.logger.Debug().Msg(".")
		case <-deadline:
			r.logger.Info().Msg("done sleeping, exiting now")
			return nil
		}
	}
}
