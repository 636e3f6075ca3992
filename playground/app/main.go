package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/a-peyrard/ioc"
	"github.com/a-peyrard/ioc/config"
	appconfig "github.com/a-peyrard/ioc/playground/app/config"
	"github.com/a-peyrard/ioc/playground/app/hello"
	"github.com/a-peyrard/ioc/playground/app/registry"
	"github.com/a-peyrard/ioc/runner"
	"github.com/rs/zerolog"
)

func main() {
	settings, err := ioc.LoadSettings()
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}
	logger, err := settings.Logger(os.Stderr)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	opts, err := settings.Options(os.Stderr)
	if err != nil {
		log.Fatalf("Error creating options: %v", err)
	}

	cfg, err := config.Load[appconfig.Config](config.WithEnvPrefix("PG"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading playground config")
	}

	contextConfig := ioc.NewContextConfig(append(opts, ioc.WithRegistry(registry.Registry{}))...).
		MustBindInstance(ioc.TypeOf[zerolog.Logger](), logger).
		MustBindInstance(ioc.TypeOf[*appconfig.Config](), cfg).
		MustBindImplementation(ioc.TypeOf[hello.Greeter](), ioc.Implement[*hello.PoliteGreeter]()).
		MustBindImplementation(ioc.TypeOf[runner.Runnable](), ioc.Implement[*hello.Runner](ioc.WithConstructor(hello.NewRunner)))

	container, err := contextConfig.Finalize()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error finalizing context")
	}
	logger.Info().Msgf("here is what we have in store before running:\n%s", container.Describe())

	ctx, cancel := runner.WithSyscallKillableContext(context.Background())
	defer cancel()

	if err = container.Verify(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Error verifying context")
	}

	runnables, err := runner.Runnables(container)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error resolving runnables")
	}
	if err = runner.RunAll(ctx, runnables...); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Error running app")
	}

	logger.Info().Msg("bye.")
}
