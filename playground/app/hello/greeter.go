package hello

import (
	"fmt"

	"github.com/a-peyrard/ioc/playground/app/config"
)

type (
	Greeter interface {
		Greet(name string) string
	}

	PoliteGreeter struct {
		greeting string
		env      string
	}
)

// Configure reads the greeting from the configuration.
//
// @inject
func (g *PoliteGreeter) Configure(cfg *config.Config) {
	g.greeting = cfg.Greeting
	g.env = cfg.Environment
}

func (g *PoliteGreeter) Greet(name string) string {
	return fmt.Sprintf("[%s] %s %s", g.env, g.greeting, name)
}
