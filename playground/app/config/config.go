package config

import "time"

// Config contains the playground configuration, read from PG_* variables.
type Config struct {
	Environment string
	Greeting    string
	Sleep       time.Duration
}

func (c *Config) ApplyDefault() {
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.Greeting == "" {
		c.Greeting = "Hello"
	}
	if c.Sleep == 0 {
		c.Sleep = 2 * time.Second
	}
}
