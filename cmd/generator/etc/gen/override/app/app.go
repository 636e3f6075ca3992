package app

import "github.com/test/override/base"

type App struct {
	base.Base
}

// Install replaces the base installation, without injection.
func (a *App) Install() {}

// @inject
func (a *App) Start() {}

func (a *App) Stop() {}
