package registry

import "github.com/a-peyrard/ioc"

//go:generate go run github.com/a-peyrard/ioc/cmd/generator
type Registry struct {
	ioc.EmptyRegistry
}
