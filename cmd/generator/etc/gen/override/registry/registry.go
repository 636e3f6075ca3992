package registry

import "github.com/a-peyrard/ioc"

type Registry struct {
	ioc.EmptyRegistry
}
