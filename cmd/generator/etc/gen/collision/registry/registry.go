package registry

import "github.com/a-peyrard/ioc"

type Markers struct {
	ioc.EmptyRegistry
}
