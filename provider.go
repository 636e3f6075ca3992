package ioc

import (
	"fmt"
	"reflect"
)

type (
	// ComponentProvider produces instances of one component.
	ComponentProvider interface {
		// Get returns an instance, resolving what it needs through resolver.
		Get(resolver Resolver) (reflect.Value, error)
		// Dependencies lists the component types Get will ask the resolver for.
		Dependencies() []reflect.Type
	}

	// Resolver gives access to components by type.
	//
	// A component without binding is reported as not found, with no error.
	Resolver interface {
		Resolve(typ reflect.Type) (value reflect.Value, found bool, err error)
	}

	// InstanceProvider always returns the same pre-built instance.
	InstanceProvider struct {
		instance reflect.Value
	}
)

func NewInstanceProvider(instance reflect.Value) *InstanceProvider {
	return &InstanceProvider{instance: instance}
}

func (p *InstanceProvider) Get(Resolver) (reflect.Value, error) {
	return p.instance, nil
}

func (p *InstanceProvider) Dependencies() []reflect.Type {
	return []reflect.Type{}
}

func (p *InstanceProvider) String() string {
	if !p.instance.IsValid() {
		return "InstanceProvider(<invalid>)"
	}
	return fmt.Sprintf("InstanceProvider(%s)", p.instance.Type())
}
