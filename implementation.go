package ioc

import (
	"reflect"

	"github.com/a-peyrard/ioc/option"
)

type (
	// Implementation describes how a component gets built: its concrete type, and the
	// constructors it declares.
	Implementation struct {
		typ          reflect.Type
		constructors []declaredConstructor
	}

	declaredConstructor struct {
		fn     any
		inject bool
	}
)

// Implement describes the implementation I.
//
// A struct, or pointer to struct, without any declared constructor can be created from its
// zero value. Declaring a constructor removes that implicit one.
func Implement[I any](opts ...option.Option[Implementation]) *Implementation {
	return ImplementType(TypeOf[I](), opts...)
}

func ImplementType(typ reflect.Type, opts ...option.Option[Implementation]) *Implementation {
	return option.Build(&Implementation{typ: typ}, opts...)
}

// WithConstructor declares fn as the inject constructor of the implementation.
//
// fn returns the implementation, and optionally an error. Each of its parameters is
// resolved as a component.
func WithConstructor(fn any) option.Option[Implementation] {
	return func(impl *Implementation) {
		impl.constructors = append(impl.constructors, declaredConstructor{fn: fn, inject: true})
	}
}

// WithPlainConstructor declares a constructor that does not carry the inject marker.
func WithPlainConstructor(fn any) option.Option[Implementation] {
	return func(impl *Implementation) {
		impl.constructors = append(impl.constructors, declaredConstructor{fn: fn})
	}
}

func (impl *Implementation) Type() reflect.Type {
	return impl.typ
}

func (impl *Implementation) String() string {
	return typeName(impl.typ)
}
