package ioc

import (
	"fmt"
	"reflect"
)

// Bind binds the component T to an instance.
func Bind[T any](config *ContextConfig, instance T) error {
	return config.BindInstance(TypeOf[T](), any(instance))
}

// BindTo binds the component T to an implementation.
func BindTo[T any](config *ContextConfig, impl *Implementation) error {
	return config.BindImplementation(TypeOf[T](), impl)
}

// TryResolve resolves the component T, found is false if T is not bound.
func TryResolve[T any](resolver Resolver) (value T, found bool, err error) {
	val, found, err := resolver.Resolve(TypeOf[T]())
	if err != nil || !found {
		return value, found, err
	}
	value, err = unReflect[T](val)
	return value, true, err
}

// Resolve resolves the component T, failing with ErrNotBound if T is not bound.
func Resolve[T any](resolver Resolver) (T, error) {
	value, found, err := TryResolve[T](resolver)
	if err != nil {
		return value, err
	}
	if !found {
		return value, fmt.Errorf("%w: %s", ErrNotBound, TypeOf[T]())
	}
	return value, nil
}

// MustResolve is Resolve panicking on error.
func MustResolve[T any](resolver Resolver) T {
	value, err := Resolve[T](resolver)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s:\n\t%v", TypeOf[T](), err))
	}
	return value
}

func unReflect[T any](val reflect.Value) (T, error) {
	var zero T
	if !val.IsValid() {
		return zero, nil
	}
	raw := val.Interface()
	if raw == nil {
		return zero, nil
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("resolved value of type %T is not a %s", raw, TypeOf[T]())
	}
	return typed, nil
}
