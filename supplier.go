package ioc

import (
	"fmt"
	"reflect"
)

// SupplierProvider calls a function on each Get. The function can resolve other components
// through the resolver it receives, those are not listed as dependencies.
type SupplierProvider struct {
	component reflect.Type
	supply    func(Resolver) (reflect.Value, error)
}

func (p *SupplierProvider) Get(resolver Resolver) (reflect.Value, error) {
	value, err := p.supply(resolver)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("supplier of component %s failed:\n\t%w", typeName(p.component), err)
	}
	return value, nil
}

func (p *SupplierProvider) Dependencies() []reflect.Type {
	return []reflect.Type{}
}

func (p *SupplierProvider) String() string {
	return fmt.Sprintf("SupplierProvider(%s)", typeName(p.component))
}

// BindSupplier binds the component T to a function building it on each resolution.
func BindSupplier[T any](config *ContextConfig, supplier func(Resolver) (T, error)) error {
	if supplier == nil {
		return &IllegalComponentError{Implementation: TypeOf[T](), Reason: "supplier is nil"}
	}

	typ := TypeOf[T]()
	return config.BindProvider(typ, &SupplierProvider{
		component: typ,
		supply: func(resolver Resolver) (reflect.Value, error) {
			value, err := supplier(resolver)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&value).Elem(), nil
		},
	})
}

// ToSupplier returns a supplier always giving value.
func ToSupplier[T any](value T) func(Resolver) (T, error) {
	return func(Resolver) (T, error) {
		return value, nil
	}
}
