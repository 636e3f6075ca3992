package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/a-peyrard/ioc/slices"
	"github.com/rs/zerolog"
)

// ConstructorInjectProvider builds a new instance on each Get: it calls the selected
// constructor, sets the inject fields, then calls the inject methods.
type ConstructorInjectProvider struct {
	component      reflect.Type
	implementation reflect.Type
	introspector   Introspector
	logger         zerolog.Logger

	constructor  Constructor
	fields       []Field
	methods      []Method
	dependencies []reflect.Type
}

// NewConstructorInjectProvider selects the injection points of impl.
//
// The constructor is the one carrying the inject marker, or else the zero-argument one.
// Fields are the tagged ones of every level. Methods are the marked ones of every level,
// except those declared again by an embedding level.
func NewConstructorInjectProvider(
	component reflect.Type,
	impl *Implementation,
	introspector Introspector,
	logger zerolog.Logger,
) (*ConstructorInjectProvider, error) {
	desc, err := introspector.Describe(impl)
	if err != nil {
		return nil, err
	}

	constructor, err := selectConstructor(desc)
	if err != nil {
		return nil, err
	}
	fields := selectFields(desc.Levels)
	methods := selectMethods(desc.Levels)

	dependencies := append([]reflect.Type{}, constructor.Params...)
	dependencies = append(dependencies, slices.Map(fields, func(f Field) reflect.Type { return f.Type })...)
	dependencies = append(dependencies, slices.FlatMap(methods, func(m Method) []reflect.Type { return m.Params })...)

	return &ConstructorInjectProvider{
		component:      component,
		implementation: desc.Implementation,
		introspector:   introspector,
		logger:         logger,
		constructor:    constructor,
		fields:         fields,
		methods:        methods,
		dependencies:   dependencies,
	}, nil
}

func selectConstructor(desc *Description) (Constructor, error) {
	marked := slices.Filter(desc.Constructors, func(c Constructor) bool { return c.Inject })
	switch {
	case len(marked) == 1:
		return marked[0], nil
	case len(marked) > 1:
		return Constructor{}, &IllegalComponentError{
			Implementation: desc.Implementation,
			Reason:         fmt.Sprintf("%d constructors carry the inject marker, at most one is allowed", len(marked)),
		}
	}

	for _, ctor := range desc.Constructors {
		if len(ctor.Params) == 0 {
			return ctor, nil
		}
	}
	return Constructor{}, &IllegalComponentError{
		Implementation: desc.Implementation,
		Reason:         "no inject constructor and no zero-argument constructor",
	}
}

func selectFields(levels []Level) []Field {
	return slices.FlatMap(levels, func(level Level) []Field {
		return slices.Filter(level.Fields, func(f Field) bool { return f.Inject })
	})
}

// selectMethods returns the inject methods, embedded levels before the levels embedding
// them, keeping declaration order inside a level.
func selectMethods(levels []Level) []Method {
	perLevel := make([][]Method, len(levels))
	for i, level := range levels {
		perLevel[i] = slices.Filter(level.Methods, func(m Method) bool {
			return m.Inject && !overridden(levels, i, m.Name)
		})
	}
	return slices.FlatMap(slices.Reverse(perLevel), func(methods []Method) []Method { return methods })
}

func overridden(levels []Level, at int, name string) bool {
	for _, level := range levels {
		if !level.Encloses(levels[at].Embedded) {
			continue
		}
		for _, m := range level.Methods {
			if m.Name == name {
				return true
			}
		}
	}
	return false
}

func (p *ConstructorInjectProvider) Dependencies() []reflect.Type {
	return append([]reflect.Type{}, p.dependencies...)
}

func (p *ConstructorInjectProvider) Get(resolver Resolver) (reflect.Value, error) {
	start := time.Now()
	instance, err := p.build(resolver)
	if err != nil {
		return reflect.Value{}, err
	}

	p.logger.Debug().
		Stringer("component", p.component).
		Stringer("implementation", p.implementation).
		Dur("elapsed", time.Since(start)).
		Msg("component built")

	return instance, nil
}

func (p *ConstructorInjectProvider) build(resolver Resolver) (reflect.Value, error) {
	args, err := p.resolveAll(resolver, p.constructor.Params)
	if err != nil {
		return reflect.Value{}, err
	}
	instance, err := p.introspector.Construct(p.constructor, args)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("failed to construct component %s:\n\t%w", typeName(p.component), err)
	}

	if len(p.fields) == 0 && len(p.methods) == 0 {
		return instance, nil
	}

	target, err := p.addressable(instance)
	if err != nil {
		return reflect.Value{}, err
	}
	for _, field := range p.fields {
		value, err := p.resolve(resolver, field.Type)
		if err != nil {
			return reflect.Value{}, err
		}
		if err = p.introspector.SetField(target, field, value); err != nil {
			return reflect.Value{}, fmt.Errorf("failed to inject field %s of component %s:\n\t%w", field.Name, typeName(p.component), err)
		}
	}
	for _, method := range p.methods {
		args, err := p.resolveAll(resolver, method.Params)
		if err != nil {
			return reflect.Value{}, err
		}
		if err = p.introspector.Invoke(target, method, args); err != nil {
			return reflect.Value{}, fmt.Errorf("failed to call inject method %s of component %s:\n\t%w", method.Name, typeName(p.component), err)
		}
	}

	if instance.Kind() == reflect.Struct {
		return target.Elem(), nil
	}
	return instance, nil
}

// addressable returns a pointer on which fields can be set and methods called.
func (p *ConstructorInjectProvider) addressable(instance reflect.Value) (reflect.Value, error) {
	switch {
	case instance.Kind() == reflect.Struct:
		ptr := reflect.New(instance.Type())
		ptr.Elem().Set(instance)
		return ptr, nil
	case instance.Kind() == reflect.Pointer && instance.Type().Elem().Kind() == reflect.Struct:
		if instance.IsNil() {
			return reflect.Value{}, fmt.Errorf("constructor of component %s returned a nil %s", typeName(p.component), instance.Type())
		}
		return instance, nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot inject into component %s built as %s", typeName(p.component), instance.Type())
	}
}

func (p *ConstructorInjectProvider) resolveAll(resolver Resolver, types []reflect.Type) ([]reflect.Value, error) {
	return slices.UnsafeMap(types, func(typ reflect.Type) (reflect.Value, error) {
		return p.resolve(resolver, typ)
	})
}

func (p *ConstructorInjectProvider) resolve(resolver Resolver, typ reflect.Type) (reflect.Value, error) {
	value, found, err := resolver.Resolve(typ)
	if err != nil {
		var cycleErr *CycleDependenciesFoundError
		if errors.As(err, &cycleErr) {
			return reflect.Value{}, err
		}
		return reflect.Value{}, fmt.Errorf("failed to resolve %s for component %s:\n\t%w", typeName(typ), typeName(p.component), err)
	}
	if !found {
		return reflect.Value{}, &DependencyNotFoundError{Dependency: typ, Component: p.component}
	}
	return value, nil
}

func (p *ConstructorInjectProvider) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("ConstructorInjectProvider(%s", typeName(p.implementation)))
	if p.constructor.Implicit {
		b.WriteString(", implicit constructor")
	}
	b.WriteString(")")
	return b.String()
}
