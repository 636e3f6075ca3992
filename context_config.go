package ioc

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/a-peyrard/ioc/option"
	"github.com/a-peyrard/ioc/set"
	"github.com/rs/zerolog"
)

type (
	// ContextConfig collects the bindings of a context. Binding the same component type again
	// replaces the previous binding.
	ContextConfig struct {
		mu        sync.Mutex
		providers map[reflect.Type]ComponentProvider
		order     []reflect.Type

		introspector      Introspector
		logger            zerolog.Logger
		verifyParallelism int
	}

	ConfigOptions struct {
		logger            zerolog.Logger
		introspector      Introspector
		markers           *Markers
		registries        []MarkerRegistry
		verifyParallelism int
	}
)

func WithLogger(logger zerolog.Logger) option.Option[ConfigOptions] {
	return func(opts *ConfigOptions) {
		opts.logger = logger
	}
}

// WithIntrospector replaces the reflect based introspector, markers and registries are then
// ignored.
func WithIntrospector(introspector Introspector) option.Option[ConfigOptions] {
	return func(opts *ConfigOptions) {
		opts.introspector = introspector
	}
}

func WithMarkers(markers *Markers) option.Option[ConfigOptions] {
	return func(opts *ConfigOptions) {
		opts.markers = markers
	}
}

// WithRegistry adds a registry of method markers, typically a generated one.
func WithRegistry(registry MarkerRegistry) option.Option[ConfigOptions] {
	return func(opts *ConfigOptions) {
		opts.registries = append(opts.registries, registry)
	}
}

// WithVerifyParallelism bounds the number of components built concurrently by Context.Verify.
func WithVerifyParallelism(parallelism int) option.Option[ConfigOptions] {
	return func(opts *ConfigOptions) {
		opts.verifyParallelism = parallelism
	}
}

func NewContextConfig(opts ...option.Option[ConfigOptions]) *ContextConfig {
	options := option.Build(
		&ConfigOptions{
			logger:            zerolog.Nop(),
			verifyParallelism: runtime.GOMAXPROCS(0),
		},
		opts...,
	)

	introspector := options.introspector
	if introspector == nil {
		markers := options.markers
		if markers == nil {
			markers = NewMarkers()
		}
		introspector = NewReflectIntrospector(
			markers.Register(options.registries...),
			WithIntrospectorLogger(options.logger),
		)
	}

	return &ContextConfig{
		providers:         make(map[reflect.Type]ComponentProvider),
		introspector:      introspector,
		logger:            options.logger,
		verifyParallelism: options.verifyParallelism,
	}
}

// BindInstance binds typ to a pre-built instance. A nil instance is allowed for nillable types.
func (c *ContextConfig) BindInstance(typ reflect.Type, instance any) error {
	if typ == nil {
		return &IllegalComponentError{Reason: "component type is nil"}
	}

	var value reflect.Value
	if instance == nil {
		if !isNillable(typ) {
			return &IllegalComponentError{Implementation: typ, Reason: "nil instance for a non nillable component"}
		}
		value = reflect.Zero(typ)
	} else {
		value = reflect.ValueOf(instance)
		if !value.Type().AssignableTo(typ) {
			return &IllegalComponentError{
				Implementation: value.Type(),
				Reason:         fmt.Sprintf("instance is not assignable to component %s", typ),
			}
		}
	}

	return c.BindProvider(typ, NewInstanceProvider(value))
}

// BindImplementation binds typ to an implementation built by constructor injection.
func (c *ContextConfig) BindImplementation(typ reflect.Type, impl *Implementation) error {
	if typ == nil {
		return &IllegalComponentError{Reason: "component type is nil"}
	}
	if impl == nil || impl.typ == nil {
		return &IllegalComponentError{Reason: fmt.Sprintf("implementation of component %s is nil", typ)}
	}
	if !impl.typ.AssignableTo(typ) {
		return &IllegalComponentError{
			Implementation: impl.typ,
			Reason:         fmt.Sprintf("implementation is not assignable to component %s", typ),
		}
	}

	provider, err := NewConstructorInjectProvider(typ, impl, c.introspector, c.logger)
	if err != nil {
		return fmt.Errorf("failed to create provider for component %s:\n\t%w", typ, err)
	}
	return c.BindProvider(typ, provider)
}

// BindProvider binds typ to any provider.
func (c *ContextConfig) BindProvider(typ reflect.Type, provider ComponentProvider) error {
	if typ == nil {
		return &IllegalComponentError{Reason: "component type is nil"}
	}
	if provider == nil {
		return &IllegalComponentError{Implementation: typ, Reason: "provider is nil"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, replaced := c.providers[typ]
	if !replaced {
		c.order = append(c.order, typ)
	}
	c.providers[typ] = provider

	c.logger.Debug().
		Stringer("component", typ).
		Str("provider", fmt.Sprintf("%v", provider)).
		Bool("replaced", replaced).
		Msg("component bound")

	return nil
}

func (c *ContextConfig) MustBindInstance(typ reflect.Type, instance any) *ContextConfig {
	if err := c.BindInstance(typ, instance); err != nil {
		panic(fmt.Sprintf("failed to bind instance for %s:\n\t%v", typ, err))
	}
	return c
}

func (c *ContextConfig) MustBindImplementation(typ reflect.Type, impl *Implementation) *ContextConfig {
	if err := c.BindImplementation(typ, impl); err != nil {
		panic(fmt.Sprintf("failed to bind implementation for %s:\n\t%v", typ, err))
	}
	return c
}

// Finalize checks that every dependency is bound and that there is no cycle, then returns a
// context holding a snapshot of the bindings.
func (c *ContextConfig) Finalize() (*Context, error) {
	c.mu.Lock()
	providers := make(map[reflect.Type]ComponentProvider, len(c.providers))
	for typ, provider := range c.providers {
		providers[typ] = provider
	}
	order := append([]reflect.Type{}, c.order...)
	c.mu.Unlock()

	checked := set.New[reflect.Type]()
	for _, typ := range order {
		if err := validate(typ, providers, NewTracker(), checked); err != nil {
			return nil, err
		}
	}

	c.logger.Debug().Int("components", len(order)).Msg("context finalized")

	return &Context{
		providers:         providers,
		order:             order,
		logger:            c.logger,
		verifyParallelism: c.verifyParallelism,
	}, nil
}

func validate(
	typ reflect.Type,
	providers map[reflect.Type]ComponentProvider,
	tracker *Tracker,
	checked *set.Set[reflect.Type],
) error {
	if checked.Contains(typ) {
		return nil
	}
	if err := tracker.Push(typ); err != nil {
		return err
	}
	defer tracker.Pop()

	for _, dependency := range providers[typ].Dependencies() {
		if _, bound := providers[dependency]; !bound {
			return &DependencyNotFoundError{Dependency: dependency, Component: typ}
		}
		if err := validate(dependency, providers, tracker, checked); err != nil {
			return err
		}
	}

	checked.Add(typ)
	return nil
}
