package ioc

import (
	"reflect"
	"sync"

	"github.com/a-peyrard/ioc/reflectutils"
	"github.com/a-peyrard/ioc/set"
)

type (
	// Markers records, per struct type, which methods carry the inject marker and which
	// methods are declared there without it.
	//
	// Go cannot tell whether a promoted method was declared on an embedded struct or on the
	// embedding one, so declarations that matter for overriding are registered explicitly,
	// usually by code produced by cmd/generator.
	Markers struct {
		mu       sync.RWMutex
		inject   map[reflect.Type]*set.Set[string]
		declared map[reflect.Type]*set.Set[string]
	}

	// MarkerRegistry fills a Markers table.
	MarkerRegistry interface {
		Register(markers *Markers)
	}

	// EmptyRegistry registers nothing, it is embedded by generated registries.
	EmptyRegistry struct{}
)

func (EmptyRegistry) Register(*Markers) {}

func NewMarkers() *Markers {
	return &Markers{
		inject:   make(map[reflect.Type]*set.Set[string]),
		declared: make(map[reflect.Type]*set.Set[string]),
	}
}

// Inject marks the given methods of level as inject methods, in the given order.
func (m *Markers) Inject(level reflect.Type, methods ...string) *Markers {
	m.mu.Lock()
	defer m.mu.Unlock()

	add(m.inject, reflectutils.DerefType(level), methods)
	return m
}

// Declare records that level declares the given methods without the inject marker.
func (m *Markers) Declare(level reflect.Type, methods ...string) *Markers {
	m.mu.Lock()
	defer m.mu.Unlock()

	add(m.declared, reflectutils.DerefType(level), methods)
	return m
}

func add(index map[reflect.Type]*set.Set[string], level reflect.Type, methods []string) {
	names, found := index[level]
	if !found {
		names = set.New[string]()
		index[level] = names
	}
	for _, method := range methods {
		names.Add(method)
	}
}

func (m *Markers) IsInject(level reflect.Type, method string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names, found := m.inject[reflectutils.DerefType(level)]
	return found && names.Contains(method)
}

// Declared lists every method known for level: inject ones first, in marking order, then
// the plain declarations.
func (m *Markers) Declared(level reflect.Type) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	level = reflectutils.DerefType(level)
	all := set.New[string]()
	if names, found := m.inject[level]; found {
		all = all.Union(names)
	}
	if names, found := m.declared[level]; found {
		all = all.Union(names)
	}
	return all.ToSlice()
}

// Register applies the registries to the markers, and returns the markers.
func (m *Markers) Register(registries ...MarkerRegistry) *Markers {
	for _, registry := range registries {
		registry.Register(m)
	}
	return m
}
