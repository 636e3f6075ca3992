package ioc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/ioc/set"
)

// ErrNotBound is returned by Resolve when the requested component has no binding.
var ErrNotBound = errors.New("component not bound")

type (
	// IllegalComponentError is raised at bind time, when an implementation cannot be turned into a provider.
	IllegalComponentError struct {
		Implementation reflect.Type
		Reason         string
	}

	// DependencyNotFoundError is raised when Component needs Dependency and nothing is bound for it.
	DependencyNotFoundError struct {
		Dependency reflect.Type
		Component  reflect.Type
	}

	// CycleDependenciesFoundError reports the components involved in a dependency cycle.
	CycleDependenciesFoundError struct {
		components *set.Set[reflect.Type]
	}
)

func (e *IllegalComponentError) Error() string {
	return fmt.Sprintf("illegal component %s: %s", typeName(e.Implementation), e.Reason)
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("dependency %s not found, required by component %s", typeName(e.Dependency), typeName(e.Component))
}

func newCycleDependenciesFoundError(components ...reflect.Type) *CycleDependenciesFoundError {
	return &CycleDependenciesFoundError{
		components: set.NewWithValues(components...),
	}
}

// Components returns the components of the cycle.
func (e *CycleDependenciesFoundError) Components() []reflect.Type {
	return e.components.ToSlice()
}

func (e *CycleDependenciesFoundError) Contains(typ reflect.Type) bool {
	return e.components.Contains(typ)
}

func (e *CycleDependenciesFoundError) Size() int {
	return e.components.Size()
}

// prepend returns a new error with typ in front of the already reported components.
func (e *CycleDependenciesFoundError) prepend(typ reflect.Type) *CycleDependenciesFoundError {
	return &CycleDependenciesFoundError{
		components: set.NewWithValues(typ).Union(e.components),
	}
}

func (e *CycleDependenciesFoundError) Error() string {
	return fmt.Sprintf("cycle found:\n%s", formatCycle(e.components.ToSlice()))
}

func formatCycle(cycle []reflect.Type) string {
	if len(cycle) == 0 {
		return ""
	}
	var b strings.Builder
	for i, typ := range append(cycle, cycle[0]) {
		prefix := ""
		if i > 0 {
			prefix = " -> "
		}
		b.WriteString(fmt.Sprintf("%s%s%s\n", strings.Repeat("\t", i), prefix, typeName(typ)))
	}
	return b.String()
}
