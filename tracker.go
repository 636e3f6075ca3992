package ioc

import (
	"reflect"

	"github.com/a-peyrard/ioc/set"
)

type (
	// Tracker is the stack of components being visited by one call chain.
	//
	// A tracker is never shared between goroutines: each top level resolution, and each
	// validation pass, owns its own.
	Tracker struct {
		stack *set.Set[reflect.Type]
	}
)

func NewTracker() *Tracker {
	return &Tracker{
		stack: set.New[reflect.Type](),
	}
}

// Push marks typ as being visited.
//
// If typ is already on the stack, nothing is pushed and a CycleDependenciesFoundError is
// returned, reporting the segment of the stack going from typ to the top.
func (tracker *Tracker) Push(typ reflect.Type) error {
	if tracker.stack.Contains(typ) {
		path := tracker.stack.ToSlice()
		for i, visiting := range path {
			if visiting == typ {
				return newCycleDependenciesFoundError(path[i:]...)
			}
		}
	}
	tracker.stack.Add(typ)

	return nil
}

func (tracker *Tracker) Pop() reflect.Type {
	path := tracker.stack.ToSlice()
	if len(path) == 0 {
		panic("tracker: pop from empty stack")
	}
	top := path[len(path)-1]
	tracker.stack.Remove(top)

	return top
}

// Path returns the components currently visited, outermost first.
func (tracker *Tracker) Path() []reflect.Type {
	return tracker.stack.ToSlice()
}

func (tracker *Tracker) Depth() int {
	return tracker.stack.Size()
}
