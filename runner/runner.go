package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/a-peyrard/ioc"
	"golang.org/x/sync/errgroup"
)

type (
	// Runnable represents a component that can be run with a context.
	Runnable interface {
		Run(ctx context.Context) error
	}

	// RunnableFunc adapts a plain function to a Runnable.
	RunnableFunc func(ctx context.Context) error
)

func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// RunAll runs all the provided runnables concurrently and waits for all of them to finish.
//
// This method is blocking and will return the first error returned by a runnable,
// the context given to the other runnables is cancelled as soon as one fails.
func RunAll(parentCtx context.Context, runnables ...Runnable) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for _, runnable := range runnables {
		runnable := runnable
		group.Go(func() error {
			return runnable.Run(ctx)
		})
	}

	return group.Wait()
}

var runnableType = ioc.TypeOf[Runnable]()

// Runnables resolves, in binding order, every component of container whose type is a Runnable.
func Runnables(container *ioc.Context) ([]Runnable, error) {
	var runnables []Runnable
	for _, typ := range container.Types() {
		if !typ.Implements(runnableType) {
			continue
		}
		value, _, err := container.Resolve(typ)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve runnable %s:\n\t%w", typ, err)
		}
		if runnable, ok := asRunnable(value); ok {
			runnables = append(runnables, runnable)
		}
	}
	return runnables, nil
}

func asRunnable(value reflect.Value) (Runnable, bool) {
	if !value.IsValid() {
		return nil, false
	}
	if value.Kind() == reflect.Interface || value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, false
		}
	}
	runnable, ok := value.Interface().(Runnable)
	return runnable, ok
}

// WithSyscallKillableContext returns a context cancelled on SIGINT or SIGTERM.
func WithSyscallKillableContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
