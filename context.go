package ioc

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/a-peyrard/ioc/concurrent"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type (
	// Context resolves components from a frozen set of bindings.
	//
	// Nothing is cached: each resolution of a component bound to an implementation builds a
	// new instance. A Context can be used from several goroutines.
	Context struct {
		providers         map[reflect.Type]ComponentProvider
		order             []reflect.Type
		logger            zerolog.Logger
		verifyParallelism int
	}

	// resolution is the Resolver handed to providers, it carries the stack of its call chain.
	// Nested resolutions share the chain, so a provider asking again for a component being
	// built gets a CycleDependenciesFoundError instead of recursing.
	resolution struct {
		context *Context
		chain   *Tracker
	}
)

func (c *Context) Resolve(typ reflect.Type) (reflect.Value, bool, error) {
	return c.resolve(typ, NewTracker())
}

func (c *Context) resolve(typ reflect.Type, tracker *Tracker) (reflect.Value, bool, error) {
	provider, found := c.providers[typ]
	if !found {
		return reflect.Value{}, false, nil
	}

	if err := tracker.Push(typ); err != nil {
		return reflect.Value{}, false, err
	}
	defer tracker.Pop()

	value, err := provider.Get(&resolution{context: c, chain: tracker})
	if err != nil {
		// every component of the call chain joins a cycle found below it
		var cycleErr *CycleDependenciesFoundError
		if errors.As(err, &cycleErr) {
			return reflect.Value{}, false, cycleErr.prepend(typ)
		}
		return reflect.Value{}, false, err
	}
	return value, true, nil
}

func (r *resolution) Resolve(typ reflect.Type) (reflect.Value, bool, error) {
	return r.context.resolve(typ, r.chain)
}

// Types returns the bound component types, in binding order.
func (c *Context) Types() []reflect.Type {
	return append([]reflect.Type{}, c.order...)
}

// Dependencies returns the dependencies declared by the provider bound to typ.
func (c *Context) Dependencies(typ reflect.Type) ([]reflect.Type, bool) {
	provider, found := c.providers[typ]
	if !found {
		return nil, false
	}
	return provider.Dependencies(), true
}

// Verify builds every bound component once, concurrently, and reports all the failures in
// binding order.
func (c *Context) Verify(ctx context.Context) error {
	parallelism := c.verifyParallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	var (
		group    errgroup.Group
		failures = concurrent.NewErrors()
	)
	group.SetLimit(parallelism)

	for i, typ := range c.order {
		i, typ := i, typ
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, _, err := c.Resolve(typ); err != nil {
				c.logger.Debug().Err(err).Stringer("component", typ).Msg("component verification failed")
				failures.Add(i, fmt.Errorf("failed to verify component %s:\n\t%w", typ, err))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	return failures.Join()
}

func (c *Context) Describe() string {
	var b strings.Builder
	b.WriteString("* Bindings:\n")
	for _, typ := range c.order {
		provider := c.providers[typ]
		b.WriteString(fmt.Sprintf("\t- %s\n", typ))
		b.WriteString(fmt.Sprintf("\t\tprovider: %v\n", provider))
		dependencies := provider.Dependencies()
		if len(dependencies) == 0 {
			continue
		}
		b.WriteString("\t\tdependencies:\n")
		for _, dependency := range dependencies {
			b.WriteString(fmt.Sprintf("\t\t\t- %s\n", dependency))
		}
	}
	return b.String()
}
