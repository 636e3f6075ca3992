package concurrent

import (
	"errors"
	"sort"
	"sync"
)

// Errors gathers the failures of tasks running in different goroutines. Each failure is
// recorded with the position of its task, Join reports them in that order whatever the
// order they completed in.
type Errors struct {
	mu       sync.Mutex
	failures []indexedError
}

type indexedError struct {
	index int
	err   error
}

func NewErrors() *Errors {
	return &Errors{}
}

// Add records err for the task at index, nil errors are ignored.
func (e *Errors) Add(index int, err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures = append(e.failures, indexedError{index: index, err: err})
}

func (e *Errors) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.failures)
}

// Join returns the recorded errors joined by task position, or nil if none was recorded.
func (e *Errors) Join() error {
	e.mu.Lock()
	failures := append([]indexedError{}, e.failures...)
	e.mu.Unlock()

	sort.SliceStable(failures, func(i, j int) bool { return failures[i].index < failures[j].index })
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f.err
	}
	return errors.Join(errs...)
}
