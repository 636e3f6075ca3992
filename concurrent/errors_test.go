package concurrent

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("it should join nothing when no error is recorded", func(t *testing.T) {
		// GIVEN
		errs := NewErrors()

		// WHEN
		errs.Add(0, nil)

		// THEN
		assert.Equal(t, 0, errs.Len())
		assert.NoError(t, errs.Join())
	})

	t.Run("it should report errors by task position", func(t *testing.T) {
		// GIVEN
		errs := NewErrors()
		first := errors.New("first")
		second := errors.New("second")

		// WHEN
		errs.Add(3, second)
		errs.Add(1, first)

		// THEN
		err := errs.Join()
		require.Error(t, err)
		assert.Equal(t, "first\nsecond", err.Error())
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
	})

	t.Run("it should record errors from concurrent tasks", func(t *testing.T) {
		// GIVEN
		errs := NewErrors()
		tasks := 100
		var wg sync.WaitGroup
		wg.Add(tasks)

		// WHEN
		for i := 0; i < tasks; i++ {
			i := i
			go func() {
				defer wg.Done()
				if i%2 == 0 {
					errs.Add(i, fmt.Errorf("task %d", i))
				}
			}()
		}
		wg.Wait()

		// THEN
		assert.Equal(t, tasks/2, errs.Len())
		joined := errs.Join().(interface{ Unwrap() []error }).Unwrap()
		require.Len(t, joined, tasks/2)
		assert.Equal(t, "task 0", joined[0].Error())
		assert.Equal(t, "task 98", joined[len(joined)-1].Error())
	})
}
