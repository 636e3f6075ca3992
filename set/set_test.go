package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("it should keep insertion order", func(t *testing.T) {
		// GIVEN
		s := New[string]()

		// WHEN
		s.Add("c")
		s.Add("a")
		s.Add("b")

		// THEN
		assert.Equal(t, []string{"c", "a", "b"}, s.ToSlice())
	})

	t.Run("it should ignore duplicates", func(t *testing.T) {
		// GIVEN
		s := NewWithValues("a", "b")

		// WHEN
		added := s.Add("a")

		// THEN
		assert.False(t, added)
		assert.Equal(t, 2, s.Size())
		assert.Equal(t, []string{"a", "b"}, s.ToSlice())
	})

	t.Run("it should remove a value and keep the order of the others", func(t *testing.T) {
		// GIVEN
		s := NewWithValues(1, 2, 3, 4)

		// WHEN
		s.Remove(2)
		s.Remove(42)

		// THEN
		assert.Equal(t, []int{1, 3, 4}, s.ToSlice())
		assert.True(t, s.Contains(4))
		assert.True(t, s.DoesNotContain(2))

		s.Remove(4)
		assert.Equal(t, []int{1, 3}, s.ToSlice())
	})

	t.Run("it should union two sets", func(t *testing.T) {
		// GIVEN
		first := NewWithValues("a", "b")
		second := NewWithValues("b", "c")

		// WHEN
		union := first.Union(second)

		// THEN
		assert.Equal(t, []string{"a", "b", "c"}, union.ToSlice())
		assert.Equal(t, 2, first.Size())
	})

	t.Run("it should not expose internal storage", func(t *testing.T) {
		// GIVEN
		s := NewFromSlice([]int{1, 2})

		// WHEN
		values := s.ToSlice()
		values[0] = 42

		// THEN
		assert.Equal(t, []int{1, 2}, s.ToSlice())
		assert.False(t, s.IsEmpty())
		assert.True(t, New[int]().IsEmpty())
	})
}
