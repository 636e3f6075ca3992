package set

// Set is an insertion ordered set.
//
// Iteration order (ToSlice) is the order in which values were first added, which keeps
// error messages and dependency listings reproducible.
type Set[T comparable] struct {
	index  map[T]int
	values []T
}

// New creates a new empty set
func New[T comparable]() *Set[T] {
	return &Set[T]{
		index:  make(map[T]int),
		values: make([]T, 0),
	}
}

// NewWithValues creates a new set with the given values
func NewWithValues[T comparable](values ...T) *Set[T] {
	s := New[T]()
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// NewFromSlice creates a new set from the given slice
func NewFromSlice[T comparable](slice []T) *Set[T] {
	return NewWithValues(slice...)
}

// Add adds a value to the set, it returns false if the value was already present.
func (s *Set[T]) Add(value T) bool {
	if _, exists := s.index[value]; exists {
		return false
	}
	s.index[value] = len(s.values)
	s.values = append(s.values, value)
	return true
}

// Contains checks if a value exists in the set
func (s *Set[T]) Contains(value T) bool {
	_, exists := s.index[value]
	return exists
}

// DoesNotContain checks if a value does not exist in the set
func (s *Set[T]) DoesNotContain(value T) bool {
	return !s.Contains(value)
}

// Remove removes a value from the set
func (s *Set[T]) Remove(value T) {
	pos, exists := s.index[value]
	if !exists {
		return
	}
	delete(s.index, value)
	s.values = append(s.values[:pos], s.values[pos+1:]...)
	for i := pos; i < len(s.values); i++ {
		s.index[s.values[i]] = i
	}
}

// Size returns the number of elements in the set
func (s *Set[T]) Size() int {
	return len(s.values)
}

// IsEmpty returns true if the set is empty
func (s *Set[T]) IsEmpty() bool {
	return len(s.values) == 0
}

// ToSlice returns a copy of all values, in insertion order
func (s *Set[T]) ToSlice() []T {
	result := make([]T, len(s.values))
	copy(result, s.values)
	return result
}

// Union returns a new set containing the elements of s followed by the ones of other
func (s *Set[T]) Union(other *Set[T]) *Set[T] {
	result := NewFromSlice(s.values)
	for _, value := range other.values {
		result.Add(value)
	}
	return result
}
