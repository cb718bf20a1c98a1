// Package orderedset provides an insertion-ordered set.
package orderedset

// Set keeps the first-seen order of its elements and ignores repeats.
// The zero value is ready to use.
type Set[T comparable] struct {
	items []T
	seen  map[T]struct{}
}

// New returns a set holding items in first-seen order.
func New[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add appends v unless it is already present. It reports whether v was added.
func (s *Set[T]) Add(v T) bool {
	if s.seen == nil {
		s.seen = make(map[T]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of distinct elements.
func (s *Set[T]) Len() int { return len(s.items) }

// Items returns the elements in insertion order. The slice must not be modified.
func (s *Set[T]) Items() []T { return s.items }
