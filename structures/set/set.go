package set

// Set formalizes set semantics for a map of comparable values.
// Iteration order of a Set is unspecified, use [Ordered] when order matters.
type Set[T comparable] map[T]struct{}

// New creates a new [Set] from the given values.
// The returned [Set] will have no values if none are given.
func New[T comparable](vals ...T) Set[T] {
	s := Set[T]{}
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Slice() []T {
	if len(s) == 0 {
		return nil
	}
	vals := make([]T, 0, len(s))
	for val := range s {
		vals = append(vals, val)
	}
	return vals
}

func (s Set[T]) Add(val T, others ...T) Set[T] {
	if s == nil {
		s = Set[T]{}
	}
	s[val] = struct{}{}
	for _, v := range others {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Remove(val T, others ...T) Set[T] {
	if s == nil {
		return s
	}
	delete(s, val)
	for _, v := range others {
		delete(s, v)
	}
	return s
}

func (s Set[T]) Has(val T) bool {
	_, ok := s[val]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}
