package set

import "slices"

// Ordered is a set that remembers insertion order.
// Re-adding a value that is already present keeps its original position.
//
// The zero value is ready to use. An Ordered is not concurrency safe, callers must provide their own locking.
type Ordered[T comparable] struct {
	members Set[T]
	order   []T
}

// NewOrdered creates an [Ordered] set populated with the given values in order.
func NewOrdered[T comparable](vals ...T) *Ordered[T] {
	o := new(Ordered[T])
	for _, v := range vals {
		o.Add(v)
	}
	return o
}

// Add inserts val at the end of the set if it's not already present.
// Returns true if the value was added.
func (o *Ordered[T]) Add(val T) bool {
	if o.members.Has(val) {
		return false
	}
	o.members = o.members.Add(val)
	o.order = append(o.order, val)
	return true
}

// Remove deletes val from the set, preserving the order of the remaining values.
// Returns true if the value was present.
func (o *Ordered[T]) Remove(val T) bool {
	if !o.members.Has(val) {
		return false
	}
	o.members.Remove(val)
	idx := slices.Index(o.order, val)
	o.order = slices.Delete(o.order, idx, idx+1)
	return true
}

func (o *Ordered[T]) Has(val T) bool {
	return o.members.Has(val)
}

func (o *Ordered[T]) Len() int {
	return len(o.order)
}

// Slice returns a copy of the values in insertion order.
// Changes to the returned slice don't affect the set, so it can be used as a stable snapshot.
func (o *Ordered[T]) Slice() []T {
	if len(o.order) == 0 {
		return nil
	}
	return slices.Clone(o.order)
}

// Clear removes all values, keeping allocated capacity for reuse.
func (o *Ordered[T]) Clear() {
	clear(o.order)
	o.order = o.order[:0]
	o.members = nil
}
