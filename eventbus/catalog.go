package eventbus

import (
	"github.com/saylorsolutions/typebus/structures/set"
	"github.com/saylorsolutions/typebus/syncx"
	"reflect"
	"slices"
	"sync"
)

// Discoverer finds the event types that a [Bus] should index.
// It's called once when the bus is initialized.
type Discoverer interface {
	Discover() ([]Binding, error)
}

// DiscovererFunc allows a function to be used as a [Discoverer].
type DiscovererFunc func() ([]Binding, error)

func (f DiscovererFunc) Discover() ([]Binding, error) {
	return f()
}

// DefaultCatalog collects event types declared with [Declare].
// It's the [Discoverer] used by a [Bus] unless another is configured.
var DefaultCatalog = NewCatalog()

// Catalog is a [Discoverer] that event types are declared into, usually from package init functions.
// Declaring the same type more than once has no additional effect.
// Invalid types are accepted here and rejected when the dispatch index is built, so that every problem is reported together.
type Catalog struct {
	mux      sync.Mutex
	seen     set.Set[reflect.Type]
	bindings []Binding
}

// NewCatalog creates a [Catalog] with the given bindings.
func NewCatalog(bindings ...Binding) *Catalog {
	return new(Catalog).Add(bindings...)
}

// Add declares event types with bindings created by [EventType].
// Nil bindings are ignored.
func (c *Catalog) Add(bindings ...Binding) *Catalog {
	syncx.LockFunc(&c.mux, func() {
		for _, b := range bindings {
			if b == nil || c.seen.Has(b.Type()) {
				continue
			}
			c.seen = c.seen.Add(b.Type())
			c.bindings = append(c.bindings, b)
		}
	})
	return c
}

// Len returns the number of declared event types.
func (c *Catalog) Len() int {
	return syncx.LockFuncT(&c.mux, func() int {
		return len(c.bindings)
	})
}

// Discover returns the declared bindings in declaration order.
func (c *Catalog) Discover() ([]Binding, error) {
	return syncx.LockFuncT(&c.mux, func() []Binding {
		return slices.Clone(c.bindings)
	}), nil
}

// DeclareIn declares event type E in the given [Catalog].
func DeclareIn[E any](c *Catalog) {
	c.Add(EventType[E]())
}

// Declare declares event type E in the [DefaultCatalog].
//
//	func init() {
//		eventbus.Declare[PlayerEvent]()
//	}
func Declare[E any]() {
	DeclareIn[E](DefaultCatalog)
}
