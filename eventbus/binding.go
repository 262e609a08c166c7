package eventbus

import (
	"fmt"
	"reflect"
)

// Binding describes one event type to the dispatch index.
// Bindings are created with [EventType], which captures the concrete type so the index never has to use reflection to call into a [Registry].
type Binding interface {
	// ID returns the event type's identifier, or an empty string if the type is invalid.
	ID() string
	// Type returns the event type.
	Type() reflect.Type
	// Validate returns an [ErrInvalidEventType] error if the type can't be used as an event.
	Validate() error

	bind(reporter Reporter) *entry
}

// EventType creates a [Binding] for event type E.
func EventType[E any]() Binding {
	t := reflect.TypeFor[E]()
	id, err := identifierFor(t)
	return &binding[E]{id: id, typ: t, err: err}
}

type binding[E any] struct {
	id  string
	typ reflect.Type
	err error
}

func (b *binding[E]) ID() string {
	return b.id
}

func (b *binding[E]) Type() reflect.Type {
	return b.typ
}

func (b *binding[E]) Validate() error {
	return b.err
}

func (b *binding[E]) String() string {
	return b.id
}

// entry holds the type-erased operations of one event type.
// Each closure already knows E, so values only need a type assertion when crossing from the identifier API.
type entry struct {
	id       string
	typ      reflect.Type
	registry any

	raise      func(evt any) error
	register   func(fn func(evt any)) Handle
	notify     func(fn func()) Handle
	deregister func(h Handle) error
	decode     func(decode func(target any) error) (any, error)
	clear      func()
	count      func() int
}

func (b *binding[E]) bind(reporter Reporter) *entry {
	reg := NewRegistry[E](reporter)
	return &entry{
		id:       b.id,
		typ:      b.typ,
		registry: reg,
		raise: func(evt any) error {
			typed, ok := evt.(E)
			if !ok {
				return fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, b.typ, evt)
			}
			reg.Raise(typed)
			return nil
		},
		register: func(fn func(evt any)) Handle {
			return reg.Subscribe(func(evt E) {
				fn(evt)
			})
		},
		notify: func(fn func()) Handle {
			sub, _ := reg.Register(NewNotifySubscription[E](fn))
			return sub
		},
		deregister: func(h Handle) error {
			sub, ok := h.(*Subscription[E])
			if !ok {
				return fmt.Errorf("%w: handle for %s can't be deregistered from %s", ErrTypeMismatch, h.EventID(), b.id)
			}
			return reg.Deregister(sub)
		},
		decode: func(decode func(target any) error) (any, error) {
			var evt E
			if err := decode(&evt); err != nil {
				return nil, err
			}
			return evt, nil
		},
		clear: reg.Clear,
		count: reg.Len,
	}
}
