package eventbus

import (
	"fmt"
	"reflect"
)

func registryOf[E any](b *Bus, op Op) (*Registry[E], error) {
	id, err := identifierFor(reflect.TypeFor[E]())
	if err != nil {
		return nil, &DispatchError{Op: op, Err: err}
	}
	idx, err := b.readyIndex()
	if err != nil {
		return nil, &DispatchError{Op: op, EventID: id, Err: err}
	}
	e, ok := idx.entries[id]
	if !ok {
		return nil, &DispatchError{Op: op, EventID: id, Err: ErrEventNotFound}
	}
	reg, ok := e.registry.(*Registry[E])
	if !ok {
		// Another type claims the identifier.
		return nil, &DispatchError{Op: op, EventID: id, Err: fmt.Errorf("%w: %s is indexed as %s", ErrTypeMismatch, id, e.typ)}
	}
	return reg, nil
}

// RegistryOf returns the [Registry] for event type E.
// An error is returned if the bus isn't ready or E wasn't discovered.
func RegistryOf[E any](b *Bus) (*Registry[E], error) {
	return registryOf[E](b, OpLookup)
}

// Raise raises evt to every subscription for E.
// Problems are reported to the bus' [Reporter].
func Raise[E any](b *Bus, evt E) {
	reg, err := registryOf[E](b, OpRaise)
	if err != nil {
		b.reporter.Report(err)
		return
	}
	reg.Raise(evt)
}

// Register adds sub to the subscriptions for E.
func Register[E any](b *Bus, sub *Subscription[E]) (*Subscription[E], error) {
	if sub == nil {
		return nil, &DispatchError{Op: OpRegister, EventID: Identifier[E](), Err: fmt.Errorf("%w: nil subscription", ErrInvalidArgument)}
	}
	reg, err := registryOf[E](b, OpRegister)
	if err != nil {
		b.reporter.Report(err)
		return nil, err
	}
	return reg.Register(sub)
}

// Subscribe registers a new subscription calling fn with each raised E.
func Subscribe[E any](b *Bus, fn func(evt E)) (*Subscription[E], error) {
	if fn == nil {
		return nil, &DispatchError{Op: OpRegister, EventID: Identifier[E](), Err: fmt.Errorf("%w: nil callback", ErrInvalidArgument)}
	}
	return Register(b, NewSubscription(fn))
}

// Deregister removes sub from the subscriptions for E.
// Deregistering a subscription that isn't registered does nothing.
func Deregister[E any](b *Bus, sub *Subscription[E]) error {
	if sub == nil {
		return &DispatchError{Op: OpDeregister, EventID: Identifier[E](), Err: fmt.Errorf("%w: nil subscription", ErrInvalidArgument)}
	}
	reg, err := registryOf[E](b, OpDeregister)
	if err != nil {
		b.reporter.Report(err)
		return err
	}
	return reg.Deregister(sub)
}
