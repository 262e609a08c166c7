package eventbus

import (
	"fmt"
	"github.com/saylorsolutions/typebus/structures/set"
	"github.com/saylorsolutions/typebus/syncx"
	"sync"
)

// Registry tracks the active subscriptions for one event type and raises events to them.
// It's safe for concurrent use, and callbacks may register or deregister subscriptions (including their own) while an event is being raised.
type Registry[E any] struct {
	id       string
	reporter Reporter

	mux    sync.RWMutex
	active set.Ordered[*Subscription[E]]
}

// NewRegistry creates an empty [Registry] for E.
// Errors found while raising events are sent to reporter, which may be nil to discard them.
func NewRegistry[E any](reporter Reporter) *Registry[E] {
	if reporter == nil {
		reporter = discardReporter
	}
	return &Registry[E]{
		id:       Identifier[E](),
		reporter: reporter,
	}
}

// ID returns the identifier of the event type E.
func (r *Registry[E]) ID() string {
	return r.id
}

// Register adds sub to the active set, making it eligible for the next raised event.
// Registering the same subscription twice has no additional effect.
func (r *Registry[E]) Register(sub *Subscription[E]) (*Subscription[E], error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: nil subscription for %s", ErrInvalidArgument, r.id)
	}
	syncx.LockFunc(&r.mux, func() {
		r.active.Add(sub)
	})
	return sub, nil
}

// Subscribe registers a new [Subscription] calling fn for each raised event.
func (r *Registry[E]) Subscribe(fn func(evt E)) *Subscription[E] {
	sub, _ := r.Register(NewSubscription(fn))
	return sub
}

// Deregister removes sub from the active set.
// Nothing happens if sub isn't registered.
func (r *Registry[E]) Deregister(sub *Subscription[E]) error {
	if sub == nil {
		return fmt.Errorf("%w: nil subscription for %s", ErrInvalidArgument, r.id)
	}
	syncx.LockFunc(&r.mux, func() {
		r.active.Remove(sub)
	})
	return nil
}

// Has reports whether sub is currently registered.
func (r *Registry[E]) Has(sub *Subscription[E]) bool {
	return syncx.RLockFuncT(&r.mux, func() bool {
		return r.active.Has(sub)
	})
}

// Len returns the number of active subscriptions.
func (r *Registry[E]) Len() int {
	return syncx.RLockFuncT(&r.mux, func() int {
		return r.active.Len()
	})
}

// Clear removes every subscription.
func (r *Registry[E]) Clear() {
	syncx.LockFunc(&r.mux, func() {
		r.active.Clear()
	})
}

// Raise calls every active subscription with evt, in registration order, before returning.
//
// The set of subscriptions is captured when Raise is called, so subscriptions added by a callback only see later events.
// Each subscription is checked again right before it's called, so one that was deregistered by an earlier callback is skipped.
// No lock is held while callbacks run, which allows callbacks to raise events themselves.
//
// A subscription without callbacks, or a callback that panics, is reported and the remaining subscriptions are still called.
func (r *Registry[E]) Raise(evt E) {
	snapshot := syncx.RLockFuncT(&r.mux, func() []*Subscription[E] {
		return r.active.Slice()
	})
	for _, sub := range snapshot {
		if !r.Has(sub) {
			continue
		}
		if err := sub.invoke(evt); err != nil {
			r.reporter.Report(&DispatchError{
				Op:           OpRaise,
				EventID:      r.id,
				Subscription: sub.Label(),
				Err:          err,
			})
		}
	}
}
