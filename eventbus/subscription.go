package eventbus

import (
	"fmt"
	"github.com/google/uuid"
	"sync"
)

// Handle is the type-erased view of a subscription, used with the identifier based operations on [Bus].
// A nil Handle means there is no active subscription.
type Handle interface {
	// EventID returns the identifier of the event type the subscription is for.
	EventID() string
	// Label returns a name for the subscription that's used when reporting errors.
	Label() string
}

var _ Handle = (*Subscription[struct{}])(nil)

// Subscription binds callbacks to an event type E.
// Both callbacks are called for each raised event if they're set, OnEvent first.
//
// Subscriptions are compared by identity, so the same pointer must be used to deregister.
// A Subscription must not be copied after first use.
type Subscription[E any] struct {
	OnEvent  func(evt E)
	OnNotify func()

	labelOnce sync.Once
	label     string
}

// NewSubscription creates a [Subscription] that calls onEvent with each raised event.
func NewSubscription[E any](onEvent func(evt E)) *Subscription[E] {
	return &Subscription[E]{OnEvent: onEvent}
}

// NewNotifySubscription creates a [Subscription] that calls onNotify when an event is raised, without the event value.
func NewNotifySubscription[E any](onNotify func()) *Subscription[E] {
	return &Subscription[E]{OnNotify: onNotify}
}

// Named sets a human-readable label for the subscription.
// This should be called before the subscription is registered.
func (s *Subscription[E]) Named(label string) *Subscription[E] {
	s.label = label
	return s
}

func (s *Subscription[E]) EventID() string {
	return Identifier[E]()
}

// Label returns the label set with [Subscription.Named], or a random one generated on first use.
func (s *Subscription[E]) Label() string {
	s.labelOnce.Do(func() {
		if len(s.label) == 0 {
			s.label = uuid.NewString()
		}
	})
	return s.label
}

func (s *Subscription[E]) invoke(evt E) (err error) {
	if s.OnEvent == nil && s.OnNotify == nil {
		return ErrMissingCallback
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)
		}
	}()
	if s.OnEvent != nil {
		s.OnEvent(evt)
	}
	if s.OnNotify != nil {
		s.OnNotify()
	}
	return nil
}
