package host

import (
	"context"
	"github.com/saylorsolutions/typebus/syncx"
	"slices"
	"sync"
)

// Transition names a change in the host environment's lifecycle.
type Transition string

const (
	// EnteringSession is pushed when an interactive session starts.
	EnteringSession Transition = "entering active session"
	// ExitingSession is pushed when an interactive session ends.
	// Components that hold subscriptions for the length of a session should reset when they see it.
	ExitingSession Transition = "exiting active session"
	// BeforeLoad is pushed before the host loads new content, which is the earliest point where initialization may happen.
	BeforeLoad Transition = "before load"
)

func (t Transition) String() string {
	return string(t)
}

// Observer receives each [Transition] pushed to a [Signal].
type Observer func(t Transition)

// Signal is a push notification source for host lifecycle transitions.
type Signal interface {
	// Last returns the most recently delivered transition, or an empty string if none has been delivered.
	Last() Transition
	// Notify pushes a transition to all observers.
	// Delivery happens asynchronously, in the order Notify was called.
	// Transitions pushed after the signal's context is done are dropped.
	Notify(t Transition)
	// Observe registers an observer for future transitions.
	Observe(obs Observer)
	// Done is closed once the signal stops delivering transitions.
	Done() <-chan struct{}
}

// NewSignal creates a [Signal] that delivers transitions until the context is cancelled.
func NewSignal(ctx context.Context) Signal {
	sig := &signal{
		ctx:     ctx,
		changes: make(chan Transition, 1),
		done:    make(chan struct{}),
	}
	go sig.process()
	return sig
}

type signal struct {
	ctx     context.Context
	changes chan Transition
	done    chan struct{}

	mux       sync.RWMutex
	last      Transition
	observers []Observer
}

func (s *signal) process() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case t := <-s.changes:
			observers := syncx.LockFuncT(&s.mux, func() []Observer {
				s.last = t
				return slices.Clone(s.observers)
			})
			// Observers run without the lock so they may register other observers.
			for _, obs := range observers {
				obs(t)
			}
		}
	}
}

func (s *signal) Last() Transition {
	return syncx.RLockFuncT(&s.mux, func() Transition {
		return s.last
	})
}

func (s *signal) Notify(t Transition) {
	select {
	case <-s.ctx.Done():
	case s.changes <- t:
	}
}

func (s *signal) Observe(obs Observer) {
	if obs == nil {
		return
	}
	syncx.LockFunc(&s.mux, func() {
		s.observers = append(s.observers, obs)
	})
}

func (s *signal) Done() <-chan struct{} {
	return s.done
}
