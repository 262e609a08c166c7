package eventbus

import (
	"fmt"
	"github.com/saylorsolutions/typebus/host"
	"github.com/saylorsolutions/typebus/syncx"
	"log/slog"
	"sync"
)

// State is the lifecycle state of a [Bus].
type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Bus owns the dispatch [Index] and the [Registry] of every discovered event type, and coordinates their lifecycle.
type Bus struct {
	discoverer Discoverer
	reporter   Reporter
	log        *slog.Logger

	mux   sync.RWMutex
	state State
	index *Index
}

// New creates an uninitialized [Bus].
// [Bus.Initialize] must be called before events can be raised or subscribed to.
func New(configFuncs ...ConfigFunc) (*Bus, error) {
	conf := busConf{
		discoverer: DefaultCatalog,
		log:        slog.Default(),
	}
	for _, fn := range configFuncs {
		if err := fn(&conf); err != nil {
			return nil, err
		}
	}
	log := conf.log.With("component", "eventbus")
	return &Bus{
		discoverer: conf.discoverer,
		reporter:   append(reporters{LogReporter(log)}, conf.reporters...),
		log:        log,
	}, nil
}

// Initialize discovers event types and builds the dispatch index, making the bus ready.
// Calling Initialize on a ready bus does nothing.
// After [Bus.Shutdown], the index that was already built is reused instead of discovering again.
//
// An error is returned if discovery fails or the discovered types can't be indexed, for example because two types share an identifier.
// The bus stays uninitialized in that case.
func (b *Bus) Initialize() error {
	return syncx.LockFuncErr(&b.mux, func() error {
		if b.state == StateReady {
			return nil
		}
		if b.index == nil {
			bindings, err := b.discoverer.Discover()
			if err != nil {
				return fmt.Errorf("failed to discover event types: %w", err)
			}
			idx, err := BuildIndex(bindings, b.reporter)
			if err != nil {
				return err
			}
			b.index = idx
		}
		b.state = StateReady
		b.log.Debug("Event bus initialized", "events", b.index.Len())
		return nil
	})
}

// MustInitialize is like [Bus.Initialize], but panics if the bus can't be initialized.
func (b *Bus) MustInitialize() {
	if err := b.Initialize(); err != nil {
		panic(err)
	}
}

// State returns the current lifecycle state.
func (b *Bus) State() State {
	return syncx.RLockFuncT(&b.mux, func() State {
		return b.state
	})
}

// ClearAll removes every subscription from every event type.
// The dispatch index is kept, so subscribing by identifier still works afterward.
func (b *Bus) ClearAll() {
	idx := b.readyIndexOrNil()
	if idx == nil {
		return
	}
	idx.ClearAll()
	b.log.Debug("Cleared all subscriptions")
}

// Shutdown removes every subscription and returns the bus to [StateUninitialized].
// The dispatch index is kept for the next call to [Bus.Initialize].
func (b *Bus) Shutdown() {
	syncx.LockFunc(&b.mux, func() {
		if b.index != nil {
			b.index.ClearAll()
		}
		b.state = StateUninitialized
	})
	b.log.Debug("Event bus shut down")
}

// OnHostTransition reacts to a host lifecycle transition.
// [host.BeforeLoad] initializes the bus, panicking if it can't be initialized, and [host.ExitingSession] clears all subscriptions.
func (b *Bus) OnHostTransition(t host.Transition) {
	switch t {
	case host.BeforeLoad:
		b.MustInitialize()
	case host.ExitingSession:
		b.log.Info("Clearing subscriptions for host transition", "transition", t.String())
		b.ClearAll()
	default:
		b.log.Debug("Ignoring host transition", "transition", t.String())
	}
}

// AttachHost routes transitions pushed to sig to [Bus.OnHostTransition].
func (b *Bus) AttachHost(sig host.Signal) {
	if sig == nil {
		return
	}
	sig.Observe(b.OnHostTransition)
}

func (b *Bus) readyIndexOrNil() *Index {
	return syncx.RLockFuncT(&b.mux, func() *Index {
		if b.state != StateReady {
			return nil
		}
		return b.index
	})
}

func (b *Bus) readyIndex() (*Index, error) {
	idx := b.readyIndexOrNil()
	if idx == nil {
		return nil, ErrNotInitialized
	}
	return idx, nil
}

// indexFor reports an [ErrNotInitialized] error if the bus isn't ready.
func (b *Bus) indexFor(op Op, id string) (*Index, bool) {
	idx, err := b.readyIndex()
	if err != nil {
		b.reporter.Report(&DispatchError{Op: op, EventID: id, Err: err})
		return nil, false
	}
	return idx, true
}

// Raise raises evt to the subscribers of the event type identified by id.
// Problems are reported rather than returned, see [Index.Raise].
func (b *Bus) Raise(id string, evt any) {
	if idx, ok := b.indexFor(OpRaise, id); ok {
		idx.Raise(id, evt)
	}
}

// RaiseValue raises evt to the subscribers of its dynamic type.
func (b *Bus) RaiseValue(evt any) {
	if idx, ok := b.indexFor(OpRaise, ""); ok {
		idx.RaiseValue(evt)
	}
}

// RegisterByID subscribes fn to the event type identified by id.
// A nil [Handle] is returned if the subscription couldn't be created.
func (b *Bus) RegisterByID(id string, fn func(evt any)) Handle {
	if idx, ok := b.indexFor(OpRegister, id); ok {
		return idx.Register(id, fn)
	}
	return nil
}

// NotifyByID subscribes fn to the event type identified by id, without passing the event value.
func (b *Bus) NotifyByID(id string, fn func()) Handle {
	if idx, ok := b.indexFor(OpRegister, id); ok {
		return idx.Notify(id, fn)
	}
	return nil
}

// DeregisterByID removes the subscription h from the event type identified by id.
func (b *Bus) DeregisterByID(id string, h Handle) {
	if idx, ok := b.indexFor(OpDeregister, id); ok {
		idx.Deregister(id, h)
	}
}

// Decode creates a value of the event type identified by id using decode, see [Index.Decode].
func (b *Bus) Decode(id string, decode func(target any) error) (any, error) {
	idx, err := b.readyIndex()
	if err != nil {
		return nil, &DispatchError{Op: OpDecode, EventID: id, Err: err}
	}
	return idx.Decode(id, decode)
}

// Identifiers returns the sorted identifiers of every indexed event type.
// Nil is returned if the index hasn't been built yet.
func (b *Bus) Identifiers() []string {
	idx := syncx.RLockFuncT(&b.mux, func() *Index {
		return b.index
	})
	if idx == nil {
		return nil
	}
	return idx.Identifiers()
}

// Count returns the number of active subscriptions for the event type identified by id.
func (b *Bus) Count(id string) int {
	idx := b.readyIndexOrNil()
	if idx == nil {
		return 0
	}
	return idx.Count(id)
}
