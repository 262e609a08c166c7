package eventbus

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/typebus/assert"
	"github.com/saylorsolutions/typebus/structures/bidimap"
	"maps"
	"reflect"
	"slices"
)

// Index maps event identifiers to the operations of each event type's [Registry].
// It's built once with [BuildIndex] and never changes afterward, so lookups need no locking.
type Index struct {
	entries  map[string]*entry
	types    *bidimap.BidiMap[string, reflect.Type]
	reporter Reporter
}

// BuildIndex creates an [Index] with one entry for each distinct event type in bindings.
//
// Every invalid binding and identifier collision is collected into the returned error, which matches [ErrInvalidEventType] or [ErrDuplicateIdentifier] with [errors.Is].
// No index is returned in that case, since routing by identifier would be ambiguous.
func BuildIndex(bindings []Binding, reporter Reporter) (*Index, error) {
	if reporter == nil {
		reporter = discardReporter
	}
	idx := &Index{
		entries:  map[string]*entry{},
		types:    bidimap.New[string, reflect.Type](),
		reporter: reporter,
	}
	errs := assert.CollectErrors("\n  ").WithPrefix("failed to build event index:")
	for _, b := range bindings {
		if b == nil {
			errs.AddString("%w: nil binding", ErrInvalidArgument)
			continue
		}
		if err := b.Validate(); err != nil {
			errs.Add(err)
			continue
		}
		if err := idx.types.AddUnique(b.ID(), b.Type()); err != nil {
			if errors.Is(err, bidimap.ErrKeyExists) {
				errs.AddString("%w: %q is claimed by %s and %s", ErrDuplicateIdentifier, b.ID(), idx.types.Value(b.ID()), b.Type())
				continue
			}
			errs.Add(err)
			continue
		}
		if _, ok := idx.entries[b.ID()]; ok {
			continue
		}
		idx.entries[b.ID()] = b.bind(reporter)
	}
	if err := errs.Result(); err != nil {
		return nil, err
	}
	assert.True("one index entry per event type", len(idx.entries) == idx.types.Len())
	return idx, nil
}

func (idx *Index) report(op Op, id string, err error) {
	idx.reporter.Report(&DispatchError{Op: op, EventID: id, Err: err})
}

func (idx *Index) lookup(op Op, id string) (*entry, bool) {
	e, ok := idx.entries[id]
	if !ok {
		idx.report(op, id, ErrEventNotFound)
	}
	return e, ok
}

// Raise raises evt to the subscriptions of the event type identified by id.
// An unknown identifier or a value of the wrong type is reported, and nothing is raised.
func (idx *Index) Raise(id string, evt any) {
	e, ok := idx.lookup(OpRaise, id)
	if !ok {
		return
	}
	if err := e.raise(evt); err != nil {
		idx.report(OpRaise, id, err)
	}
}

// RaiseValue raises evt using the identifier of its dynamic type.
func (idx *Index) RaiseValue(evt any) {
	if evt == nil {
		idx.report(OpRaise, "", fmt.Errorf("%w: nil event", ErrInvalidArgument))
		return
	}
	id, ok := idx.types.KeyOk(reflect.TypeOf(evt))
	if !ok {
		idx.report(OpRaise, fmt.Sprintf("%T", evt), ErrEventNotFound)
		return
	}
	idx.Raise(id, evt)
}

// Register subscribes fn to the event type identified by id.
// A nil [Handle] is returned if the identifier is unknown or fn is nil.
func (idx *Index) Register(id string, fn func(evt any)) Handle {
	if fn == nil {
		idx.report(OpRegister, id, fmt.Errorf("%w: nil callback", ErrInvalidArgument))
		return nil
	}
	e, ok := idx.lookup(OpRegister, id)
	if !ok {
		return nil
	}
	return e.register(fn)
}

// Notify subscribes fn to the event type identified by id, without passing the event value.
// A nil [Handle] is returned if the identifier is unknown or fn is nil.
func (idx *Index) Notify(id string, fn func()) Handle {
	if fn == nil {
		idx.report(OpRegister, id, fmt.Errorf("%w: nil callback", ErrInvalidArgument))
		return nil
	}
	e, ok := idx.lookup(OpRegister, id)
	if !ok {
		return nil
	}
	return e.notify(fn)
}

// Deregister removes the subscription h from the event type identified by id.
// A nil h is ignored, so the result of a failed [Index.Register] can always be passed here.
func (idx *Index) Deregister(id string, h Handle) {
	e, ok := idx.lookup(OpDeregister, id)
	if !ok || h == nil {
		return
	}
	if err := e.deregister(h); err != nil {
		idx.report(OpDeregister, id, err)
	}
}

// Decode creates a zero value of the event type identified by id, populates it with decode, and returns it.
// The decode function receives a pointer to the new value, which fits the signature of most unmarshalling functions after binding the input.
func (idx *Index) Decode(id string, decode func(target any) error) (any, error) {
	if decode == nil {
		return nil, &DispatchError{Op: OpDecode, EventID: id, Err: fmt.Errorf("%w: nil decode function", ErrInvalidArgument)}
	}
	e, ok := idx.entries[id]
	if !ok {
		return nil, &DispatchError{Op: OpDecode, EventID: id, Err: ErrEventNotFound}
	}
	evt, err := e.decode(decode)
	if err != nil {
		return nil, &DispatchError{Op: OpDecode, EventID: id, Err: err}
	}
	return evt, nil
}

// Identifiers returns all indexed identifiers, sorted.
func (idx *Index) Identifiers() []string {
	return slices.Sorted(maps.Keys(idx.entries))
}

// Has reports whether id is indexed.
func (idx *Index) Has(id string) bool {
	_, ok := idx.entries[id]
	return ok
}

// Type returns the event type for id.
func (idx *Index) Type(id string) (reflect.Type, bool) {
	return idx.types.ValueOk(id)
}

// Len returns the number of indexed event types.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Count returns the number of active subscriptions for the event type identified by id.
func (idx *Index) Count(id string) int {
	e, ok := idx.entries[id]
	if !ok {
		return 0
	}
	return e.count()
}

// ClearAll removes every subscription from every indexed event type.
func (idx *Index) ClearAll() {
	for _, e := range idx.entries {
		e.clear()
	}
}
