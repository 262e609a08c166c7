package eventbus

import (
	"errors"
	"fmt"
	xassert "github.com/saylorsolutions/typebus/assert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reflect"
	"testing"
)

func testIndex(t *testing.T) (*Index, *errorSink) {
	t.Helper()
	sink := new(errorSink)
	idx, err := BuildIndex(testBindings(), sink)
	require.NoError(t, err)
	return idx, sink
}

func typedRegistry[E any](t *testing.T, idx *Index) *Registry[E] {
	t.Helper()
	e, ok := idx.entries[Identifier[E]()]
	require.True(t, ok)
	reg, ok := e.registry.(*Registry[E])
	require.True(t, ok)
	return reg
}

func TestBuildIndex(t *testing.T) {
	idx, _ := testIndex(t)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{
		"game.Renamed",
		pkgPath + ".PlayerEvent",
		pkgPath + ".scoreChanged",
	}, idx.Identifiers())
	typ, ok := idx.Type(Identifier[PlayerEvent]())
	assert.True(t, ok)
	assert.Equal(t, reflect.TypeFor[PlayerEvent](), typ)
	assert.True(t, idx.Has("game.Renamed"))
	assert.False(t, idx.Has(pkgPath+".renamedEvent"))
}

func TestBuildIndex_SameTypeTwice(t *testing.T) {
	idx, err := BuildIndex([]Binding{EventType[PlayerEvent](), EventType[PlayerEvent]()}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestBuildIndex_Errors(t *testing.T) {
	_, err := BuildIndex([]Binding{
		EventType[PlayerEvent](),
		EventType[clashA](),
		EventType[clashB](),
		EventType[*scoreChanged](),
		EventType[int](),
		nil,
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	assert.ErrorIs(t, err, ErrInvalidEventType)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var collector *xassert.Collector
	require.True(t, errors.As(err, &collector))
	assert.Equal(t, 4, collector.Len(), "Every problem should be collected")
	assert.Contains(t, err.Error(), `"clash"`)
}

func TestIndex_Raise(t *testing.T) {
	idx, sink := testIndex(t)
	reg := typedRegistry[PlayerEvent](t, idx)
	var (
		typed, byID []PlayerEvent
	)
	reg.Subscribe(func(evt PlayerEvent) {
		typed = append(typed, evt)
	})
	idx.Register(reg.ID(), func(evt any) {
		byID = append(byID, evt.(PlayerEvent))
	})

	reg.Raise(PlayerEvent{Health: 5, Mana: 3})
	idx.Raise(reg.ID(), PlayerEvent{Health: 5, Mana: 3})
	expected := []PlayerEvent{{Health: 5, Mana: 3}, {Health: 5, Mana: 3}}
	assert.Equal(t, expected, typed, "Raising by identifier should look the same as raising by type")
	assert.Equal(t, expected, byID)
	assert.Zero(t, sink.Len())
}

func TestIndex_UnknownIdentifier(t *testing.T) {
	idx, sink := testIndex(t)
	assert.NotPanics(t, func() {
		idx.Raise("NotARealType", PlayerEvent{})
	})
	h := idx.Register("NotARealType", func(any) {
		t.Error("Should never be called")
	})
	assert.Nil(t, h)
	assert.Nil(t, idx.Notify("NotARealType", func() {}))
	idx.Deregister("NotARealType", h)
	assert.Equal(t, 4, sink.Matching(ErrEventNotFound))

	var dispatchErr *DispatchError
	require.True(t, errors.As(sink.Errors()[0], &dispatchErr))
	assert.Equal(t, "NotARealType", dispatchErr.EventID)
	assert.Equal(t, OpRaise, dispatchErr.Op)
}

func TestIndex_Raise_TypeMismatch(t *testing.T) {
	idx, sink := testIndex(t)
	var called bool
	idx.Notify(Identifier[PlayerEvent](), func() {
		called = true
	})

	idx.Raise(Identifier[PlayerEvent](), scoreChanged{Score: 1})
	idx.Raise(Identifier[PlayerEvent](), &PlayerEvent{})
	idx.Raise(Identifier[PlayerEvent](), nil)
	assert.False(t, called)
	assert.Equal(t, 3, sink.Matching(ErrTypeMismatch))
}

func TestIndex_RaiseValue(t *testing.T) {
	idx, sink := testIndex(t)
	var received []any
	idx.Register("game.Renamed", func(evt any) {
		received = append(received, evt)
	})

	idx.RaiseValue(renamedEvent{})
	assert.Equal(t, []any{renamedEvent{}}, received)

	idx.RaiseValue(nil)
	assert.Equal(t, 1, sink.Matching(ErrInvalidArgument))
	idx.RaiseValue(clashA{})
	assert.Equal(t, 1, sink.Matching(ErrEventNotFound))
}

func TestIndex_Register_NilCallback(t *testing.T) {
	idx, sink := testIndex(t)
	assert.Nil(t, idx.Register(Identifier[PlayerEvent](), nil))
	assert.Nil(t, idx.Notify(Identifier[PlayerEvent](), nil))
	assert.Equal(t, 2, sink.Matching(ErrInvalidArgument))
	assert.Zero(t, idx.Count(Identifier[PlayerEvent]()))
}

func TestIndex_Deregister(t *testing.T) {
	idx, sink := testIndex(t)
	id := Identifier[PlayerEvent]()
	var calls int
	h := idx.Notify(id, func() {
		calls++
	})
	require.NotNil(t, h)
	assert.Equal(t, id, h.EventID())
	assert.Equal(t, 1, idx.Count(id))

	idx.Raise(id, PlayerEvent{})
	idx.Deregister(id, h)
	idx.Raise(id, PlayerEvent{})
	assert.Equal(t, 1, calls)
	assert.Zero(t, idx.Count(id))

	idx.Deregister(id, h)
	idx.Deregister(id, nil)
	assert.Zero(t, sink.Len(), "Deregistering twice or a nil handle should be silent")

	other := idx.Notify(Identifier[scoreChanged](), func() {})
	idx.Deregister(id, other)
	assert.Equal(t, 1, sink.Matching(ErrTypeMismatch))
	assert.Equal(t, 1, idx.Count(Identifier[scoreChanged]()), "A mismatched handle should stay registered")
}

func TestIndex_Decode(t *testing.T) {
	idx, _ := testIndex(t)
	id := Identifier[PlayerEvent]()
	evt, err := idx.Decode(id, func(target any) error {
		p, ok := target.(*PlayerEvent)
		if !ok {
			return fmt.Errorf("unexpected target %T", target)
		}
		p.Health = 7
		p.Mana = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, PlayerEvent{Health: 7, Mana: 2}, evt)

	_, err = idx.Decode("NotARealType", func(any) error { return nil })
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = idx.Decode(id, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	decodeErr := errors.New("bad input")
	_, err = idx.Decode(id, func(any) error { return decodeErr })
	assert.ErrorIs(t, err, decodeErr)
	var dispatchErr *DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, OpDecode, dispatchErr.Op)
}

func TestIndex_ClearAll(t *testing.T) {
	idx, _ := testIndex(t)
	for _, id := range idx.Identifiers() {
		idx.Notify(id, func() {})
		idx.Notify(id, func() {})
	}
	idx.ClearAll()
	for _, id := range idx.Identifiers() {
		assert.Zero(t, idx.Count(id), id)
	}
	assert.NotNil(t, idx.Notify(Identifier[PlayerEvent](), func() {}), "Entries should survive clearing")
}
