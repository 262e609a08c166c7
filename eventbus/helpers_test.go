package eventbus

import (
	"errors"
	"github.com/saylorsolutions/typebus/slogx"
	"github.com/stretchr/testify/require"
	"log/slog"
	"sync"
	"testing"
)

type PlayerEvent struct {
	Health int
	Mana   int
}

type scoreChanged struct {
	Score int
}

type renamedEvent struct{}

func (renamedEvent) EventName() string {
	return "game.Renamed"
}

type clashA struct{}

func (clashA) EventName() string {
	return "clash"
}

type clashB struct{}

func (clashB) EventName() string {
	return "clash"
}

type errorSink struct {
	mux  sync.Mutex
	errs []error
}

func (s *errorSink) Report(err error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.errs = append(s.errs, err)
}

func (s *errorSink) Errors() []error {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]error(nil), s.errs...)
}

func (s *errorSink) Len() int {
	return len(s.Errors())
}

// Matching returns how many reported errors match target.
func (s *errorSink) Matching(target error) int {
	var count int
	for _, err := range s.Errors() {
		if errors.Is(err, target) {
			count++
		}
	}
	return count
}

func testBindings() []Binding {
	return []Binding{
		EventType[PlayerEvent](),
		EventType[scoreChanged](),
		EventType[renamedEvent](),
	}
}

func testBus(t *testing.T, bindings ...Binding) (*Bus, *errorSink, *slogx.CaptureHandler) {
	t.Helper()
	if len(bindings) == 0 {
		bindings = testBindings()
	}
	sink := new(errorSink)
	logs := slogx.NewCaptureHandler(slog.LevelDebug)
	bus, err := New(
		WithEvents(bindings...),
		WithLogger(slog.New(logs)),
		WithReporter(sink),
	)
	require.NoError(t, err)
	return bus, sink, logs
}

func readyBus(t *testing.T, bindings ...Binding) (*Bus, *errorSink, *slogx.CaptureHandler) {
	t.Helper()
	bus, sink, logs := testBus(t, bindings...)
	require.NoError(t, bus.Initialize())
	return bus, sink, logs
}
