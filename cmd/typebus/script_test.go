package main

import (
	"bytes"
	"context"
	"errors"
	xassert "github.com/saylorsolutions/typebus/assert"
	"github.com/saylorsolutions/typebus/eventbus"
	"github.com/saylorsolutions/typebus/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"sync/atomic"
	"testing"
)

const testScript = `
subscribe:
  - name: hud
    event: game.PlayerEvent
  - name: once
    event: game.PlayerEvent
    notify: true
    limit: 1
steps:
  - raise: game.PlayerEvent
    payload: {player: ada, health: 5, mana: 3}
  - raise: game.PlayerEvent
    payload: {health: 1, mana: 1}
  - transition: exiting active session
  - raise: game.PlayerEvent
  - subscribe: hud
  - raise: game.ScoreChanged
    payload: {score: 10}
  - raise: game.PlayerEvent
    payload: {health: 2}
`

func testRunner(t *testing.T) (*Runner, *bytes.Buffer, *atomic.Int64) {
	t.Helper()
	var reported atomic.Int64
	bus, err := eventbus.New(
		eventbus.WithLogger(slogx.NewDiscardLogger()),
		eventbus.WithErrorHandler(func(error) {
			reported.Add(1)
		}),
	)
	require.NoError(t, err)
	require.NoError(t, bus.Initialize())
	var out bytes.Buffer
	runner := NewRunner(bus, slogx.NewDiscardLogger(), &out, func() int {
		return int(reported.Load())
	})
	return runner, &out, &reported
}

func TestRunner_Run(t *testing.T) {
	script, err := LoadScript(strings.NewReader(testScript))
	require.NoError(t, err)
	runner, out, reported := testRunner(t)

	require.NoError(t, runner.Run(context.Background(), script))
	assert.Equal(t, `hud <- game.PlayerEvent {Player:ada Health:5 Mana:3}
once <- game.PlayerEvent
hud <- game.PlayerEvent {Player: Health:1 Mana:1}
hud <- game.PlayerEvent {Player: Health:2 Mana:0}
`, out.String())
	assert.Zero(t, reported.Load())
}

func TestRunner_Run_Cancelled(t *testing.T) {
	script, err := LoadScript(strings.NewReader(testScript))
	require.NoError(t, err)
	runner, out, _ := testRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, runner.Run(ctx, script), context.Canceled)
	assert.Empty(t, out.String())
}

func TestRunner_Run_BadPayload(t *testing.T) {
	script, err := LoadScript(strings.NewReader(`
steps:
  - raise: game.ScoreChanged
    payload: {score: lots}
`))
	require.NoError(t, err)
	runner, _, _ := testRunner(t)

	err = runner.Run(context.Background(), script)
	var dispatchErr *eventbus.DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, eventbus.OpDecode, dispatchErr.Op)
	assert.Equal(t, "game.ScoreChanged", dispatchErr.EventID)
}

func TestRunner_Run_Reported(t *testing.T) {
	runner, _, reported := testRunner(t)
	runner.reported = func() int {
		// Simulates an error reported while the script runs.
		return int(reported.Add(1)) - 1
	}
	err := runner.Run(context.Background(), &Script{})
	assert.ErrorIs(t, err, ErrReported)
}

func TestLoadScript(t *testing.T) {
	script, err := LoadScript(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, script.Steps)

	_, err = LoadScript(strings.NewReader("steps:\n  - raze: game.PlayerEvent\n"))
	assert.ErrorIs(t, err, ErrInvalidScript)
}

func TestScript_Validate(t *testing.T) {
	script, err := LoadScript(strings.NewReader(`
subscribe:
  - name: hud
    event: game.PlayerEvent
  - name: hud
    event: game.Missing
  - event: game.ScoreChanged
steps:
  - raise: game.Missing
  - transition: lunch break
  - subscribe: nobody
  - raise: game.PlayerEvent
    transition: before load
  - {}
  - sleep: 10ms
`))
	require.NoError(t, err)
	ids := []string{"game.PlayerEvent", "game.ScoreChanged"}

	err = script.Validate(ids)
	assert.ErrorIs(t, err, ErrInvalidScript)
	var collector *xassert.Collector
	require.True(t, errors.As(err, &collector))
	assert.Equal(t, 8, collector.Len())

	assert.NoError(t, (&Script{Steps: []Step{{Raise: "game.PlayerEvent"}}}).Validate(ids))
}

func TestScript_Describe(t *testing.T) {
	script, err := LoadScript(strings.NewReader(testScript))
	require.NoError(t, err)
	var out bytes.Buffer
	script.Describe(&out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "subscribe hud to game.PlayerEvent", lines[0])
	assert.Equal(t, `2: transition "exiting active session"`, lines[4])
	assert.Equal(t, "4: subscribe hud", lines[6])
}
