package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/typebus/assert"
	"github.com/saylorsolutions/typebus/eventbus"
	"github.com/saylorsolutions/typebus/host"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
	"slices"
	"time"
)

var (
	ErrInvalidScript = errors.New("invalid script")
	ErrReported      = errors.New("errors were reported while running the script")
)

var knownTransitions = []host.Transition{host.EnteringSession, host.ExitingSession, host.BeforeLoad}

// Script describes subscriptions to create, followed by steps to run in order.
//
//	subscribe:
//	  - name: hud
//	    event: game.PlayerEvent
//	    limit: 1
//	steps:
//	  - raise: game.PlayerEvent
//	    payload: {health: 5, mana: 3}
//	  - transition: exiting active session
type Script struct {
	Subscribe []ScriptSubscription `yaml:"subscribe"`
	Steps     []Step               `yaml:"steps"`
}

// ScriptSubscription prints each event it receives.
type ScriptSubscription struct {
	Name   string `yaml:"name"`
	Event  string `yaml:"event"`
	Notify bool   `yaml:"notify"` // Notify subscriptions don't receive the event value.
	Limit  int    `yaml:"limit"`  // Limit deregisters the subscription after this many events, if positive.
}

// Step does exactly one thing.
type Step struct {
	Raise      string        `yaml:"raise"`
	Payload    yaml.Node     `yaml:"payload"`
	Transition string        `yaml:"transition"`
	Subscribe  string        `yaml:"subscribe"` // Subscribe names a subscription from the script to register again.
	Sleep      time.Duration `yaml:"sleep"`
}

func (s Step) kinds() int {
	var n int
	for _, set := range []bool{len(s.Raise) > 0, len(s.Transition) > 0, len(s.Subscribe) > 0, s.Sleep > 0} {
		if set {
			n++
		}
	}
	return n
}

// LoadScript decodes a [Script], rejecting unknown fields.
func LoadScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var script Script
	if err := dec.Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return &script, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	return &script, nil
}

// Validate checks the script against the identifiers the bus knows, collecting every problem.
func (s *Script) Validate(ids []string) error {
	errs := assert.CollectErrors("\n  ").WithPrefix("script validation failed:")
	names := map[string]bool{}
	for i, sub := range s.Subscribe {
		if len(sub.Name) == 0 {
			errs.AddString("%w: subscription %d has no name", ErrInvalidScript, i)
		} else if names[sub.Name] {
			errs.AddString("%w: subscription name %q is used more than once", ErrInvalidScript, sub.Name)
		}
		names[sub.Name] = true
		if !slices.Contains(ids, sub.Event) {
			errs.AddString("%w: subscription %q uses unknown event %q", ErrInvalidScript, sub.Name, sub.Event)
		}
	}
	for i, step := range s.Steps {
		if step.kinds() != 1 {
			errs.AddString("%w: step %d must have exactly one of raise, transition, subscribe, or sleep", ErrInvalidScript, i)
			continue
		}
		switch {
		case len(step.Raise) > 0 && !slices.Contains(ids, step.Raise):
			errs.AddString("%w: step %d raises unknown event %q", ErrInvalidScript, i, step.Raise)
		case len(step.Transition) > 0 && !slices.Contains(knownTransitions, host.Transition(step.Transition)):
			errs.AddString("%w: step %d uses unknown transition %q", ErrInvalidScript, i, step.Transition)
		case len(step.Subscribe) > 0 && !names[step.Subscribe]:
			errs.AddString("%w: step %d subscribes unknown subscription %q", ErrInvalidScript, i, step.Subscribe)
		}
	}
	return errs.Result()
}

// Runner executes a [Script] against a ready [eventbus.Bus].
type Runner struct {
	bus      *eventbus.Bus
	log      *slog.Logger
	out      io.Writer
	subs     map[string]ScriptSubscription
	reported func() int
}

// NewRunner creates a [Runner] that prints received events to out.
// The reported function returns how many errors the bus has reported so far.
func NewRunner(bus *eventbus.Bus, log *slog.Logger, out io.Writer, reported func() int) *Runner {
	return &Runner{
		bus:      bus,
		log:      log,
		out:      out,
		subs:     map[string]ScriptSubscription{},
		reported: reported,
	}
}

// Run registers the script's subscriptions and runs each step until done or ctx is cancelled.
// [ErrReported] is returned if the bus reported any errors.
func (r *Runner) Run(ctx context.Context, script *Script) error {
	if err := script.Validate(r.bus.Identifiers()); err != nil {
		return err
	}
	before := r.reported()
	for _, sub := range script.Subscribe {
		r.subs[sub.Name] = sub
		r.subscribe(sub)
	}
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped before step %d: %w", i, err)
		}
		if err := r.step(ctx, i, step); err != nil {
			return err
		}
	}
	if n := r.reported() - before; n > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrReported, n)
	}
	return nil
}

func (r *Runner) step(ctx context.Context, i int, step Step) error {
	log := r.log.With("step", i)
	switch {
	case len(step.Raise) > 0:
		evt, err := r.bus.Decode(step.Raise, func(target any) error {
			if step.Payload.IsZero() {
				return nil
			}
			return step.Payload.Decode(target)
		})
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		log.Debug("Raising event", "event", step.Raise)
		r.bus.Raise(step.Raise, evt)
	case len(step.Transition) > 0:
		log.Debug("Host transition", "transition", step.Transition)
		r.bus.OnHostTransition(host.Transition(step.Transition))
	case len(step.Subscribe) > 0:
		r.subscribe(r.subs[step.Subscribe])
	case step.Sleep > 0:
		select {
		case <-ctx.Done():
		case <-time.After(step.Sleep):
		}
	}
	return nil
}

func (r *Runner) subscribe(sub ScriptSubscription) {
	var (
		h     eventbus.Handle
		count int
	)
	received := func(evt any) {
		count++
		if sub.Notify {
			_, _ = fmt.Fprintf(r.out, "%s <- %s\n", sub.Name, sub.Event)
		} else {
			_, _ = fmt.Fprintf(r.out, "%s <- %s %+v\n", sub.Name, sub.Event, evt)
		}
		if sub.Limit > 0 && count >= sub.Limit {
			r.bus.DeregisterByID(sub.Event, h)
		}
	}
	if sub.Notify {
		h = r.bus.NotifyByID(sub.Event, func() {
			received(nil)
		})
	} else {
		h = r.bus.RegisterByID(sub.Event, received)
	}
	if h != nil {
		r.log.Debug("Subscribed", "subscription", sub.Name, "event", sub.Event, "handle", h.Label())
	}
}

// Describe writes what the script would do without running it.
func (s *Script) Describe(out io.Writer) {
	for _, sub := range s.Subscribe {
		_, _ = fmt.Fprintf(out, "subscribe %s to %s\n", sub.Name, sub.Event)
	}
	for i, step := range s.Steps {
		switch {
		case len(step.Raise) > 0:
			_, _ = fmt.Fprintf(out, "%d: raise %s\n", i, step.Raise)
		case len(step.Transition) > 0:
			_, _ = fmt.Fprintf(out, "%d: transition %q\n", i, step.Transition)
		case len(step.Subscribe) > 0:
			_, _ = fmt.Fprintf(out, "%d: subscribe %s\n", i, step.Subscribe)
		case step.Sleep > 0:
			_, _ = fmt.Fprintf(out, "%d: sleep %s\n", i, step.Sleep)
		}
	}
}
