/*
Package eventbus provides an in-process, synchronous publish/subscribe event bus where every event is a value of its own Go type.

# Design Priorities

  - Raising an event should never deadlock, even when a subscriber raises another event or changes subscriptions while it's being called.
  - Typed code should never need type assertions, while tooling can still work with events by a string identifier.
  - Problems found while raising an event should be reported, not returned to the code raising it.

# Event Types

An event type is any named, non-pointer type, usually a struct.
Its identifier is "<package path>.<type name>", unless the type implements [Namer].

Event types must be declared before a [Bus] is initialized, usually from an init function.

	type PlayerEvent struct {
		Health int
		Mana   int
	}

	func init() {
		eventbus.Declare[PlayerEvent]()
	}

[Declare] adds the type to the [DefaultCatalog].
Use [NewCatalog] and [EventType] with [WithDiscoverer] or [WithEvents] to control exactly which types a [Bus] knows about.

# Bus Lifecycle

A [Bus] is created with [New], and must be initialized with [Bus.Initialize] before it's used.
Initialization discovers every declared event type, creates a [Registry] for each, and builds the [Index] that routes identifiers to registries.
Two types sharing an identifier, or a type that can't be an event, fail initialization with all problems reported together.

[Bus.ClearAll] removes every subscription without touching the index.
This also happens when the host signals [host.ExitingSession], see [Bus.AttachHost].

[Instance] provides a process-wide bus for applications that don't want to pass one around.

# Raising and Subscribing

Typed code uses the generic functions.

	sub, err := eventbus.Subscribe(bus, func(evt PlayerEvent) {
		fmt.Println(evt.Health)
	})
	eventbus.Raise(bus, PlayerEvent{Health: 100})
	err = eventbus.Deregister(bus, sub)

Code that only has an identifier uses the methods on [Bus], like [Bus.Raise] and [Bus.RegisterByID].
Values passed this way are checked against the identified type, and a mismatch is reported as [ErrTypeMismatch].

Subscriptions are called in the order they were registered, on the goroutine raising the event.
A subscription registered while an event is being raised only sees later events, and one deregistered during a raise is not called again.

# Error Reporting

Runtime problems such as an unknown identifier or a panicking callback are sent to the bus' [Reporter] as a [*DispatchError].
They're logged by default, and [WithReporter] or [WithErrorHandler] can be used to receive them as well.
*/
package eventbus
