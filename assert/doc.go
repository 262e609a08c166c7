/*
Package assert provides runtime assertion support for internal invariants, and error collection for validation that should report every problem at once.

There are a few patterns that are supported:
  - Collecting many possible errors into one with [Collector], which still works with [errors.Is] and [errors.As].
  - Assertions that panic if they are violated.
  - Removal of assertions with a build flag to maintain runtime performance.

The event bus uses a [Collector] while building its dispatch index so that every identifier collision is reported in one error,
and assertions to check that the finished index covers every declared event type.

To turn off assertions build with the 'noassert' flag.
*/
package assert
