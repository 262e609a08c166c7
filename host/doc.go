// Package host models the lifecycle signals that a host environment pushes to in-process components,
// such as an interactive session starting or ending.
// The host decides when transitions happen, and components like the event bus react to them by observing a [Signal].
package host
