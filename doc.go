/*
Package typebus is the root of an in-process event bus where each event is a value of its own Go type.

The bus lives in [github.com/saylorsolutions/typebus/eventbus].
It's supported by small, general packages that follow the standard library's naming:

  - structures/set and structures/bidimap hold subscription membership and the identifier to type mapping.
  - syncx makes lock scoping explicit with function helpers.
  - assert collects construction errors and checks internal invariants.
  - slogx merges, captures, and discards [log/slog] records.
  - host and signalx deliver lifecycle transitions and OS signals.
  - cli is the command tree used by cmd/typebus.
*/
package typebus
