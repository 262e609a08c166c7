/*
Package cli provides a small tree of sub-commands for the typebus tool, built on [pflag].

  - User-visible output goes to STDERR by default, through a [Printer] that can be redirected.
  - Flags are not interspersed, so everything after the first positional argument is an argument.
  - Flags apply only to the command that defines them. Shared setup, like logging, belongs in a [PreExec] added with [CommandSet.BeforeExec].

# Invocation

	CLI_NAME [SUB-COMMAND...] [FLAGS...] [ARGS...]

Calling CLI_NAME alone, or with one of [HelpPatterns], prints usage when the CLI calls [CommandSet.RespondUsage].
Every command also has '-h' and '--help' flags.

A [CommandFunc] may return a [UsageError] to have the error and the command's usage printed together.

[pflag]: https://github.com/spf13/pflag
*/
package cli
