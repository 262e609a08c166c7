package cli

import (
	"errors"
	"fmt"
)

// MustGet is used with a [pflag.FlagSet] getter to panic if the flag is not defined, or is not the right type.
// The developer usually knows whether a get call will fail, so this avoids error handling for flags the command itself defined.
func MustGet[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

var (
	ErrArgMap = errors.New("failed to map argument(s)")
)

// MapArgs maps positional arguments to targets in order, requiring at least minArgs of them.
// The returned error is a [UsageError] when there aren't enough arguments.
func MapArgs(args []string, minArgs int, targets ...*string) error {
	if len(targets) < minArgs {
		return fmt.Errorf("%w: not enough targets (%d) to satisfy minArgs (%d)", ErrArgMap, len(targets), minArgs)
	}
	if len(args) < minArgs {
		return NewUsageError("%w: expected at least %d argument(s), got %d", ErrArgMap, minArgs, len(args))
	}
	for i := 0; i < len(args) && i < len(targets); i++ {
		if targets[i] == nil {
			return fmt.Errorf("%w: target %d is nil", ErrArgMap, i)
		}
		*targets[i] = args[i]
	}
	return nil
}
