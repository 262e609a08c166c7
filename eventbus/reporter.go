package eventbus

import (
	"errors"
	"log/slog"
)

// Reporter receives errors that happen at runtime and can't be returned to a caller, like a missing callback found while raising an event.
// Implementations must be safe to call from multiple goroutines.
type Reporter interface {
	Report(err error)
}

// ReporterFunc allows a function to be used as a [Reporter].
type ReporterFunc func(err error)

func (f ReporterFunc) Report(err error) {
	f(err)
}

var discardReporter = ReporterFunc(func(error) {})

type reporters []Reporter

func (r reporters) Report(err error) {
	for _, rep := range r {
		rep.Report(err)
	}
}

// LogReporter creates a [Reporter] that logs each error at the error level.
// Details from a [DispatchError] are added as attributes.
func LogReporter(log *slog.Logger) Reporter {
	if log == nil {
		log = slog.Default()
	}
	return ReporterFunc(func(err error) {
		attrs := []any{"error", err}
		var dispatchErr *DispatchError
		if errors.As(err, &dispatchErr) {
			attrs = append(attrs, "op", string(dispatchErr.Op))
			if len(dispatchErr.EventID) > 0 {
				attrs = append(attrs, "event", dispatchErr.EventID)
			}
			if len(dispatchErr.Subscription) > 0 {
				attrs = append(attrs, "subscription", dispatchErr.Subscription)
			}
		}
		log.Error("Event bus error", attrs...)
	})
}
