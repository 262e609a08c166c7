package eventbus

import (
	"fmt"
	"log/slog"
)

type busConf struct {
	discoverer Discoverer
	log        *slog.Logger
	reporters  []Reporter
}

// ConfigFunc configures a [Bus] created with [New].
type ConfigFunc func(conf *busConf) error

// WithDiscoverer sets the [Discoverer] used to find event types when the bus is initialized.
// The [DefaultCatalog] is used by default.
func WithDiscoverer(discoverer Discoverer) ConfigFunc {
	return func(conf *busConf) error {
		if discoverer == nil {
			return fmt.Errorf("%w: nil discoverer", ErrInvalidArgument)
		}
		conf.discoverer = discoverer
		return nil
	}
}

// WithEvents discovers exactly the given event types, ignoring the [DefaultCatalog].
func WithEvents(bindings ...Binding) ConfigFunc {
	return WithDiscoverer(NewCatalog(bindings...))
}

// WithLogger sets the logger for the bus, which is [slog.Default] otherwise.
// Reported errors are always logged with this logger.
func WithLogger(log *slog.Logger) ConfigFunc {
	return func(conf *busConf) error {
		if log == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidArgument)
		}
		conf.log = log
		return nil
	}
}

// WithReporter adds a [Reporter] that receives runtime errors in addition to the logger.
func WithReporter(reporter Reporter) ConfigFunc {
	return func(conf *busConf) error {
		if reporter == nil {
			return fmt.Errorf("%w: nil reporter", ErrInvalidArgument)
		}
		conf.reporters = append(conf.reporters, reporter)
		return nil
	}
}

// WithErrorHandler adds a function that is called for each runtime error.
func WithErrorHandler(handler func(err error)) ConfigFunc {
	if handler == nil {
		return WithReporter(nil)
	}
	return WithReporter(ReporterFunc(handler))
}
