package signalx

import (
	"context"
	"os"
	"os/signal"
)

// SignalCtx will set up a context that will be cancelled if any of the given signals are received.
func SignalCtx(parent context.Context, signals ...os.Signal) context.Context {
	if len(signals) == 0 {
		panic("no signals passed to SignalCtx")
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals...)
	go func() {
		defer cancel()
		defer signal.Stop(sigs)
		select {
		case <-sigs:
		case <-ctx.Done():
		}
	}()
	return ctx
}

// OnSignal calls fn with each of the given signals that is received until ctx is done.
// Calls to fn happen on a single goroutine, one at a time.
func OnSignal(ctx context.Context, fn func(os.Signal), signals ...os.Signal) {
	if len(signals) == 0 {
		panic("no signals passed to OnSignal")
	}
	if fn == nil {
		panic("nil signal function")
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals...)
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigs:
				fn(sig)
			}
		}
	}()
}
