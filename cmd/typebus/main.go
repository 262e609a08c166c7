package main

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/typebus/cli"
	"github.com/saylorsolutions/typebus/eventbus"
	"github.com/saylorsolutions/typebus/host"
	"github.com/saylorsolutions/typebus/signalx"
	flag "github.com/spf13/pflag"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
)

type app struct {
	environ []string
	stderr  io.Writer
	stdout  io.Writer
	log     *slog.Logger
	closer  io.Closer
}

func main() {
	a := &app{
		environ: os.Environ(),
		stderr:  os.Stderr,
		stdout:  os.Stdout,
	}
	os.Exit(a.main(context.Background(), os.Args[1:]))
}

func (a *app) main(ctx context.Context, args []string) int {
	root := a.commands()
	if root.RespondUsage(args, "Lists and exercises the events declared in this binary.") {
		return 0
	}
	defer func() {
		if a.closer != nil {
			_ = a.closer.Close()
		}
	}()
	if err := root.Exec(ctx, args); err != nil {
		if cli.IsUsageError(err) {
			return 2
		}
		root.Printer().Println("Error:", err)
		return 1
	}
	return 0
}

func (a *app) commands() *cli.CommandSet {
	root := cli.NewCommandSet("typebus")
	root.Printer().Redirect(a.stderr)
	root.BeforeExec(a.setup)

	list := root.AddCommand("list", "Lists the identifiers of declared events", "ls").
		Usage("[FLAGS]").
		Does(a.list)
	list.Flags().String("prefix", "", "Only lists identifiers starting with this prefix")
	addLogFlags(list.Flags())

	run := root.AddCommand("run", "Runs a YAML script of subscriptions, raised events, and host transitions").
		Usage("[FLAGS] SCRIPT").
		Does(a.run)
	run.Flags().Bool("dry-run", false, "Validates the script and prints what it would do")
	addLogFlags(run.Flags())
	return root
}

func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	conf, err := LoadConfig(a.environ)
	if err != nil {
		return ctx, err
	}
	conf, err = conf.WithFlags(cmd.Flags())
	if err != nil {
		return ctx, err
	}
	log, closer, err := newLogger(conf, a.stderr)
	if err != nil {
		return ctx, err
	}
	a.log = log.With("command", cmd.Key())
	a.closer = closer
	slog.SetDefault(log)
	return ctx, nil
}

func (a *app) newBus(configFuncs ...eventbus.ConfigFunc) (*eventbus.Bus, error) {
	bus, err := eventbus.New(append([]eventbus.ConfigFunc{eventbus.WithLogger(a.log)}, configFuncs...)...)
	if err != nil {
		return nil, err
	}
	if err := bus.Initialize(); err != nil {
		return nil, err
	}
	return bus, nil
}

func (a *app) list(_ context.Context, flags *flag.FlagSet, _ *cli.Printer) error {
	prefix := cli.MustGet(flags.GetString("prefix"))
	bus, err := a.newBus()
	if err != nil {
		return err
	}
	for _, id := range bus.Identifiers() {
		if strings.HasPrefix(id, prefix) {
			_, _ = fmt.Fprintln(a.stdout, id)
		}
	}
	return nil
}

func (a *app) run(ctx context.Context, flags *flag.FlagSet, _ *cli.Printer) error {
	var path string
	if err := cli.MapArgs(flags.Args(), 1, &path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	script, err := LoadScript(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	var reported atomic.Int64
	bus, err := a.newBus(eventbus.WithErrorHandler(func(error) {
		reported.Add(1)
	}))
	if err != nil {
		return err
	}
	if cli.MustGet(flags.GetBool("dry-run")) {
		if err := script.Validate(bus.Identifiers()); err != nil {
			return err
		}
		script.Describe(a.stdout)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sig := host.NewSignal(ctx)
	bus.AttachHost(sig)
	sig.Observe(func(t host.Transition) {
		if t == host.ExitingSession {
			cancel()
		}
	})
	signalx.OnSignal(ctx, func(s os.Signal) {
		a.log.Warn("Received signal, ending session", "signal", s.String())
		sig.Notify(host.ExitingSession)
	}, os.Interrupt, syscall.SIGTERM)
	sig.Notify(host.EnteringSession)

	runner := NewRunner(bus, a.log, a.stdout, func() int {
		return int(reported.Load())
	})
	return runner.Run(ctx, script)
}
