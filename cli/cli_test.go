package cli

import (
	"bytes"
	"context"
	"errors"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCommand_Exec(t *testing.T) {
	set := NewCommandSet("typebus")
	var out bytes.Buffer
	set.Printer().Redirect(&out)
	cmd := set.AddCommand("list", "Lists event identifiers")
	assert.NoError(t, cmd.Exec(context.Background(), nil), "The default function prints usage")
	assert.Contains(t, out.String(), "Lists event identifiers")

	var executed bool
	cmd.Does(func(_ context.Context, flags *flag.FlagSet, _ *Printer) error {
		executed = true
		assert.Equal(t, []string{"extra"}, flags.Args())
		return nil
	})
	assert.NoError(t, cmd.Exec(context.Background(), []string{"extra"}))
	assert.True(t, executed)
}

func TestCommandSet_Exec(t *testing.T) {
	set := NewCommandSet("typebus")
	set.Printer().Redirect(new(discardWriter))
	assert.ErrorIs(t, set.Exec(context.Background(), nil), ErrUnknownCommand)

	var executed bool
	set.AddCommand("run", "Runs a script").Does(func(context.Context, *flag.FlagSet, *Printer) error {
		executed = true
		return nil
	})
	assert.NoError(t, set.Exec(context.Background(), []string{"RUN"}))
	assert.True(t, executed)
	assert.ErrorIs(t, set.Exec(context.Background(), []string{"does", "not", "exist"}), ErrUnknownCommand)
}

func TestCommand_SubCommands(t *testing.T) {
	var cmdExecuted, subExecuted int
	set := testCommandSet(t, &cmdExecuted, &subExecuted)

	assert.NoError(t, set.Exec(context.Background(), []string{"test", "--message", "hi"}))
	assert.NoError(t, set.Exec(context.Background(), []string{"t", "other"}), "An unknown sub-command is an argument")
	assert.Equal(t, 2, cmdExecuted)
	assert.Zero(t, subExecuted)

	assert.NoError(t, set.Exec(context.Background(), []string{"test", "sub"}))
	assert.NoError(t, set.Exec(context.Background(), []string{"test", "a"}))
	assert.NoError(t, set.Exec(context.Background(), []string{"t", "B"}))
	assert.Equal(t, 3, subExecuted)
}

func TestCommandSet_BeforeExec(t *testing.T) {
	type ctxKey struct{}
	var (
		set   = NewCommandSet("typebus")
		order []string
	)
	set.Printer().Redirect(new(discardWriter))
	set.BeforeExec(func(ctx context.Context, cmd *Command) (context.Context, error) {
		order = append(order, "pre "+cmd.Key())
		return context.WithValue(ctx, ctxKey{}, "configured"), nil
	})
	set.AddCommand("list", "").Does(func(ctx context.Context, _ *flag.FlagSet, _ *Printer) error {
		order = append(order, "list")
		assert.Equal(t, "configured", ctx.Value(ctxKey{}))
		return nil
	})
	require.NoError(t, set.Exec(context.Background(), []string{"list"}))
	assert.Equal(t, []string{"pre list", "list"}, order)

	require.NoError(t, set.Exec(context.Background(), []string{"list", "-h"}))
	assert.Len(t, order, 2, "Printing help shouldn't run pre-exec functions")

	errConfig := errors.New("bad config")
	failing := NewCommandSet("typebus").BeforeExec(func(ctx context.Context, _ *Command) (context.Context, error) {
		return ctx, errConfig
	})
	failing.AddCommand("list", "").Does(func(context.Context, *flag.FlagSet, *Printer) error {
		t.Error("Should not run after a pre-exec error")
		return nil
	})
	assert.ErrorIs(t, failing.Exec(context.Background(), []string{"list"}), errConfig)

	assert.Panics(t, func() {
		NewCommandSet().BeforeExec(nil)
	})
}

func TestCommandSet_RespondUsage(t *testing.T) {
	var cmdExecuted, subExecuted int
	set := testCommandSet(t, &cmdExecuted, &subExecuted)
	var out bytes.Buffer
	set.Printer().Redirect(&out)

	assert.False(t, set.RespondUsage([]string{"test"}, "Printed usage"))
	assert.Empty(t, out.String())
	assert.True(t, set.RespondUsage([]string{HelpPatterns[0], "something"}, "Printed usage"))
	assert.Contains(t, out.String(), "Printed usage")
	assert.Contains(t, out.String(), "test, t")
	out.Reset()
	assert.True(t, set.RespondUsage(nil, ""), "No arguments should print usage")
	assert.Contains(t, out.String(), "COMMANDS:")
}

func testCommandSet(t *testing.T, cmdExecuted, subExecuted *int) *CommandSet {
	set := NewCommandSet("commands")
	set.Printer().Redirect(new(discardWriter))
	cmd := set.AddCommand("test", "test command", "t")
	cmd.Flags().String("message", "", "Sets a message")
	cmd.Does(func(context.Context, *flag.FlagSet, *Printer) error {
		*cmdExecuted++
		return nil
	})

	sub := cmd.AddCommand("sub", "test subcommand", "a", "b", " ")
	assert.Equal(t, "commands test sub", sub.Path())
	assert.Equal(t, []string{"a", "b"}, sub.aliases)
	sub.Does(func(context.Context, *flag.FlagSet, *Printer) error {
		*subExecuted++
		return nil
	})
	return set
}
