package cli

import (
	"context"
	"errors"
	"fmt"
	flag "github.com/spf13/pflag"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	HelpPatterns      = []string{"--help", "-h"} // HelpPatterns are the arguments that print usage for a [CommandSet].

	keyCleansePattern = regexp.MustCompile(`\s`)
)

// CommandFunc is the work done by a [Command].
// Flags have already been parsed, and flags.Args() holds the remaining positional arguments.
type CommandFunc = func(ctx context.Context, flags *flag.FlagSet, printer *Printer) error

// PreExec runs right before a [Command] executes, and may replace the context passed to it.
// Returning an error stops the command from running.
type PreExec = func(ctx context.Context, cmd *Command) (context.Context, error)

// Command is an executable leaf or branch in a tree of commands.
type Command struct {
	CommandSet
	flags      *flag.FlagSet
	exec       CommandFunc
	key        string
	shortUsage string
	aliases    []string
}

func cleanseKey(key string) string {
	return keyCleansePattern.ReplaceAllString(strings.ToLower(key), "")
}

func newCommand(key string, parent *CommandSet, shortUsage string) *Command {
	key = cleanseKey(key)
	fs := flag.NewFlagSet(key, flag.ContinueOnError)
	fs.BoolP("help", "h", false, "Prints this usage information")
	fs.SetInterspersed(false)
	cmd := &Command{flags: fs, key: key, shortUsage: shortUsage}
	cmd.CommandSet = CommandSet{
		path:    strings.TrimSpace(parent.path + " " + key),
		printer: parent.Printer(),
		preExec: parent.preExec,
	}
	fs.SetOutput(cmd.Printer())
	cmd.Usage("").Does(func(_ context.Context, flags *flag.FlagSet, _ *Printer) error {
		flags.Usage()
		return nil
	})
	return cmd
}

// Does sets the [CommandFunc] run by this [Command].
// A nil function is ignored.
func (c *Command) Does(commandFunc CommandFunc) *Command {
	if commandFunc == nil {
		return c
	}
	c.exec = commandFunc
	return c
}

// Key returns the normalized name of the [Command].
func (c *Command) Key() string {
	return c.key
}

// Flags returns the [flag.FlagSet] for this [Command].
func (c *Command) Flags() *flag.FlagSet {
	return c.flags
}

// Usage sets a longer description printed when help is requested, after the short description.
// The format is prefixed with the command's path, so it should describe the arguments.
//
//	cmd.Usage("[FLAGS] SCRIPT")
func (c *Command) Usage(format string, args ...any) *Command {
	text := fmt.Sprintf(format, args...)
	if len(text) > 0 {
		text = "USAGE:\n  " + c.path + " " + text
	}
	c.flags.Usage = func() {
		var buf strings.Builder
		buf.WriteString(c.shortUsage)
		buf.WriteString("\n")
		if len(text) > 0 {
			buf.WriteString("\n")
			buf.WriteString(strings.TrimSuffix(text, "\n"))
			buf.WriteString("\n")
		}
		buf.WriteString("\nFLAGS:\n")
		buf.WriteString(c.flags.FlagUsages())
		if len(c.commands) > 0 {
			buf.WriteString("\nCOMMANDS:\n")
			buf.WriteString(c.CommandUsages())
		}
		c.Printer().Print(buf.String())
	}
	return c
}

// Exec runs a sub-command if the first argument names one, otherwise it parses flags and runs this [Command].
func (c *Command) Exec(ctx context.Context, args []string) error {
	err := c.CommandSet.Exec(ctx, args)
	if err == nil || !errors.Is(err, ErrUnknownCommand) {
		return err
	}
	// pflag has already printed the error and usage.
	if err := c.flags.Parse(args); err != nil {
		return NewUsageError("%w", err)
	}
	if help, _ := c.flags.GetBool("help"); help {
		c.flags.Usage()
		return nil
	}
	for _, pre := range c.preExec {
		ctx, err = pre(ctx, c)
		if err != nil {
			return err
		}
	}
	err = c.exec(ctx, c.flags, c.Printer())
	if IsUsageError(err) {
		c.Printer().Println(err)
		c.Printer().Println()
		c.flags.Usage()
	}
	return err
}

// PrintUsage prints the usage information for this [Command].
func (c *Command) PrintUsage() {
	c.flags.Usage()
}

// CommandSet is a group of named [Command].
type CommandSet struct {
	commands map[string]*Command
	aliases  map[string]*Command
	printer  *Printer
	path     string
	preExec  []PreExec
}

// NewCommandSet creates the root [CommandSet] of a CLI.
// The path should be how the CLI is invoked, and is used in usage information.
func NewCommandSet(path ...string) *CommandSet {
	return &CommandSet{printer: NewPrinter(), path: strings.Join(path, " ")}
}

// Path returns the words used to invoke this [CommandSet].
func (s *CommandSet) Path() string {
	return s.path
}

// BeforeExec adds a [PreExec] for every [Command] added to this set afterward, including nested ones.
// Panics if fn is nil.
func (s *CommandSet) BeforeExec(fn PreExec) *CommandSet {
	if fn == nil {
		panic("nil pre-exec function")
	}
	s.preExec = append(s.preExec, fn)
	return s
}

// AddCommand adds a sub-command to this [CommandSet].
// The key and aliases are lower-cased with whitespace removed.
func (s *CommandSet) AddCommand(key, shortUsage string, aliases ...string) *Command {
	cmd := newCommand(key, s, shortUsage)
	if s.commands == nil {
		s.commands = map[string]*Command{}
	}
	s.commands[cmd.key] = cmd
	for _, alias := range aliases {
		alias = cleanseKey(alias)
		if len(alias) == 0 {
			continue
		}
		if s.aliases == nil {
			s.aliases = map[string]*Command{}
		}
		s.aliases[alias] = cmd
		cmd.aliases = append(cmd.aliases, alias)
	}
	slices.Sort(cmd.aliases)
	return cmd
}

// Printer returns the [Printer] shared by this [CommandSet] and its commands.
func (s *CommandSet) Printer() *Printer {
	if s.printer == nil {
		s.printer = NewPrinter()
	}
	return s.printer
}

// Exec finds the sub-command named by the first argument and executes it with the rest.
func (s *CommandSet) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no arguments", ErrUnknownCommand)
	}
	key := strings.ToLower(args[0])
	cmd, ok := s.commands[key]
	if !ok {
		cmd, ok = s.aliases[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
	}
	return cmd.Exec(ctx, args[1:])
}

// RespondUsage prints usage information if args is empty or starts with one of [HelpPatterns].
// Returns true if usage was printed.
func (s *CommandSet) RespondUsage(args []string, format string, vals ...any) bool {
	if len(args) > 0 && !slices.Contains(HelpPatterns, args[0]) {
		return false
	}
	text := fmt.Sprintf(format, vals...)
	if len(text) > 0 {
		text = "\n\n" + strings.TrimSuffix(text, "\n")
	}
	s.Printer().Printf("%s%s\n\nCOMMANDS:\n%s", s.path, text, s.CommandUsages())
	return true
}

// CommandUsages lists each sub-command with its aliases and short usage, sorted by key.
func (s *CommandSet) CommandUsages() string {
	keys := slices.Sorted(maps.Keys(s.commands))
	names := make([]string, len(keys))
	var maxLen int
	for i, key := range keys {
		names[i] = strings.Join(append([]string{key}, s.commands[key].aliases...), ", ")
		maxLen = max(maxLen, len(names[i]))
	}
	var buf strings.Builder
	for i, key := range keys {
		_, _ = fmt.Fprintf(&buf, "  %-*s\t%s\n", maxLen, names[i], s.commands[key].shortUsage)
	}
	return buf.String()
}
