package main

import (
	"fmt"
	"github.com/caarlos0/env/v11"
	"github.com/saylorsolutions/typebus/cli"
	flag "github.com/spf13/pflag"
	"log/slog"
	"slices"
	"strings"
)

const envPrefix = "TYPEBUS_"

const (
	FormatAuto   = "auto"
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

var logFormats = []string{FormatAuto, FormatText, FormatJSON, FormatPretty}

// Config is read from TYPEBUS_* environment variables, and may be overridden with command flags.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"auto"`
	LogFile   string `env:"LOG_FILE"`
}

// LoadConfig parses configuration from environ, which holds KEY=value pairs like [os.Environ].
func LoadConfig(environ []string) (Config, error) {
	vars := map[string]string{}
	for _, kv := range environ {
		key, val, found := strings.Cut(kv, "=")
		if found {
			vars[key] = val
		}
	}
	var conf Config
	if err := env.ParseWithOptions(&conf, env.Options{
		Prefix:      envPrefix,
		Environment: vars,
	}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate checks that the level and format are understood.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if !slices.Contains(logFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("unknown log format %q, expected one of %s", c.LogFormat, strings.Join(logFormats, ", "))
	}
	return nil
}

// Level parses LogLevel as a [slog.Level].
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func addLogFlags(flags *flag.FlagSet) {
	flags.String("log-level", "", "Overrides TYPEBUS_LOG_LEVEL (debug, info, warn, error)")
	flags.String("log-format", "", "Overrides TYPEBUS_LOG_FORMAT ("+strings.Join(logFormats, ", ")+")")
}

// WithFlags applies log flags that were set on the command line.
func (c Config) WithFlags(flags *flag.FlagSet) (Config, error) {
	if flags.Lookup("log-level") != nil && flags.Changed("log-level") {
		c.LogLevel = cli.MustGet(flags.GetString("log-level"))
	}
	if flags.Lookup("log-format") != nil && flags.Changed("log-format") {
		c.LogFormat = cli.MustGet(flags.GetString("log-format"))
	}
	if err := c.Validate(); err != nil {
		return c, cli.NewUsageError("%w", err)
	}
	return c, nil
}
