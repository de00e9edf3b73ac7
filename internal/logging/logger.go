// Alphaweb - Multi-tenant Merchant Collections and Lending Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/alphaweb

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is trace, debug, info, warn, error, fatal or disabled.
	Level  string
	Format string // json or console
	Caller bool

	// Service is stamped on every entry when non-empty.
	Service string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig is what the package uses until Init runs. Test binaries
// with ALPHAWEB_QUIET_TESTS=1 start disabled.
func DefaultConfig() Config {
	cfg := Config{Level: "info", Format: "json", Service: "alphaweb", Output: os.Stderr}
	if os.Getenv("ALPHAWEB_QUIET_TESTS") == "1" {
		cfg.Level = "disabled"
	}
	return cfg
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // packages log during init of main
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	Init(DefaultConfig())
}

// Init replaces the global logger and level.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	l := build(cfg)
	global.Store(&l)
}

func build(cfg Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Output != nil {
		out = cfg.Output
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	c := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		c = c.Str("service", cfg.Service)
	}
	if cfg.Caller {
		c = c.Caller()
	}
	return c.Logger()
}

var levelAliases = map[string]zerolog.Level{
	"warning": zerolog.WarnLevel,
	"off":     zerolog.Disabled,
	"none":    zerolog.Disabled,
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if l, ok := levelAliases[s]; ok {
		return l
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// SetLevelString changes the global level at runtime.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

// Logger returns the global logger.
func Logger() zerolog.Logger { return *global.Load() }

// SetLogger swaps the global logger, typically to capture output in tests.
//
//nolint:gocritic // zerolog.Logger is a value type
func SetLogger(l zerolog.Logger) { global.Store(&l) }

// With starts a child logger context.
func With() zerolog.Context { return global.Load().With() }

// WithComponent tags a child logger with a component name.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { return global.Load().Debug() }
func Info() *zerolog.Event  { return global.Load().Info() }
func Warn() *zerolog.Event  { return global.Load().Warn() }
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal exits with status 1 after the entry is written.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// Err logs at error level, or info when err is nil.
func Err(err error) *zerolog.Event { return global.Load().Err(err) }

// NewTestLogger writes JSON entries to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
