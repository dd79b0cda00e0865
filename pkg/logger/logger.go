// Package logger provides the process-wide structured logger backed by zerolog.
//
// Call Init once from main, then derive per-component loggers with Component.
// Every line carries the service name and, when set, the deployment environment.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Unrecognised values fall back to info.
	Level string
	// Pretty switches to coloured console output for local development.
	Pretty bool
	// Service and Env are attached to every log line.
	Service string
	Env     string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu          sync.Mutex
	instance    zerolog.Logger
	initialized bool
)

// Init builds the process logger. Only the first call has any effect until Reset.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Env != "" {
		ctx = ctx.Str("env", opts.Env)
	}
	instance = ctx.Logger()
	initialized = true
	return instance
}

// Get returns the process logger. Before Init it returns a disabled logger,
// so packages that log during tests stay silent.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return zerolog.Nop()
	}
	return instance
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset discards the process logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = zerolog.Logger{}
	initialized = false
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
