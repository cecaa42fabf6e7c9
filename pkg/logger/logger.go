// Package logger owns the process-wide zerolog instance. Call Init once
// from main, then pull component loggers with For.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn, error.
	// Anything else falls back to info.
	Level string
	// Pretty switches to console output for local development. Production
	// stays on the JSON default.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	once sync.Once
	root zerolog.Logger
	up   bool
)

// Init configures the root logger. Repeated calls are no-ops and return
// the logger built by the first.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		level := levelFrom(opts.Level)
		zerolog.SetGlobalLevel(level)
		root = zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
		up = true
	})
	return root
}

// Get returns the root logger. It panics when Init has not run, which
// surfaces wiring mistakes at startup rather than as silent log loss.
func Get() zerolog.Logger {
	if !up {
		panic("logger: Init must run before Get")
	}
	return root
}

// For returns a child logger tagged with the given component name.
func For(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

func levelFrom(s string) zerolog.Level {
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
