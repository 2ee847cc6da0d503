package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a component-tagged structured logger. The level is taken from
// the LOG_LEVEL environment variable (default info); CLI entry points get a
// human-readable console writer, everything else plain JSON to stderr.
func New(component string) zerolog.Logger {
	return newWithWriter(component, os.Stderr)
}

// NewConsole returns a logger with a console writer, intended for the
// cmd/ binaries.
func NewConsole(component string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return newWithWriter(component, w)
}

func newWithWriter(component string, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Nop returns a disabled logger for tests and optional dependencies.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
