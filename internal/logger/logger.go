package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Production emits JSON; every other environment
// gets a human readable console writer.
func New(production bool, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, production, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, production bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !production {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
