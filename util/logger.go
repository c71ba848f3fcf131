package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// ConfigureLogger replaces the process logger. Outside production the
// output is the human readable console format.
func ConfigureLogger(env, level string) {
	var w io.Writer = os.Stdout
	if env != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Logger returns the process logger.
func Logger() *zerolog.Logger {
	return &logger
}

// SetLoggerForTest swaps the process logger and returns a function that restores it.
func SetLoggerForTest(l zerolog.Logger) func() {
	prev := logger
	logger = l
	return func() {
		logger = prev
	}
}
