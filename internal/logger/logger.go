// Package logger builds the zerolog logger used for a reconciliation run.
// Every run logs to the console and, once the output location is known, to
// a plain-text run log saved next to the reconciled workbook.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a human-readable logger writing to console and, when non-nil,
// to runLog without colours. runID is attached to every line.
func New(level string, console io.Writer, runLog io.Writer, runID string) zerolog.Logger {
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime},
	}
	if runLog != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: runLog, TimeFormat: time.DateTime, NoColor: true})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()
}
