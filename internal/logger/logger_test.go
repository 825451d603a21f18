package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNew_TeesToRunLog(t *testing.T) {
	var console, runLog bytes.Buffer
	log := New("info", &console, &runLog, "run-1")

	log.Warn().Str("key", "0005").Msg("values differ")
	log.Debug().Msg("hidden")

	assert.Contains(t, console.String(), "values differ")
	assert.Contains(t, runLog.String(), "values differ")
	assert.Contains(t, runLog.String(), "run-1")
	assert.NotContains(t, runLog.String(), "hidden")
	assert.NotContains(t, runLog.String(), "\x1b[", "run log has no colour codes")
}
