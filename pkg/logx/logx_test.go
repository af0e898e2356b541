package logx

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, true)

	logger.Debug().Msg("hidden")
	logger.Info().Int("cycles", 1000).Msg("search finished")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "search finished")
	assert.Contains(t, out, "cycles=1000")
	assert.Contains(t, out, "logx_test.go:")
	assert.NotContains(t, out, "\x1b[", "no colours requested")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
