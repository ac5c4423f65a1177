package shared

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		json     bool
		contains string
	}{
		{"text", "info", false, "Round complete"},
		{"json", "debug", true, `"msg":"Round complete"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := SetupLogger(tt.level, tt.json, &buf)
			require.NoError(t, err)

			logger.Info("Round complete", "pot", 20)
			assert.Contains(t, buf.String(), tt.contains)
			assert.Contains(t, buf.String(), "20")
		})
	}
}

func TestSetupLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger("warn", false, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestSetupLoggerRejectsBadLevel(t *testing.T) {
	_, err := SetupLogger("loud", false, io.Discard)
	assert.ErrorContains(t, err, "invalid log level")
}

func TestSetupSignalHandlerStop(t *testing.T) {
	ctx, stop := SetupSignalHandler(context.Background(), log.New(io.Discard))
	assert.NoError(t, ctx.Err())
	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
