package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := NewLogger()
	assert.True(t, logger.Enabled(nil, slog.LevelDebug))

	t.Setenv("LOG_LEVEL", "")
	logger = NewLogger()
	assert.False(t, logger.Enabled(nil, slog.LevelDebug))
	assert.True(t, logger.Enabled(nil, slog.LevelInfo))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithFields(logger, map[string]interface{}{
		"source": "bbc_mundo",
		"stage":  "feed_fetch",
	}).Info("mensaje")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "bbc_mundo", record["source"])
	assert.Equal(t, "feed_fetch", record["stage"])
	assert.Equal(t, "mensaje", record["msg"])
}
