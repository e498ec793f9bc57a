package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var logs, progress bytes.Buffer
	log := NewLoggerWithWriters("warn", true, &logs, &progress)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	log.Warn("shown %s", "warning")

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "warn", record["level"])
	assert.Equal(t, "shown warning", record["message"])
}

func TestInfoRequiresVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer
	NewLoggerWithWriters("debug", false, &quiet, &bytes.Buffer{}).Info("nope")
	NewLoggerWithWriters("debug", true, &loud, &bytes.Buffer{}).Info("yes")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), `"message":"yes"`)
}

func TestProgress(t *testing.T) {
	var progress bytes.Buffer
	log := NewLoggerWithWriters("info", false, &bytes.Buffer{}, &progress)

	log.Progress("🔍", "only when verbose")
	log.ProgressAlways("✅", "done in %dms", 12)

	assert.Equal(t, "✅ done in 12ms\n", progress.String())
}

func TestWithAddsField(t *testing.T) {
	var logs bytes.Buffer
	log := NewLoggerWithWriters("info", false, &logs, &bytes.Buffer{}).With("run_id", "abc")

	log.Warn("tagged")

	assert.Contains(t, logs.String(), `"run_id":"abc"`)
}

func TestParseLogLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, parseLogLevel("info"), parseLogLevel("nonsense"))
	assert.Equal(t, parseLogLevel("debug"), parseLogLevel("DEBUG"))
}
