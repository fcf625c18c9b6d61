package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessments/internal/config"
)

func TestTextToConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("dataset indexed", slog.Int("rows", 42))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=\"dataset indexed\"")
	assert.Contains(t, buf.String(), "rows=42")
}

func TestJSONToBoth(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "assessments.log")
	logger, closeFn, err := New(config.LoggingConfig{Level: "debug", Format: "json", Output: "both", FilePath: path}, &buf)
	require.NoError(t, err)

	logger.Debug("export written", slog.String("path", "out.xlsx"))
	require.NoError(t, closeFn())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "export written", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestFileOnly(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "assessments.log")
	logger, closeFn, err := New(config.LoggingConfig{Level: "warn", Output: "file", FilePath: path}, &buf)
	require.NoError(t, err)

	logger.Warn("chart display skipped")
	require.NoError(t, closeFn())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "chart display skipped")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelWarn, parseLevel(""))
}
