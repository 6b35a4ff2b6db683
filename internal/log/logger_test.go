package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	require.Equal(t, FormatJSON, ParseFormat("json"))
	require.Equal(t, FormatJSON, ParseFormat("JSON"))
	require.Equal(t, FormatPretty, ParseFormat("pretty"))
	require.Equal(t, FormatPretty, ParseFormat("anything else"))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warn"))
	require.Equal(t, slog.LevelError, parseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatJSON, "INFO")

	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "value", entry["key"])
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatJSON, "WARN")

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatPretty, "DEBUG")

	logger.Debug("terminal line", "key", "value")
	require.Contains(t, buf.String(), "terminal line")
	require.Contains(t, buf.String(), "key")
}
