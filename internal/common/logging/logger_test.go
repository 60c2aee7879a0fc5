package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{" error ", ErrorLevel},
		{"", InfoLevel},
		{"nonsense", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newZapLogger("warn", false, &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", assert.AnError)

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestZapLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newZapLogger("info", true, &buf)

	logger.Info("cache ready",
		Field{"namespace", "ai_responses"},
		Field{"max_size", 10000},
	)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "cache ready", entry["message"])
	assert.Equal(t, "ai_responses", entry["namespace"])
	assert.Equal(t, float64(10000), entry["max_size"])
}

func TestZapLogger_ErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	logger := newZapLogger("error", true, &buf)

	logger.Error("remote tier unavailable", assert.AnError, Field{"key", "user_sessions:42"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))

	assert.Equal(t, "remote tier unavailable", entry["message"])
	assert.Equal(t, assert.AnError.Error(), entry["error"])
	assert.Equal(t, "user_sessions:42", entry["key"])
}

func TestZapLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newZapLogger("info", true, &buf)

	child := logger.WithFields(Field{"component", "sweeper"})
	child.Info("sweep finished", Field{"removed", 3})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))

	assert.Equal(t, "sweeper", entry["component"])
	assert.Equal(t, float64(3), entry["removed"])

	// WithFields with no fields returns the same logger
	assert.Equal(t, logger, logger.WithFields())
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()

	// None of these should panic or produce output
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", assert.AnError)
	assert.NotNil(t, logger.WithFields(Field{"k", "v"}))
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	logger := newZapLogger("info", true, &buf)
	SetGlobalLogger(logger)

	assert.Equal(t, logger, GetGlobalLogger())

	GetGlobalLogger().Info("via global")
	assert.Contains(t, buf.String(), "via global")
}

func TestSync(t *testing.T) {
	var buf bytes.Buffer

	// Both a flushable and a non-flushable logger are fine
	Sync(newZapLogger("info", true, &buf))
	Sync(NewNopLogger())
}
