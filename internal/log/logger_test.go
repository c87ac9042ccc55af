package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

func newBufferLogger(buf *bytes.Buffer, level Level) *Logger {
	return New(Config{
		Level:       level,
		Format:      FormatJSON,
		Output:      NewOutput(buf),
		ServiceName: "planboard",
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown", "task_id", "T1")
	logger.Error("shown too")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "T1", entries[0]["task_id"])
	assert.Equal(t, "planboard", entries[0]["service"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: NewOutput(&buf)})
	logger.Info("board loaded", "tasks", 3)

	assert.Contains(t, buf.String(), "msg=\"board loaded\"")
	assert.Contains(t, buf.String(), "tasks=3")
}

func TestWithError(t *testing.T) {
	t.Run("board error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferLogger(&buf, LevelInfo)
		err := errors.NewPersistError(fmt.Errorf("HTTP error! status: 500"))

		logger.WithError(err).Error("save failed")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "SYNC-001", entries[0]["error_code"])
		assert.Equal(t, "failed to save project", entries[0]["error"])
		assert.Equal(t, "HTTP error! status: 500", entries[0]["cause"])
		assert.NotEmpty(t, entries[0]["suggestions"])
	})

	t.Run("wrapped board error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferLogger(&buf, LevelInfo)
		err := fmt.Errorf("save: %w", errors.NewInvalidPayloadError("tasks missing"))

		logger.WithError(err).Warn("rejected")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "VALIDATION-001", entries[0]["error_code"])
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferLogger(&buf, LevelInfo)

		logger.WithError(fmt.Errorf("boom")).Error("failed")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "boom", entries[0]["error"])
		assert.NotContains(t, entries[0], "error_code")
	})

	t.Run("nil error", func(t *testing.T) {
		logger := Discard()
		assert.Same(t, logger, logger.WithError(nil))
	})
}

func TestLogErrorPartialIsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, LevelInfo)
	ctx := context.Background()

	logger.LogError(ctx, "save", errors.NewGraphGenerationError(fmt.Errorf("status: 500")))
	logger.LogError(ctx, "save", errors.NewPersistError(fmt.Errorf("status: 500")))
	logger.LogError(ctx, "save", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "board.log")
	out, closer, err := OutputFile(path)
	require.NoError(t, err)

	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: out})
	logger.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
