package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorEmptyBatch)

	require.NotEmpty(t, buffer.String())

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), msg)
	}
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	testLogger.Clear()
	assert.Empty(t, buffer.String())
}

func TestTestLoggerWithAndLevels(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	contextLogger := testLogger.With(ModelNameKey, "MultiClassClassifier", ComponentKey, "training")
	contextLogger.Debug("hidden")
	contextLogger.Info("epoch finished", EpochKey, 3)

	assert.False(t, testLogger.ContainsMessage("hidden"))
	assert.True(t, testLogger.ContainsField(ModelNameKey, "MultiClassClassifier"))
	assert.True(t, testLogger.ContainsField(EpochKey, 3.0))
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))

	logger.Debug("skipped")
	logger.With(ModelNameKey, "Perceptron").Info("trained", EpochKey, 2, "dangling")
	logger.Error("failed", errors.NewDimensionError("Perceptron.Predict", 2, 3, 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "trained", first["message"])
	assert.Equal(t, "Perceptron", first[ModelNameKey])
	assert.Equal(t, 2.0, first[EpochKey])
	assert.NotContains(t, first, "dangling")

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "DimensionError", second["type"])
	assert.Contains(t, second["error"], "dimension mismatch")
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf)
	provider.SetLevel(LevelWarn)

	provider.GetLoggerWithName("training").Info("not shown")
	provider.GetLoggerWithName("training").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "not shown")
	assert.Contains(t, out, `"ml.component":"training"`)

	buf.Reset()
	provider.warn(errors.NewConvergenceWarning("MultiClassClassifier", 10, "loss still moving"))
	assert.Contains(t, buf.String(), `"type":"ConvergenceWarning"`)
}

func TestSetupLoggerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&buf, "debug")
	require.NoError(t, err)

	logger.Error("train failed", errors.NewModelError("MultiClassClassifier.Train", "invalid batch", errors.ErrEmptyBatch))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "train failed", entry["message"])
	assert.NotEmpty(t, entry[StacktraceAttrKey])

	_, err = SetupLogger(&buf, "verbose")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"error", LevelError, true},
		{"trace", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}
