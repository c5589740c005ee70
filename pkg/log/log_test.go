package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

func TestTestLoggerCapturesLevels(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("debug message", "key1", "value1", "number", 42)
	logger.Info("info message", OperationKey, OperationEvaluate)
	logger.Warn("warning message")
	logger.Error("error message", fmt.Errorf("boom"), VariantKey, "TEST")

	require.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("debug message"))
	assert.True(t, logger.ContainsMessage("warning message"))
	assert.True(t, logger.ContainsField("key1", "value1"))
	assert.True(t, logger.ContainsField("number", 42.0))
	assert.True(t, logger.ContainsField(OperationKey, OperationEvaluate))
	assert.True(t, logger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, logger.ContainsField(VariantKey, "TEST"))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestTestLoggerLevelFilter(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warn")

	assert.False(t, logger.ContainsMessage("hidden"))
	assert.True(t, logger.ContainsMessage("shown warn"))
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	child := logger.With(ComponentKey, "diagnostics", ModelNameKey, "OLS")

	child.Info("plot rendered", PlotKey, "normal_qq")

	assert.True(t, logger.ContainsField(ComponentKey, "diagnostics"))
	assert.True(t, logger.ContainsField(ModelNameKey, "OLS"))
	assert.True(t, logger.ContainsField(PlotKey, "normal_qq"))

	logger.Clear()
	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("not emitted")
	logger.With(VariantKey, "full").Info("model evaluated", MSEKey, 100.0, RMSEKey, 10.0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "model evaluated", entry["message"])
	assert.Equal(t, "full", entry[VariantKey])
	assert.Equal(t, 100.0, entry[MSEKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestZerologLoggerStructuredError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("evaluation failed", errors.NewMissingFeatureError("GarageArea", []string{"LotArea"}))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry["error"], "GarageArea")

	detail, ok := entry["error_detail"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "MissingFeatureError", detail["type"])
}

func TestSetLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)
	GetLoggerWithName("evaluation").Info("hello")

	assert.True(t, testLogger.ContainsField(ComponentKey, "evaluation"))

	SetLogger(nil)
	assert.NotNil(t, GetLogger())
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Error("failed", ErrAttr(errors.NewValueError("EvaluateVariant", "unknown variant")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestToLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ToLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ToLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, ToLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ToLogLevel("unknown"))
}
