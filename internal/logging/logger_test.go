package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line: %s", buf.String())
	return entry
}

func TestNew_StructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{
		ServiceName: "sample-data-service",
		Environment: "production",
		LogLevel:    "info",
		Writer:      &buf,
	})
	require.NoError(t, err)

	logger.Info("batch generated", zap.Int("unique", 12))
	require.NoError(t, logger.Sync())

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "batch generated", entry["msg"])
	assert.Equal(t, "sample-data-service", entry["service"])
	assert.Equal(t, "production", entry["environment"])
	assert.EqualValues(t, 12, entry["unique"])
}

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "unknown", entry["service"])
	assert.Equal(t, "development", entry["environment"])
}

func TestNew_KeysStableAcrossEnvironments(t *testing.T) {
	for _, env := range []string{"development", "staging", "production"} {
		t.Run(env, func(t *testing.T) {
			var buf bytes.Buffer
			logger := MustNew(Config{ServiceName: "svc", Environment: env, Writer: &buf})

			logger.Info("keys")

			entry := decodeLine(t, &buf)
			assert.Equal(t, "keys", entry["msg"])
			assert.Equal(t, "info", entry["level"])
			assert.Contains(t, entry, "ts")
			assert.Contains(t, entry, "caller")
			for _, short := range []string{"M", "L", "T", "C"} {
				assert.NotContains(t, entry, short)
			}
		})
	}
}

func TestNew_OutputPaths(t *testing.T) {
	for _, path := range []string{"stdout", "stderr"} {
		logger, err := New(Config{ServiceName: "svc", OutputPath: path})
		require.NoError(t, err, path)
		require.NotNil(t, logger)
	}

	file := t.TempDir() + "/service.log"
	logger, err := New(Config{ServiceName: "svc", OutputPath: file})
	require.NoError(t, err)
	logger.Info("to file")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := MustNew(Config{ServiceName: "svc", Writer: &buf})

	logger.WithContext(context.Background()).Info("no span")
	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	buf.Reset()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.WithContext(ctx).Info("with span")
	entry = decodeLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestLogger_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := MustNew(Config{ServiceName: "svc", Writer: &buf})

	logger.WithRequestID("req-123").Info("handled")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("discarded")
	assert.NotNil(t, logger.WithRequestID("x"))
}
