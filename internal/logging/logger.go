// Package logging builds the service's zap logger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger initialization.
type Config struct {
	// ServiceName identifies the service emitting logs.
	ServiceName string

	// Environment is the deployment environment (development, staging, production).
	Environment string

	// LogLevel controls verbosity (debug, info, warn, error).
	// Defaults to "info" if empty or invalid.
	LogLevel string

	// OutputPath is the log destination (stdout, stderr, or file path).
	// Defaults to "stdout". Ignored when Writer is set.
	OutputPath string

	// Writer overrides OutputPath.
	Writer io.Writer
}

// IsDevelopment returns true if environment is development.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Logger wraps zap.Logger with service fields and OpenTelemetry correlation.
type Logger struct {
	*zap.Logger
	config Config
}

// New creates a new logger with the provided configuration.
func New(cfg Config) (*Logger, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "unknown"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stdout"
	}

	writer := cfg.Writer
	if writer == nil {
		var err error
		writer, err = outputWriter(cfg.OutputPath)
		if err != nil {
			return nil, err
		}
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig(cfg.IsDevelopment())),
		zapcore.AddSync(writer),
		parseLogLevel(cfg.LogLevel),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("environment", cfg.Environment),
		),
	)

	return &Logger{Logger: logger, config: cfg}, nil
}

// MustNew creates a new logger and panics on error.
func MustNew(cfg Config) *Logger {
	logger, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return logger
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithContext returns a logger carrying trace_id and span_id when ctx holds
// a valid span.
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return l.Logger
	}
	return l.Logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// WithRequestID returns a logger with request_id field.
func (l *Logger) WithRequestID(requestID string) *zap.Logger {
	return l.Logger.With(zap.String("request_id", requestID))
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// encoderConfig keeps the production key names (ts, level, msg) in every
// environment; development only widens the caller to the full path.
func encoderConfig(development bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	if development {
		cfg.EncodeCaller = zapcore.FullCallerEncoder
	}
	return cfg
}

func outputWriter(path string) (io.Writer, error) {
	switch strings.ToLower(path) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}
