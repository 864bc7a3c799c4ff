package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitDisabledInstallsNoop(t *testing.T) {
	provider, err := Init(context.Background(), Config{ServiceName: "svc"})
	require.NoError(t, err)
	assert.False(t, provider.Fallback())
	assert.Equal(t, StateDisabled, provider.State())
	assert.NoError(t, provider.Shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestInitValidation(t *testing.T) {
	_, err := Init(context.Background(), Config{Enabled: true})
	assert.Error(t, err)
}

func TestInitUnsupportedProtocolFallsBack(t *testing.T) {
	TelemetryExporterFailures().Reset()

	provider, err := Init(context.Background(), Config{
		ServiceName: "svc",
		Enabled:     true,
		Endpoint:    "collector:4317",
		Protocol:    "ws",
	})
	require.NoError(t, err)
	assert.True(t, provider.Fallback())
	assert.Equal(t, StateDegraded, provider.State())
	assert.Empty(t, provider.Exporter())

	assert.GreaterOrEqual(t, testutil.ToFloat64(TelemetryExporterFailures().WithLabelValues("ws")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(TelemetryExporterFailures().WithLabelValues("degraded")), 1.0)
}

func TestInitHTTPProvider(t *testing.T) {
	ctx := context.Background()
	provider, err := Init(ctx, Config{
		ServiceName:    "svc",
		Environment:    "test",
		ServiceVersion: "1.2.3",
		Enabled:        true,
		Endpoint:       "collector:4318",
		Protocol:       "http",
		Headers:        map[string]string{"authorization": "Bearer value"},
		Insecure:       true,
	})
	require.NoError(t, err)
	assert.False(t, provider.Fallback())
	assert.Equal(t, StateHealthy, provider.State())
	assert.Equal(t, "http", provider.Exporter())

	_, span := Tracer().Start(ctx, "exported")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	// The collector does not exist; only the call path matters here.
	_ = provider.Shutdown(shutdownCtx)

	install(noop.NewTracerProvider())
}

func TestInitGRPCProvider(t *testing.T) {
	ctx := context.Background()
	provider, err := Init(ctx, Config{
		ServiceName: "svc",
		Enabled:     true,
		Endpoint:    "collector:4317",
		Insecure:    true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { install(noop.NewTracerProvider()) })

	// The client dials lazily, so a missing collector does not degrade startup.
	assert.Equal(t, StateHealthy, provider.State())
	assert.Equal(t, "grpc", provider.Exporter())

	shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_ = provider.Shutdown(shutdownCtx)
}

func TestExporterAttempts(t *testing.T) {
	assert.Equal(t, []string{"grpc", "http"}, exporterAttempts("grpc"))
	assert.Equal(t, []string{"grpc", "http"}, exporterAttempts(""))
	assert.Equal(t, []string{"http"}, exporterAttempts("http"))
	assert.Equal(t, []string{"ws"}, exporterAttempts("ws"))
}

func TestBuildClientVariants(t *testing.T) {
	_, err := buildClient("grpc", Config{Endpoint: "collector:4317", Headers: map[string]string{"x": "y"}, Insecure: true})
	assert.NoError(t, err)

	_, err = buildClient("http", Config{Endpoint: "collector:4318", Insecure: true})
	assert.NoError(t, err)

	_, err = buildClient("ws", Config{Endpoint: "collector:4318"})
	assert.Error(t, err)
}

func TestMustInitPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustInit(context.Background(), Config{Enabled: true})
	})
}

func TestProviderShutdownNoop(t *testing.T) {
	var provider *Provider
	assert.NoError(t, provider.Shutdown(context.Background()))
	assert.False(t, provider.Fallback())
	assert.Equal(t, StateDisabled, provider.State())
}

func TestRecordBatch(t *testing.T) {
	before := testutil.ToFloat64(BatchesGeneratedTotal)
	RecordBatch(11)
	assert.Equal(t, before+1, testutil.ToFloat64(BatchesGeneratedTotal))
}

func TestRecordHTTPRequest(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("unmatched", "GET", "404")
	before := testutil.ToFloat64(counter)

	RecordHTTPRequest("", "GET", 404, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
