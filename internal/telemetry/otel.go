// Package telemetry wires OpenTelemetry tracing and Prometheus metrics for
// the sample data service.
//
// Purpose:
//
//	Init installs the global tracer provider used for /data spans. Tracing is
//	off unless enabled in config. When enabled, exporters are tried in order
//	(the configured protocol, then OTLP/HTTP after a gRPC failure) and the
//	first one that builds is installed. If none builds, the service keeps
//	running on a noop provider, Provider.State reports "degraded", and every
//	failed attempt is counted in sample_data_service_telemetry_export_failures_total.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope used by the service's spans.
const TracerName = "github.com/otherjamesbrown/ai-aas/services/sample-data-service"

// Tracing states reported by Provider.State and the readiness endpoint.
const (
	StateDisabled = "disabled"
	StateHealthy  = "healthy"
	StateDegraded = "degraded"
)

const (
	protocolGRPC = "grpc"
	protocolHTTP = "http"
)

// Export retry bounds shared by both OTLP clients.
const (
	retryInitialInterval = 100 * time.Millisecond
	retryMaxInterval     = 5 * time.Second
	retryMaxElapsed      = time.Minute
)

// Config controls the OpenTelemetry initialization.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        bool
	Endpoint       string
	Protocol       string // grpc or http
	Headers        map[string]string
	Insecure       bool
}

// Provider is the tracing backend installed by Init.
type Provider struct {
	tp       *sdktrace.TracerProvider
	exporter string
	degraded bool
}

// Shutdown flushes pending spans. It is a no-op when tracing is off.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Fallback reports whether every exporter failed and tracing runs on noop.
func (p *Provider) Fallback() bool {
	return p != nil && p.degraded
}

// Exporter names the protocol of the installed exporter, or "" without one.
func (p *Provider) Exporter() string {
	if p == nil {
		return ""
	}
	return p.exporter
}

// State is StateDisabled, StateHealthy or StateDegraded.
func (p *Provider) State() string {
	switch {
	case p.Fallback():
		return StateDegraded
	case p.Exporter() != "":
		return StateHealthy
	default:
		return StateDisabled
	}
}

// Tracer returns the service tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Init installs the global tracer provider and propagators.
// A disabled config installs a noop provider and is not an error.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		install(noop.NewTracerProvider())
		return &Provider{}, nil
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("telemetry endpoint required")
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// OTLP clients connect lazily, so an attempt fails here only when its
	// client cannot be built at all (an unknown protocol). An unreachable
	// collector surfaces later as export errors through otel.Handle.
	for _, protocol := range exporterAttempts(cfg.Protocol) {
		exporter, err := newExporter(ctx, protocol, cfg)
		if err != nil {
			recordExporterFailure(protocol)
			otel.Handle(fmt.Errorf("telemetry: %s exporter: %w", protocol, err))
			continue
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		)
		install(tp)
		return &Provider{tp: tp, exporter: protocol}, nil
	}

	recordExporterFailure(StateDegraded)
	install(noop.NewTracerProvider())
	return &Provider{degraded: true}, nil
}

// MustInit panics if Init returns an error.
func MustInit(ctx context.Context, cfg Config) *Provider {
	provider, err := Init(ctx, cfg)
	if err != nil {
		panic(err)
	}
	return provider
}

// exporterAttempts lists the protocols Init tries, in order.
func exporterAttempts(protocol string) []string {
	switch protocol {
	case protocolGRPC, "":
		return []string{protocolGRPC, protocolHTTP}
	default:
		return []string{protocol}
	}
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(cfg.ServiceVersion)))
	}

	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

func newExporter(ctx context.Context, protocol string, cfg Config) (*otlptrace.Exporter, error) {
	client, err := buildClient(protocol, cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("start otlp exporter: %w", err)
	}
	return exporter, nil
}

func install(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func buildClient(protocol string, cfg Config) (otlptrace.Client, error) {
	switch protocol {
	case protocolHTTP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
				Enabled:         true,
				InitialInterval: retryInitialInterval,
				MaxInterval:     retryMaxInterval,
				MaxElapsedTime:  retryMaxElapsed,
			}),
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.NewClient(opts...), nil
	case protocolGRPC:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{
				Enabled:         true,
				InitialInterval: retryInitialInterval,
				MaxInterval:     retryMaxInterval,
				MaxElapsedTime:  retryMaxElapsed,
			}),
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.NewClient(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
