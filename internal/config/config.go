// Package config provides environment variable-based configuration loading.
//
// Purpose:
//
//	This package defines the service configuration structure and loads it from
//	environment variables using envconfig. Nothing here affects the shape of
//	the /data response: batch size and value range are fixed in the sampling
//	package, and these settings only cover deployment concerns (ports,
//	logging, telemetry, shutdown).
//
// Dependencies:
//   - github.com/kelseyhightower/envconfig: Environment variable parsing
//
// Thread Safety:
//   - Config is read-only after loading (safe for concurrent read access)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents the runtime configuration for the sample data service.
type Config struct {
	// ServiceName is emitted in logs, traces and metrics.
	ServiceName string `envconfig:"SERVICE_NAME" default:"sample-data-service"`
	// Environment selects the log encoder profile and tags telemetry.
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	// LogLevel controls zap verbosity (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTPPort serves the public /data route.
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`
	// AdminPort serves health, readiness and Prometheus metrics.
	AdminPort int `envconfig:"ADMIN_PORT" default:"9090"`

	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`

	// Telemetry
	TelemetryEnabled  bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
	TelemetryEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	TelemetryProtocol string `envconfig:"OTEL_EXPORTER_OTLP_PROTOCOL" default:"grpc"`
	TelemetryHeaders  string `envconfig:"OTEL_EXPORTER_OTLP_HEADERS" default:""`
	TelemetryInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// Load reads environment variables into Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	cfg.TelemetryProtocol = strings.ToLower(strings.TrimSpace(cfg.TelemetryProtocol))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for main packages: on error it prints to stderr and exits 1.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return errors.New("config: SERVICE_NAME must be provided")
	}
	if !validPort(c.HTTPPort) {
		return fmt.Errorf("config: HTTP_PORT %d out of range", c.HTTPPort)
	}
	if !validPort(c.AdminPort) {
		return fmt.Errorf("config: ADMIN_PORT %d out of range", c.AdminPort)
	}
	if c.HTTPPort == c.AdminPort {
		return fmt.Errorf("config: HTTP_PORT and ADMIN_PORT must differ (both %d)", c.HTTPPort)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}
	if c.TelemetryProtocol != "grpc" && c.TelemetryProtocol != "http" {
		return fmt.Errorf("config: unsupported OTLP protocol %q", c.TelemetryProtocol)
	}
	return nil
}

// HTTPAddr is the listen address of the public server.
func (c *Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// AdminAddr is the listen address of the operational server.
func (c *Config) AdminAddr() string { return fmt.Sprintf(":%d", c.AdminPort) }

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k=v,k2=v2"). Malformed
// pairs are skipped.
func (c *Config) OTLPHeaders() map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(c.TelemetryHeaders, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return headers
}

func validPort(p int) bool { return p > 0 && p <= 65535 }
