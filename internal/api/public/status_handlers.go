package public

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/telemetry"
)

// BuildMetadata holds build-time information.
type BuildMetadata struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

// StatusHandlers serves liveness and readiness on the admin listener.
type StatusHandlers struct {
	buildMetadata  BuildMetadata
	logger         *logging.Logger
	telemetryState func() string
	draining       atomic.Bool
}

// StatusHandlersConfig configures the status handlers.
type StatusHandlersConfig struct {
	BuildMetadata BuildMetadata
	Logger        *logging.Logger
	// TelemetryState reports the tracing state (disabled, healthy, degraded).
	// It is informational and never fails readiness.
	TelemetryState func() string
}

// NewStatusHandlers creates a new status handlers instance.
func NewStatusHandlers(cfg StatusHandlersConfig) *StatusHandlers {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.TelemetryState == nil {
		cfg.TelemetryState = func() string { return telemetry.StateDisabled }
	}
	return &StatusHandlers{
		buildMetadata:  cfg.BuildMetadata,
		logger:         cfg.Logger,
		telemetryState: cfg.TelemetryState,
	}
}

// HealthResponse represents the health endpoint response.
type HealthResponse struct {
	Status    string         `json:"status"`
	Build     *BuildMetadata `json:"build,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// ReadinessResponse represents the readiness endpoint response.
type ReadinessResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Build      *BuildMetadata    `json:"build,omitempty"`
	Timestamp  string            `json:"timestamp"`
}

// RegisterRoutes registers the status routes on r.
func (h *StatusHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/v1/status/healthz", h.Healthz)
	r.Get("/v1/status/readyz", h.Readyz)
}

// SetDraining marks the service as shutting down so readiness fails and
// load balancers stop routing new requests here.
func (h *StatusHandlers) SetDraining() {
	h.draining.Store(true)
}

// Healthz handles GET /v1/status/healthz - Basic liveness check.
func (h *StatusHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Build:     h.build(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readyz handles GET /v1/status/readyz.
func (h *StatusHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"sampler":   "healthy",
		"telemetry": h.telemetryState(),
	}

	status, code := "ready", http.StatusOK
	if h.draining.Load() {
		components["server"] = "draining"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		components["server"] = "serving"
	}

	h.writeJSON(w, code, ReadinessResponse{
		Status:     status,
		Components: components,
		Build:      h.build(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *StatusHandlers) build() *BuildMetadata {
	if h.buildMetadata.Version == "" {
		return nil
	}
	meta := h.buildMetadata
	return &meta
}

func (h *StatusHandlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode status response", zap.Error(err))
	}
}
