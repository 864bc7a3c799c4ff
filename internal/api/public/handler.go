// Package public provides the public API handlers for the sample data service.
//
// Purpose:
//
//	GET /data draws a fresh sample batch per request and returns it together
//	with its sorted and deduplicated forms and a local timestamp. The handler
//	holds no per-request state, so one instance serves all requests
//	concurrently.
//
// Error Handling:
//   - The payload shape is always serializable; an encoding failure is still
//     answered with the shared INTERNAL_ERROR body and HTTP 500.
package public

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/api"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/sampling"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/telemetry"
)

// DataRoute is the only public route.
const DataRoute = "/data"

// Handler serves the public data route.
type Handler struct {
	logger *logging.Logger
	source sampling.Source
	clock  func() time.Time
	encode func(any) ([]byte, error)
}

// HandlerConfig configures the public handler. Zero values select the
// process-wide random source, time.Now and a no-op logger.
type HandlerConfig struct {
	Logger *logging.Logger
	Source sampling.Source
	Clock  func() time.Time
}

// NewHandler creates a new public API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Source == nil {
		cfg.Source = sampling.DefaultSource()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Handler{
		logger: cfg.Logger,
		source: cfg.Source,
		clock:  cfg.Clock,
		encode: json.Marshal,
	}
}

// RegisterRoutes registers the public routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(DataRoute, h.GetData)
}

// Build generates one batch and wraps it in the response envelope.
func (h *Handler) Build() DataResponse {
	batch := sampling.Generate(h.source)
	return NewDataResponse(batch, h.clock())
}

// GetData handles GET /data. Query parameters and body are ignored.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Tracer().Start(r.Context(), "sampling.generate")
	defer span.End()

	response := h.Build()
	span.SetAttributes(
		attribute.Int("sample.size", len(response.Data.Unsorted)),
		attribute.Int("sample.unique", len(response.Data.Sorted.Unique)),
	)

	body, err := h.encode(response)
	if err != nil {
		telemetry.RecordEncodeFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode response")
		h.logger.WithContext(ctx).Error("failed to encode data response", zap.Error(err))
		api.WriteError(w, r.WithContext(ctx), err)
		return
	}

	telemetry.RecordBatch(len(response.Data.Sorted.Unique))
	h.logger.WithContext(ctx).Debug("sample batch generated",
		zap.Int("size", len(response.Data.Unsorted)),
		zap.Int("unique", len(response.Data.Sorted.Unique)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.WithContext(ctx).Debug("client went away before response was written", zap.Error(err))
	}
}
