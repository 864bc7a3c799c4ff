// Package api provides centralized error handling for the sample data service.
//
// Purpose:
//
//	Error codes map to HTTP status codes in one place, and WriteError renders
//	the shared JSON error body. Internal causes are logged by callers and are
//	never echoed to clients.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/requestctx"
)

// Error codes.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// APIError represents an API error with a specific code.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewError creates a new error with a specific error code.
func NewError(code, message string) error {
	return &APIError{Code: code, Message: message}
}

// GetHTTPStatus maps an error code to an HTTP status code.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MapError maps an error to a code and public message. Anything that is not
// an *APIError is treated as internal and its text is withheld.
func MapError(err error) (code, message string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message
	}
	return ErrCodeInternalError, "internal server error"
}

// BuildError creates an ErrorResponse for err, tagged with the request and
// trace identifiers found in ctx.
func BuildError(ctx context.Context, err error) ErrorResponse {
	code, message := MapError(err)
	response := ErrorResponse{Error: message, Code: code}

	if id, ok := requestctx.RequestID(ctx); ok {
		response.RequestID = id
	}
	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		response.TraceID = spanCtx.TraceID().String()
	}
	return response
}

// WriteError writes the JSON error body for err with the matching status.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	response := BuildError(r.Context(), err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(GetHTTPStatus(response.Code))
	_ = json.NewEncoder(w).Encode(response)
}
