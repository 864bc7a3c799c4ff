// Package requestctx attaches per-request identifiers to the request context.
package requestctx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID on both requests and responses.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds caller-supplied IDs before they reach logs.
const maxRequestIDLen = 128

type ctxKey string

const (
	requestIDKey ctxKey = "sample.requestctx.request_id"
	startTimeKey ctxKey = "sample.requestctx.start_time"
)

// RequestID returns the request ID if present.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// StartTime returns when the middleware first saw the request.
func StartTime(ctx context.Context) (time.Time, bool) {
	ts, ok := ctx.Value(startTimeKey).(time.Time)
	return ts, ok
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Middleware injects a request ID and start time into the request context.
// An incoming X-Request-ID is reused; otherwise a UUID is generated. The ID
// is echoed on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		ctx := WithRequestID(r.Context(), requestID)
		ctx = context.WithValue(ctx, startTimeKey, time.Now())

		r = r.WithContext(ctx)
		r.Header.Set(HeaderRequestID, requestID)
		w.Header().Set(HeaderRequestID, requestID)

		next.ServeHTTP(w, r)
	})
}
