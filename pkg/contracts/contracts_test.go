package contracts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/internal/api/public"
	"github.com/otherjamesbrown/ai-aas/services/sample-data-service/pkg/contracts"
)

const validBody = `{
  "data": {
    "unsorted": [5, 1, 30, 5, 13, 1, 8, 8, 8, 21, 2, 30, 16, 4, 3],
    "sorted": {
      "raw": [1, 1, 2, 3, 4, 5, 5, 8, 8, 8, 13, 16, 21, 30, 30],
      "unique": [1, 2, 3, 4, 5, 8, 13, 16, 21, 30]
    }
  },
  "timestamp": "2024-03-05 07:08:09"
}`

func TestLoadOpenAPI(t *testing.T) {
	doc, err := contracts.LoadOpenAPI(context.Background())
	require.NoError(t, err)

	require.NotNil(t, doc.Paths.Find("/data"))
	assert.NotNil(t, doc.Paths.Find("/data").Get)
	assert.Contains(t, doc.Components.Schemas, contracts.DataResponseSchemaName)
}

func TestValidateDataResponse_Valid(t *testing.T) {
	assert.NoError(t, contracts.ValidateDataResponse([]byte(validBody)))
}

func TestValidateDataResponse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"missing timestamp", func(m map[string]any) { delete(m, "timestamp") }},
		{"extra top-level key", func(m map[string]any) { m["count"] = 15 }},
		{"bad timestamp", func(m map[string]any) { m["timestamp"] = "2024-03-05T07:08:09Z" }},
		{"value out of range", func(m map[string]any) {
			data := m["data"].(map[string]any)
			unsorted := data["unsorted"].([]any)
			unsorted[0] = 31
		}},
		{"short unsorted", func(m map[string]any) {
			data := m["data"].(map[string]any)
			data["unsorted"] = data["unsorted"].([]any)[:14]
		}},
		{"raw not sorted", func(m map[string]any) {
			sorted := m["data"].(map[string]any)["sorted"].(map[string]any)
			raw := sorted["raw"].([]any)
			raw[0], raw[14] = raw[14], raw[0]
		}},
		{"unique has repeats", func(m map[string]any) {
			sorted := m["data"].(map[string]any)["sorted"].(map[string]any)
			sorted["unique"] = []any{1, 1, 2}
		}},
		{"unique missing a value", func(m map[string]any) {
			sorted := m["data"].(map[string]any)["sorted"].(map[string]any)
			sorted["unique"] = []any{1, 2, 3}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]any
			require.NoError(t, json.Unmarshal([]byte(validBody), &m))
			tt.mutate(m)
			body, err := json.Marshal(m)
			require.NoError(t, err)

			assert.Error(t, contracts.ValidateDataResponse(body))
		})
	}
}

func TestValidateAgainstOpenAPI(t *testing.T) {
	doc, err := contracts.LoadOpenAPI(context.Background())
	require.NoError(t, err)

	assert.NoError(t, contracts.ValidateAgainstOpenAPI(doc, []byte(validBody)))
	assert.Error(t, contracts.ValidateAgainstOpenAPI(doc, []byte(`{"data":{},"timestamp":"x"}`)))
}

// TestServedResponsesMatchContract exercises the real handler against both
// contract documents.
func TestServedResponsesMatchContract(t *testing.T) {
	doc, err := contracts.LoadOpenAPI(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	public.NewHandler(public.HandlerConfig{}).RegisterRoutes(r)

	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/data", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		body := rr.Body.Bytes()
		require.NoError(t, contracts.ValidateDataResponse(body), string(body))
		require.NoError(t, contracts.ValidateAgainstOpenAPI(doc, body), string(body))
	}
}

func TestOpenAPISpecIsCopy(t *testing.T) {
	raw := contracts.OpenAPISpec()
	require.NotEmpty(t, raw)
	raw[0] = 'X'
	assert.NotEqual(t, byte('X'), contracts.OpenAPISpec()[0])
}
