// Package contracts holds the published API contract of the sample data
// service and validators for it.
//
// Purpose:
//
//	The OpenAPI document and the JSON Schema for GET /data are embedded in
//	the binary. They are used by the service's tests and by the CLI
//	(`contracts validate`, `generate --validate`) so that the served payload
//	and the published contract cannot drift apart unnoticed.
//
// Dependencies:
//   - github.com/getkin/kin-openapi: OpenAPI loading, validation and schema checks
//   - github.com/xeipuuv/gojsonschema: draft-07 validation of response bodies
package contracts

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed openapi.yaml
var openAPISpec []byte

//go:embed data_response.schema.json
var dataResponseSchema []byte

// DataResponseSchemaName is the OpenAPI component describing GET /data.
const DataResponseSchemaName = "DataResponse"

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(dataResponseSchema))
})

// OpenAPISpec returns the embedded OpenAPI document.
func OpenAPISpec() []byte {
	return slices.Clone(openAPISpec)
}

// LoadOpenAPI parses and validates the embedded OpenAPI document.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi: %w", err)
	}
	return doc, nil
}

// ValidateDataResponse checks body against the JSON Schema and then against
// the ordering rules a schema cannot express: raw is an ascending
// permutation of unsorted, and unique is raw with repeats removed.
func ValidateDataResponse(body []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validate body: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}

	var payload struct {
		Data struct {
			Unsorted []int `json:"unsorted"`
			Sorted   struct {
				Raw    []int `json:"raw"`
				Unique []int `json:"unique"`
			} `json:"sorted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return checkOrdering(payload.Data.Unsorted, payload.Data.Sorted.Raw, payload.Data.Sorted.Unique)
}

// ValidateAgainstOpenAPI checks body against the DataResponse component of
// the OpenAPI document.
func ValidateAgainstOpenAPI(doc *openapi3.T, body []byte) error {
	ref, ok := doc.Components.Schemas[DataResponseSchemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %s not found", DataResponseSchemaName)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return ref.Value.VisitJSON(value)
}

func checkOrdering(unsorted, raw, unique []int) error {
	expected := slices.Clone(unsorted)
	slices.Sort(expected)
	if !slices.Equal(expected, raw) {
		return errors.New("sorted.raw is not the ascending permutation of unsorted")
	}

	compacted := slices.Compact(slices.Clone(raw))
	if !slices.Equal(compacted, unique) {
		return errors.New("sorted.unique is not sorted.raw without repeats")
	}
	return nil
}
