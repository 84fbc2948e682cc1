package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

var (
	schemaOnce     sync.Once
	schemaErr      error
	responseSchema *jsonschema.Schema
)

func confidenceSchema() map[string]any {
	return map[string]any{
		"type":    "number",
		"minimum": 0,
		"maximum": 1,
	}
}

// buildResponseSchema declares the model response contract: all fourteen
// required keys present, store_in restricted to the two store locations,
// and every confidence a number in [0,1]. Optional fields are validated
// when present but never required.
func buildResponseSchema() map[string]any {
	properties := map[string]any{
		"store_in": map[string]any{
			"type": "string",
			"enum": []string{fields.StoreInvestigations, fields.StoreCorrespondence},
		},
	}

	required := []string{"store_in", "store_in_confidence"}

	for _, key := range []string{
		"patient_name", "report_date", "subject",
		"source_contact", "assigned_doctor", "category",
	} {
		properties[key] = map[string]any{"type": "string"}
		required = append(required, key, key+"_confidence")
	}

	for _, key := range []string{
		"patient_name", "report_date", "subject", "source_contact",
		"store_in", "assigned_doctor", "category",
		"date_of_birth", "patient_id", "specialist",
		"facility", "urgency", "summary",
	} {
		properties[key+"_confidence"] = confidenceSchema()
	}

	for _, key := range []string{
		"date_of_birth", "patient_id", "specialist",
		"facility", "urgency", "summary",
	} {
		properties[key] = map[string]any{"type": "string"}
	}

	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func compileResponseSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(buildResponseSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal response schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction-response.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile("extraction-response.json")
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}

	return schema, nil
}

// validateResponse checks a decoded model response against the extraction
// response schema.
func validateResponse(payload map[string]any) error {
	schemaOnce.Do(func() {
		responseSchema, schemaErr = compileResponseSchema()
	})

	if schemaErr != nil {
		return schemaErr
	}

	if err := responseSchema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}
