package extract

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/formatting"
)

// ErrInvalidResponse indicates the model returned content that does not
// satisfy the extraction response contract.
var ErrInvalidResponse = errors.New("invalid extraction response")

// ParseResponse decodes a model response into a FieldSet. Markdown fences
// are stripped, the payload is validated against the response schema, and
// any violation is an error rather than a silent default.
func ParseResponse(content string) (*FieldSet, error) {
	payload, err := formatting.Parse[map[string]any](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if err := validateResponse(payload); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var fs FieldSet
	if err := json.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &fs, nil
}
