package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// summarySchemaJSON constrains summary records to the bounded shape the
// progressive-loading convention expects: a role line plus short lists.
const summarySchemaJSON = `{
	"type": "object",
	"properties": {
		"role": {"type": "string", "minLength": 1},
		"responsibilities": {
			"type": "array",
			"items": {"type": "string"},
			"maxItems": 16
		},
		"constraints": {
			"type": "array",
			"items": {"type": "string"},
			"maxItems": 16
		},
		"output_shape": {"type": "object"},
		"tokens": {"type": "integer", "minimum": 1}
	},
	"required": ["role"],
	"additionalProperties": false
}`

// summaryRecord is a parsed summary tier file.
type summaryRecord struct {
	Role             string         `json:"role"`
	Responsibilities []string       `json:"responsibilities,omitempty"`
	Constraints      []string       `json:"constraints,omitempty"`
	OutputShape      map[string]any `json:"output_shape,omitempty"`
	Tokens           int            `json:"tokens,omitempty"`
}

// payload returns the record without the bookkeeping tokens field; this
// is what gets surfaced to the model.
func (r *summaryRecord) payload() *summaryRecord {
	return &summaryRecord{
		Role:             r.Role,
		Responsibilities: r.Responsibilities,
		Constraints:      r.Constraints,
		OutputShape:      r.OutputShape,
	}
}

// summarySchema validates summary tier files against the embedded schema.
type summarySchema struct {
	schema *jsonschema.Schema
}

func newSummarySchema() (*summarySchema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(summarySchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &summarySchema{schema: schema}, nil
}

// parse unmarshals and validates one summary record.
func (s *summarySchema) parse(data []byte) (*summaryRecord, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse summary: %w", err)
	}
	result := s.schema.Validate(raw)
	if !result.IsValid() {
		return nil, fmt.Errorf("summary schema: %s", result.Error())
	}

	var rec summaryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse summary: %w", err)
	}
	return &rec, nil
}
