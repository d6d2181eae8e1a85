package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/selvklart/docflow/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the shape of the workflow configuration file. The
// file is checked against this schema before unmarshalling so that a typo
// (e.g. "transition" for "transitions") is rejected instead of silently
// ignored.
var configSchema = map[string]any{
	"type":                 "object",
	"required":             []string{"states", "schemaTypes"},
	"additionalProperties": false,
	"properties": map[string]any{
		"schemaTypes": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string", "minLength": 1},
		},
		"states": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"required":             []string{"id", "title"},
				"additionalProperties": false,
				"properties": map[string]any{
					"id":                map[string]any{"type": "string", "minLength": 1},
					"title":             map[string]any{"type": "string", "minLength": 1},
					"transitions":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"roles":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"requireAssignment": map[string]any{"type": "boolean"},
					"requireValidation": map[string]any{"type": "boolean"},
				},
			},
		},
	},
}

// LoadConfig reads a workflow configuration file and builds the catalog
// from it.
func LoadConfig(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow configuration %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig validates raw JSON configuration and builds the catalog.
func ParseConfig(data []byte) (*Catalog, error) {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate workflow configuration: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("invalid workflow configuration: %s", strings.Join(details, "; "))
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse workflow configuration: %w", err)
	}

	return New(cfg)
}
