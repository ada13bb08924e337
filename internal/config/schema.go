package config

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"inputs": {"type": "array", "items": {"type": "string", "minLength": 1}},
		"list_file": {"type": "string"},
		"extensions": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
		"link_regexp": {"type": "string", "minLength": 1},
		"trim_chars": {"type": "string"},
		"filter": {"type": "string"},
		"output": {"type": "string"},
		"format": {"enum": ["text", "json"]},
		"show_reason": {"type": "boolean"},
		"verbose": {"type": "boolean"},
		"metrics_file": {"type": "string"},
		"workers": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"count": {"type": "integer", "minimum": 1},
				"timeout": {"type": "string", "minLength": 2},
				"max_redirects": {"type": "integer", "minimum": 0},
				"rate_per_host": {"type": "number", "minimum": 0},
				"grace_period": {"type": "string", "minLength": 2},
				"user_agent": {"type": "string", "minLength": 1}
			}
		},
		"exporters": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type"],
				"properties": {"type": {"type": "string"}}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: error parsing config: %w", ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}

	var errMsgs []string
	for _, desc := range result.Errors() {
		errMsgs = append(errMsgs, desc.String())
	}
	return fmt.Errorf("%w: config does not match schema: %v", ErrInvalidConfig, errMsgs)
}
