package config

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	ExporterTypeUptimeKuma = "uptime-kuma"
)

// ExporterConfig selects an exporter by type. The full JSON object is kept
// in Raw so each exporter can decode its own settings.
type ExporterConfig struct {
	Type string `json:"type" validate:"required,exporterType"`
	Raw  json.RawMessage
}

func validateExporterType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case ExporterTypeUptimeKuma:
		return true
	default:
		return false
	}
}

func (e *ExporterConfig) UnmarshalJSON(data []byte) error {
	e.Raw = data

	// Define an alias type to avoid recursion
	type alias ExporterConfig
	temp := struct {
		*alias
	}{
		alias: (*alias)(e),
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("failed to unmarshal exporter config: %w", err)
	}

	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("invalid exporter config: %w", err)
	}

	return nil
}

var _ json.Unmarshaler = (*ExporterConfig)(nil)
