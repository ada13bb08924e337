package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultLinkRegexp matches http(s) URLs up to the first whitespace or parenthesis.
	DefaultLinkRegexp = `https?://[^\s()]+`
	DefaultTrimChars  = `),."'>`
	DefaultUserAgent  = "md-link-check/1.0"

	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidConfig marks every error caused by bad configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = newValidator()

type Config struct {
	Inputs      []string         `json:"inputs"`
	ListFile    string           `json:"list_file"`
	Extensions  []string         `json:"extensions" validate:"required,min=1,dive,required"`
	LinkRegexp  string           `json:"link_regexp" validate:"required,linkregexp"`
	TrimChars   string           `json:"trim_chars"`
	Filter      string           `json:"filter"`
	Output      string           `json:"output"`
	Format      string           `json:"format" validate:"required,oneof=text json"`
	ShowReason  bool             `json:"show_reason"`
	Verbose     bool             `json:"verbose"`
	MetricsFile string           `json:"metrics_file"`
	Workers     Workers          `json:"workers"`
	Exporters   []ExporterConfig `json:"exporters" validate:"dive"`
}

type Workers struct {
	Count        int      `json:"count" validate:"gt=0"`
	Timeout      Duration `json:"timeout" validate:"gt=0"`
	MaxRedirects int      `json:"max_redirects" validate:"gte=0"`
	RatePerHost  float64  `json:"rate_per_host" validate:"gte=0"`
	GracePeriod  Duration `json:"grace_period" validate:"gte=0"`
	UserAgent    string   `json:"user_agent" validate:"required"`
}

// Duration is a time.Duration that reads from JSON strings such as "5s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Extensions: []string{".md"},
		LinkRegexp: DefaultLinkRegexp,
		TrimChars:  DefaultTrimChars,
		Format:     FormatText,
		Workers: Workers{
			Count:        10,
			Timeout:      Duration(5 * time.Second),
			MaxRedirects: 5,
			GracePeriod:  Duration(2 * time.Second),
			UserAgent:    DefaultUserAgent,
		},
	}
}

// NewConfig returns the defaults overlaid with the JSON file at path.
// An empty path falls back to CONFIG_PATH; when both are empty only the
// defaults are used. The result is not validated, callers apply their
// overrides first and then call Validate.
func NewConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading config: %w", ErrInvalidConfig, err)
	}

	if err := validateSchema(data); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: error parsing config: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Validate checks the configuration before any work starts.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("%w: config validation failed: %w", ErrInvalidConfig, err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("linkregexp", validateLinkRegexp); err != nil {
		panic(fmt.Sprintf("failed to register linkregexp validator: %v", err))
	}
	if err := v.RegisterValidation("exporterType", validateExporterType); err != nil {
		panic(fmt.Sprintf("failed to register exporter type validator: %v", err))
	}

	return v
}

func validateLinkRegexp(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}

// formatValidationErrors formats validation errors into a user-friendly error message
func formatValidationErrors(errs validator.ValidationErrors) error {
	var errMsgs []string
	for _, err := range errs {
		errMsgs = append(errMsgs, fmt.Sprintf(
			"field '%s' failed validation: %s",
			err.Namespace(),
			err.Tag(),
		))
	}
	return fmt.Errorf("%w: validation errors: %v", ErrInvalidConfig, errMsgs)
}
