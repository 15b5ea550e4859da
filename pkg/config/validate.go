package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/common/model"
	"github.com/robfig/cron/v3"

	"mercator-hq/prometools/pkg/histogram"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "metrics.namespace").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateBuildInfo(&cfg.BuildInfo)...)
	errs = append(errs, validateReport(&cfg.Report)...)
	errs = append(errs, validateTracing(&cfg.Tracing)...)
	errs = append(errs, validateFixtures(cfg.Fixtures)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Level),
		})
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json, text, or console)", cfg.Format),
		})
	}

	return errs
}

// validateMetrics validates metrics configuration.
func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	// Namespace and subsystem become part of every metric name
	if cfg.Namespace != "" && !isMetricNamePart(cfg.Namespace) {
		errs = append(errs, FieldError{
			Field:   "metrics.namespace",
			Message: fmt.Sprintf("%q is not a valid metric name prefix", cfg.Namespace),
		})
	}
	if cfg.Subsystem != "" && !isMetricNamePart(cfg.Subsystem) {
		errs = append(errs, FieldError{
			Field:   "metrics.subsystem",
			Message: fmt.Sprintf("%q is not a valid metric name part", cfg.Subsystem),
		})
	}

	if _, err := histogram.UpperBounds(cfg.DurationBuckets); err != nil {
		errs = append(errs, FieldError{
			Field:   "metrics.duration_buckets",
			Message: err.Error(),
		})
	}

	return errs
}

func isMetricNamePart(s string) bool {
	return !strings.Contains(s, ":") && model.LegacyValidation.IsValidMetricName(s)
}

// validateBuildInfo validates build info configuration.
func validateBuildInfo(cfg *BuildInfoConfig) []FieldError {
	var errs []FieldError

	if cfg.Version == "" {
		errs = append(errs, FieldError{
			Field:   "build_info.version",
			Message: "version is required",
		})
	}

	switch cfg.Mode {
	case "debug", "release":
	default:
		errs = append(errs, FieldError{
			Field:   "build_info.mode",
			Message: fmt.Sprintf("invalid mode %q (must be debug or release)", cfg.Mode),
		})
	}

	if _, err := uuid.Parse(cfg.InstanceID); err != nil {
		errs = append(errs, FieldError{
			Field:   "build_info.instance_id",
			Message: fmt.Sprintf("must be a UUID: %v", err),
		})
	}

	return errs
}

// validateReport validates report configuration.
func validateReport(cfg *ReportConfig) []FieldError {
	var errs []FieldError

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "report.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "report.watch_debounce",
			Message: "watch debounce must be non-negative",
		})
	}

	return errs
}

// validateTracing validates tracing configuration.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Sampler {
	case "always", "never":
	case "ratio":
		if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "tracing.sample_ratio",
				Message: fmt.Sprintf("sample ratio must be between 0 and 1, got %g", cfg.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Sampler),
		})
	}

	if cfg.Enabled && cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}

// validateFixtures validates fixture configuration.
func validateFixtures(fixtures []FixtureConfig) []FieldError {
	var errs []FieldError

	for i, f := range fixtures {
		prefix := fmt.Sprintf("fixtures[%d]", i)

		if f.Method == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".method",
				Message: "method is required",
			})
		}
		if f.Path == "" || !strings.HasPrefix(f.Path, "/") {
			errs = append(errs, FieldError{
				Field:   prefix + ".path",
				Message: fmt.Sprintf("path %q must start with /", f.Path),
			})
		}
		if http.StatusText(f.Status) == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".status",
				Message: fmt.Sprintf("unknown HTTP status %d", f.Status),
			})
		}
		if f.Count < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".count",
				Message: "count must be non-negative",
			})
		}
		for j, d := range f.Durations {
			if d < 0 {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.durations[%d]", prefix, j),
					Message: "duration must be non-negative",
				})
			}
		}
	}

	return errs
}
