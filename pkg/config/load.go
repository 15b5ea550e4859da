package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "PROMETOOLS_"

// LoadConfig loads configuration from a YAML file at the specified path, or
// from TOML when the file ends in ".toml". It applies default values,
// validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse on top of the defaults
	cfg := NewDefaultConfig()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults to anything the file zeroed
	ApplyDefaults(cfg)

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		// toml reuses existing slice elements, yaml replaces the slice
		defaults := cfg.Fixtures
		cfg.Fixtures = nil
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if !md.IsDefined("fixtures") {
			cfg.Fixtures = defaults
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PROMETOOLS_SECTION_FIELD (e.g., PROMETOOLS_METRICS_NAMESPACE).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from NewDefaultConfig.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefaultConfig()
	} else {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format PROMETOOLS_SECTION_FIELD. Values that
// fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Logging overrides
	envString("LOGGING_LEVEL", &cfg.Logging.Level)
	envString("LOGGING_FORMAT", &cfg.Logging.Format)
	envBool("LOGGING_ADD_SOURCE", &cfg.Logging.AddSource)

	// Metrics overrides
	envBool("METRICS_ENABLED", &cfg.Metrics.Enabled)
	envString("METRICS_NAMESPACE", &cfg.Metrics.Namespace)
	envString("METRICS_SUBSYSTEM", &cfg.Metrics.Subsystem)
	envBool("METRICS_OPEN_METRICS", &cfg.Metrics.OpenMetrics)
	envInt("METRICS_MAX_LABEL_SETS", &cfg.Metrics.MaxLabelSets)

	// Build info overrides
	envString("BUILD_INFO_VERSION", &cfg.BuildInfo.Version)
	envString("BUILD_INFO_MODE", &cfg.BuildInfo.Mode)
	envString("BUILD_INFO_INSTANCE_ID", &cfg.BuildInfo.InstanceID)

	// Report overrides
	envString("REPORT_SCHEDULE", &cfg.Report.Schedule)
	envBool("REPORT_WATCH", &cfg.Report.Watch)
	envDuration("REPORT_WATCH_DEBOUNCE", &cfg.Report.WatchDebounce)

	// Tracing overrides
	envBool("TRACING_ENABLED", &cfg.Tracing.Enabled)
	envString("TRACING_SERVICE_NAME", &cfg.Tracing.ServiceName)
	envString("TRACING_SAMPLER", &cfg.Tracing.Sampler)
	envFloat("TRACING_SAMPLE_RATIO", &cfg.Tracing.SampleRatio)
	envString("TRACING_ENDPOINT", &cfg.Tracing.Endpoint)
	envBool("TRACING_INSECURE", &cfg.Tracing.Insecure)
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(name string, dst *float64) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
