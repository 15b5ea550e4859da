package config

import (
	"time"

	"github.com/google/uuid"
)

// Default values for configuration fields.
const (
	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"

	// Metrics defaults
	DefaultMetricsEnabled      = true
	DefaultMetricsNamespace    = "prometools"
	DefaultMetricsMaxLabelSets = 10000

	// Build info defaults
	DefaultBuildInfoVersion = "dev"
	DefaultBuildInfoMode    = "release"

	// Report defaults
	DefaultReportWatchDebounce = 100 * time.Millisecond

	// Tracing defaults
	DefaultTracingServiceName = "prometools"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultDurationBuckets are the request duration histogram buckets in
// seconds, the same as prometheus.DefBuckets.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// NewDefaultConfig returns a configuration with every default applied and a
// small fixture set. YAML is decoded on top of it, so boolean defaults
// survive fields that are absent from the file.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{
			Enabled: DefaultMetricsEnabled,
		},
		Tracing: TracingConfig{
			SampleRatio: DefaultTracingSampleRatio,
		},
		Fixtures: []FixtureConfig{
			{
				Method:    "GET",
				Path:      "/foo",
				Status:    200,
				Count:     50,
				Durations: []time.Duration{20 * time.Millisecond, 45 * time.Millisecond, 120 * time.Millisecond},
			},
			{
				Method:    "GET",
				Path:      "/bar",
				Status:    404,
				Count:     1,
				Durations: []time.Duration{3 * time.Millisecond},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field that has a default.
func ApplyDefaults(cfg *Config) {
	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Metrics.MaxLabelSets == 0 {
		cfg.Metrics.MaxLabelSets = DefaultMetricsMaxLabelSets
	}

	// Build info defaults
	if cfg.BuildInfo.Version == "" {
		cfg.BuildInfo.Version = DefaultBuildInfoVersion
	}
	if cfg.BuildInfo.Mode == "" {
		cfg.BuildInfo.Mode = DefaultBuildInfoMode
	}
	if cfg.BuildInfo.InstanceID == "" {
		cfg.BuildInfo.InstanceID = uuid.NewString()
	}

	// Report defaults
	if cfg.Report.WatchDebounce == 0 {
		cfg.Report.WatchDebounce = DefaultReportWatchDebounce
	}

	// Tracing defaults
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}

	// Fixture defaults
	for i := range cfg.Fixtures {
		if cfg.Fixtures[i].Method == "" {
			cfg.Fixtures[i].Method = "GET"
		}
		if cfg.Fixtures[i].Status == 0 {
			cfg.Fixtures[i].Status = 200
		}
		if cfg.Fixtures[i].Count == 0 {
			cfg.Fixtures[i].Count = 1
		}
	}
}
