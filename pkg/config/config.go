package config

import "time"

// Config is the root configuration structure for prometools.
// It contains the logging, metrics, build information, report scheduling,
// tracing and fixture sections used by the render command.
type Config struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// Metrics contains metric naming and collection configuration.
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`

	// BuildInfo contains the labels of the build_info gauge.
	BuildInfo BuildInfoConfig `yaml:"build_info" toml:"build_info"`

	// Report contains configuration for repeated rendering, either on a
	// cron schedule or when the configuration file changes.
	Report ReportConfig `yaml:"report" toml:"report"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing" toml:"tracing"`

	// Fixtures are synthetic requests replayed into the collector before
	// each render.
	Fixtures []FixtureConfig `yaml:"fixtures" toml:"fixtures"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" toml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format" toml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" toml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether recorded requests update the metrics.
	// Default: true
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "prometools"
	Namespace string `yaml:"namespace" toml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem" toml:"subsystem"`

	// OpenMetrics selects the OpenMetrics text format instead of the
	// Prometheus text format when rendering.
	// Default: false
	OpenMetrics bool `yaml:"open_metrics" toml:"open_metrics"`

	// DurationBuckets defines the request duration histogram buckets
	// in seconds. They must be strictly increasing.
	// Default: [0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10]
	DurationBuckets []float64 `yaml:"duration_buckets" toml:"duration_buckets"`

	// MaxLabelSets bounds the number of distinct label sets per family.
	// A negative value means unlimited.
	// Default: 10000
	MaxLabelSets int `yaml:"max_label_sets" toml:"max_label_sets"`
}

// BuildInfoConfig contains the labels exported by the build_info gauge.
type BuildInfoConfig struct {
	// Version is the reported version string.
	// Default: "dev"
	Version string `yaml:"version" toml:"version"`

	// Mode is the build mode.
	// Options: "debug", "release"
	// Default: "release"
	Mode string `yaml:"mode" toml:"mode"`

	// InstanceID identifies this process. It must be a UUID.
	// Default: a random UUID generated at load time
	InstanceID string `yaml:"instance_id" toml:"instance_id"`
}

// ReportConfig contains configuration for repeated rendering.
type ReportConfig struct {
	// Schedule is a standard five-field cron expression. When set, the
	// render command re-renders on every tick.
	// Default: "" (render once)
	Schedule string `yaml:"schedule" toml:"schedule"`

	// Watch re-renders whenever the configuration file changes.
	// Default: false
	Watch bool `yaml:"watch" toml:"watch"`

	// WatchDebounce is the quiet period after a file change before the
	// re-render starts.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce" toml:"watch_debounce"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns span export on.
	// Default: false
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// ServiceName is the service.name resource attribute.
	// Default: "prometools"
	ServiceName string `yaml:"service_name" toml:"service_name"`

	// Sampler is the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler" toml:"sampler"`

	// SampleRatio is the fraction of traces kept by the "ratio" sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" toml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint" toml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure" toml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// FixtureConfig describes a batch of identical synthetic requests.
type FixtureConfig struct {
	// Method is the HTTP method label.
	Method string `yaml:"method" toml:"method"`

	// Path is the request path label.
	Path string `yaml:"path" toml:"path"`

	// Status is the HTTP status code label.
	Status int `yaml:"status" toml:"status"`

	// Count is the number of requests to record.
	Count int `yaml:"count" toml:"count"`

	// Durations are observed into the duration histogram. They are cycled
	// when Count exceeds their number. With no durations, only the request
	// counter is incremented.
	Durations []time.Duration `yaml:"durations" toml:"durations"`
}
