package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with a valid configuration and
// no fixtures.
func NewTestConfig() *ConfigBuilder {
	cfg := *NewDefaultConfig()
	cfg.Fixtures = nil
	cfg.BuildInfo.InstanceID = "3f1c6a52-9a0e-4c41-8f5e-2d7b6f0d9c11"
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

func (b *ConfigBuilder) WithNamespace(ns string) *ConfigBuilder {
	b.cfg.Metrics.Namespace = ns
	return b
}

func (b *ConfigBuilder) WithBuckets(buckets ...float64) *ConfigBuilder {
	b.cfg.Metrics.DurationBuckets = buckets
	return b
}

func (b *ConfigBuilder) WithBuildInfo(version, mode string) *ConfigBuilder {
	b.cfg.BuildInfo.Version = version
	b.cfg.BuildInfo.Mode = mode
	return b
}

func (b *ConfigBuilder) WithSchedule(schedule string) *ConfigBuilder {
	b.cfg.Report.Schedule = schedule
	return b
}

func (b *ConfigBuilder) WithFixture(method, path string, status, count int, durations ...time.Duration) *ConfigBuilder {
	b.cfg.Fixtures = append(b.cfg.Fixtures, FixtureConfig{
		Method:    method,
		Path:      path,
		Status:    status,
		Count:     count,
		Durations: durations,
	})
	return b
}
