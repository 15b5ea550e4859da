package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("default configuration is invalid: %v", err)
	}

	if !cfg.Metrics.Enabled {
		t.Error("expected metrics to be enabled by default")
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected namespace %q, got %q", DefaultMetricsNamespace, cfg.Metrics.Namespace)
	}
	if cfg.Metrics.MaxLabelSets != DefaultMetricsMaxLabelSets {
		t.Errorf("expected max label sets %d, got %d", DefaultMetricsMaxLabelSets, cfg.Metrics.MaxLabelSets)
	}
	if diff := cmp.Diff(DefaultDurationBuckets, cfg.Metrics.DurationBuckets); diff != "" {
		t.Errorf("duration buckets mismatch (-want +got):\n%s", diff)
	}
	if _, err := uuid.Parse(cfg.BuildInfo.InstanceID); err != nil {
		t.Errorf("expected a generated instance id, got %q", cfg.BuildInfo.InstanceID)
	}
	if cfg.Tracing.Enabled {
		t.Error("expected tracing to be disabled by default")
	}
	if cfg.Tracing.Sampler != DefaultTracingSampler || cfg.Tracing.SampleRatio != DefaultTracingSampleRatio {
		t.Errorf("unexpected tracing defaults: %+v", cfg.Tracing)
	}
	if len(cfg.Fixtures) != 2 {
		t.Fatalf("expected 2 default fixtures, got %d", len(cfg.Fixtures))
	}
	if cfg.Fixtures[0].Path != "/foo" || cfg.Fixtures[0].Count != 50 {
		t.Errorf("unexpected first fixture: %+v", cfg.Fixtures[0])
	}
}

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(t *testing.T, cfg *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != DefaultLoggingLevel {
					t.Errorf("expected level %q, got %q", DefaultLoggingLevel, cfg.Logging.Level)
				}
				if cfg.Logging.Format != DefaultLoggingFormat {
					t.Errorf("expected format %q, got %q", DefaultLoggingFormat, cfg.Logging.Format)
				}
				if cfg.BuildInfo.Version != DefaultBuildInfoVersion {
					t.Errorf("expected version %q, got %q", DefaultBuildInfoVersion, cfg.BuildInfo.Version)
				}
				if cfg.BuildInfo.Mode != DefaultBuildInfoMode {
					t.Errorf("expected mode %q, got %q", DefaultBuildInfoMode, cfg.BuildInfo.Mode)
				}
				if cfg.Report.WatchDebounce != DefaultReportWatchDebounce {
					t.Errorf("expected debounce %v, got %v", DefaultReportWatchDebounce, cfg.Report.WatchDebounce)
				}
			},
		},
		{
			name: "explicit values are preserved",
			input: Config{
				Logging:   LoggingConfig{Level: "debug", Format: "json"},
				Metrics:   MetricsConfig{Namespace: "shop", MaxLabelSets: -1, DurationBuckets: []float64{1, 2}},
				BuildInfo: BuildInfoConfig{Version: "1.0.0", Mode: "debug", InstanceID: "fixed"},
				Report:    ReportConfig{WatchDebounce: time.Second},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("logging overwritten: %+v", cfg.Logging)
				}
				if cfg.Metrics.Namespace != "shop" {
					t.Errorf("namespace overwritten: %q", cfg.Metrics.Namespace)
				}
				if cfg.Metrics.MaxLabelSets != -1 {
					t.Errorf("negative max label sets overwritten: %d", cfg.Metrics.MaxLabelSets)
				}
				if diff := cmp.Diff([]float64{1, 2}, cfg.Metrics.DurationBuckets); diff != "" {
					t.Errorf("buckets overwritten (-want +got):\n%s", diff)
				}
				if cfg.BuildInfo.InstanceID != "fixed" {
					t.Errorf("instance id overwritten: %q", cfg.BuildInfo.InstanceID)
				}
				if cfg.Report.WatchDebounce != time.Second {
					t.Errorf("debounce overwritten: %v", cfg.Report.WatchDebounce)
				}
			},
		},
		{
			name: "fixture defaults",
			input: Config{
				Fixtures: []FixtureConfig{{Path: "/x"}},
			},
			check: func(t *testing.T, cfg *Config) {
				want := FixtureConfig{Method: "GET", Path: "/x", Status: 200, Count: 1}
				if diff := cmp.Diff(want, cfg.Fixtures[0]); diff != "" {
					t.Errorf("fixture mismatch (-want +got):\n%s", diff)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)
		})
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	first.Metrics.DurationBuckets = append([]float64(nil), cfg.Metrics.DurationBuckets...)

	ApplyDefaults(cfg)

	if diff := cmp.Diff(first, *cfg); diff != "" {
		t.Errorf("second ApplyDefaults changed config (-first +second):\n%s", diff)
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Metrics.DurationBuckets[0] = 42

	if DefaultDurationBuckets[0] == 42 {
		t.Fatal("ApplyDefaults aliased DefaultDurationBuckets")
	}
}
