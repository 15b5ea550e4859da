package config

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := NewTestConfig().
		WithFixture("GET", "/", 200, 1, time.Millisecond).
		Build()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := NewTestConfig().
		WithNamespace("9bad").
		WithBuildInfo("", "fast").
		Build()

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantError  bool
		errorField string
	}{
		{
			name:       "invalid log level",
			modify:     func(c *Config) { c.Logging.Level = "verbose" },
			wantError:  true,
			errorField: "logging.level",
		},
		{
			name:      "uppercase log level",
			modify:    func(c *Config) { c.Logging.Level = "WARN" },
			wantError: false,
		},
		{
			name:       "invalid log format",
			modify:     func(c *Config) { c.Logging.Format = "xml" },
			wantError:  true,
			errorField: "logging.format",
		},
		{
			name:       "namespace with dash",
			modify:     func(c *Config) { c.Metrics.Namespace = "my-app" },
			wantError:  true,
			errorField: "metrics.namespace",
		},
		{
			name:       "namespace with colon",
			modify:     func(c *Config) { c.Metrics.Namespace = "my:app" },
			wantError:  true,
			errorField: "metrics.namespace",
		},
		{
			name:       "subsystem with leading digit",
			modify:     func(c *Config) { c.Metrics.Subsystem = "1api" },
			wantError:  true,
			errorField: "metrics.subsystem",
		},
		{
			name:      "empty subsystem",
			modify:    func(c *Config) { c.Metrics.Subsystem = "" },
			wantError: false,
		},
		{
			name:       "decreasing buckets",
			modify:     func(c *Config) { c.Metrics.DurationBuckets = []float64{1, 0.5} },
			wantError:  true,
			errorField: "metrics.duration_buckets",
		},
		{
			name:       "NaN bucket",
			modify:     func(c *Config) { c.Metrics.DurationBuckets = []float64{math.NaN()} },
			wantError:  true,
			errorField: "metrics.duration_buckets",
		},
		{
			name:      "trailing +Inf bucket",
			modify:    func(c *Config) { c.Metrics.DurationBuckets = []float64{1, math.Inf(1)} },
			wantError: false,
		},
		{
			name:       "missing version",
			modify:     func(c *Config) { c.BuildInfo.Version = "" },
			wantError:  true,
			errorField: "build_info.version",
		},
		{
			name:       "unknown mode",
			modify:     func(c *Config) { c.BuildInfo.Mode = "profile" },
			wantError:  true,
			errorField: "build_info.mode",
		},
		{
			name:       "instance id not a uuid",
			modify:     func(c *Config) { c.BuildInfo.InstanceID = "host-1" },
			wantError:  true,
			errorField: "build_info.instance_id",
		},
		{
			name:       "bad cron schedule",
			modify:     func(c *Config) { c.Report.Schedule = "every minute" },
			wantError:  true,
			errorField: "report.schedule",
		},
		{
			name:      "descriptor schedule",
			modify:    func(c *Config) { c.Report.Schedule = "@every 30s" },
			wantError: false,
		},
		{
			name:       "negative debounce",
			modify:     func(c *Config) { c.Report.WatchDebounce = -time.Second },
			wantError:  true,
			errorField: "report.watch_debounce",
		},
		{
			name: "fixture path without slash",
			modify: func(c *Config) {
				c.Fixtures = []FixtureConfig{{Method: "GET", Path: "foo", Status: 200, Count: 1}}
			},
			wantError:  true,
			errorField: "fixtures[0].path",
		},
		{
			name: "fixture unknown status",
			modify: func(c *Config) {
				c.Fixtures = []FixtureConfig{{Method: "GET", Path: "/", Status: 999, Count: 1}}
			},
			wantError:  true,
			errorField: "fixtures[0].status",
		},
		{
			name: "fixture negative count",
			modify: func(c *Config) {
				c.Fixtures = []FixtureConfig{{Method: "GET", Path: "/", Status: 200, Count: -1}}
			},
			wantError:  true,
			errorField: "fixtures[0].count",
		},
		{
			name: "fixture negative duration",
			modify: func(c *Config) {
				c.Fixtures = []FixtureConfig{
					{Method: "GET", Path: "/", Status: 200, Count: 1},
					{Method: "GET", Path: "/", Status: 200, Count: 1, Durations: []time.Duration{time.Second, -1}},
				}
			},
			wantError:  true,
			errorField: "fixtures[1].durations[1]",
		},
		{
			name:       "unknown sampler",
			modify:     func(c *Config) { c.Tracing.Sampler = "sometimes" },
			wantError:  true,
			errorField: "tracing.sampler",
		},
		{
			name: "ratio out of range",
			modify: func(c *Config) {
				c.Tracing.Sampler = "ratio"
				c.Tracing.SampleRatio = 1.5
			},
			wantError:  true,
			errorField: "tracing.sample_ratio",
		},
		{
			name: "ratio ignored by always sampler",
			modify: func(c *Config) {
				c.Tracing.SampleRatio = 7
			},
		},
		{
			name: "enabled tracing without endpoint",
			modify: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Endpoint = ""
			},
			wantError:  true,
			errorField: "tracing.endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig().Build()
			tt.modify(cfg)

			err := Validate(cfg)
			var errs []FieldError
			if err != nil {
				var verr ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				errs = verr.Errors
			}

			if tt.wantError && len(errs) == 0 {
				t.Errorf("expected validation error for field %q, got none", tt.errorField)
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && len(errs) > 0 {
				found := false
				for _, err := range errs {
					if err.Field == tt.errorField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		contains string
	}{
		{
			name:     "empty errors",
			err:      ValidationError{Errors: []FieldError{}},
			contains: "configuration validation failed",
		},
		{
			name: "single error",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "metrics.namespace", Message: "invalid"},
				},
			},
			contains: "metrics.namespace: invalid",
		},
		{
			name: "multiple errors",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "metrics.namespace", Message: "invalid"},
					{Field: "build_info.mode", Message: "invalid"},
				},
			},
			contains: "2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			if !strings.Contains(errMsg, tt.contains) {
				t.Errorf("expected error message to contain %q, got: %s", tt.contains, errMsg)
			}
		})
	}
}
