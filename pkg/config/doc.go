// Package config provides configuration management for prometools.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. The configuration drives
// the render command: metric naming, histogram buckets, the build_info
// labels, repeated rendering, tracing and the synthetic requests replayed
// before each render.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("prometools.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("prometools.yaml")
//
// Passing an empty path to LoadConfigWithEnvOverrides starts from
// NewDefaultConfig instead of a file. Files ending in ".toml" are decoded
// as TOML with the same keys; unknown TOML keys are an error.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PROMETOOLS_SECTION_FIELD.
// For example:
//
//   - PROMETOOLS_METRICS_NAMESPACE overrides metrics.namespace
//   - PROMETOOLS_BUILD_INFO_MODE overrides build_info.mode
//   - PROMETOOLS_LOGGING_LEVEL overrides logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML or TOML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Reloading
//
// FileWatcher watches the configuration file and calls back after a
// debounced change. Combined with ReloadConfig and Subscribe, the render
// command picks up edits without restarting:
//
//	config.Subscribe(func(cfg *config.Config) { rebuild(cfg) })
//	w, _ := config.NewFileWatcher(&config.FileWatcherConfig{Path: path}, logger)
//	go w.Watch(ctx, func() error { return config.ReloadConfig(path) })
//
// # Validation
//
// Validation errors include field paths:
//
//	configuration validation failed with 2 errors:
//	  - metrics.namespace: "9bad" is not a valid metric name prefix
//	  - build_info.mode: invalid mode "fast" (must be debug or release)
//
// # Example Configuration
//
//	logging:
//	  level: debug
//	metrics:
//	  namespace: shop
//	  duration_buckets: [0.01, 0.1, 1]
//	build_info:
//	  version: 1.4.0
//	  mode: debug
//	report:
//	  schedule: "*/5 * * * *"
//	tracing:
//	  enabled: true
//	  sampler: ratio
//	  sample_ratio: 0.1
//	  endpoint: otel-collector:4317
//	  insecure: true
//	fixtures:
//	  - path: /checkout
//	    status: 500
//	    count: 3
//	    durations: [250ms]
package config
