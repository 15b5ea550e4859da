package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/prometools/pkg/config"
	"mercator-hq/prometools/pkg/histogram"
	"mercator-hq/prometools/pkg/nonstandard"
)

// BuildLabels are the labels of the build_info gauge.
type BuildLabels struct {
	Version    string `label:"version"`
	Mode       string `label:"mode"`
	InstanceID string `label:"instance_id"`
}

// Collector wires the prometools metric types into one registry. It owns
// the request families, the build_info gauge and the render bookkeeping
// gauges, and renders the registry to text.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry
	logger   *slog.Logger

	// Request metrics
	requestMetrics *RequestMetrics

	// Render metrics
	renderMetrics *RenderMetrics

	// Static build information
	buildInfo *nonstandard.InfoGauge[BuildLabels]
}

// NewCollector creates a new metrics collector with the specified
// configuration and registers everything with registry. If registry is nil,
// a fresh registry is created. It panics if cfg was not validated.
//
// Example:
//
//	cfg := config.NewDefaultConfig()
//	collector := metrics.NewCollector(&cfg.Metrics, cfg.BuildInfo, nil, logger)
//	collector.Replay(cfg.Fixtures)
//	collector.Render(os.Stdout, cfg.Metrics.OpenMetrics)
func NewCollector(cfg *config.MetricsConfig, build config.BuildInfoConfig, registry *prometheus.Registry, logger *slog.Logger) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		logger:   logger.With("component", "metrics.collector"),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry, c.logger)
	c.renderMetrics = NewRenderMetrics(cfg, registry)

	c.buildInfo = nonstandard.MustNewInfoGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "build_info",
		Help:      "Build information about the running process",
	}, BuildLabels{
		Version:    build.Version,
		Mode:       build.Mode,
		InstanceID: build.InstanceID,
	})
	registry.MustRegister(c.buildInfo)

	return c
}

// RecordRequest records a completed request: the request counter is
// incremented and duration is observed into the duration histogram.
// It is a no-op when metrics are disabled.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordRequest(method, path, status, duration)
}

// CountRequest increments the request counter without observing a
// duration.
func (c *Collector) CountRequest(method, path string, status int) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.CountRequest(method, path, status)
}

// TimeRequest starts a timer that records into the duration histogram of
// method and path. It returns nil when metrics are disabled or the label
// set is over the cardinality limit; a nil *histogram.Timer is not usable,
// so callers check.
func (c *Collector) TimeRequest(method, path string) *histogram.Timer {
	if !c.config.Enabled {
		return nil
	}

	return c.requestMetrics.TimeRequest(method, path)
}

// Replay records every fixture into the collector. Durations cycle when a
// fixture's count exceeds them; fixtures without durations only count.
func (c *Collector) Replay(fixtures []config.FixtureConfig) {
	for _, f := range fixtures {
		for i := 0; i < f.Count; i++ {
			if len(f.Durations) == 0 {
				c.CountRequest(f.Method, f.Path, f.Status)
				continue
			}
			c.RecordRequest(f.Method, f.Path, f.Status, f.Durations[i%len(f.Durations)])
		}
	}

	c.logger.Debug("Replayed fixtures", "fixtures", len(fixtures))
}

// Reset removes every recorded request series. Build info and render
// bookkeeping are kept.
func (c *Collector) Reset() {
	c.requestMetrics.Reset()
}

// BuildInfo returns the labels exported by the build_info gauge.
func (c *Collector) BuildInfo() BuildLabels {
	return c.buildInfo.Info()
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for a metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
