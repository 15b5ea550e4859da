package metrics

import (
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/prometools/pkg/config"
	"mercator-hq/prometools/pkg/family"
	"mercator-hq/prometools/pkg/histogram"
	"mercator-hq/prometools/pkg/nonstandard"
)

// RequestLabels identify one request counter series.
type RequestLabels struct {
	Method string `label:"method"`
	Path   string `label:"path"`
	Status int    `label:"status"`
}

// RouteLabels identify one request duration series.
type RouteLabels struct {
	Method string `label:"method"`
	Path   string `label:"path"`
}

// RequestMetrics tracks metrics related to request processing.
//
// Metrics:
//   - <ns>_http_requests: request count by method, path, status (no _total suffix)
//   - <ns>_http_request_duration_seconds: request duration histogram by method, path
//   - <ns>_label_sets_dropped_total: label sets rejected by the cardinality limit
type RequestMetrics struct {
	// Request count, unsuffixed
	requests *family.Family[RequestLabels, *nonstandard.UnsuffixedCounter]

	// Request duration histogram
	durations *family.Family[RouteLabels, *histogram.TimeHistogram]

	// Label sets rejected by the cardinality limit
	dropped *prometheus.CounterVec

	logger *slog.Logger
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry, logger *slog.Logger) *RequestMetrics {
	rm := &RequestMetrics{
		requests: family.MustNew[RequestLabels](
			family.Opts{
				Namespace:    cfg.Namespace,
				Subsystem:    cfg.Subsystem,
				Name:         "http_requests",
				Help:         "Number of requests handled",
				MaxLabelSets: cfg.MaxLabelSets,
			},
			nonstandard.NewUnsuffixedCounterFromDesc,
		),

		durations: family.MustNew[RouteLabels](
			family.Opts{
				Namespace:    cfg.Namespace,
				Subsystem:    cfg.Subsystem,
				Name:         "http_request_duration_seconds",
				Help:         "Duration of requests in seconds",
				MaxLabelSets: cfg.MaxLabelSets,
			},
			histogram.Constructor(cfg.DurationBuckets),
		),

		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "label_sets_dropped_total",
				Help:      "Observations dropped because their family reached its label set limit",
			},
			[]string{"family"},
		),

		logger: logger,
	}

	// Register all metrics
	registry.MustRegister(
		rm.requests,
		rm.durations,
		rm.dropped,
	)

	return rm
}

// RecordRequest counts a request and observes its duration.
func (rm *RequestMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	rm.CountRequest(method, path, status)

	h, ok := rm.route(method, path)
	if !ok {
		return
	}
	h.ObserveDuration(duration)
}

// CountRequest increments the request counter only.
func (rm *RequestMetrics) CountRequest(method, path string, status int) {
	counter, err := rm.requests.GetMetricWith(RequestLabels{
		Method: method,
		Path:   path,
		Status: status,
	})
	if err != nil {
		rm.drop("http_requests", err, "method", method, "path", path, "status", status)
		return
	}
	counter.Inc()
}

// TimeRequest starts a timer for method and path, or returns nil when the
// route is over the cardinality limit.
func (rm *RequestMetrics) TimeRequest(method, path string) *histogram.Timer {
	h, ok := rm.route(method, path)
	if !ok {
		return nil
	}
	return h.StartTimer()
}

// Reset removes every request series.
func (rm *RequestMetrics) Reset() {
	rm.requests.Clear()
	rm.durations.Clear()
}

func (rm *RequestMetrics) route(method, path string) (*histogram.TimeHistogram, bool) {
	h, err := rm.durations.GetMetricWith(RouteLabels{Method: method, Path: path})
	if err != nil {
		rm.drop("http_request_duration_seconds", err, "method", method, "path", path)
		return nil, false
	}
	return h, true
}

func (rm *RequestMetrics) drop(name string, err error, args ...any) {
	rm.dropped.WithLabelValues(name).Inc()
	if errors.Is(err, family.ErrCardinalityLimit) {
		rm.logger.Warn("Label set dropped", append([]any{"family", name}, args...)...)
		return
	}
	rm.logger.Warn("Failed to resolve label set", append([]any{"family", name, "error", err}, args...)...)
}
