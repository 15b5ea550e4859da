// Package metrics wires the prometools metric types into a Prometheus
// registry and renders it.
//
// # Metrics
//
//   - <ns>_http_requests: request count by method, path and status. It is a
//     nonstandard.UnsuffixedCounter, typed counter without _total.
//   - <ns>_http_request_duration_seconds: histogram.TimeHistogram by method and path
//   - <ns>_label_sets_dropped_total: observations rejected by the cardinality limit
//   - <ns>_build_info: nonstandard.InfoGauge with version, mode and instance_id
//   - <ns>_renders_total, <ns>_renders_in_flight, <ns>_last_render_bytes,
//     <ns>_last_render_timestamp_seconds: render bookkeeping backed by
//     guarded cells
//
// # Usage
//
//	cfg := config.NewDefaultConfig()
//	collector := metrics.NewCollector(&cfg.Metrics, cfg.BuildInfo, nil, logger)
//
//	collector.RecordRequest("GET", "/foo", 200, 20*time.Millisecond)
//	collector.Replay(cfg.Fixtures)
//
//	if _, err := collector.Render(os.Stdout, cfg.Metrics.OpenMetrics); err != nil {
//		return err
//	}
//
// # Cardinality Management
//
// Both request families are bounded by MetricsConfig.MaxLabelSets. Once a
// family is full, new label sets are dropped and counted in
// label_sets_dropped_total; existing series keep updating.
package metrics
