package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"mercator-hq/prometools/pkg/config"
	"mercator-hq/prometools/pkg/guarded"
)

// RenderMetrics tracks the collector's own rendering.
//
// Metrics:
//   - <ns>_renders_total: completed renders by result
//   - <ns>_renders_in_flight: renders currently writing
//   - <ns>_last_render_bytes: size of the previous successful render
//   - <ns>_last_render_timestamp_seconds: end of the previous successful render
type RenderMetrics struct {
	renders *prometheus.CounterVec

	inFlight      *guarded.Cell[int64]
	lastBytes     *guarded.Cell[uint64]
	lastTimestamp *guarded.Cell[float64]

	now func() time.Time
}

// NewRenderMetrics creates and registers render metrics with the provided registry.
func NewRenderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RenderMetrics {
	rm := &RenderMetrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "renders_total",
				Help:      "Number of exposition renders by result",
			},
			[]string{"result"},
		),
		inFlight:      guarded.New[int64](0),
		lastBytes:     guarded.New[uint64](0),
		lastTimestamp: guarded.New[float64](0),
		now:           time.Now,
	}

	opts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}

	registry.MustRegister(
		rm.renders,
		guarded.NewGaugeFunc(opts("renders_in_flight", "Number of renders currently writing"), rm.inFlight),
		guarded.NewGaugeFunc(opts("last_render_bytes", "Size in bytes of the previous successful render"), rm.lastBytes),
		guarded.NewGaugeFunc(opts("last_render_timestamp_seconds", "Unix time of the previous successful render"), rm.lastTimestamp),
	)

	return rm
}

func (rm *RenderMetrics) begin() {
	rm.inFlight.Add(1)
}

func (rm *RenderMetrics) end(n int64, err error) {
	rm.inFlight.Add(-1)

	if err != nil {
		rm.renders.WithLabelValues("error").Inc()
		return
	}

	rm.renders.WithLabelValues("success").Inc()
	rm.lastBytes.Store(uint64(n))
	rm.lastTimestamp.Store(float64(rm.now().UnixNano()) / 1e9)
}

// Render gathers the registry and writes every metric family to w in the
// Prometheus text format, or in OpenMetrics when openMetrics is set. It
// returns the number of bytes written.
//
// The render bookkeeping gauges in the output describe the previous render.
func (c *Collector) Render(w io.Writer, openMetrics bool) (int64, error) {
	c.renderMetrics.begin()

	cw := &countingWriter{w: w}
	err := render(cw, c.registry, openMetrics)

	c.renderMetrics.end(cw.n, err)

	if err != nil {
		c.logger.Error("Render failed", "error", err, "bytes", cw.n)
		return cw.n, err
	}

	c.logger.Debug("Rendered metrics", "bytes", cw.n, "open_metrics", openMetrics)
	return cw.n, nil
}

func render(w io.Writer, g prometheus.Gatherer, openMetrics bool) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	if openMetrics {
		format = expfmt.NewFormat(expfmt.TypeOpenMetrics)
	}

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}

	if closer, ok := enc.(expfmt.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to finalize output: %w", err)
		}
	}

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
