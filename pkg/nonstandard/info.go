package nonstandard

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/prometools/pkg/labels"
)

// InfoGauge exposes static information, such as a build version, as the
// labels of a gauge that is always 1:
//
//	build_info{mode="debug",version="1.2.3"} 1
//
// The labels come from a label struct S, encoded by package labels.
type InfoGauge[S any] struct {
	info   S
	metric prometheus.Metric
}

var _ prometheus.Collector = (*InfoGauge[struct{}])(nil)

// NewInfoGauge creates an info gauge for info.
func NewInfoGauge[S any](opts prometheus.GaugeOpts, info S) (*InfoGauge[S], error) {
	codec, err := labels.For[S]()
	if err != nil {
		return nil, err
	}
	values, err := codec.Values(info)
	if err != nil {
		return nil, err
	}

	desc := prometheus.NewDesc(
		prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name),
		opts.Help,
		codec.Names(),
		opts.ConstLabels,
	)
	metric, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, 1, values...)
	if err != nil {
		return nil, err
	}

	return &InfoGauge[S]{info: info, metric: metric}, nil
}

// MustNewInfoGauge is like NewInfoGauge but panics on error.
func MustNewInfoGauge[S any](opts prometheus.GaugeOpts, info S) *InfoGauge[S] {
	g, err := NewInfoGauge(opts, info)
	if err != nil {
		panic(err)
	}
	return g
}

// Info returns the label set the gauge was created with.
func (g *InfoGauge[S]) Info() S {
	return g.info
}

// Describe implements prometheus.Collector.
func (g *InfoGauge[S]) Describe(ch chan<- *prometheus.Desc) {
	ch <- g.metric.Desc()
}

// Collect implements prometheus.Collector.
func (g *InfoGauge[S]) Collect(ch chan<- prometheus.Metric) {
	ch <- g.metric
}
