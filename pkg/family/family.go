// Package family provides metric families keyed by label structs.
//
// A family maps each distinct label set to one metric. The label set is a
// plain Go struct encoded by package labels, so call sites stay typed:
//
//	type RequestLabels struct {
//		Method string `label:"method"`
//		Status int    `label:"status"`
//	}
//
//	requests := family.MustNew[RequestLabels](family.Opts{
//		Name: "http_requests",
//		Help: "Requests served.",
//	}, nonstandard.NewUnsuffixedCounterFromDesc)
//
//	requests.With(RequestLabels{Method: "GET", Status: 200}).Inc()
//
// Any metric type can back a family as long as it can be built from a
// descriptor and its label values; see Constructor.
package family

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"

	"mercator-hq/prometools/pkg/labels"
)

// ErrCardinalityLimit is returned when a new label set would exceed
// Opts.MaxLabelSets.
var ErrCardinalityLimit = errors.New("family: cardinality limit reached")

// Opts configures a Family.
type Opts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// ConstLabels are attached to every metric of the family.
	ConstLabels prometheus.Labels

	// MaxLabelSets bounds the number of distinct label sets. Zero means
	// unlimited.
	MaxLabelSets int
}

// Constructor builds the metric for one label set. labelValues are in the
// order of the descriptor's variable labels and are typically handed to
// prometheus.MakeLabelPairs.
type Constructor[M prometheus.Metric] func(desc *prometheus.Desc, labelValues []string) M

// Family is a collection of metrics of type M, one per distinct label set S.
// It is safe for concurrent use and implements prometheus.Collector.
type Family[S any, M prometheus.Metric] struct {
	desc    *prometheus.Desc
	codec   *labels.Codec
	vec     *prometheus.MetricVec
	limiter *CardinalityLimiter

	// mu orders vec updates against limiter updates so that Len stays
	// exact while Remove and GetMetricWith race.
	mu sync.RWMutex
}

// New creates a family whose variable labels are the fields of S.
func New[S any, M prometheus.Metric](opts Opts, newMetric Constructor[M]) (*Family[S, M], error) {
	if newMetric == nil {
		return nil, errors.New("family: nil constructor")
	}

	codec, err := labels.For[S]()
	if err != nil {
		return nil, err
	}

	fqName := prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
	if !model.LegacyValidation.IsValidMetricName(fqName) {
		return nil, fmt.Errorf("family: invalid metric name %q", fqName)
	}
	for name := range opts.ConstLabels {
		if err := labels.CheckName(name); err != nil {
			return nil, fmt.Errorf("family %s: const label: %w", fqName, err)
		}
		for _, variable := range codec.Names() {
			if name == variable {
				return nil, fmt.Errorf("family %s: label %q is both constant and variable", fqName, name)
			}
		}
	}

	desc := prometheus.NewDesc(fqName, opts.Help, codec.Names(), opts.ConstLabels)

	f := &Family[S, M]{
		desc:    desc,
		codec:   codec,
		limiter: NewCardinalityLimiter(opts.MaxLabelSets),
	}
	f.vec = prometheus.NewMetricVec(desc, func(lvs ...string) prometheus.Metric {
		return newMetric(desc, lvs)
	})
	return f, nil
}

// MustNew is like New but panics on error.
func MustNew[S any, M prometheus.Metric](opts Opts, newMetric Constructor[M]) *Family[S, M] {
	f, err := New[S](opts, newMetric)
	if err != nil {
		panic(err)
	}
	return f
}

// GetMetricWith returns the metric for the label set, creating it on first
// use.
func (f *Family[S, M]) GetMetricWith(labelSet S) (M, error) {
	var zero M

	values, err := f.codec.Values(labelSet)
	if err != nil {
		return zero, err
	}
	key := string(f.codec.AppendValues(nil, values))

	f.mu.RLock()
	if f.limiter.Contains(key) {
		m, err := f.vec.GetMetricWithLabelValues(values...)
		f.mu.RUnlock()
		if err != nil {
			return zero, err
		}
		return m.(M), nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.limiter.Allow(key) {
		return zero, fmt.Errorf("%w: %d label sets in use, rejected {%s}", ErrCardinalityLimit, f.limiter.Max(), key)
	}
	m, err := f.vec.GetMetricWithLabelValues(values...)
	if err != nil {
		f.limiter.Forget(key)
		return zero, err
	}
	return m.(M), nil
}

// With is like GetMetricWith but panics on error, mirroring the With method
// of the client_golang vectors.
func (f *Family[S, M]) With(labelSet S) M {
	m, err := f.GetMetricWith(labelSet)
	if err != nil {
		panic(err)
	}
	return m
}

// Remove deletes the metric for the label set and reports whether it
// existed.
func (f *Family[S, M]) Remove(labelSet S) bool {
	values, err := f.codec.Values(labelSet)
	if err != nil {
		return false
	}
	key := string(f.codec.AppendValues(nil, values))

	f.mu.Lock()
	defer f.mu.Unlock()

	f.limiter.Forget(key)
	return f.vec.DeleteLabelValues(values...)
}

// Clear deletes every metric of the family.
func (f *Family[S, M]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.vec.Reset()
	f.limiter.Reset()
}

// Len returns the number of label sets currently present.
func (f *Family[S, M]) Len() int {
	return f.limiter.Count()
}

// Desc returns the descriptor shared by every metric of the family.
func (f *Family[S, M]) Desc() *prometheus.Desc {
	return f.desc
}

// Describe implements prometheus.Collector.
func (f *Family[S, M]) Describe(ch chan<- *prometheus.Desc) {
	f.vec.Describe(ch)
}

// Collect implements prometheus.Collector.
func (f *Family[S, M]) Collect(ch chan<- prometheus.Metric) {
	f.vec.Collect(ch)
}
