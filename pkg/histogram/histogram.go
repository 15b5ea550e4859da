// Package histogram provides a lock-free histogram for timing data.
//
// TimeHistogram records durations in integer nanoseconds. The sum, the count
// and every bucket are independent atomic counters, so Observe never blocks
// and never allocates. A Snapshot reads them one by one; under concurrent
// observation it may be off by the observations in flight, which is the same
// guarantee the standard client_golang histogram gives for its hot path.
//
// Bucket upper bounds are configured in seconds, the Prometheus base unit.
package histogram

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"
)

// TimeHistogram is a lock-free histogram of durations.
type TimeHistogram struct {
	sum   atomic.Uint64
	count atomic.Uint64

	// upperBounds ends with +Inf; buckets has one counter per bound.
	upperBounds []float64
	buckets     []atomic.Uint64

	desc       *prometheus.Desc
	labelPairs []*dto.LabelPair

	// now is time.Now outside of tests.
	now func() time.Time
}

var (
	_ prometheus.Metric    = (*TimeHistogram)(nil)
	_ prometheus.Collector = (*TimeHistogram)(nil)
)

// New creates a standalone histogram that can be registered directly.
// opts.Buckets defaults to prometheus.DefBuckets. New panics if the buckets
// are not strictly increasing.
func New(opts prometheus.HistogramOpts) *TimeHistogram {
	desc := prometheus.NewDesc(
		prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name),
		opts.Help,
		nil,
		opts.ConstLabels,
	)
	return newTimeHistogram(desc, mustUpperBounds(opts.Buckets), nil)
}

// Constructor returns a family constructor that builds histograms with the
// given buckets. It panics immediately if the buckets are invalid.
func Constructor(buckets []float64) func(desc *prometheus.Desc, labelValues []string) *TimeHistogram {
	bounds := mustUpperBounds(buckets)
	return func(desc *prometheus.Desc, labelValues []string) *TimeHistogram {
		return newTimeHistogram(desc, bounds, labelValues)
	}
}

func newTimeHistogram(desc *prometheus.Desc, upperBounds []float64, labelValues []string) *TimeHistogram {
	return &TimeHistogram{
		upperBounds: upperBounds,
		buckets:     make([]atomic.Uint64, len(upperBounds)),
		desc:        desc,
		labelPairs:  prometheus.MakeLabelPairs(desc, labelValues),
		now:         time.Now,
	}
}

// UpperBounds validates buckets and returns them with a trailing +Inf.
func UpperBounds(buckets []float64) ([]float64, error) {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	if n := len(buckets); n > 0 && math.IsInf(buckets[n-1], +1) {
		buckets = buckets[:n-1]
	}

	bounds := make([]float64, 0, len(buckets)+1)
	for i, b := range buckets {
		if math.IsNaN(b) {
			return nil, fmt.Errorf("histogram: bucket %d is NaN", i)
		}
		if i > 0 && b <= buckets[i-1] {
			return nil, fmt.Errorf("histogram: buckets must be strictly increasing, got %v after %v", b, buckets[i-1])
		}
		bounds = append(bounds, b)
	}
	return append(bounds, math.Inf(+1)), nil
}

func mustUpperBounds(buckets []float64) []float64 {
	bounds, err := UpperBounds(buckets)
	if err != nil {
		panic(err)
	}
	return bounds
}

// Observe records one duration given in nanoseconds.
func (h *TimeHistogram) Observe(nanos uint64) {
	h.sum.Add(nanos)
	h.count.Add(1)

	i := sort.SearchFloat64s(h.upperBounds, float64(nanos)/1e9)
	h.buckets[i].Add(1)
}

// ObserveDuration records d. Negative durations are recorded as zero.
func (h *TimeHistogram) ObserveDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	h.Observe(uint64(d))
}

// Snapshot returns the current state of the histogram.
func (h *TimeHistogram) Snapshot() Snapshot {
	s := Snapshot{
		sum:     seconds(h.sum.Load()),
		count:   h.count.Load(),
		buckets: make([]Bucket, len(h.upperBounds)),
	}
	for i, ub := range h.upperBounds {
		s.buckets[i] = Bucket{UpperBound: ub, Count: h.buckets[i].Load()}
	}
	return s
}

// Desc implements prometheus.Metric.
func (h *TimeHistogram) Desc() *prometheus.Desc {
	return h.desc
}

// Write implements prometheus.Metric. Buckets are cumulative and the +Inf
// bucket is left to the encoder, which derives it from the sample count.
func (h *TimeHistogram) Write(out *dto.Metric) error {
	snap := h.Snapshot()

	var cumulative uint64
	buckets := make([]*dto.Bucket, 0, len(snap.buckets)-1)
	for _, b := range snap.buckets {
		cumulative += b.Count
		if math.IsInf(b.UpperBound, +1) {
			continue
		}
		buckets = append(buckets, &dto.Bucket{
			CumulativeCount: proto.Uint64(cumulative),
			UpperBound:      proto.Float64(b.UpperBound),
		})
	}

	out.Label = h.labelPairs
	out.Histogram = &dto.Histogram{
		// Bucket total, so the implied +Inf bucket never falls below the
		// last explicit one.
		SampleCount: proto.Uint64(cumulative),
		SampleSum:   proto.Float64(snap.sum),
		Bucket:      buckets,
	}
	return nil
}

// Describe implements prometheus.Collector.
func (h *TimeHistogram) Describe(ch chan<- *prometheus.Desc) {
	ch <- h.desc
}

// Collect implements prometheus.Collector.
func (h *TimeHistogram) Collect(ch chan<- prometheus.Metric) {
	ch <- h
}

func seconds(nanos uint64) float64 {
	return float64(nanos) / 1e9
}
