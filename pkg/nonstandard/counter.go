// Package nonstandard holds metric types that bend the Prometheus naming
// conventions on purpose.
package nonstandard

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"
)

// UnsuffixedCounter is a monotonic counter whose samples keep the metric name
// as given instead of requiring a "_total" suffix. The text format types it
// as a counter. OpenMetrics demands the suffix for counters, so expfmt types
// the family as unknown there; the sample name is unchanged in both.
//
// Use it only where an existing dashboard or alert depends on the bare name.
type UnsuffixedCounter struct {
	// valBits holds the float part, valInt the exact integer part. Both go
	// first for 64-bit alignment on 32-bit platforms.
	valBits uint64
	valInt  uint64

	desc       *prometheus.Desc
	labelPairs []*dto.LabelPair
}

var (
	_ prometheus.Metric    = (*UnsuffixedCounter)(nil)
	_ prometheus.Collector = (*UnsuffixedCounter)(nil)
)

// NewUnsuffixedCounter creates a standalone counter. It is its own
// Collector and can be registered directly.
func NewUnsuffixedCounter(opts prometheus.CounterOpts) *UnsuffixedCounter {
	desc := prometheus.NewDesc(
		prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name),
		opts.Help,
		nil,
		opts.ConstLabels,
	)
	return NewUnsuffixedCounterFromDesc(desc, nil)
}

// NewUnsuffixedCounterFromDesc creates a counter for the given descriptor and
// variable label values. Its signature matches family.Constructor.
func NewUnsuffixedCounterFromDesc(desc *prometheus.Desc, labelValues []string) *UnsuffixedCounter {
	return &UnsuffixedCounter{
		desc:       desc,
		labelPairs: prometheus.MakeLabelPairs(desc, labelValues),
	}
}

// Inc increments the counter by 1.
func (c *UnsuffixedCounter) Inc() {
	atomic.AddUint64(&c.valInt, 1)
}

// Add adds v to the counter. It panics if v is negative.
func (c *UnsuffixedCounter) Add(v float64) {
	if v < 0 {
		panic(errors.New("counter cannot decrease in value"))
	}

	ival := uint64(v)
	if float64(ival) == v {
		atomic.AddUint64(&c.valInt, ival)
		return
	}

	for {
		oldBits := atomic.LoadUint64(&c.valBits)
		newBits := math.Float64bits(math.Float64frombits(oldBits) + v)
		if atomic.CompareAndSwapUint64(&c.valBits, oldBits, newBits) {
			return
		}
	}
}

// Value returns the current count.
func (c *UnsuffixedCounter) Value() float64 {
	fval := math.Float64frombits(atomic.LoadUint64(&c.valBits))
	ival := atomic.LoadUint64(&c.valInt)
	return fval + float64(ival)
}

// Desc implements prometheus.Metric.
func (c *UnsuffixedCounter) Desc() *prometheus.Desc {
	return c.desc
}

// Write implements prometheus.Metric.
func (c *UnsuffixedCounter) Write(out *dto.Metric) error {
	out.Label = c.labelPairs
	out.Counter = &dto.Counter{Value: proto.Float64(c.Value())}
	return nil
}

// Describe implements prometheus.Collector.
func (c *UnsuffixedCounter) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *UnsuffixedCounter) Collect(ch chan<- prometheus.Metric) {
	ch <- c
}
