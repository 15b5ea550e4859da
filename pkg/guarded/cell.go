// Package guarded provides numeric cells behind a read-write lock that can
// be serialized without the caller touching the lock.
//
// Every serializing method follows the same sequence: take the read lock,
// copy the value, release the lock, then format and write. The lock is never
// held while bytes are being produced or written, so a slow writer never
// blocks goroutines updating the cell.
//
// sync.RWMutex has no poisoned state. A panic raised by the function passed to
// Update unwinds through a deferred unlock and reaches the caller unchanged;
// the cell keeps its previous value and stays usable.
package guarded

import (
	"io"
	"sync"

	"mercator-hq/prometools/pkg/numfmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Cell is a numeric value shared between goroutines. The zero Cell holds
// the zero value of T and is ready to use. A Cell must not be copied after
// first use.
type Cell[T numfmt.Number] struct {
	mu sync.RWMutex
	v  T
}

// New returns a cell holding v.
func New[T numfmt.Number](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Load returns the current value.
func (c *Cell[T]) Load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// Store replaces the current value.
func (c *Cell[T]) Store(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// Add adds delta to the value and returns the result.
func (c *Cell[T]) Add(delta T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v += delta
	return c.v
}

// Update replaces the value with fn(current) and returns the new value. fn
// runs with the write lock held and must not call back into the cell.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = fn(c.v)
	return c.v
}

// Value returns a snapshot of the cell as a sample value.
func (c *Cell[T]) Value() numfmt.Value {
	return numfmt.Of(c.Load())
}

// Float64 returns the current value converted to float64. It matches the
// signature prometheus.NewGaugeFunc and NewCounterFunc expect.
func (c *Cell[T]) Float64() float64 {
	return float64(c.Load())
}

// String returns the text form of the current value.
func (c *Cell[T]) String() string {
	return c.Value().String()
}

// AppendText implements encoding.TextAppender.
func (c *Cell[T]) AppendText(b []byte) ([]byte, error) {
	return numfmt.Append(b, c.Value()), nil
}

// MarshalText implements encoding.TextMarshaler.
func (c *Cell[T]) MarshalText() ([]byte, error) {
	return c.Value().MarshalText()
}

// MarshalJSON implements json.Marshaler.
func (c *Cell[T]) MarshalJSON() ([]byte, error) {
	return c.Value().MarshalJSON()
}

// MarshalYAML implements yaml.Marshaler.
func (c *Cell[T]) MarshalYAML() (interface{}, error) {
	return c.Value().MarshalYAML()
}

// WriteTo writes the text form of the current value to w. Errors from w are
// returned as they are.
func (c *Cell[T]) WriteTo(w io.Writer) (int64, error) {
	v := c.Value()

	var buf numfmt.Buffer
	n, err := w.Write(buf.Format(v))
	return int64(n), err
}

// NewGaugeFunc exposes c as a gauge. Each scrape reads one snapshot of the
// cell.
func NewGaugeFunc[T numfmt.Number](opts prometheus.GaugeOpts, c *Cell[T]) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(opts, c.Float64)
}
