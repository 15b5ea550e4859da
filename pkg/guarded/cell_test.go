package guarded

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gopkg.in/yaml.v3"
)

// TestCell_Operations tests the basic read and write operations.
func TestCell_Operations(t *testing.T) {
	c := New[int64](40)

	if got := c.Add(2); got != 42 {
		t.Errorf("Expected 42 after Add, got %d", got)
	}
	if got := c.Load(); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	c.Store(-5)
	if got := c.Update(func(v int64) int64 { return v * 2 }); got != -10 {
		t.Errorf("Expected -10 after Update, got %d", got)
	}
	if got := c.String(); got != "-10" {
		t.Errorf("Expected \"-10\", got %q", got)
	}
	if got := c.Float64(); got != -10 {
		t.Errorf("Expected -10.0, got %v", got)
	}
}

// TestCell_ZeroValue tests that the zero Cell is usable.
func TestCell_ZeroValue(t *testing.T) {
	var c Cell[float64]
	if got := c.String(); got != "0" {
		t.Errorf("Expected \"0\", got %q", got)
	}
	c.Store(0.1)
	if got := c.String(); got != "0.1" {
		t.Errorf("Expected \"0.1\", got %q", got)
	}
}

// TestCell_Serialization tests every serialization adapter.
func TestCell_Serialization(t *testing.T) {
	c := New(0.1)

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(map[string]*Cell[float64]{"ratio": c})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `{"ratio":0.1}` {
			t.Errorf("Expected {\"ratio\":0.1}, got %s", data)
		}
	})

	t.Run("json non-finite", func(t *testing.T) {
		nan := New(math.NaN())
		data, err := json.Marshal(nan)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `"NaN"` {
			t.Errorf("Expected \"NaN\", got %s", data)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := yaml.Marshal(map[string]*Cell[float64]{"ratio": c})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != "ratio: 0.1\n" {
			t.Errorf("Expected \"ratio: 0.1\\n\", got %q", data)
		}
	})

	t.Run("text", func(t *testing.T) {
		out, err := c.AppendText([]byte("ratio="))
		if err != nil {
			t.Fatalf("AppendText failed: %v", err)
		}
		if string(out) != "ratio=0.1" {
			t.Errorf("Expected ratio=0.1, got %s", out)
		}
	})

	t.Run("writer", func(t *testing.T) {
		var sb strings.Builder
		n, err := New[uint32](42).WriteTo(&sb)
		if err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
		if n != 2 || sb.String() != "42" {
			t.Errorf("Expected 2 bytes \"42\", got %d bytes %q", n, sb.String())
		}
	})
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

// TestCell_WriteToPropagatesErrors tests that writer errors reach the caller
// unchanged.
func TestCell_WriteToPropagatesErrors(t *testing.T) {
	errDisk := errors.New("disk full")
	_, err := New(1).WriteTo(failingWriter{err: errDisk})
	if !errors.Is(err, errDisk) {
		t.Errorf("Expected %v, got %v", errDisk, err)
	}
}

type storingWriter struct {
	cell *Cell[int]
	sb   strings.Builder
}

func (w *storingWriter) Write(p []byte) (int, error) {
	// Needs the write lock; deadlocks if WriteTo still holds the read lock.
	w.cell.Store(99)
	return w.sb.Write(p)
}

// TestCell_LockReleasedBeforeWrite tests that the lock is not held while the
// writer runs.
func TestCell_LockReleasedBeforeWrite(t *testing.T) {
	c := New(7)
	w := &storingWriter{cell: c}

	done := make(chan error, 1)
	go func() {
		_, err := c.WriteTo(w)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WriteTo held the lock while writing")
	}

	if w.sb.String() != "7" {
		t.Errorf("Expected the snapshot \"7\", got %q", w.sb.String())
	}
	if c.Load() != 99 {
		t.Errorf("Expected the writer's store to land, got %d", c.Load())
	}
}

// TestCell_PanicInUpdate tests that a panicking update releases the lock and
// leaves the value untouched.
func TestCell_PanicInUpdate(t *testing.T) {
	c := New(10)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected the panic to reach the caller")
			}
		}()
		c.Update(func(int) int { panic("boom") })
	}()

	if got := c.Load(); got != 10 {
		t.Errorf("Expected 10, got %d", got)
	}
	c.Store(11)
	if got := c.Load(); got != 11 {
		t.Errorf("Expected 11, got %d", got)
	}
}

// TestCell_NoTornReads tests that concurrent readers only ever observe values
// some writer stored. Every stored value has identical high and low halves.
func TestCell_NoTornReads(t *testing.T) {
	const (
		writers = 4
		readers = 4
		rounds  = 2000
		pattern = uint64(0x0000000100000001)
	)

	c := New[uint64](0)
	var wg sync.WaitGroup
	errs := make(chan uint64, readers)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for i := uint64(0); i < rounds; i++ {
				c.Store(((seed*rounds + i) & 0xffffffff) * pattern)
			}
		}(uint64(w))
	}

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				v := c.Load()
				if v>>32 != v&0xffffffff {
					errs <- v
					return
				}
				var buf [32]byte
				text, _ := c.AppendText(buf[:0])
				if len(text) == 0 {
					errs <- v
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for v := range errs {
		t.Errorf("Observed torn value %#x", v)
	}
}

// TestNewGaugeFunc tests exposing a cell to a registry.
func TestNewGaugeFunc(t *testing.T) {
	c := New[int32](3)
	gauge := NewGaugeFunc(prometheus.GaugeOpts{Name: "test_in_flight", Help: "In-flight work"}, c)

	registry := prometheus.NewRegistry()
	registry.MustRegister(gauge)

	if got := testutil.ToFloat64(gauge); got != 3 {
		t.Errorf("Expected 3, got %v", got)
	}
	c.Add(2)
	if got := testutil.ToFloat64(gauge); got != 5 {
		t.Errorf("Expected 5, got %v", got)
	}
}
