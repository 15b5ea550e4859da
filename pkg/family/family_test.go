package family

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/prometools/pkg/histogram"
	"mercator-hq/prometools/pkg/nonstandard"
)

type requestLabels struct {
	Path   string `label:"path"`
	Status uint16 `label:"status"`
}

func newCounterFamily(t *testing.T, opts Opts) *Family[requestLabels, *nonstandard.UnsuffixedCounter] {
	t.Helper()
	if opts.Name == "" {
		opts.Name = "my_metric"
		opts.Help = "help text."
	}
	f, err := New[requestLabels](opts, nonstandard.NewUnsuffixedCounterFromDesc)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

// TestFamily_Counter tests get-or-create, removal and clearing.
func TestFamily_Counter(t *testing.T) {
	f := newCounterFamily(t, Opts{})

	a := requestLabels{Path: "/foo", Status: 200}
	b := requestLabels{Path: "/bar", Status: 404}

	f.With(a).Add(50)
	f.With(b).Inc()

	if got := f.With(a).Value(); got != 50 {
		t.Errorf("Expected 50, got %v", got)
	}
	if got := f.With(b).Value(); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
	if f.Len() != 2 {
		t.Errorf("Expected 2 label sets, got %d", f.Len())
	}

	if !f.Remove(b) {
		t.Error("Expected Remove to report an existing series")
	}
	if f.Remove(b) {
		t.Error("Expected a second Remove to report nothing")
	}

	expected := `
# HELP my_metric help text.
# TYPE my_metric counter
my_metric{path="/foo",status="200"} 50
`
	if err := testutil.CollectAndCompare(f, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}

	f.Clear()
	if got := testutil.CollectAndCount(f); got != 0 {
		t.Errorf("Expected no series after Clear, got %d", got)
	}
	if f.Len() != 0 {
		t.Errorf("Expected Len 0 after Clear, got %d", f.Len())
	}
}

// TestFamily_SameMetric tests that equal label sets share one metric.
func TestFamily_SameMetric(t *testing.T) {
	f := newCounterFamily(t, Opts{})

	first := f.With(requestLabels{Path: "/", Status: 200})
	second, err := f.GetMetricWith(requestLabels{Path: "/", Status: 200})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first != second {
		t.Error("Expected the same metric for equal label sets")
	}
}

// TestFamily_CardinalityLimit tests that the limit rejects new label sets
// and that removal frees a slot.
func TestFamily_CardinalityLimit(t *testing.T) {
	f := newCounterFamily(t, Opts{MaxLabelSets: 2})

	f.With(requestLabels{Path: "/a", Status: 200}).Inc()
	f.With(requestLabels{Path: "/b", Status: 200}).Inc()

	_, err := f.GetMetricWith(requestLabels{Path: "/c", Status: 200})
	if !errors.Is(err, ErrCardinalityLimit) {
		t.Fatalf("Expected ErrCardinalityLimit, got %v", err)
	}

	if _, err := f.GetMetricWith(requestLabels{Path: "/a", Status: 200}); err != nil {
		t.Errorf("Expected existing label set to stay usable, got %v", err)
	}

	f.Remove(requestLabels{Path: "/a", Status: 200})
	if _, err := f.GetMetricWith(requestLabels{Path: "/c", Status: 200}); err != nil {
		t.Errorf("Expected a freed slot to be reusable, got %v", err)
	}
	if f.Len() != 2 {
		t.Errorf("Expected 2 label sets, got %d", f.Len())
	}
}

// TestFamily_WithPanics tests that With panics where GetMetricWith errors.
func TestFamily_WithPanics(t *testing.T) {
	f := newCounterFamily(t, Opts{MaxLabelSets: 1})
	f.With(requestLabels{Path: "/a"})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrCardinalityLimit) {
			t.Errorf("Expected ErrCardinalityLimit panic, got %v", r)
		}
	}()
	f.With(requestLabels{Path: "/b"})
}

// TestNew_Errors tests construction failures.
func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Opts
	}{
		{name: "invalid metric name", opts: Opts{Name: "my-metric", Help: "x"}},
		{name: "invalid const label", opts: Opts{Name: "m", Help: "x", ConstLabels: prometheus.Labels{"__x": "y"}}},
		{name: "const label shadows variable", opts: Opts{Name: "m", Help: "x", ConstLabels: prometheus.Labels{"path": "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New[requestLabels](tt.opts, nonstandard.NewUnsuffixedCounterFromDesc); err == nil {
				t.Error("Expected error")
			}
		})
	}

	t.Run("unsupported label set", func(t *testing.T) {
		_, err := New[map[string]string](Opts{Name: "m", Help: "x"}, nonstandard.NewUnsuffixedCounterFromDesc)
		if err == nil {
			t.Error("Expected error for a map label set")
		}
	})

	t.Run("nil constructor", func(t *testing.T) {
		if _, err := New[requestLabels, *nonstandard.UnsuffixedCounter](Opts{Name: "m", Help: "x"}, nil); err == nil {
			t.Error("Expected error for a nil constructor")
		}
	})
}

// TestFamily_ConstLabels tests that constant labels are merged in sorted
// order.
func TestFamily_ConstLabels(t *testing.T) {
	f := newCounterFamily(t, Opts{
		Namespace:   "app",
		Name:        "hits",
		Help:        "Hits.",
		ConstLabels: prometheus.Labels{"region": "eu"},
	})
	f.With(requestLabels{Path: "/", Status: 200}).Add(2)

	expected := `
# HELP app_hits Hits.
# TYPE app_hits counter
app_hits{path="/",region="eu",status="200"} 2
`
	if err := testutil.CollectAndCompare(f, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

type routeLabels struct {
	Route string `label:"route"`
}

// TestFamily_Histogram tests a family of time histograms.
func TestFamily_Histogram(t *testing.T) {
	f := MustNew[routeLabels](Opts{
		Name: "route_duration_seconds",
		Help: "Route latency.",
	}, histogram.Constructor([]float64{0.1, 1}))

	f.With(routeLabels{Route: "/users"}).Observe(50_000_000)
	f.With(routeLabels{Route: "/users"}).Observe(2_000_000_000)

	expected := `
# HELP route_duration_seconds Route latency.
# TYPE route_duration_seconds histogram
route_duration_seconds_bucket{route="/users",le="0.1"} 1
route_duration_seconds_bucket{route="/users",le="1"} 1
route_duration_seconds_bucket{route="/users",le="+Inf"} 2
route_duration_seconds_sum{route="/users"} 2.05
route_duration_seconds_count{route="/users"} 2
`
	if err := testutil.CollectAndCompare(f, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

// TestFamily_Concurrent tests concurrent creation, updates and removal.
func TestFamily_Concurrent(t *testing.T) {
	f := newCounterFamily(t, Opts{MaxLabelSets: 8})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ls := requestLabels{Path: fmt.Sprintf("/w%d", w), Status: 200}
			for i := 0; i < 500; i++ {
				f.With(ls).Inc()
				if i%100 == 99 {
					f.Remove(ls)
				}
			}
		}(w)
	}
	wg.Wait()

	if got := testutil.CollectAndCount(f); got != f.Len() {
		t.Errorf("Expected Len %d to match collected series %d", f.Len(), got)
	}
}
