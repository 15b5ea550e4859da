package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(&FileWatcherConfig{Path: "prometools.yaml"}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v, want nil", err)
	}
	defer func() { _ = watcher.Stop() }()

	if watcher.config.DebounceInterval != DefaultReportWatchDebounce {
		t.Errorf("DebounceInterval = %v, want %v", watcher.config.DebounceInterval, DefaultReportWatchDebounce)
	}
	if watcher.debounce == nil {
		t.Error("watcher.debounce is nil")
	}
}

func TestNewFileWatcher_NoPath(t *testing.T) {
	if _, err := NewFileWatcher(&FileWatcherConfig{}, nil); err == nil {
		t.Error("NewFileWatcher() error = nil, want error")
	}
	if _, err := NewFileWatcher(nil, nil); err == nil {
		t.Error("NewFileWatcher(nil) error = nil, want error")
	}
}

func TestFileWatcher_Watch(t *testing.T) {
	configPath := writeConfig(t, "metrics:\n  namespace: before\n")

	watcher, err := NewFileWatcher(&FileWatcherConfig{
		Path:             configPath,
		DebounceInterval: 50 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = watcher.Stop() }()

	var reloadCount atomic.Int32
	reloadCalled := make(chan struct{}, 10)
	onReload := func() error {
		reloadCount.Add(1)
		select {
		case reloadCalled <- struct{}{}:
		default:
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = watcher.Watch(ctx, onReload)
	}()

	// Wait for watcher to start
	time.Sleep(100 * time.Millisecond)

	// A sibling file must not trigger a reload
	if err := os.WriteFile(filepath.Join(filepath.Dir(configPath), "other.yaml"), []byte("x: 1"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if n := reloadCount.Load(); n != 0 {
		t.Fatalf("reload called %d times for unrelated file", n)
	}

	if err := os.WriteFile(configPath, []byte("metrics:\n  namespace: after\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloadCalled:
	case <-time.After(time.Second):
		t.Fatal("Reload not called after file modification")
	}
}

func TestFileWatcher_WatchMissingFile(t *testing.T) {
	watcher, err := NewFileWatcher(&FileWatcherConfig{
		Path: filepath.Join(t.TempDir(), "missing.yaml"),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = watcher.Stop() }()

	if err := watcher.Watch(context.Background(), func() error { return nil }); err == nil {
		t.Error("Watch() error = nil, want error for missing file")
	}
}

func TestFileWatcher_StopUnblocksWatch(t *testing.T) {
	configPath := writeConfig(t, "")

	watcher, err := NewFileWatcher(&FileWatcherConfig{Path: configPath}, nil)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(context.Background(), func() error { return nil })
	}()
	time.Sleep(50 * time.Millisecond)

	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := watcher.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after Stop")
	}
}

func TestFileWatcher_ShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prometools.yaml")
	fw := &FileWatcher{}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to file", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create file", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"sibling file", fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
		{"hidden swap file", fsnotify.Event{Name: filepath.Join(dir, ".prometools.yaml.swp"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.shouldProcessEvent(path, tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("callback called %d times, want 1", n)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(100 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Errorf("callback called %d times after Stop, want 0", n)
	}
}
