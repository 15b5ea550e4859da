package histogram

import "time"

// Timer measures one event for a TimeHistogram. It records at most once.
// A Timer is not safe for concurrent use.
//
// To record when a function returns:
//
//	defer h.StartTimer().StopAndRecord()
type Timer struct {
	h       *TimeHistogram
	start   time.Time
	elapsed time.Duration
	paused  bool
	stopped bool
}

// StartTimer starts a running timer.
func (h *TimeHistogram) StartTimer() *Timer {
	return &Timer{h: h, start: h.now()}
}

// Pause stops the clock until Resume. Pausing a paused or stopped timer does
// nothing.
func (t *Timer) Pause() {
	if t.paused || t.stopped {
		return
	}
	t.elapsed += t.since()
	t.paused = true
}

// Resume restarts the clock after Pause. Resuming a running or stopped timer
// does nothing.
func (t *Timer) Resume() {
	if !t.paused || t.stopped {
		return
	}
	t.start = t.h.now()
	t.paused = false
}

// Elapsed returns the running time so far, excluding pauses.
func (t *Timer) Elapsed() time.Duration {
	if t.paused || t.stopped {
		return t.elapsed
	}
	return t.elapsed + t.since()
}

// StopAndRecord stops the timer, records the elapsed time and returns it.
// Later calls return the same duration without recording again.
func (t *Timer) StopAndRecord() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	d := t.stop()
	t.h.ObserveDuration(d)
	return d
}

// StopAndDiscard stops the timer without recording and returns the elapsed
// time.
func (t *Timer) StopAndDiscard() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	return t.stop()
}

func (t *Timer) stop() time.Duration {
	t.elapsed = t.Elapsed()
	t.stopped = true
	return t.elapsed
}

func (t *Timer) since() time.Duration {
	d := t.h.now().Sub(t.start)
	if d < 0 {
		return 0
	}
	return d
}
