// Package report runs a render job once, on a cron schedule, or on demand.
//
// Every run gets a fresh run ID and a trigger name in its context (see
// package logging), and runs never overlap: a watch-triggered run waits for
// a scheduled one to finish.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"mercator-hq/prometools/pkg/telemetry/logging"
)

// Triggers recorded in a run's context.
const (
	TriggerOnce     = "once"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
)

// Job produces one report.
type Job func(ctx context.Context) error

// Scheduler runs a Job at scheduled intervals using cron syntax.
type Scheduler struct {
	schedule string
	job      Job
	cron     *cron.Cron
	mu       sync.Mutex
	runMu    sync.Mutex
	logger   *slog.Logger
	running  bool

	runs     atomic.Uint64
	failures atomic.Uint64
}

// NewScheduler creates a new report scheduler. schedule is a standard
// five-field cron expression or a descriptor such as "@every 30s"; it may be
// empty when the scheduler is only used through Run.
func NewScheduler(schedule string, job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   logger.With("component", "report.scheduler"),
	}
}

// Start begins running the job on the schedule. It returns immediately;
// the scheduler stops when ctx is cancelled or Stop is called.
//
// Common cron expressions:
//   - "*/5 * * * *"  - Every 5 minutes
//   - "0 * * * *"    - Hourly
//   - "@every 30s"   - Every 30 seconds
//
// If the schedule is empty, the scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("report scheduler already running")
	}

	if s.schedule == "" {
		s.logger.Info("Report schedule not configured, skipping scheduler")
		return nil
	}

	// Validate cron expression
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		_ = s.Run(ctx, TriggerSchedule)
	}); err != nil {
		return fmt.Errorf("failed to schedule report: %w", err)
	}

	c.Start()
	s.cron = c
	s.running = true

	s.logger.Info("Report scheduler started", "schedule", s.schedule)

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Run executes the job once with a new run ID, waiting for any run already
// in progress. Errors are logged and returned.
func (s *Scheduler) Run(ctx context.Context, trigger string) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithTrigger(ctx, trigger)
	log := s.logger.With("run_id", logging.GetRunID(ctx), "trigger", trigger)

	start := time.Now()
	err := s.job(ctx)
	s.runs.Add(1)

	if err != nil {
		s.failures.Add(1)
		log.Error("Report run failed", "error", err)
		return err
	}

	log.Debug("Report run completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("Report scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled run time, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}

// Runs returns the number of completed runs, failed ones included.
func (s *Scheduler) Runs() uint64 {
	return s.runs.Load()
}

// Failures returns the number of failed runs.
func (s *Scheduler) Failures() uint64 {
	return s.failures.Load()
}
