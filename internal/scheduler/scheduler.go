// Package scheduler runs the cron job that records schedule runs as they fall due.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// DueProcessor records every run that is due at now and reports how many it recorded.
type DueProcessor interface {
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

// Config holds the scheduler configuration
type Config struct {
	// Schedule is a cron expression with a leading seconds field (e.g., "0 * * * * *" for every minute)
	Schedule string
	// Timeout bounds a single processing pass
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "0 * * * * *", // Every minute at second 0
		Timeout:  2 * time.Minute,
		Enabled:  true,
	}
}

// Scheduler triggers due-schedule processing on a cron timetable.
type Scheduler struct {
	cron      *cron.Cron
	processor DueProcessor
	config    Config
	logger    *slog.Logger
	entryID   cron.EntryID
	now       func() time.Time

	// mu serializes passes so a slow pass and RunNow never overlap.
	mu      sync.Mutex
	lastRun atomic.Int64
	running atomic.Bool
	wg      sync.WaitGroup

	// stopMu guards stopped so no pass is added to wg once Stop waits on it.
	stopMu  sync.Mutex
	stopped bool
}

// New creates a new Scheduler instance
func New(cfg Config, processor DueProcessor, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		processor: processor,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runProcessJob()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()
	s.running.Store(true)

	s.logger.Info("Scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler. The returned context is done once
// running passes, including ones started by RunNow, have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	s.stopMu.Lock()
	s.stopped = true
	s.stopMu.Unlock()
	s.running.Store(false)
	cronDone := s.cron.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		cancel()
	}()
	return ctx
}

// RunNow triggers an immediate processing pass (useful for manual triggers).
// It does nothing once Stop has been called.
func (s *Scheduler) RunNow() {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()
	if s.stopped {
		s.logger.Warn("Scheduler stopped, ignoring manual run")
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runProcessJob()
	}()
}

// runProcessJob executes one processing pass
func (s *Scheduler) runProcessJob() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	startTime := s.now()
	s.lastRun.Store(startTime.UnixNano())
	s.logger.Debug("Starting due schedule pass",
		slog.Time("start_time", startTime),
	)

	count, err := s.processor.ProcessDue(ctx, startTime)
	elapsed := time.Since(startTime)

	if err != nil {
		s.logger.Error("Due schedule pass failed",
			slog.String("error", err.Error()),
			slog.Int("occurrences_recorded", count),
			slog.Duration("duration", elapsed),
		)
		return
	}

	if count > 0 {
		s.logger.Info("Due schedule pass completed",
			slog.Int("occurrences_recorded", count),
			slog.Duration("duration", elapsed),
		)
	}
}

// NextRunTime returns the next scheduled run time
func (s *Scheduler) NextRunTime() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	entry := s.cron.Entry(s.entryID)
	return entry.Next
}

// LastRunTime returns when the most recent pass started, whether triggered
// by cron or by RunNow.
func (s *Scheduler) LastRunTime() time.Time {
	ns := s.lastRun.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}
