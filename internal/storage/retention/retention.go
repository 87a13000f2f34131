// Package retention prunes old request logs from the usage store, once at
// startup and then on a cron schedule.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs pruning daily at 03:00.
const DefaultSchedule = "0 3 * * *"

// LogDeleter is the part of the storage the pruner needs.
type LogDeleter interface {
	DeleteRequestLogs(olderThan time.Time) (int64, error)
}

// Pruner deletes request logs older than a fixed number of days.
type Pruner struct {
	store  LogDeleter
	days   int
	now    func() time.Time
	logger *slog.Logger
}

// NewPruner creates a pruner keeping the last days of logs. days <= 0 keeps
// everything.
func NewPruner(store LogDeleter, days int, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		days:   days,
		now:    time.Now,
		logger: logger.With("component", "usage.retention"),
	}
}

// Prune deletes expired logs and returns how many were removed.
func (p *Pruner) Prune() (int64, error) {
	if p.days <= 0 {
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.days)
	n, err := p.store.DeleteRequestLogs(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune request logs: %w", err)
	}
	if n > 0 {
		p.logger.Info("pruned request logs", "deleted", n, "older_than", cutoff.Format(time.DateOnly))
	}
	return n, nil
}

// Scheduler runs a Pruner on a cron schedule.
type Scheduler struct {
	pruner   *Pruner
	schedule string
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the given standard cron expression.
func NewScheduler(pruner *Pruner, schedule string) *Scheduler {
	return &Scheduler{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start validates the schedule and begins pruning. An empty schedule or a
// pruner that keeps everything leaves the scheduler idle. The scheduler stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" || s.pruner.days <= 0 {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.pruner.Prune(); err != nil {
			s.pruner.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.pruner.logger.Info("retention scheduler started", "schedule", s.schedule, "retention_days", s.pruner.days)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

// IsRunning reports whether pruning is scheduled.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled prune, or nil when idle.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if !s.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
