package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stock_updater_project/models"
	"stock_updater_project/services"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Runner executes one update run
type Runner interface {
	RunDailyUpdate(ctx context.Context) (*models.UpdateRun, error)
}

// Scheduler wakes up on a fixed interval and starts an update for every trigger
// that came due since the previous check
type Scheduler struct {
	cron     *gocron.Scheduler
	runner   Runner
	schedule Schedule
	logger   *zap.Logger
	interval time.Duration
	loc      *time.Location
	now      func() time.Time

	mu        sync.Mutex
	lastCheck time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(runner Runner, schedule Schedule, loc *time.Location, interval time.Duration, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(loc),
		runner:   runner,
		schedule: schedule,
		logger:   logger,
		interval: interval,
		loc:      loc,
		now:      time.Now,
	}
}

// Start registers the check job and starts it in the background
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.lastCheck = s.now().In(s.loc)
	s.mu.Unlock()

	// Singleton mode: a check that is still running an update is never overlapped
	if _, err := s.cron.Every(s.interval).SingletonMode().Do(s.Check); err != nil {
		return fmt.Errorf("failed to register scheduler job: %w", err)
	}

	s.logger.Info("Scheduler started", zap.Duration("check_interval", s.interval), zap.String("timezone", s.loc.String()))
	for _, t := range s.schedule {
		s.logger.Info("Scheduled update", zap.String("trigger", t.String()), zap.Time("next_run", t.Next(s.now().In(s.loc))))
	}

	s.cron.StartAsync()
	return nil
}

// Stop stops the scheduler, waiting for a running update to finish
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Scheduler stopped")
}

// Check fires every trigger due since the previous check and returns how many fired
func (s *Scheduler) Check() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	due := s.schedule.Due(s.lastCheck, now)
	s.lastCheck = now

	for _, t := range due {
		s.runScheduled(t)
	}
	return len(due)
}

// NextRun returns the next time an update will be started
func (s *Scheduler) NextRun() time.Time {
	next, _ := s.schedule.Next(s.now().In(s.loc))
	return next
}

// runScheduled runs one update; errors and panics are logged, never propagated
func (s *Scheduler) runScheduled(t Trigger) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduled update panicked", zap.String("trigger", t.String()), zap.Any("panic", r))
		}
	}()

	s.logger.Info("Running scheduled update", zap.String("trigger", t.String()))

	run, err := s.runner.RunDailyUpdate(context.Background())
	if errors.Is(err, services.ErrRunInProgress) {
		s.logger.Warn("Skipping scheduled update, another run is in progress", zap.String("trigger", t.String()))
		return
	}
	if err != nil {
		s.logger.Error("Scheduled update failed", zap.String("trigger", t.String()), zap.Error(err))
		return
	}

	success, total := run.Counts()
	s.logger.Info("Scheduled update completed",
		zap.String("trigger", t.String()),
		zap.Int("success", success),
		zap.Int("total", total))
}
