// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"karnex/internal/shared/biztime"
	"karnex/internal/shared/logger"
)

const (
	JobRateLimitSweep = "ratelimit-sweep"
	JobUsageRetention = "usage-retention"
)

// WindowSweeper drops expired rate-limit windows.
type WindowSweeper interface {
	Sweep(now time.Time) int
}

// UsageCleaner deletes usage rows that fell out of the retention window.
type UsageCleaner interface {
	CleanupExpiredUsage(ctx context.Context) (int64, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Rate Limit Jobs (configurable interval)
// ========================================

// RegisterRateLimitSweepJob evicts expired windows from an in-process
// store, so idle clients do not accumulate below the high-water mark.
func (m *SchedulerManager) RegisterRateLimitSweepJob(sweeper WindowSweeper, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			m.sweepWindows(sweeper)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("ratelimit", "sweep"),
		gocron.WithName(JobRateLimitSweep),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered rate limit sweep job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) sweepWindows(sweeper WindowSweeper) {
	removed := sweeper.Sweep(time.Now())
	if removed > 0 {
		m.logger.Debugw("expired rate limit windows swept", "count", removed)
	}
}

// ========================================
// Usage Jobs (05:00 business timezone daily)
// ========================================

// RegisterUsageRetentionJob prunes old billing periods once a day.
func (m *SchedulerManager) RegisterUsageRetentionJob(cleaner UsageCleaner) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 5 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.cleanupUsage(ctx, cleaner)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("usage", "retention"),
		gocron.WithName(JobUsageRetention),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered usage retention job", "schedule", "05:00")
	return nil
}

func (m *SchedulerManager) cleanupUsage(ctx context.Context, cleaner UsageCleaner) {
	startTime := biztime.NowUTC()

	deleted, err := cleaner.CleanupExpiredUsage(ctx)
	if err != nil {
		m.logger.Errorw("failed to clean up usage records",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("usage retention completed",
		"deleted", deleted,
		"duration", time.Since(startTime),
	)
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
