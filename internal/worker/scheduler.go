// Package worker runs background jobs on a shared gocron scheduler.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// BatchJob is a scheduled batch task. Execute processes one pass and
// returns how many items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the gocron scheduler and every registered job.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger

	started   bool
	startedMu sync.Mutex
}

// NewSchedulerManager creates a manager with an unstarted scheduler.
func NewSchedulerManager(logger *zap.Logger) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &SchedulerManager{scheduler: scheduler, logger: logger}, nil
}

// RegisterOverdueJob schedules the overdue request scan at the given
// interval, running once immediately on startup.
func (m *SchedulerManager) RegisterOverdueJob(job BatchJob, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runOverdueScan(ctx, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("overdue"),
		gocron.WithName("overdue-request-scan"),
	)
	if err != nil {
		return err
	}

	m.logger.Info("registered overdue scan job", zap.Duration("interval", interval))
	return nil
}

func (m *SchedulerManager) runOverdueScan(ctx context.Context, job BatchJob) {
	start := time.Now()
	count, err := job.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Error("overdue scan failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	if count > 0 {
		m.logger.Info("overdue scan notified staff",
			zap.Int("count", count),
			zap.Duration("duration", time.Since(start)))
	} else {
		m.logger.Debug("overdue scan found nothing new",
			zap.Duration("duration", time.Since(start)))
	}
}

// Start starts the scheduler. Safe to call once.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Info("scheduler started", zap.Int("jobs", len(m.scheduler.Jobs())))
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if !m.started {
		return nil
	}
	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Error("scheduler shutdown failed", zap.Error(err))
		return err
	}
	m.logger.Info("scheduler stopped")
	return nil
}
