// Package scheduler runs the periodic reminder tick using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	sharedConfig "github.com/recurra-io/recurra/internal/shared/config"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// TickJob is one promotion pass. Execute returns the number of reminders
// promoted at asOf.
type TickJob interface {
	Execute(ctx context.Context, asOf time.Time) (int, error)
}

// Manager owns the gocron scheduler. The reminder tick runs in singleton
// mode: a pass that outlives the interval delays the next pass instead of
// overlapping it.
type Manager struct {
	scheduler    gocron.Scheduler
	logger       logger.Interface
	tickInterval time.Duration

	started   bool
	startedMu sync.RWMutex
}

func NewManager(cfg sharedConfig.SchedulerConfig, log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.TickIntervalSeconds) * time.Second
	if interval < time.Second {
		interval = time.Minute
	}

	return &Manager{
		scheduler:    scheduler,
		logger:       log.Named("scheduler"),
		tickInterval: interval,
	}, nil
}

// RegisterReminderTick registers the promotion pass. Each run gets a deadline
// slightly under the tick interval so a stuck pass cannot pile up behind the
// next one.
func (m *Manager) RegisterReminderTick(job TickJob) error {
	deadline := m.tickInterval - 5*time.Second
	if deadline < 5*time.Second {
		deadline = m.tickInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(m.tickInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), deadline)
			defer cancel()
			m.runTick(ctx, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("reminder-tick"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reminder tick", "interval", m.tickInterval)
	return nil
}

func (m *Manager) runTick(ctx context.Context, job TickJob) {
	asOf := time.Now().UTC()
	start := time.Now()

	count, err := job.Execute(ctx, asOf)
	if err != nil {
		m.logger.Errorw("reminder tick failed",
			"error", err,
			"promoted", count,
			"duration", time.Since(start),
		)
		return
	}
	if count > 0 {
		m.logger.Infow("reminder tick completed",
			"promoted", count,
			"duration", time.Since(start),
		)
	} else {
		m.logger.Debugw("reminder tick completed, nothing due",
			"duration", time.Since(start),
		)
	}
}

// Start launches the scheduler.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down and waits for a running tick to finish.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}

// IsStarted reports whether the scheduler is running.
func (m *Manager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}
