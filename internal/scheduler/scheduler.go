package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"journalmate/internal/notify"
)

// Scheduler owns the background jobs: the reminder sweep and the daily
// suggestion refresh.
type Scheduler struct {
	db       *sqlx.DB
	cron     *gocron.Scheduler
	notifier notify.Notifier
	logger   *zap.Logger
}

func New(db *sqlx.DB, notifier notify.Notifier, logger *zap.Logger) *Scheduler {
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	return &Scheduler{db: db, cron: cron, notifier: notifier, logger: logger}
}

func (s *Scheduler) Start(sweepEvery, refreshEvery time.Duration) error {
	if _, err := s.cron.Every(sweepEvery).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sent, err := s.SweepReminders(ctx)
		if err != nil {
			s.logger.Error("reminder sweep failed", zap.Error(err))
			return
		}
		if sent > 0 {
			s.logger.Info("reminders dispatched", zap.Int("count", sent))
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.Every(refreshEvery).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.RefreshSuggestions(ctx); err != nil {
			s.logger.Error("suggestion refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.StartAsync()
	s.logger.Info("scheduler started",
		zap.Duration("sweep_interval", sweepEvery),
		zap.Duration("refresh_interval", refreshEvery),
	)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}
