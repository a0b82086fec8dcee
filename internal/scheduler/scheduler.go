package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/config"
	"github.com/mamadbah2/coilstock/internal/domain/models"
	"github.com/mamadbah2/coilstock/internal/repository"
	"github.com/mamadbah2/coilstock/internal/repository/sheets"
	"github.com/mamadbah2/coilstock/internal/service/stats"
	"github.com/mamadbah2/coilstock/pkg/clients/webhook"
)

// Scheduler runs the daily statistics snapshot job: compute the report for
// the current day, persist it, and push it to the optional export targets.
// Export failures are logged and never abort the capture.
type Scheduler struct {
	cron      *cron.Cron
	statsSvc  *stats.Service
	snapshots repository.SnapshotRepository
	notifier  webhook.Notifier
	exporter  sheets.Exporter
	cfg       config.SnapshotConfig
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. notifier and exporter may
// be nil when the corresponding targets are not configured.
func NewScheduler(cfg config.SnapshotConfig, loc *time.Location, statsSvc *stats.Service, snapshots repository.SnapshotRepository, notifier webhook.Notifier, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		statsSvc:  statsSvc,
		snapshots: snapshots,
		notifier:  notifier,
		exporter:  exporter,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.captureDailySnapshot); err != nil {
		s.logger.Error("failed to schedule daily snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) captureDailySnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := s.now()
	today := models.DateOf(now.In(s.loc))
	s.logger.Info("capturing daily snapshot", zap.String("date", today.String()))

	report, err := s.statsSvc.Report(ctx, today, today)
	if err != nil {
		s.logger.Error("failed to compute daily snapshot", zap.Error(err))
		return
	}

	snapshot := models.DailySnapshot{
		Date:      today,
		Report:    report,
		CreatedAt: now.UTC(),
	}

	if err := s.snapshots.SaveDailySnapshot(ctx, snapshot); err != nil {
		s.logger.Error("failed to persist daily snapshot", zap.Error(err))
		return
	}

	if s.notifier != nil {
		if err := s.notifier.SendSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to push snapshot webhook", zap.Error(err))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.ExportSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to export snapshot to sheet", zap.Error(err))
		}
	}

	s.logger.Info("daily snapshot captured", zap.String("date", today.String()))
}
