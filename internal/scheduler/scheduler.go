package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fodder/internal/config"
	"github.com/mamadbah2/fodder/internal/domain/models"
	"github.com/mamadbah2/fodder/internal/service/planning"
	"github.com/mamadbah2/fodder/internal/service/reporting"
	"github.com/mamadbah2/fodder/internal/service/whatsapp"
)

const dispatchTimeout = 2 * time.Minute

// Planner is the subset of the planning service used by the dispatch job.
type Planner interface {
	Today() time.Time
	PlanAllForDate(ctx context.Context, date time.Time) ([]models.HarvestPlan, error)
	ExportDailyPlan(ctx context.Context, plan models.HarvestPlan) (int, error)
}

// Scheduler runs the daily harvest dispatch on a cron schedule.
type Scheduler struct {
	cron         *cron.Cron
	planner      Planner
	messagingSvc whatsapp.MessagingService
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. messagingSvc may be nil when
// WhatsApp is not configured.
func NewScheduler(cfg config.Config, planner Planner, messagingSvc whatsapp.MessagingService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Standard 5-field cron, evaluated in the configured timezone.
	c := cron.New(cron.WithLocation(cfg.Dispatch.Location()))

	return &Scheduler{
		cron:         c,
		planner:      planner,
		messagingSvc: messagingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the dispatch job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Dispatch.CronSchedule), zap.String("timezone", s.cfg.Dispatch.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.Dispatch.CronSchedule, s.dispatchToday); err != nil {
		return fmt.Errorf("schedule daily dispatch %q: %w", s.cfg.Dispatch.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running dispatch to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) dispatchToday() {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := s.Dispatch(ctx, s.planner.Today()); err != nil {
		s.logger.Error("daily dispatch failed", zap.Error(err))
	}
}

// Dispatch plans every stored request for date, exports the assignments to
// the harvest sheet and notifies the manager. Failures for one request are
// logged and do not stop the others.
func (s *Scheduler) Dispatch(ctx context.Context, date time.Time) error {
	s.logger.Info("dispatching harvest plans", zap.String("date", date.Format(time.DateOnly)))

	plans, err := s.planner.PlanAllForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("plan requests for %s: %w", date.Format(time.DateOnly), err)
	}

	for _, plan := range plans {
		log := s.logger.With(zap.String("request_id", plan.Request.ID))

		written, err := s.planner.ExportDailyPlan(ctx, plan)
		switch {
		case errors.Is(err, planning.ErrExportDisabled):
			// sheets not configured
		case err != nil:
			log.Error("failed to export daily plan", zap.Error(err))
		default:
			log.Debug("daily plan exported", zap.Int("rows", written))
		}

		if s.messagingSvc == nil || s.cfg.WhatsApp.ManagerID == "" || len(plan.Daily.Flattened) == 0 {
			continue
		}

		req := models.OutboundMessageRequest{
			To:      s.cfg.WhatsApp.ManagerID,
			Message: reporting.FormatDailyView(plan.Request, plan.Daily),
		}
		if err := s.messagingSvc.SendOutbound(ctx, req); err != nil {
			log.Error("failed to send daily harvest digest", zap.Error(err))
			continue
		}
		log.Info("daily harvest digest sent", zap.Int("farmers", len(plan.Daily.Flattened)))
	}

	return nil
}
