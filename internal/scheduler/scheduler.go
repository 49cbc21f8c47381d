package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/attune-labs/attune-agent/internal/app/checkin"
	"github.com/attune-labs/attune-agent/internal/app/reminder"
	"github.com/attune-labs/attune-agent/internal/app/report"
	"github.com/attune-labs/attune-agent/internal/config"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// Scheduler runs the check-in and follow-up jobs inside the API process.
// Production deployments use the platform's cron hitting the HTTP
// triggers instead; this exists for local development and single-dyno
// setups where an external cron is overkill.
type Scheduler struct {
	cron      *cron.Cron
	checkins  *checkin.Service
	reminders *reminder.Service
	reports   *report.Service
}

func New(cfg *config.Config, checkins *checkin.Service, reminders *reminder.Service, reports *report.Service) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		checkins:  checkins,
		reminders: reminders,
		reports:   reports,
	}

	log := observability.Component("scheduler")

	if _, err := s.cron.AddFunc(cfg.DailyCheckinCron, func() {
		ctx := context.Background()
		if sent, err := s.checkins.SendDaily(ctx); err != nil {
			log.Error("daily check-in job failed", "error", err)
		} else {
			log.Info("daily check-in job done", "sent", sent)
		}
	}); err != nil {
		return nil, fmt.Errorf("scheduler: daily check-in spec %q: %w", cfg.DailyCheckinCron, err)
	}

	if _, err := s.cron.AddFunc(cfg.WeeklyCheckinCron, func() {
		ctx := context.Background()
		if sent, err := s.checkins.SendWeekly(ctx); err != nil {
			log.Error("weekly check-in job failed", "error", err)
		} else {
			log.Info("weekly check-in job done", "sent", sent)
		}
	}); err != nil {
		return nil, fmt.Errorf("scheduler: weekly check-in spec %q: %w", cfg.WeeklyCheckinCron, err)
	}

	if _, err := s.cron.AddFunc(cfg.WeeklyReportCron, func() {
		ctx := context.Background()
		if sent, err := s.reports.SendWeekly(ctx); err != nil {
			log.Error("weekly report job failed", "error", err)
		} else {
			log.Info("weekly report job done", "sent", sent)
		}
	}); err != nil {
		return nil, fmt.Errorf("scheduler: weekly report spec %q: %w", cfg.WeeklyReportCron, err)
	}

	if _, err := s.cron.AddFunc(cfg.FollowupSweepCron, func() {
		ctx := context.Background()
		counts, err := s.reminders.Sweep(ctx)
		if err != nil {
			log.Error("follow-up sweep job failed", "error", err)
			return
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		log.Info("follow-up sweep job done", "sent", total)
	}); err != nil {
		return nil, fmt.Errorf("scheduler: follow-up sweep spec %q: %w", cfg.FollowupSweepCron, err)
	}

	return s, nil
}

// Start begins running jobs until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	observability.Component("scheduler").Info("inline scheduler started")
	s.cron.Start()

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		observability.Component("scheduler").Info("inline scheduler stopped")
	}()
}
