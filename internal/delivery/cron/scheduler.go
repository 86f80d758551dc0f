package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	cron "github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/logger"
	"auto_sort_vimeo/internal/usecase"
)

// Scheduler manages the periodic sort job
type Scheduler struct {
	cron   *cron.Cron
	config *config.Config
	sorter *usecase.VideoSorter
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new cron scheduler
func NewScheduler(cfg *config.Config, sorter *usecase.VideoSorter) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		config: cfg,
		sorter: sorter,
		log:    logger.With("cron"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start schedules the sort job and runs it once immediately.
func (s *Scheduler) Start() error {
	expr := normalizeSchedule(s.config.CronSchedule)
	jobID, err := s.cron.AddFunc(expr, s.sortJob)
	if err != nil {
		return fmt.Errorf("failed to schedule sort job: %w", err)
	}
	s.log.Info().Int("job_id", int(jobID)).Str("schedule", expr).Msg("sort job scheduled")

	s.cron.Start()
	s.log.Info().Msg("cron scheduler started")

	go s.sortJob()

	return nil
}

// Stop stops the cron scheduler gracefully
func (s *Scheduler) Stop() {
	s.log.Info().Msg("stopping cron scheduler")
	s.cancel()
	s.cron.Stop()
}

func (s *Scheduler) sortJob() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	stats, err := s.sorter.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sort job failed")
		return
	}

	s.log.Info().
		Dur("elapsed", time.Since(start)).
		Int("scanned", stats.Scanned).
		Int("renamed", stats.Renamed).
		Int("moved", stats.Moved).
		Msg("sort job completed")
}

// normalizeSchedule ensures cron expressions are compatible with cron.WithSeconds
func normalizeSchedule(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) == 5 {
		return "0 " + expr
	}
	return expr
}
