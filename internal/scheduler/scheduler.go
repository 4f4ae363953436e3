// Package scheduler runs the daily sync on a cron schedule inside the API
// process.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/robfig/cron/v3"
)

// DailyJob runs one daily sync. *service.SyncRunner implements it.
type DailyJob interface {
	Run(ctx context.Context) (*service.SyncReport, error)
}

// Scheduler triggers DailyJob on a 5-field cron spec.
type Scheduler struct {
	job    DailyJob
	spec   string
	cron   *cron.Cron
	logger *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler.
// Parameters:
//   - job: the daily sync to run.
//   - spec: cron expression (minute hour day month weekday).
//   - loc: timezone the spec is evaluated in; nil means UTC.
//   - log: logger; nil uses the default.
// Returns:
//   - *Scheduler: scheduler, not yet started.
//   - error: non-nil when spec does not parse.
func New(job DailyJob, spec string, loc *time.Location, log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.GetDefault()
	}
	if loc == nil {
		loc = time.UTC
	}
	log = log.WithField(logger.FieldComponent, "scheduler")

	// Use standard 5-field cron parser (minute hour day month weekday)
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	cronLog := cron.PrintfLogger(log)
	ctx, cancel := context.WithCancel(log.WithContext(context.Background()))
	s := &Scheduler{
		job:    job,
		spec:   spec,
		logger: log,
		ctx:    ctx,
		cancel: cancel,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLog)),
		),
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule daily sync: %w", err)
	}
	return s, nil
}

// Start begins firing the schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	entries := s.cron.Entries()
	if len(entries) > 0 {
		s.logger.WithFields(logger.Fields{
			"cron":     s.spec,
			"next_run": entries[0].Next,
		}).Info("Scheduler started")
	}
}

// Stop cancels a sync in progress and waits for it to record its log row.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) tick() {
	if s.ctx.Err() != nil {
		return
	}

	start := time.Now()
	report, err := s.job.Run(s.ctx)
	switch {
	case errors.Is(err, service.ErrSyncRunning):
		s.logger.Warn("Scheduled daily sync skipped: a sync is already running")
	case err != nil:
		s.logger.WithError(err).Error("Scheduled daily sync failed")
	default:
		logger.With(logger.Fields{
			logger.FieldRunID: report.RunID,
		}).WithStatus(string(report.Status)).WithDuration(start).Info(s.ctx, "Scheduled daily sync finished")
	}
}
