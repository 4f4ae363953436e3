package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/metrics"
	"github.com/google/uuid"
)

// Phase names a record-kind pipeline inside an orchestrated run. The
// values double as backfill filter tokens and results map keys.
type Phase string

const (
	PhaseMovies    Phase = "movies"
	PhaseShowtimes Phase = "showtimes"
	PhaseBoxOffice Phase = "boxoffice"
	PhaseInsights  Phase = "insights"
)

// Phases is the fixed execution order.
var Phases = []Phase{PhaseMovies, PhaseShowtimes, PhaseBoxOffice, PhaseInsights}

// ParsePhase accepts one of the phase tokens.
func ParsePhase(s string) (Phase, bool) {
	for _, p := range Phases {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Phase outcomes recorded in the results map.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomeAborted = "aborted"
)

// PhaseRunner runs the four record-kind pipelines. *Scraper implements it.
type PhaseRunner interface {
	ScrapeMovies(ctx context.Context, opts MovieOptions) (*Summary, error)
	ScrapeShowtimes(ctx context.Context, opts RangeOptions) (*Summary, error)
	ScrapeBoxOffice(ctx context.Context, opts BoxOfficeOptions) (*Summary, error)
	ScrapeInsights(ctx context.Context) (*Summary, error)
}

// PhaseResults accumulates the outcome of every phase of one run. It is
// created per run and returned in the report.
type PhaseResults struct {
	Outcomes  map[Phase]string
	Summaries map[Phase]*Summary
	Errors    []string
}

func newPhaseResults() *PhaseResults {
	return &PhaseResults{
		Outcomes:  make(map[Phase]string, len(Phases)),
		Summaries: make(map[Phase]*Summary, len(Phases)),
	}
}

func (r *PhaseResults) record(phase Phase, outcome string, sum *Summary, err error) {
	r.Outcomes[phase] = outcome
	if sum != nil {
		r.Summaries[phase] = sum
	}
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", phase, err))
	}
}

// Failed reports whether any phase failed.
func (r *PhaseResults) Failed() bool {
	for _, o := range r.Outcomes {
		if o == OutcomeFailed {
			return true
		}
	}
	return false
}

// Map renders the results for the sync log payload: one entry per phase
// plus an "error" entry when anything failed.
func (r *PhaseResults) Map() map[string]any {
	out := make(map[string]any, len(r.Outcomes)+1)
	for phase, outcome := range r.Outcomes {
		out[string(phase)] = outcome
	}
	if len(r.Errors) > 0 {
		out["error"] = strings.Join(r.Errors, "; ")
	}
	return out
}

// Keys lists the keys of Map in execution order, "error" last.
func (r *PhaseResults) Keys() []string {
	keys := make([]string, 0, len(Phases)+1)
	for _, phase := range Phases {
		if _, ok := r.Outcomes[phase]; ok {
			keys = append(keys, string(phase))
		}
	}
	if len(r.Errors) > 0 {
		keys = append(keys, "error")
	}
	return keys
}

func (r *PhaseResults) summaryMap() map[string]any {
	out := make(map[string]any, len(r.Summaries))
	for phase, sum := range r.Summaries {
		out[string(phase)] = map[string]any{
			"status":  string(sum.Status),
			"records": sum.Records,
		}
	}
	return out
}

// SyncReport is returned by DailySync and Backfill.
type SyncReport struct {
	RunID    string
	Type     domain.SyncType
	Results  *PhaseResults
	Status   domain.SyncStatus
	Duration time.Duration
	Payload  map[string]any
}

// Failed reports whether any phase failed.
func (r *SyncReport) Failed() bool {
	return r.Results != nil && r.Results.Failed()
}

// DailyOptions configures a daily sync.
type DailyOptions struct {
	LookbackDays int
}

// BackfillOptions configures a historical backfill.
type BackfillOptions struct {
	DaysBack int
	Only     Phase // empty runs every phase
}

// Orchestrator sequences the phases of daily syncs and backfills.
type Orchestrator struct {
	phases  PhaseRunner
	syncLog *SyncLogger
	logger  *logger.Logger
}

// NewOrchestrator creates an Orchestrator.
// Parameters:
//   - phases: the per-kind pipelines.
//   - logs: where the top-level sync row goes.
//   - log: base logger; nil uses the default.
func NewOrchestrator(phases PhaseRunner, logs SyncLogWriter, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Orchestrator{phases: phases, syncLog: NewSyncLogger(logs), logger: log}
}

// DailySync runs all four phases with a short lookback.
// Returns:
//   - *SyncReport: always non-nil.
//   - error: non-nil only when the top-level sync row could not be written.
func (o *Orchestrator) DailySync(ctx context.Context, opts DailyOptions) (*SyncReport, error) {
	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = 2
	}
	rng := RangeOptions{DaysBack: lookback}

	return o.run(ctx, domain.SyncTypeDaily, "", rng, func(report *SyncReport) {
		report.Payload["lookbackDays"] = lookback
		report.Payload["durationSeconds"] = int(math.Round(report.Duration.Seconds()))
	})
}

// Backfill runs every phase, or only opts.Only, over DaysBack days.
// Filtered phases are recorded as skipped. Phase failures do not fail the
// call.
func (o *Orchestrator) Backfill(ctx context.Context, opts BackfillOptions) (*SyncReport, error) {
	days := opts.DaysBack
	if days <= 0 {
		days = 365
	}
	only := "all"
	if opts.Only != "" {
		only = string(opts.Only)
	}

	return o.run(ctx, domain.SyncTypeBackfill, opts.Only, RangeOptions{DaysBack: days}, func(report *SyncReport) {
		report.Payload["daysBack"] = days
		report.Payload["onlyType"] = only
		report.Payload["durationMinutes"] = int(math.Round(report.Duration.Minutes()))
	})
}

func (o *Orchestrator) run(ctx context.Context, syncType domain.SyncType, only Phase, rng RangeOptions, decorate func(*SyncReport)) (*SyncReport, error) {
	runID := uuid.New().String()
	ctx = o.logger.WithFields(logger.Fields{
		logger.FieldRunID:    runID,
		logger.FieldSyncType: string(syncType),
	}).WithContext(ctx)

	start := time.Now()
	results := newPhaseResults()
	logger.CtxInfo(ctx, "Starting %s sync", syncType)

	for _, phase := range Phases {
		switch {
		case ctx.Err() != nil:
			results.record(phase, OutcomeAborted, nil, nil)
		case only != "" && only != phase:
			results.record(phase, OutcomeSkipped, nil, nil)
		default:
			sum, err := o.runPhase(ctx, phase, rng)
			switch {
			case err == nil && sum != nil && sum.Status == domain.SyncStatusAborted:
				results.record(phase, OutcomeAborted, sum, nil)
			case err != nil && ctx.Err() != nil:
				results.record(phase, OutcomeAborted, sum, err)
			case err != nil:
				results.record(phase, OutcomeFailed, sum, err)
				logger.FromContext(ctx).WithField("phase", phase).WithError(err).Error("Phase failed")
			default:
				results.record(phase, OutcomeSuccess, sum, nil)
			}
		}
		metrics.PhaseOutcomes.WithLabelValues(string(syncType), string(phase), results.Outcomes[phase]).Inc()
	}

	report := &SyncReport{
		RunID:    runID,
		Type:     syncType,
		Results:  results,
		Duration: time.Since(start),
		Payload:  map[string]any{},
	}
	report.Status = overallStatus(ctx, results)
	decorate(report)
	report.Payload["results"] = results.Map()
	report.Payload["phases"] = results.summaryMap()
	report.Payload["runId"] = runID
	report.Payload["status"] = string(report.Status)

	metrics.RunDuration.WithLabelValues(string(syncType)).Observe(report.Duration.Seconds())

	if err := o.syncLog.Log(ctx, syncType, report.Payload); err != nil {
		return report, err
	}
	return report, nil
}

// runPhase runs one phase, turning a panic into a phase error.
func (o *Orchestrator) runPhase(ctx context.Context, phase Phase, rng RangeOptions) (sum *Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx = logger.WithField(ctx, "phase", string(phase))
	logger.CtxInfo(ctx, "Phase %s starting", phase)

	switch phase {
	case PhaseMovies:
		return o.phases.ScrapeMovies(ctx, MovieOptions{})
	case PhaseShowtimes:
		return o.phases.ScrapeShowtimes(ctx, rng)
	case PhaseBoxOffice:
		return o.phases.ScrapeBoxOffice(ctx, BoxOfficeOptions{RangeOptions: rng, Period: domain.PeriodDaily})
	case PhaseInsights:
		return o.phases.ScrapeInsights(ctx)
	default:
		return nil, errors.New("unknown phase")
	}
}

func overallStatus(ctx context.Context, results *PhaseResults) domain.SyncStatus {
	if ctx.Err() != nil {
		return domain.SyncStatusAborted
	}
	failed, ran := 0, 0
	for _, o := range results.Outcomes {
		switch o {
		case OutcomeFailed:
			failed++
			ran++
		case OutcomeSuccess:
			ran++
		case OutcomeAborted:
			return domain.SyncStatusAborted
		}
	}
	switch {
	case failed == 0:
		return domain.SyncStatusSuccess
	case failed == ran:
		return domain.SyncStatusError
	default:
		return domain.SyncStatusPartial
	}
}
