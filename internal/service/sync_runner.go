package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/logger"
)

// ErrSyncRunning is returned when a daily sync is requested while one is
// already in progress in this process.
var ErrSyncRunning = errors.New("daily sync is already running")

// SyncState is a snapshot of the SyncRunner.
type SyncState struct {
	IsRunning     bool        `json:"is_running"`
	StartedAt     *time.Time  `json:"started_at,omitempty"`
	LastRunTime   *time.Time  `json:"last_run_time,omitempty"`
	LastRunStatus string      `json:"last_run_status,omitempty"`
	LastReport    *ReportView `json:"last_report,omitempty"`
}

// ReportView is the JSON shape of a finished SyncReport.
type ReportView struct {
	RunID           string         `json:"run_id"`
	Type            string         `json:"type"`
	Status          string         `json:"status"`
	DurationSeconds float64        `json:"duration_seconds"`
	Results         map[string]any `json:"results"`
}

// View renders the report for API responses.
func (r *SyncReport) View() *ReportView {
	if r == nil {
		return nil
	}
	view := &ReportView{
		RunID:           r.RunID,
		Type:            string(r.Type),
		Status:          string(r.Status),
		DurationSeconds: r.Duration.Seconds(),
	}
	if r.Results != nil {
		view.Results = r.Results.Map()
	}
	return view
}

// SyncRunner serializes daily syncs triggered by the API and the scheduler.
type SyncRunner struct {
	orch *Orchestrator
	opts DailyOptions

	mu            sync.RWMutex
	isRunning     bool
	startedAt     time.Time
	lastRunTime   time.Time
	lastRunStatus string
	lastReport    *SyncReport

	wg sync.WaitGroup
}

// NewSyncRunner creates a SyncRunner for orch.
func NewSyncRunner(orch *Orchestrator, opts DailyOptions) *SyncRunner {
	return &SyncRunner{orch: orch, opts: opts}
}

// Run performs a daily sync in the calling goroutine.
// Returns:
//   - *SyncReport: the finished report.
//   - error: ErrSyncRunning when busy, or the orchestrator's error.
func (r *SyncRunner) Run(ctx context.Context) (*SyncReport, error) {
	if !r.acquire() {
		return nil, ErrSyncRunning
	}
	return r.run(ctx)
}

// Start launches a daily sync in the background and returns immediately.
// ctx bounds the sync itself, not the caller's request.
func (r *SyncRunner) Start(ctx context.Context) error {
	if !r.acquire() {
		return ErrSyncRunning
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.run(ctx); err != nil {
			logger.CtxError(ctx, "Background daily sync failed: %v", err)
		}
	}()
	return nil
}

// Wait blocks until background syncs started with Start have finished.
func (r *SyncRunner) Wait() {
	r.wg.Wait()
}

// State returns the current snapshot.
func (r *SyncRunner) State() SyncState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := SyncState{
		IsRunning:     r.isRunning,
		LastRunStatus: r.lastRunStatus,
		LastReport:    r.lastReport.View(),
	}
	if r.isRunning {
		t := r.startedAt
		state.StartedAt = &t
	}
	if !r.lastRunTime.IsZero() {
		t := r.lastRunTime
		state.LastRunTime = &t
	}
	return state
}

func (r *SyncRunner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		return false
	}
	r.isRunning = true
	r.startedAt = time.Now()
	return true
}

func (r *SyncRunner) run(ctx context.Context) (*SyncReport, error) {
	report, err := r.orch.DailySync(ctx, r.opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.isRunning = false
	r.lastRunTime = time.Now()
	r.lastReport = report
	switch {
	case err != nil:
		r.lastRunStatus = "failed: " + err.Error()
	case report != nil:
		r.lastRunStatus = string(report.Status)
	}
	return report, err
}
