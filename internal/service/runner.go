package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/metrics"
	"github.com/cineradar/cinepoint-sync/internal/source"
)

// ErrSkipItem is returned by a transform to drop an item without counting
// it as a failure.
var ErrSkipItem = errors.New("skip item")

// RunStatus is the outcome of one runner invocation.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
	RunAborted RunStatus = "aborted"
)

// RunResult summarizes one pass over a paginated list.
type RunResult struct {
	Unit        string
	Pages       int // pages that returned items
	Fetched     int
	Written     int
	Skipped     int
	Failed      int
	Status      RunStatus
	ErrorDetail string
	StartTime   time.Time
	EndTime     time.Time
}

// Duration returns the wall-clock time of the run.
func (r *RunResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Runner drives one record kind through fetch, transform and write.
// Pages are processed strictly in order and every page's records are
// written before the next page is fetched.
type Runner[R, T any] struct {
	Name      string
	PageSize  int
	BatchSize int // max records per Write call; 0 writes a page at once
	Fetch     source.PageFetcher[R]
	Transform func(ctx context.Context, item R) (T, error)
	Write     func(ctx context.Context, records []T) error
}

// Run pages through the source until an empty page, until the reported
// total is reached, or until a fetch fails.
// Parameters:
//   - ctx: cancellation between pages aborts the run.
//   - unit: label of the addressed unit (a date, a status) for logs.
// Returns:
//   - *RunResult: always non-nil.
//   - error: non-nil only when a write fails. Fetch errors end the run with
//     status error and are reported in the result instead.
func (r *Runner[R, T]) Run(ctx context.Context, unit string) (*RunResult, error) {
	result := &RunResult{Unit: unit, Status: RunSuccess, StartTime: time.Now()}
	defer func() { result.EndTime = time.Now() }()

	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	log := logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldKind: r.Name,
		logger.FieldUnit: unit,
	})

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			result.Status = RunAborted
			result.ErrorDetail = err.Error()
			break
		}

		p, err := r.Fetch(ctx, page, pageSize)
		if err != nil {
			if ctx.Err() != nil {
				result.Status = RunAborted
			} else {
				result.Status = RunError
				metrics.FetchErrors.WithLabelValues(r.Name).Inc()
			}
			result.ErrorDetail = fmt.Sprintf("page %d: %v", page, err)
			log.WithField(logger.FieldPage, page).WithError(err).Error("Page fetch failed, ending unit")
			break
		}
		if p.Empty() {
			break
		}

		result.Pages++
		result.Fetched += len(p.Items)
		metrics.PagesFetched.WithLabelValues(r.Name).Inc()

		records := make([]T, 0, len(p.Items))
		for _, item := range p.Items {
			rec, err := r.Transform(ctx, item)
			switch {
			case errors.Is(err, ErrSkipItem):
				result.Skipped++
				metrics.ItemsSkipped.WithLabelValues(r.Name).Inc()
			case err != nil:
				result.Failed++
				metrics.ItemsFailed.WithLabelValues(r.Name).Inc()
				log.WithField(logger.FieldPage, page).WithError(err).Warn("Dropping item")
			default:
				records = append(records, rec)
			}
		}

		if err := r.write(ctx, records); err != nil {
			result.Status = RunError
			result.ErrorDetail = fmt.Sprintf("write page %d: %v", page, err)
			return result, fmt.Errorf("%s %s: write page %d: %w", r.Name, unit, page, err)
		}
		result.Written += len(records)
		metrics.RecordsWritten.WithLabelValues(r.Name).Add(float64(len(records)))

		log.WithFields(logger.Fields{
			logger.FieldPage:  page,
			logger.FieldCount: len(records),
			"total":           p.Total,
		}).Debug("Page stored")

		if (page+1)*pageSize >= p.Total {
			break
		}
	}

	logger.With(logger.Fields{
		logger.FieldKind: r.Name,
		logger.FieldUnit: unit,
		"written":        result.Written,
		"skipped":        result.Skipped,
		"failed":         result.Failed,
	}).WithStatus(string(result.Status)).WithDuration(result.StartTime).Info(ctx, "%s run finished", r.Name)

	return result, nil
}

// write hands records to Write in chunks of BatchSize.
func (r *Runner[R, T]) write(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return nil
	}
	size := r.BatchSize
	if size <= 0 {
		size = len(records)
	}
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		if err := r.Write(ctx, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}
