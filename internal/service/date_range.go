package service

import (
	"context"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
)

// RangeOptions selects the dates a date-keyed scrape walks.
// Start/End win over DaysBack; with neither, only today is scraped.
type RangeOptions struct {
	Start    time.Time
	End      time.Time
	DaysBack int
	// Resume moves Start to the latest date already stored for the kind.
	Resume bool
}

// DateRange is an inclusive walk from Start to End by Unit.
type DateRange struct {
	Start time.Time
	End   time.Time
	Unit  domain.Unit
}

// Resolve turns options into a concrete range anchored on today.
func Resolve(opts RangeOptions, unit domain.Unit, today time.Time) DateRange {
	today = midnight(today)

	end := today
	if !opts.End.IsZero() {
		end = midnight(opts.End)
	}

	var start time.Time
	switch {
	case !opts.Start.IsZero():
		start = midnight(opts.Start)
	case opts.DaysBack > 0:
		start = end.AddDate(0, 0, -opts.DaysBack)
	default:
		start = end
	}

	return DateRange{Start: start, End: end, Unit: unit}
}

// Dates lists every unit date in ascending order. Each date is computed
// from Start so month and year steps do not drift.
func (r DateRange) Dates() []time.Time {
	var dates []time.Time
	for i := 0; ; i++ {
		d := r.Unit.Advance(r.Start, i)
		if d.After(r.End) {
			return dates
		}
		dates = append(dates, d)
	}
}

// RangeResult accumulates the unit runs of one range walk.
type RangeResult struct {
	Start          string
	End            string
	Units          int
	UnitErrors     int
	RecordsScraped int
	Skipped        int
	Failed         int
	Aborted        bool
}

// UnitRunner scrapes a single unit date.
type UnitRunner func(ctx context.Context, date time.Time) (*RunResult, error)

// RunRange invokes run once per unit date, in ascending order. A unit that
// reports a fetch error does not stop the walk. A returned error (a failed
// write) does, and is passed back with the totals so far.
// Parameters:
//   - ctx: cancellation stops the walk before the next unit.
//   - rng: inclusive range; Start after End yields zero units.
//   - run: per-unit scrape.
// Returns:
//   - *RangeResult: always non-nil.
//   - error: the first error returned by run.
func RunRange(ctx context.Context, rng DateRange, run UnitRunner) (*RangeResult, error) {
	result := &RangeResult{
		Start: domain.FormatDate(rng.Start),
		End:   domain.FormatDate(rng.End),
	}

	for _, date := range rng.Dates() {
		if ctx.Err() != nil {
			result.Aborted = true
			break
		}

		res, err := run(ctx, date)
		result.Units++
		if res != nil {
			result.RecordsScraped += res.Written
			result.Skipped += res.Skipped
			result.Failed += res.Failed
			switch res.Status {
			case RunError:
				result.UnitErrors++
			case RunAborted:
				result.Aborted = true
			}
		}
		if err != nil {
			return result, err
		}
		if result.Aborted {
			break
		}
	}

	logger.With(logger.Fields{
		"start":       result.Start,
		"end":         result.End,
		"units":       result.Units,
		"unit_errors": result.UnitErrors,
	}).WithCount(result.RecordsScraped).Info(ctx, "Date range finished")

	return result, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
