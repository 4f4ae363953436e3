package service

import (
	"context"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/cineradar/cinepoint-sync/internal/transform"
)

// BoxOfficeOptions selects the dates and ranking window of a box office
// scrape.
type BoxOfficeOptions struct {
	RangeOptions
	Period domain.Period
}

// ScrapeBoxOffice stores the box office ranking for every unit of the
// resolved range, stepping by the period's unit.
func (s *Scraper) ScrapeBoxOffice(ctx context.Context, opts BoxOfficeOptions) (*Summary, error) {
	ctx = s.scope(ctx, domain.SyncTypeBoxOffice)
	start := time.Now()

	period := opts.Period
	if period == "" {
		period = domain.PeriodDaily
	}
	rng := s.resolveRange(ctx, opts.RangeOptions, period.Unit(), func(ctx context.Context) (string, error) {
		return s.store.LatestBoxOfficeDate(ctx, period)
	})

	res, err := RunRange(ctx, rng, func(ctx context.Context, date time.Time) (*RunResult, error) {
		runner := &Runner[cinepoint.BoxOfficeItem, domain.BoxOfficeRecord]{
			Name:      cinepoint.KindBoxOffice,
			PageSize:  s.cfg.BoxOfficePageSize,
			BatchSize: s.cfg.WriteBatchSize,
			Fetch:     s.src.BoxOffice(date, period),
			Transform: func(_ context.Context, item cinepoint.BoxOfficeItem) (domain.BoxOfficeRecord, error) {
				return transform.BoxOffice(item, date, period, s.now())
			},
			Write: s.store.InsertBoxOfficeRecords,
		}
		return runner.Run(ctx, string(period)+" "+domain.FormatDate(date))
	})

	sum := &Summary{
		SyncType: domain.SyncTypeBoxOffice,
		Status:   rangeStatus(res),
		Records:  res.RecordsScraped,
		Payload: map[string]any{
			"period":         string(period),
			"startDate":      res.Start,
			"endDate":        res.End,
			"recordsScraped": res.RecordsScraped,
			"units":          res.Units,
			"unitErrors":     res.UnitErrors,
			"failed":         res.Failed,
		},
	}
	return s.finish(ctx, sum, start, err)
}
