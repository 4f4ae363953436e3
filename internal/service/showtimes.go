package service

import (
	"context"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/cineradar/cinepoint-sync/internal/transform"
)

// ScrapeShowtimes stores the daily showtime ranking of every date in the
// resolved range.
func (s *Scraper) ScrapeShowtimes(ctx context.Context, opts RangeOptions) (*Summary, error) {
	ctx = s.scope(ctx, domain.SyncTypeShowtimes)
	start := time.Now()
	rng := s.resolveRange(ctx, opts, domain.UnitDay, s.store.LatestShowtimeDate)

	res, err := RunRange(ctx, rng, func(ctx context.Context, date time.Time) (*RunResult, error) {
		runner := &Runner[cinepoint.ShowtimeItem, domain.ShowtimeRanking]{
			Name:      cinepoint.KindShowtimes,
			PageSize:  s.cfg.ShowtimePageSize,
			BatchSize: s.cfg.WriteBatchSize,
			Fetch:     s.src.Showtimes(date),
			Transform: func(_ context.Context, item cinepoint.ShowtimeItem) (domain.ShowtimeRanking, error) {
				return transform.Showtime(item, date, s.now())
			},
			Write: s.store.InsertShowtimeRankings,
		}
		return runner.Run(ctx, domain.FormatDate(date))
	})

	sum := &Summary{
		SyncType: domain.SyncTypeShowtimes,
		Status:   rangeStatus(res),
		Records:  res.RecordsScraped,
		Payload: map[string]any{
			"startDate":       res.Start,
			"endDate":         res.End,
			"rankingsScraped": res.RecordsScraped,
			"units":           res.Units,
			"unitErrors":      res.UnitErrors,
			"failed":          res.Failed,
		},
	}
	return s.finish(ctx, sum, start, err)
}
