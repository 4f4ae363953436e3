package service

import (
	"context"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/cineradar/cinepoint-sync/internal/transform"
)

// MovieOptions filters the directory scrape.
type MovieOptions struct {
	Status string // now_playing, upcoming, ended; empty scrapes all
}

// ScrapeMovies refreshes the movie directory.
// Returns:
//   - *Summary: counts and the logged payload.
//   - error: non-nil when a write or the sync log write failed.
func (s *Scraper) ScrapeMovies(ctx context.Context, opts MovieOptions) (*Summary, error) {
	ctx = s.scope(ctx, domain.SyncTypeMovies)
	start := time.Now()

	runner := &Runner[cinepoint.MovieItem, domain.Movie]{
		Name:      cinepoint.KindMovies,
		PageSize:  s.cfg.MoviePageSize,
		BatchSize: s.cfg.WriteBatchSize,
		Fetch:     s.src.Movies(opts.Status),
		Transform: func(_ context.Context, item cinepoint.MovieItem) (domain.Movie, error) {
			return transform.Movie(item, s.now())
		},
		Write: s.store.UpsertMovies,
	}

	unit := opts.Status
	if unit == "" {
		unit = "all"
	}
	res, err := runner.Run(ctx, unit)

	sum := &Summary{
		SyncType: domain.SyncTypeMovies,
		Status:   runStatus(res),
		Records:  res.Written,
		Payload: map[string]any{
			"moviesScraped": res.Written,
			"failed":        res.Failed,
			"pages":         res.Pages,
		},
	}
	if opts.Status != "" {
		sum.Payload["movieStatus"] = opts.Status
	}
	if res.ErrorDetail != "" {
		sum.Payload["errorDetail"] = res.ErrorDetail
	}
	return s.finish(ctx, sum, start, err)
}
