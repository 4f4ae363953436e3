package service

import (
	"context"
	"errors"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/source"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
)

// Store is the persistence contract of the scrapers.
type Store interface {
	SyncLogWriter
	UpsertMovies(ctx context.Context, movies []domain.Movie) error
	InsertBoxOfficeRecords(ctx context.Context, records []domain.BoxOfficeRecord) error
	InsertShowtimeRankings(ctx context.Context, rankings []domain.ShowtimeRanking) error
	GetInsightIDs(ctx context.Context) ([]string, error)
	UpsertInsight(ctx context.Context, article *domain.InsightArticle) error
	LatestShowtimeDate(ctx context.Context) (string, error)
	LatestBoxOfficeDate(ctx context.Context, period domain.Period) (string, error)
}

// Source is the Cinepoint API as seen by the scrapers.
type Source interface {
	Movies(status string) source.PageFetcher[cinepoint.MovieItem]
	Showtimes(date time.Time) source.PageFetcher[cinepoint.ShowtimeItem]
	BoxOffice(date time.Time, period domain.Period) source.PageFetcher[cinepoint.BoxOfficeItem]
	Insights() source.PageFetcher[cinepoint.InsightItem]
	InsightDetail(ctx context.Context, slug string) (*cinepoint.InsightDetail, error)
}

// ScraperConfig holds page and batch sizes for the scrapers.
type ScraperConfig struct {
	MoviePageSize     int
	ShowtimePageSize  int
	BoxOfficePageSize int
	InsightPageSize   int
	WriteBatchSize    int
	Location          *time.Location // calendar used for "today"
}

// DefaultScraperConfig returns the page sizes the Cinepoint API serves.
func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		MoviePageSize:     50,
		ShowtimePageSize:  50,
		BoxOfficePageSize: 50,
		InsightPageSize:   20,
		WriteBatchSize:    400,
		Location:          time.UTC,
	}
}

// Summary is the outcome of one per-kind scrape. Payload is what was
// written to the sync log.
type Summary struct {
	SyncType domain.SyncType
	Status   domain.SyncStatus
	Records  int
	Payload  map[string]any
	Duration time.Duration
}

// Scraper runs the per-kind pipelines. Each call writes its own sync log
// row, whether it succeeds or not.
type Scraper struct {
	store   Store
	src     Source
	syncLog *SyncLogger
	cfg     ScraperConfig
	now     func() time.Time
	logger  *logger.Logger
}

// NewScraper creates a Scraper.
// Parameters:
//   - store: persistence for records and sync logs.
//   - src: Cinepoint API.
//   - cfg: page and batch sizes; zero fields take defaults.
//   - log: fallback logger when the context carries none.
func NewScraper(store Store, src Source, cfg ScraperConfig, log *logger.Logger) *Scraper {
	def := DefaultScraperConfig()
	if cfg.MoviePageSize <= 0 {
		cfg.MoviePageSize = def.MoviePageSize
	}
	if cfg.ShowtimePageSize <= 0 {
		cfg.ShowtimePageSize = def.ShowtimePageSize
	}
	if cfg.BoxOfficePageSize <= 0 {
		cfg.BoxOfficePageSize = def.BoxOfficePageSize
	}
	if cfg.InsightPageSize <= 0 {
		cfg.InsightPageSize = def.InsightPageSize
	}
	if cfg.WriteBatchSize <= 0 {
		cfg.WriteBatchSize = def.WriteBatchSize
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Scraper{
		store:   store,
		src:     src,
		syncLog: NewSyncLogger(store),
		cfg:     cfg,
		now:     time.Now,
		logger:  log,
	}
}

// Today returns the current calendar date in the configured location.
func (s *Scraper) Today() time.Time {
	return midnight(s.now().In(s.cfg.Location))
}

// log returns a logger from context if available, otherwise the scraper's logger
func (s *Scraper) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil && l != logger.GetDefault() {
		return l
	}
	return s.logger
}

// resolveRange applies Resume on top of Resolve.
func (s *Scraper) resolveRange(ctx context.Context, opts RangeOptions, unit domain.Unit, latest func(context.Context) (string, error)) DateRange {
	rng := Resolve(opts, unit, s.Today())
	if !opts.Resume {
		return rng
	}

	day, err := latest(ctx)
	if err != nil {
		s.log(ctx).WithError(err).Warn("Cannot read latest stored date, resume ignored")
		return rng
	}
	if day == "" {
		return rng
	}
	t, err := time.ParseInLocation(domain.DateLayout, day, s.cfg.Location)
	if err != nil {
		s.log(ctx).WithField("latest", day).WithError(err).Warn("Unparsable stored date, resume ignored")
		return rng
	}
	rng.Start = t
	return rng
}

// finish derives the row status, writes the sync log row and returns the
// summary. A failed log write is joined to runErr.
func (s *Scraper) finish(ctx context.Context, sum *Summary, start time.Time, runErr error) (*Summary, error) {
	sum.Duration = time.Since(start)
	if runErr != nil {
		sum.Status = domain.SyncStatusError
		if ctx.Err() != nil {
			sum.Status = domain.SyncStatusAborted
		}
		sum.Payload["error"] = runErr.Error()
	}
	sum.Payload["status"] = string(sum.Status)

	if err := s.syncLog.Log(ctx, sum.SyncType, sum.Payload); err != nil {
		return sum, errors.Join(runErr, err)
	}
	return sum, runErr
}

// runStatus maps a single run onto a sync log status.
func runStatus(res *RunResult) domain.SyncStatus {
	switch {
	case res == nil:
		return domain.SyncStatusError
	case res.Status == RunAborted:
		return domain.SyncStatusAborted
	case res.Status == RunError && res.Written > 0:
		return domain.SyncStatusPartial
	case res.Status == RunError:
		return domain.SyncStatusError
	default:
		return domain.SyncStatusSuccess
	}
}

// rangeStatus maps a range walk onto a sync log status.
func rangeStatus(res *RangeResult) domain.SyncStatus {
	switch {
	case res.Aborted:
		return domain.SyncStatusAborted
	case res.UnitErrors > 0 && res.UnitErrors == res.Units:
		return domain.SyncStatusError
	case res.UnitErrors > 0:
		return domain.SyncStatusPartial
	default:
		return domain.SyncStatusSuccess
	}
}

// scope tags the context logger with the sync type.
func (s *Scraper) scope(ctx context.Context, t domain.SyncType) context.Context {
	return s.log(ctx).WithField(logger.FieldSyncType, string(t)).WithContext(ctx)
}
