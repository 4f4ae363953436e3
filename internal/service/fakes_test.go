package service

import (
	"context"
	"errors"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
)

type syncRow struct {
	Type    domain.SyncType
	Payload map[string]any
}

// memStore is an in-memory Store.
type memStore struct {
	movies     map[int64]domain.Movie
	boxOffice  []domain.BoxOfficeRecord
	showtimes  []domain.ShowtimeRanking
	insights   map[string]domain.InsightArticle
	insightIDs []string
	logs       []syncRow

	latestShowtime  string
	latestBoxOffice string
	writeErr        error
	logErr          error
}

func newMemStore() *memStore {
	return &memStore{
		movies:   map[int64]domain.Movie{},
		insights: map[string]domain.InsightArticle{},
	}
}

func (m *memStore) LogSync(_ context.Context, t domain.SyncType, payload map[string]any) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.logs = append(m.logs, syncRow{Type: t, Payload: payload})
	return nil
}

func (m *memStore) UpsertMovies(_ context.Context, movies []domain.Movie) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, mv := range movies {
		m.movies[mv.ID] = mv
	}
	return nil
}

func (m *memStore) InsertBoxOfficeRecords(_ context.Context, records []domain.BoxOfficeRecord) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.boxOffice = append(m.boxOffice, records...)
	return nil
}

func (m *memStore) InsertShowtimeRankings(_ context.Context, rankings []domain.ShowtimeRanking) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.showtimes = append(m.showtimes, rankings...)
	return nil
}

func (m *memStore) GetInsightIDs(context.Context) ([]string, error) {
	return m.insightIDs, nil
}

func (m *memStore) UpsertInsight(_ context.Context, a *domain.InsightArticle) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.insights[a.ID]; !ok {
		m.insights[a.ID] = *a
	}
	return nil
}

func (m *memStore) LatestShowtimeDate(context.Context) (string, error) {
	return m.latestShowtime, nil
}

func (m *memStore) LatestBoxOfficeDate(context.Context, domain.Period) (string, error) {
	return m.latestBoxOffice, nil
}

// fakeSource serves canned pages and records what was asked for.
type fakeSource struct {
	movies    [][]cinepoint.MovieItem
	showtimes map[string][]cinepoint.ShowtimeItem
	boxOffice map[string][]cinepoint.BoxOfficeItem
	insights  [][]cinepoint.InsightItem
	details   map[string]cinepoint.InsightDetail
	detailErr map[string]error

	showtimeDates []string
	boxOfficeRuns []string
	detailCalls   []string
	movieStatus   string
}

func (f *fakeSource) Movies(status string) source.PageFetcher[cinepoint.MovieItem] {
	f.movieStatus = status
	return source.Static(f.movies...)
}

func (f *fakeSource) Showtimes(date time.Time) source.PageFetcher[cinepoint.ShowtimeItem] {
	d := domain.FormatDate(date)
	f.showtimeDates = append(f.showtimeDates, d)
	if items, ok := f.showtimes[d]; ok {
		return source.Static(items)
	}
	return source.Static[cinepoint.ShowtimeItem]()
}

func (f *fakeSource) BoxOffice(date time.Time, period domain.Period) source.PageFetcher[cinepoint.BoxOfficeItem] {
	d := domain.FormatDate(date)
	f.boxOfficeRuns = append(f.boxOfficeRuns, string(period)+" "+d)
	if items, ok := f.boxOffice[d]; ok {
		return source.Static(items)
	}
	return source.Static[cinepoint.BoxOfficeItem]()
}

func (f *fakeSource) Insights() source.PageFetcher[cinepoint.InsightItem] {
	return source.Static(f.insights...)
}

func (f *fakeSource) InsightDetail(_ context.Context, slug string) (*cinepoint.InsightDetail, error) {
	f.detailCalls = append(f.detailCalls, slug)
	if err := f.detailErr[slug]; err != nil {
		return nil, err
	}
	d, ok := f.details[slug]
	if !ok {
		return nil, errors.New("not found")
	}
	return &d, nil
}

func movieItem(id int64, title string) cinepoint.MovieItem {
	return cinepoint.MovieItem{ID: cinepoint.FlexInt{Value: id, Valid: true}, Title: title}
}

func showtimeItem(id int64, title string, rank int64) cinepoint.ShowtimeItem {
	return cinepoint.ShowtimeItem{
		ID:    cinepoint.FlexInt{Value: id, Valid: true},
		Title: title,
		Rank:  cinepoint.FlexInt{Value: rank, Valid: true},
	}
}

func boxOfficeItem(id int64, title string) cinepoint.BoxOfficeItem {
	return cinepoint.BoxOfficeItem{ID: cinepoint.FlexInt{Value: id, Valid: true}, Title: title}
}

func insightItem(id, slug string) cinepoint.InsightItem {
	return cinepoint.InsightItem{ID: cinepoint.FlexString(id), Slug: slug, Title: "Title " + slug}
}

// newTestScraper pins "today" to 2025-01-03 UTC and pages movies by two.
func newTestScraper(store *memStore, src *fakeSource) *Scraper {
	s := NewScraper(store, src, ScraperConfig{MoviePageSize: 2}, nil)
	s.now = func() time.Time { return time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC) }
	return s
}
