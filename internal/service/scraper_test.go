package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeInsightsSkipsKnownArticles(t *testing.T) {
	store := newMemStore()
	store.insightIDs = []string{"A", "B"}
	src := &fakeSource{
		insights: [][]cinepoint.InsightItem{{insightItem("A", "a"), insightItem("C", "c")}},
		details: map[string]cinepoint.InsightDetail{
			"a": {Title: "A", Content: "<p>old</p>"},
			"c": {Title: "C", Content: "<p>new</p>"},
		},
	}

	sum, err := newTestScraper(store, src).ScrapeInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"c"}, src.detailCalls, "only the unknown article is detail-fetched")
	require.Len(t, store.insights, 1)
	assert.Contains(t, store.insights, "C")

	assert.Equal(t, domain.SyncStatusSuccess, sum.Status)
	assert.Equal(t, 1, sum.Payload["newArticles"])
	assert.Equal(t, 1, sum.Payload["skipped"])
	assert.Equal(t, 2, sum.Payload["totalExisting"])

	require.Len(t, store.logs, 1)
	assert.Equal(t, domain.SyncTypeInsights, store.logs[0].Type)
	assert.Equal(t, "success", store.logs[0].Payload["status"])
}

func TestScrapeInsightsDetailFailureDropsOnlyThatItem(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{
		insights: [][]cinepoint.InsightItem{{insightItem("C", "c"), insightItem("D", "d"), insightItem("", "e")}},
		details: map[string]cinepoint.InsightDetail{
			"c": {Title: "C"},
			"e": {Title: "E"},
		},
		detailErr: map[string]error{"d": errors.New("502 bad gateway")},
	}

	sum, err := newTestScraper(store, src).ScrapeInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "d", "e"}, src.detailCalls)
	assert.Contains(t, store.insights, "C")
	assert.Contains(t, store.insights, "e", "slug is the id when the source id is absent")
	assert.NotContains(t, store.insights, "D")
	assert.Equal(t, 1, sum.Payload["failed"])
	assert.Equal(t, domain.SyncStatusSuccess, sum.Status)
}

func TestScrapeInsightsSkipsDetailForKeylessItem(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{
		insights: [][]cinepoint.InsightItem{{insightItem("", ""), insightItem("C", "c")}},
		details:  map[string]cinepoint.InsightDetail{"c": {Title: "C"}},
	}

	sum, err := newTestScraper(store, src).ScrapeInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"c"}, src.detailCalls, "no detail request without a slug")
	assert.Len(t, store.insights, 1)
	assert.Equal(t, 1, sum.Payload["failed"])
}

func TestScrapeInsightsSlugKeyIsDeduplicated(t *testing.T) {
	store := newMemStore()
	store.insightIDs = []string{"box-office-recap"}
	src := &fakeSource{
		insights: [][]cinepoint.InsightItem{{insightItem("0", "box-office-recap")}},
	}

	sum, err := newTestScraper(store, src).ScrapeInsights(context.Background())
	require.NoError(t, err)
	assert.Empty(t, src.detailCalls)
	assert.Equal(t, 0, sum.Records)
}

func TestScrapeMoviesIsIdempotent(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{movies: [][]cinepoint.MovieItem{
		{movieItem(1, "Agak Laen"), movieItem(2, "Vina")},
		{movieItem(3, "Dilan 1983"), {Title: "no id"}},
	}}
	s := newTestScraper(store, src)

	for i := 0; i < 2; i++ {
		sum, err := s.ScrapeMovies(context.Background(), MovieOptions{Status: "now_playing"})
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Payload["moviesScraped"])
		assert.Equal(t, 1, sum.Payload["failed"])
		assert.Equal(t, "now_playing", sum.Payload["movieStatus"])
	}

	assert.Len(t, store.movies, 3)
	assert.Equal(t, "now_playing", src.movieStatus)
	assert.Len(t, store.logs, 2)
}

func TestScrapeMoviesWriteErrorStillLogs(t *testing.T) {
	store := newMemStore()
	store.writeErr = errors.New("database is locked")
	src := &fakeSource{movies: [][]cinepoint.MovieItem{{movieItem(1, "Agak Laen")}}}

	sum, err := newTestScraper(store, src).ScrapeMovies(context.Background(), MovieOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.writeErr)

	assert.Equal(t, domain.SyncStatusError, sum.Status)
	require.Len(t, store.logs, 1)
	assert.Equal(t, "error", store.logs[0].Payload["status"])
	assert.Contains(t, store.logs[0].Payload["error"], "database is locked")
}

func TestScrapeJoinsSyncLogFailure(t *testing.T) {
	store := newMemStore()
	store.logErr = errors.New("sync_logs missing")
	src := &fakeSource{}

	_, err := newTestScraper(store, src).ScrapeMovies(context.Background(), MovieOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.logErr)
}

func TestScrapeShowtimesWalksDays(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{showtimes: map[string][]cinepoint.ShowtimeItem{
		"2025-01-01": {showtimeItem(1, "Agak Laen", 1)},
		"2025-01-03": {showtimeItem(1, "Agak Laen", 2), showtimeItem(2, "Vina", 1)},
	}}

	sum, err := newTestScraper(store, src).ScrapeShowtimes(context.Background(), RangeOptions{DaysBack: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-01-03"}, src.showtimeDates)
	assert.Len(t, store.showtimes, 3)
	assert.Equal(t, "2025-01-03", store.showtimes[2].Date)
	assert.Equal(t, 3, sum.Payload["rankingsScraped"])
	assert.Equal(t, "2025-01-01", sum.Payload["startDate"])
	assert.Equal(t, "2025-01-03", sum.Payload["endDate"])
}

func TestScrapeShowtimesResume(t *testing.T) {
	store := newMemStore()
	store.latestShowtime = "2025-01-02"
	src := &fakeSource{}

	_, err := newTestScraper(store, src).ScrapeShowtimes(context.Background(), RangeOptions{DaysBack: 30, Resume: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-02", "2025-01-03"}, src.showtimeDates)
}

func TestScrapeBoxOfficeStepsByPeriod(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{boxOffice: map[string][]cinepoint.BoxOfficeItem{
		"2025-01-03": {boxOfficeItem(7, "Agak Laen")},
	}}

	sum, err := newTestScraper(store, src).ScrapeBoxOffice(context.Background(), BoxOfficeOptions{
		RangeOptions: RangeOptions{DaysBack: 14},
		Period:       domain.PeriodWeekly,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"weekly 2024-12-20", "weekly 2024-12-27", "weekly 2025-01-03"}, src.boxOfficeRuns)
	require.Len(t, store.boxOffice, 1)
	assert.Equal(t, domain.PeriodWeekly, store.boxOffice[0].Period)
	assert.Equal(t, "weekly", sum.Payload["period"])
	assert.Equal(t, 1, sum.Payload["recordsScraped"])
}

func TestScrapeBoxOfficeEmptyRange(t *testing.T) {
	store := newMemStore()
	src := &fakeSource{}
	s := newTestScraper(store, src)

	sum, err := s.ScrapeBoxOffice(context.Background(), BoxOfficeOptions{
		RangeOptions: RangeOptions{Start: day("2025-02-01"), End: day("2025-01-01")},
	})
	require.NoError(t, err)
	assert.Empty(t, src.boxOfficeRuns)
	assert.Equal(t, 0, sum.Payload["recordsScraped"])
	assert.Equal(t, domain.SyncStatusSuccess, sum.Status)
}
