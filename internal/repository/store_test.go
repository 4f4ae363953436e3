package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/cineradar/cinepoint-sync/internal/config"
	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        "file:" + name + "?mode=memory&cache=shared",
		AutoMigrate: true,
		LogLevel:    "silent",
	})
	require.NoError(t, err)

	store := NewStore(db, 2)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUpsertMoviesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	batch := []domain.Movie{
		{ID: 1, Title: "Agak Laen", Rating: "R13+", Genres: domain.StringArray{"Comedy"}, Status: domain.MovieStatusNowPlaying},
		{ID: 2, Title: "Vina", Rating: "D17+", Status: domain.MovieStatusNowPlaying},
		{ID: 3, Title: "Dilan", Rating: "SU", Status: domain.MovieStatusUpcoming},
	}
	require.NoError(t, store.UpsertMovies(ctx, batch))
	require.NoError(t, store.UpsertMovies(ctx, batch))

	n, err := store.MovieRepository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	batch[0].Status = domain.MovieStatusEnded
	require.NoError(t, store.UpsertMovies(ctx, batch[:1]))
	got, err := store.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.MovieStatusEnded, got.Status)
	assert.Equal(t, domain.StringArray{"Comedy"}, got.Genres)
}

func TestBoxOfficeUpsertsOnCompositeKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rec := domain.BoxOfficeRecord{MovieID: 1, Date: "2025-01-01", Period: domain.PeriodDaily, MovieTitle: "A", Rank: 1, Admissions: 10}
	weekly := rec
	weekly.Period = domain.PeriodWeekly
	require.NoError(t, store.InsertBoxOfficeRecords(ctx, []domain.BoxOfficeRecord{rec, weekly}))

	rec.Admissions = 20
	require.NoError(t, store.InsertBoxOfficeRecords(ctx, []domain.BoxOfficeRecord{rec}))

	rows, err := store.ListByDate(ctx, "2025-01-01", domain.PeriodDaily)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(20), rows[0].Admissions)

	latest, err := store.LatestBoxOfficeDate(ctx, domain.PeriodWeekly)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", latest)

	latest, err = store.LatestBoxOfficeDate(ctx, domain.PeriodMonthly)
	require.NoError(t, err)
	assert.Equal(t, "", latest)
}

func TestRepeatedKeysInOneWriteKeepLastRow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertShowtimeRankings(ctx, []domain.ShowtimeRanking{
		{MovieID: 1, Date: "2025-01-02", MovieTitle: "A", Rank: 3},
		{MovieID: 2, Date: "2025-01-02", MovieTitle: "B", Rank: 2},
		{MovieID: 1, Date: "2025-01-02", MovieTitle: "A", Rank: 1},
	}))
	n, err := store.ShowtimeRepository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, store.InsertBoxOfficeRecords(ctx, []domain.BoxOfficeRecord{
		{MovieID: 7, Date: "2025-01-02", Period: domain.PeriodDaily, MovieTitle: "A", Rank: 1, Admissions: 5},
		{MovieID: 7, Date: "2025-01-02", Period: domain.PeriodDaily, MovieTitle: "A", Rank: 1, Admissions: 9},
	}))
	rows, err := store.ListByDate(ctx, "2025-01-02", domain.PeriodDaily)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].Admissions)
}

func TestLastByKey(t *testing.T) {
	type row struct {
		id  int
		val string
	}
	got := lastByKey([]row{{1, "a"}, {2, "b"}, {1, "c"}, {3, "d"}, {2, "e"}}, func(r row) int { return r.id })
	assert.Equal(t, []row{{1, "c"}, {2, "e"}, {3, "d"}}, got)
	assert.Empty(t, lastByKey(nil, func(r row) int { return r.id }))
}

func TestShowtimeLatestDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	latest, err := store.LatestShowtimeDate(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)

	require.NoError(t, store.InsertShowtimeRankings(ctx, []domain.ShowtimeRanking{
		{MovieID: 1, Date: "2025-01-02", MovieTitle: "A", Rank: 1},
		{MovieID: 2, Date: "2025-01-03", MovieTitle: "B", Rank: 1},
	}))

	latest, err = store.LatestShowtimeDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-03", latest)
}

func TestInsightsAreWriteOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertInsight(ctx, &domain.InsightArticle{ID: "a", Title: "first", Category: "general"}))
	require.NoError(t, store.UpsertInsight(ctx, &domain.InsightArticle{ID: "a", Title: "second", Category: "general"}))
	require.NoError(t, store.UpsertInsight(ctx, &domain.InsightArticle{ID: "b", Title: "other", Category: "report"}))

	ids, err := store.GetInsightIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	var title string
	require.NoError(t, store.db.Model(&domain.InsightArticle{}).Where("id = ?", "a").Pluck("title", &title).Error)
	assert.Equal(t, "first", title)
}

func TestSyncLogs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.LogSync(ctx, domain.SyncTypeMovies, map[string]any{"moviesScraped": 3, "status": "success"}))
	require.NoError(t, store.LogSync(ctx, domain.SyncTypeDaily, map[string]any{"status": "partial"}))
	require.NoError(t, store.LogSync(ctx, domain.SyncTypeMovies, map[string]any{"status": "error", "error": "boom"}))

	logs, err := store.ListSyncLogs(ctx, domain.SyncTypeMovies, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.SyncStatusError, logs[0].Status)
	assert.Equal(t, "boom", logs[0].Payload["error"])
	assert.EqualValues(t, 3, logs[1].Payload["moviesScraped"])

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["sync_logs"])
	assert.Equal(t, int64(0), counts["movies"])
}
