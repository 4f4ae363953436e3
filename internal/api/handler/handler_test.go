package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	pingErr   error
	logs      []domain.SyncLog
	gotType   domain.SyncType
	gotLimit  int
	listErr   error
	counts    map[string]int64
	showtime  string
	boxOffice string

	movies     map[int64]domain.Movie
	ranking    []domain.BoxOfficeRecord
	gotDate    string
	gotPeriod  domain.Period
	recordsErr error
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ListSyncLogs(_ context.Context, t domain.SyncType, limit int) ([]domain.SyncLog, error) {
	f.gotType, f.gotLimit = t, limit
	return f.logs, f.listErr
}

func (f *fakeStore) Counts(context.Context) (map[string]int64, error) { return f.counts, nil }

func (f *fakeStore) LatestShowtimeDate(context.Context) (string, error) { return f.showtime, nil }

func (f *fakeStore) LatestBoxOfficeDate(context.Context, domain.Period) (string, error) {
	return f.boxOffice, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*domain.Movie, error) {
	if f.recordsErr != nil {
		return nil, f.recordsErr
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (f *fakeStore) ListByDate(_ context.Context, date string, period domain.Period) ([]domain.BoxOfficeRecord, error) {
	f.gotDate, f.gotPeriod = date, period
	return f.ranking, f.recordsErr
}

type fakeRunner struct {
	startErr error
	report   *service.SyncReport
	runErr   error
	started  int
	state    service.SyncState
}

func (f *fakeRunner) Run(context.Context) (*service.SyncReport, error) { return f.report, f.runErr }

func (f *fakeRunner) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	return nil
}

func (f *fakeRunner) State() service.SyncState { return f.state }

func serve(t *testing.T, method, path, body string, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	register(r)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(&fakeStore{})
	w := serve(t, http.MethodGet, "/health", "", func(r *gin.Engine) { r.GET("/health", h.Health) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	h = NewHealthHandler(&fakeStore{pingErr: errors.New("db down")})
	w = serve(t, http.MethodGet, "/health", "", func(r *gin.Engine) { r.GET("/health", h.Health) })
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "db down")
}

func TestListSyncLogs(t *testing.T) {
	store := &fakeStore{logs: []domain.SyncLog{
		{ID: 2, SyncType: domain.SyncTypeDaily, Status: domain.SyncStatusSuccess},
		{ID: 1, SyncType: domain.SyncTypeDaily, Status: domain.SyncStatusPartial},
	}}
	h := NewSyncHandler(store)
	register := func(r *gin.Engine) { r.GET("/sync-logs", h.ListSyncLogs) }

	w := serve(t, http.MethodGet, "/sync-logs?type=daily&limit=5", "", register)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SyncTypeDaily, store.gotType)
	assert.Equal(t, 5, store.gotLimit)

	var resp SyncLogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, uint(2), resp.Logs[0].ID)

	w = serve(t, http.MethodGet, "/sync-logs?limit=abc", "", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	store.listErr = errors.New("boom")
	w = serve(t, http.MethodGet, "/sync-logs", "", register)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, store.gotLimit)
}

func TestGetStats(t *testing.T) {
	store := &fakeStore{
		counts:    map[string]int64{"movies": 3, "sync_logs": 1},
		showtime:  "2025-01-03",
		boxOffice: "2025-01-02",
	}
	h := NewSyncHandler(store)
	w := serve(t, http.MethodGet, "/stats", "", func(r *gin.Engine) { r.GET("/stats", h.GetStats) })
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Counts["movies"])
	assert.Equal(t, "2025-01-03", resp.LatestShowtimeDate)
	assert.Equal(t, "2025-01-02", resp.LatestBoxOfficeDate)
}

func TestTriggerDailySync(t *testing.T) {
	runner := &fakeRunner{}
	h := NewAdminHandler(context.Background(), runner, nil)
	register := func(r *gin.Engine) { r.POST("/sync/daily", h.TriggerDailySync) }

	w := serve(t, http.MethodPost, "/sync/daily", "", register)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, runner.started)

	runner.startErr = service.ErrSyncRunning
	w = serve(t, http.MethodPost, "/sync/daily", "", register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(t, http.MethodPost, "/sync/daily", "{not json", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerDailySyncWait(t *testing.T) {
	runner := &fakeRunner{report: &service.SyncReport{
		RunID:  "run-1",
		Type:   domain.SyncTypeDaily,
		Status: domain.SyncStatusSuccess,
	}}
	h := NewAdminHandler(context.Background(), runner, nil)
	register := func(r *gin.Engine) { r.POST("/sync/daily", h.TriggerDailySync) }

	w := serve(t, http.MethodPost, "/sync/daily", `{"wait":true}`, register)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, "run-1", resp.Report.RunID)
	assert.Equal(t, "success", resp.Report.Status)

	runner.report, runner.runErr = nil, service.ErrSyncRunning
	w = serve(t, http.MethodPost, "/sync/daily", `{"wait":true}`, register)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSyncStatus(t *testing.T) {
	runner := &fakeRunner{state: service.SyncState{IsRunning: true, LastRunStatus: "partial"}}
	h := NewAdminHandler(context.Background(), runner, nil)
	w := serve(t, http.MethodGet, "/sync/status", "", func(r *gin.Engine) { r.GET("/sync/status", h.GetSyncStatus) })
	require.Equal(t, http.StatusOK, w.Code)

	var state service.SyncState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.True(t, state.IsRunning)
	assert.Equal(t, "partial", state.LastRunStatus)
}

func TestGetMovie(t *testing.T) {
	store := &fakeStore{movies: map[int64]domain.Movie{7: {ID: 7, Title: "Agak Laen"}}}
	h := NewRecordHandler(store)
	register := func(r *gin.Engine) { r.GET("/movies/:id", h.GetMovie) }

	w := serve(t, http.MethodGet, "/movies/7", "", register)
	require.Equal(t, http.StatusOK, w.Code)
	var movie domain.Movie
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movie))
	assert.Equal(t, "Agak Laen", movie.Title)

	w = serve(t, http.MethodGet, "/movies/8", "", register)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, http.MethodGet, "/movies/abc", "", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	store.recordsErr = errors.New("db down")
	w = serve(t, http.MethodGet, "/movies/7", "", register)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListBoxOffice(t *testing.T) {
	store := &fakeStore{
		boxOffice: "2025-01-02",
		ranking: []domain.BoxOfficeRecord{
			{MovieID: 7, Date: "2025-01-02", Period: domain.PeriodWeekly, Rank: 1},
		},
	}
	h := NewRecordHandler(store)
	register := func(r *gin.Engine) { r.GET("/box-office", h.ListBoxOffice) }

	w := serve(t, http.MethodGet, "/box-office?period=weekly", "", register)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-01-02", store.gotDate, "defaults to the latest stored date")
	assert.Equal(t, domain.PeriodWeekly, store.gotPeriod)

	var resp BoxOfficeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(7), resp.Records[0].MovieID)

	w = serve(t, http.MethodGet, "/box-office?date=2024-12-31", "", register)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-12-31", store.gotDate)
	assert.Equal(t, domain.PeriodDaily, store.gotPeriod)

	w = serve(t, http.MethodGet, "/box-office?period=hourly", "", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, http.MethodGet, "/box-office?date=31-12-2024", "", register)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	empty := &fakeStore{}
	w = serve(t, http.MethodGet, "/box-office", "", func(r *gin.Engine) { r.GET("/box-office", NewRecordHandler(empty).ListBoxOffice) })
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"","period":"daily","records":[],"count":0}`, w.Body.String())
}
