package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/gin-gonic/gin"
)

// StatusStore is the read side of the store used by the status API.
type StatusStore interface {
	ListSyncLogs(ctx context.Context, syncType domain.SyncType, limit int) ([]domain.SyncLog, error)
	Counts(ctx context.Context) (map[string]int64, error)
	LatestShowtimeDate(ctx context.Context) (string, error)
	LatestBoxOfficeDate(ctx context.Context, period domain.Period) (string, error)
}

// SyncHandler serves sync history and record statistics.
type SyncHandler struct {
	store StatusStore
}

// NewSyncHandler creates a new sync handler.
// Parameters:
//   - store: read access to sync logs and record tables.
// Returns:
//   - *SyncHandler: initialized handler.
func NewSyncHandler(store StatusStore) *SyncHandler {
	return &SyncHandler{store: store}
}

// SyncLogsResponse represents the sync log listing.
type SyncLogsResponse struct {
	Logs  []domain.SyncLog `json:"logs"`
	Count int              `json:"count"`
}

// StatsResponse represents record statistics.
type StatsResponse struct {
	Counts              map[string]int64 `json:"counts"`
	LatestShowtimeDate  string           `json:"latest_showtime_date,omitempty"`
	LatestBoxOfficeDate string           `json:"latest_box_office_date,omitempty"`
}

// ListSyncLogs returns the most recent sync log rows.
// Query parameters: type (optional sync type), limit (default 30, max 200).
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) ListSyncLogs(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit: " + raw})
			return
		}
		limit = n
	}
	syncType := domain.SyncType(c.Query("type"))

	logs, err := h.store.ListSyncLogs(ctx, syncType, limit)
	if err != nil {
		logger.CtxError(ctx, "Failed to list sync logs: type=%s, error=%v", syncType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sync logs"})
		return
	}
	if logs == nil {
		logs = []domain.SyncLog{}
	}

	c.JSON(http.StatusOK, SyncLogsResponse{Logs: logs, Count: len(logs)})
}

// GetStats returns per-table record counts and the latest stored dates.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.store.Counts(ctx)
	if err != nil {
		logger.CtxError(ctx, "Failed to count records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}

	resp := StatsResponse{Counts: counts}
	if resp.LatestShowtimeDate, err = h.store.LatestShowtimeDate(ctx); err != nil {
		logger.CtxWarn(ctx, "Failed to read latest showtime date: %v", err)
	}
	if resp.LatestBoxOfficeDate, err = h.store.LatestBoxOfficeDate(ctx, domain.PeriodDaily); err != nil {
		logger.CtxWarn(ctx, "Failed to read latest box office date: %v", err)
	}

	c.JSON(http.StatusOK, resp)
}
