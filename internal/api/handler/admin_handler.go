package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/service"
	"github.com/gin-gonic/gin"
)

// DailyTrigger starts daily syncs and reports their state. *service.SyncRunner
// implements it.
type DailyTrigger interface {
	Run(ctx context.Context) (*service.SyncReport, error)
	Start(ctx context.Context) error
	State() service.SyncState
}

// AdminHandler handles admin operations.
type AdminHandler struct {
	runner  DailyTrigger
	baseCtx context.Context
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - baseCtx: lifetime of background syncs; cancelled on shutdown.
//   - runner: daily sync runner shared with the scheduler.
//   - log: logger for background syncs; nil keeps the one in baseCtx.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(baseCtx context.Context, runner DailyTrigger, log *logger.Logger) *AdminHandler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if log != nil {
		baseCtx = logger.SetComponent(log.WithContext(baseCtx), "admin")
	}
	return &AdminHandler{
		runner:  runner,
		baseCtx: baseCtx,
	}
}

// TriggerRequest represents the sync trigger request. The body is optional.
type TriggerRequest struct {
	Wait bool `json:"wait"`
}

// TriggerResponse represents the sync trigger response.
type TriggerResponse struct {
	Message string              `json:"message"`
	Report  *service.ReportView `json:"report,omitempty"`
}

// TriggerDailySync starts a daily sync. By default it returns 202 right away;
// with {"wait": true} it blocks and returns the finished report.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) TriggerDailySync(c *gin.Context) {
	ctx := c.Request.Context()

	var req TriggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.CtxWarn(ctx, "Invalid sync request: client_ip=%s, error=%v", c.ClientIP(), err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	logger.CtxInfo(ctx, "Received daily sync request: wait=%v, client_ip=%s", req.Wait, c.ClientIP())

	// the sync outlives the request unless the caller waits for it
	syncCtx := logger.SetRequestID(h.baseCtx, logger.GetRequestID(ctx))

	if !req.Wait {
		if err := h.runner.Start(syncCtx); err != nil {
			h.reject(c, err)
			return
		}
		c.JSON(http.StatusAccepted, TriggerResponse{Message: "Daily sync started"})
		return
	}

	startTime := time.Now()
	report, err := h.runner.Run(syncCtx)
	if err != nil && report == nil {
		h.reject(c, err)
		return
	}

	entry := logger.With(logger.Fields{logger.FieldDurationMs: time.Since(startTime).Milliseconds()})
	if err != nil {
		entry.Error(ctx, "Daily sync finished but its log row was not written: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report.View()})
		return
	}

	entry.WithStatus(string(report.Status)).Info(ctx, "Daily sync completed: run_id=%s", report.RunID)
	c.JSON(http.StatusOK, TriggerResponse{
		Message: "Daily sync completed",
		Report:  report.View(),
	})
}

func (h *AdminHandler) reject(c *gin.Context, err error) {
	ctx := c.Request.Context()
	if errors.Is(err, service.ErrSyncRunning) {
		logger.CtxWarn(ctx, "Sync request rejected: already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "Daily sync is already running"})
		return
	}
	logger.CtxError(ctx, "Daily sync failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GetSyncStatus returns the current daily sync status.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) GetSyncStatus(c *gin.Context) {
	state := h.runner.State()
	logger.CtxDebug(c.Request.Context(), "Sync status requested: client_ip=%s, is_running=%v", c.ClientIP(), state.IsRunning)
	c.JSON(http.StatusOK, state)
}
