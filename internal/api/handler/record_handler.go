package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RecordStore reads stored records for the status API.
type RecordStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	ListByDate(ctx context.Context, date string, period domain.Period) ([]domain.BoxOfficeRecord, error)
	LatestBoxOfficeDate(ctx context.Context, period domain.Period) (string, error)
}

// RecordHandler serves stored movies and rankings so a dashboard can check
// what a sync wrote.
type RecordHandler struct {
	store RecordStore
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler(store RecordStore) *RecordHandler {
	return &RecordHandler{store: store}
}

// BoxOfficeResponse is one stored box office ranking.
type BoxOfficeResponse struct {
	Date    string                   `json:"date"`
	Period  domain.Period            `json:"period"`
	Records []domain.BoxOfficeRecord `json:"records"`
	Count   int                      `json:"count"`
}

// GetMovie handles GET /api/v1/movies/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RecordHandler) GetMovie(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id: " + c.Param("id")})
		return
	}

	movie, err := h.store.GetByID(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
	case err != nil:
		logger.CtxError(ctx, "Failed to get movie: id=%d, error=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get movie"})
	default:
		c.JSON(http.StatusOK, movie)
	}
}

// ListBoxOffice handles GET /api/v1/box-office.
// Query parameters: period (default daily), date (default the latest
// stored date for the period).
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RecordHandler) ListBoxOffice(c *gin.Context) {
	ctx := c.Request.Context()

	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := c.Query("date")
	if date == "" {
		if date, err = h.store.LatestBoxOfficeDate(ctx, period); err != nil {
			logger.CtxError(ctx, "Failed to read latest box office date: period=%s, error=%v", period, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list box office"})
			return
		}
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date: " + date})
		return
	}

	records := []domain.BoxOfficeRecord{}
	if date != "" {
		rows, err := h.store.ListByDate(ctx, date, period)
		if err != nil {
			logger.CtxError(ctx, "Failed to list box office: date=%s, period=%s, error=%v", date, period, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list box office"})
			return
		}
		if rows != nil {
			records = rows
		}
	}

	c.JSON(http.StatusOK, BoxOfficeResponse{Date: date, Period: period, Records: records, Count: len(records)})
}
