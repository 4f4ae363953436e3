package repository

import (
	"context"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxSyncLogLimit caps ListSyncLogs page sizes.
const MaxSyncLogLimit = 200

// SyncLogRepository appends and reads the sync audit trail.
type SyncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a new SyncLogRepository.
func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// LogSync appends one audit row. The row status is taken from the
// payload's "status" entry, defaulting to success.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - syncType: pipeline tag (movies, showtimes, daily, ...).
//   - payload: free-form parameters and results.
// Returns:
//   - error: non-nil if the insert fails.
func (r *SyncLogRepository) LogSync(ctx context.Context, syncType domain.SyncType, payload map[string]any) error {
	status := domain.SyncStatusSuccess
	if s, ok := payload["status"].(string); ok && s != "" {
		status = domain.SyncStatus(s)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	row := &domain.SyncLog{
		SyncType: syncType,
		Payload:  datatypes.JSONMap(payload),
		Status:   status,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// ListSyncLogs returns the newest rows first, optionally filtered by type.
func (r *SyncLogRepository) ListSyncLogs(ctx context.Context, syncType domain.SyncType, limit int) ([]domain.SyncLog, error) {
	if limit <= 0 {
		limit = 30
	}
	if limit > MaxSyncLogLimit {
		limit = MaxSyncLogLimit
	}

	q := r.db.WithContext(ctx).Model(&domain.SyncLog{})
	if syncType != "" {
		q = q.Where("sync_type = ?", syncType)
	}

	var logs []domain.SyncLog
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Count returns the number of stored audit rows.
func (r *SyncLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.SyncLog{}).Count(&count).Error
	return count, err
}
