package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SyncType tags a sync log row with the pipeline that wrote it.
type SyncType string

const (
	SyncTypeMovies    SyncType = "movies"
	SyncTypeShowtimes SyncType = "showtimes"
	SyncTypeBoxOffice SyncType = "box_office"
	SyncTypeInsights  SyncType = "insights"
	SyncTypeDaily     SyncType = "daily"
	SyncTypeBackfill  SyncType = "backfill"
)

// SyncStatus is the outcome recorded for one pipeline invocation.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusError   SyncStatus = "error"
	SyncStatusAborted SyncStatus = "aborted"
)

// SyncLog is the append-only audit trail. One row per pipeline invocation.
type SyncLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	SyncType  SyncType          `gorm:"type:text;not null;index:idx_sync_logs_type" json:"sync_type"`
	Payload   datatypes.JSONMap `json:"payload"`
	Status    SyncStatus        `gorm:"type:text;index:idx_sync_logs_status" json:"status"`
	CreatedAt time.Time         `gorm:"index:idx_sync_logs_created_at" json:"created_at"`
}

// TableName returns the database table name for SyncLog.
func (SyncLog) TableName() string {
	return "sync_logs"
}
