package service

import (
	"context"
	"fmt"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/logger"
)

// SyncLogWriter appends audit rows.
type SyncLogWriter interface {
	LogSync(ctx context.Context, syncType domain.SyncType, payload map[string]any) error
}

// SyncLogger records one audit row per pipeline invocation.
type SyncLogger struct {
	store SyncLogWriter
}

// NewSyncLogger creates a SyncLogger writing to store.
func NewSyncLogger(store SyncLogWriter) *SyncLogger {
	return &SyncLogger{store: store}
}

// Log writes the row synchronously. The write is detached from ctx
// cancellation so an aborted run still leaves its row behind.
// Parameters:
//   - ctx: request context; only its values are used.
//   - syncType: pipeline tag.
//   - payload: parameters and results; "status" sets the row status.
// Returns:
//   - error: non-nil if the row could not be stored.
func (l *SyncLogger) Log(ctx context.Context, syncType domain.SyncType, payload map[string]any) error {
	logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldSyncType: syncType,
		"payload":            payload,
	}).Info("Sync finished")

	if err := l.store.LogSync(context.WithoutCancel(ctx), syncType, payload); err != nil {
		return fmt.Errorf("log %s sync: %w", syncType, err)
	}
	return nil
}
