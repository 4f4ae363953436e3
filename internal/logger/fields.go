package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing Fields (Context level)
// Propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldRunID identifies one orchestrator or scrape invocation
	FieldRunID = "run_id"

	// FieldSyncType is the sync log type (movies, showtimes, daily, ...)
	FieldSyncType = "sync_type"

	// FieldKind is the record kind handled by a runner
	FieldKind = "kind"

	// FieldUnit is the addressing unit of a run (a date, a period, a status)
	FieldUnit = "unit"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// ============================================
// Metric Fields (Entry level)
// Used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldPage is the zero-based page index
	FieldPage = "page"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
