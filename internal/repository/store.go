package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const defaultBatchSize = 400

func normalizeBatch(n int) int {
	if n <= 0 {
		return defaultBatchSize
	}
	return n
}

// lastByKey drops all but the last row of each key, keeping first-seen
// order. Postgres rejects an ON CONFLICT DO UPDATE statement that touches
// the same key twice, and a source page can list a movie twice.
func lastByKey[T any, K comparable](rows []T, key func(T) K) []T {
	index := make(map[K]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if i, ok := index[k]; ok {
			out[i] = row
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	return out
}

// Store bundles every repository behind one handle. It satisfies the
// store contract the sync pipeline writes through.
type Store struct {
	*MovieRepository
	*BoxOfficeRepository
	*ShowtimeRepository
	*InsightRepository
	*SyncLogRepository

	db *gorm.DB
}

// NewStore creates a Store on db.
// Parameters:
//   - db: GORM database handle.
//   - batchSize: maximum rows per INSERT for bulk writes.
func NewStore(db *gorm.DB, batchSize int) *Store {
	return &Store{
		MovieRepository:     NewMovieRepository(db, batchSize),
		BoxOfficeRepository: NewBoxOfficeRepository(db, batchSize),
		ShowtimeRepository:  NewShowtimeRepository(db, batchSize),
		InsightRepository:   NewInsightRepository(db),
		SyncLogRepository:   NewSyncLogRepository(db),
		db:                  db,
	}
}

// Counts reports the row count of every table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counters := []struct {
		name  string
		count func(context.Context) (int64, error)
	}{
		{"movies", s.MovieRepository.Count},
		{"box_office_records", s.BoxOfficeRepository.Count},
		{"showtime_rankings", s.ShowtimeRepository.Count},
		{"insight_articles", s.InsightRepository.Count},
		{"sync_logs", s.SyncLogRepository.Count},
	}

	out := make(map[string]int64, len(counters))
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
		out[c.name] = n
	}
	return out, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
