package repository

import (
	"context"
	"database/sql"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BoxOfficeRepository handles box office ranking rows.
type BoxOfficeRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewBoxOfficeRepository creates a new BoxOfficeRepository.
func NewBoxOfficeRepository(db *gorm.DB, batchSize int) *BoxOfficeRepository {
	return &BoxOfficeRepository{db: db, batchSize: normalizeBatch(batchSize)}
}

// InsertBoxOfficeRecords stores records, overwriting any row with the same
// (movie_id, date, period). Re-importing a page is therefore idempotent,
// and a key repeated within records keeps its last row.
func (r *BoxOfficeRepository) InsertBoxOfficeRecords(ctx context.Context, records []domain.BoxOfficeRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "date"}, {Name: "period"}},
		UpdateAll: true,
	}).CreateInBatches(lastByKey(records, boxOfficeKey), r.batchSize).Error
}

type boxOfficeID struct {
	movieID int64
	date    string
	period  domain.Period
}

func boxOfficeKey(r domain.BoxOfficeRecord) boxOfficeID {
	return boxOfficeID{r.MovieID, r.Date, r.Period}
}

// LatestBoxOfficeDate returns the most recent stored date for period, or
// "" when nothing is stored.
func (r *BoxOfficeRepository) LatestBoxOfficeDate(ctx context.Context, period domain.Period) (string, error) {
	var latest sql.NullString
	err := r.db.WithContext(ctx).Model(&domain.BoxOfficeRecord{}).
		Where("period = ?", period).
		Select("MAX(date)").
		Scan(&latest).Error
	if err != nil {
		return "", err
	}
	return latest.String, nil
}

// ListByDate returns the ranking for one date and period ordered by rank.
func (r *BoxOfficeRepository) ListByDate(ctx context.Context, date string, period domain.Period) ([]domain.BoxOfficeRecord, error) {
	var records []domain.BoxOfficeRecord
	err := r.db.WithContext(ctx).
		Where("date = ? AND period = ?", date, period).
		Order("rank ASC").
		Find(&records).Error
	return records, err
}

// Count returns the number of stored box office rows.
func (r *BoxOfficeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BoxOfficeRecord{}).Count(&count).Error
	return count, err
}
