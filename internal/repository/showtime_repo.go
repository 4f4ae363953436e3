package repository

import (
	"context"
	"database/sql"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShowtimeRepository handles daily showtime ranking rows.
type ShowtimeRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewShowtimeRepository creates a new ShowtimeRepository.
func NewShowtimeRepository(db *gorm.DB, batchSize int) *ShowtimeRepository {
	return &ShowtimeRepository{db: db, batchSize: normalizeBatch(batchSize)}
}

// InsertShowtimeRankings stores rankings, overwriting rows with the same
// (movie_id, date). A key repeated within rankings keeps its last row.
func (r *ShowtimeRepository) InsertShowtimeRankings(ctx context.Context, rankings []domain.ShowtimeRanking) error {
	if len(rankings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "date"}},
		UpdateAll: true,
	}).CreateInBatches(lastByKey(rankings, showtimeKey), r.batchSize).Error
}

type showtimeID struct {
	movieID int64
	date    string
}

func showtimeKey(r domain.ShowtimeRanking) showtimeID {
	return showtimeID{r.MovieID, r.Date}
}

// LatestShowtimeDate returns the most recent stored date, or "".
func (r *ShowtimeRepository) LatestShowtimeDate(ctx context.Context) (string, error) {
	var latest sql.NullString
	err := r.db.WithContext(ctx).Model(&domain.ShowtimeRanking{}).
		Select("MAX(date)").
		Scan(&latest).Error
	if err != nil {
		return "", err
	}
	return latest.String, nil
}

// Count returns the number of stored showtime rows.
func (r *ShowtimeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ShowtimeRanking{}).Count(&count).Error
	return count, err
}
