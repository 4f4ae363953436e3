package repository

import (
	"context"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieRepository handles movie directory rows.
type MovieRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewMovieRepository creates a new MovieRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//   - batchSize: maximum rows per INSERT statement.
func NewMovieRepository(db *gorm.DB, batchSize int) *MovieRepository {
	return &MovieRepository{db: db, batchSize: normalizeBatch(batchSize)}
}

// UpsertMovies inserts movies, replacing every column of rows whose id exists.
func (r *MovieRepository) UpsertMovies(ctx context.Context, movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(lastByKey(movies, func(m domain.Movie) int64 { return m.ID }), r.batchSize).Error
}

// GetByID retrieves a movie by its source id.
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	var movie domain.Movie
	if err := r.db.WithContext(ctx).First(&movie, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// Count returns the number of stored movies.
func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Movie{}).Count(&count).Error
	return count, err
}
