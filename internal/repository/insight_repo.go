package repository

import (
	"context"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsightRepository handles write-once insight articles.
type InsightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new InsightRepository.
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// GetInsightIDs returns the id of every stored article.
// Returns:
//   - []string: stored ids in no particular order.
//   - error: non-nil if the query fails.
func (r *InsightRepository) GetInsightIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&domain.InsightArticle{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpsertInsight stores an article unless its id already exists. Stored
// articles are never overwritten.
func (r *InsightRepository) UpsertInsight(ctx context.Context, article *domain.InsightArticle) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(article).Error
}

// Count returns the number of stored articles.
func (r *InsightRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.InsightArticle{}).Count(&count).Error
	return count, err
}
