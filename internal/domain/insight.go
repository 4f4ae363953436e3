package domain

import "time"

// DefaultInsightCategory applies when an article carries no category.
const DefaultInsightCategory = "general"

// InsightArticle is an industry article. Rows are written once and never
// overwritten.
type InsightArticle struct {
	ID          string     `gorm:"type:text;primaryKey" json:"id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Slug        string     `gorm:"type:text;index:idx_insights_slug" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Content     string     `gorm:"type:text" json:"content"`
	PublishedAt *time.Time `gorm:"index:idx_insights_published_at" json:"published_at,omitempty"`
	Category    string     `gorm:"type:text;index:idx_insights_category" json:"category"`
	ImageURL    string     `gorm:"type:text" json:"image_url,omitempty"`
	ScrapedAt   time.Time  `json:"scraped_at"`
}

// TableName returns the database table name for InsightArticle.
func (InsightArticle) TableName() string {
	return "insight_articles"
}
