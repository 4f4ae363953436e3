package domain

import "time"

// ShowtimeRanking is one movie's share of screenings on a date.
// Identity is (MovieID, Date).
type ShowtimeRanking struct {
	MovieID            int64     `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	Date               string    `gorm:"primaryKey;type:text;index:idx_showtime_date" json:"date"`
	MovieTitle         string    `gorm:"type:text" json:"movie_title"`
	Rank               int       `json:"rank"`
	ShowtimeCount      int       `json:"showtime_count"`
	ShowtimeChange     int       `json:"showtime_change"`
	MarketSharePercent float64   `json:"market_share_percent"`
	ScrapedAt          time.Time `json:"scraped_at"`
}

// TableName returns the database table name for ShowtimeRanking.
func (ShowtimeRanking) TableName() string {
	return "showtime_rankings"
}
