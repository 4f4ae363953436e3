package domain

import "time"

// BoxOfficeRecord is one movie's position in a box office ranking.
// Identity is (MovieID, Date, Period).
type BoxOfficeRecord struct {
	MovieID         int64     `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	Date            string    `gorm:"primaryKey;type:text;index:idx_box_office_date" json:"date"`
	Period          Period    `gorm:"primaryKey;type:text" json:"period"`
	MovieTitle      string    `gorm:"type:text" json:"movie_title"`
	Rank            int       `json:"rank"`
	Admissions      int64     `json:"admissions"`
	TotalAdmissions int64     `json:"total_admissions"`
	Showtimes       *int      `json:"showtimes,omitempty"`
	MarketShare     *float64  `json:"market_share,omitempty"`
	RankChange      *int      `json:"rank_change,omitempty"`
	AdmissionChange *float64  `json:"admission_change,omitempty"`
	ScrapedAt       time.Time `json:"scraped_at"`
}

// TableName returns the database table name for BoxOfficeRecord.
func (BoxOfficeRecord) TableName() string {
	return "box_office_records"
}
