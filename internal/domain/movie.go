package domain

import "time"

// MovieStatus is the lifecycle state reported by the movie directory.
type MovieStatus string

const (
	MovieStatusNowPlaying MovieStatus = "now_playing"
	MovieStatusUpcoming   MovieStatus = "upcoming"
	MovieStatusEnded      MovieStatus = "ended"
)

// Movie is one entry of the Cinepoint movie directory.
// Upserts replace the whole row.
type Movie struct {
	ID              int64       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title           string      `gorm:"type:text;not null" json:"title"`
	OriginalTitle   string      `gorm:"type:text" json:"original_title,omitempty"`
	PosterURL       string      `gorm:"type:text" json:"poster_url"`
	BackdropURL     string      `gorm:"type:text" json:"backdrop_url,omitempty"`
	Genres          StringArray `gorm:"type:text" json:"genres"`
	DurationMinutes int         `json:"duration_minutes"`
	ReleaseDate     string      `gorm:"type:text;index:idx_movies_release_date" json:"release_date"`
	Country         string      `gorm:"type:text" json:"country"`
	Rating          string      `gorm:"type:text" json:"rating"`
	Synopsis        string      `gorm:"type:text" json:"synopsis"`
	Cast            StringArray `gorm:"type:text" json:"cast"`
	Directors       StringArray `gorm:"type:text" json:"directors"`
	CinepointScore  *float64    `json:"cinepoint_score,omitempty"`
	TotalAdmissions *int64      `json:"total_admissions,omitempty"`
	Status          MovieStatus `gorm:"type:text;index:idx_movies_status" json:"status"`
	LastUpdated     time.Time   `json:"last_updated"`
}

// TableName returns the database table name for Movie.
func (Movie) TableName() string {
	return "movies"
}
