package cinepoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Envelope is the {status, data} wrapper around every BFF response.
type Envelope[T any] struct {
	Status FlexInt `json:"status"`
	Data   T       `json:"data"`
}

// ListData is the data section of a paginated list response.
type ListData[T any] struct {
	Items []T     `json:"items"`
	Total FlexInt `json:"total"`
}

// FlexInt decodes a JSON number, a numeric string, or null.
// Valid is false when the field was absent, null, or unparsable.
type FlexInt struct {
	Value int64
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt{Value: n, Valid: true}
		return nil
	}
	// some counters arrive as 12.0
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt{Value: int64(x), Valid: true}
	}
	return nil
}

// Int returns the value or 0.
func (f FlexInt) Int() int { return int(f.Value) }

// Ptr returns nil when the value is missing.
func (f FlexInt) Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// IntPtr is Ptr narrowed to int.
func (f FlexInt) IntPtr() *int {
	if !f.Valid {
		return nil
	}
	v := int(f.Value)
	return &v
}

// FlexFloat decodes a JSON number, a numeric string, or null.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexFloat{Value: x, Valid: true}
	}
	return nil
}

// Ptr returns nil when the value is missing.
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexString decodes a JSON string or number into its string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// Person is a cast or crew entry.
type Person struct {
	Name string `json:"name"`
}

// MovieItem is one entry of /movies/directory.
type MovieItem struct {
	ID             FlexInt   `json:"id"`
	Title          string    `json:"title"`
	OriginalTitle  string    `json:"original_title"`
	Poster         string    `json:"poster"`
	Backdrop       string    `json:"backdrop"`
	Genre          []string  `json:"genre"`
	Duration       FlexInt   `json:"duration"`
	ReleaseDate    string    `json:"release_date"`
	Country        string    `json:"country"`
	Rating         string    `json:"rating"`
	Synopsis       string    `json:"synopsis"`
	Cast           []Person  `json:"cast"`
	Directors      []Person  `json:"directors"`
	Status         string    `json:"status"`
	CinepointScore FlexFloat `json:"cinepoint_score"`
	AdmissionTotal FlexInt   `json:"admission_total"`
}

// ShowtimeItem is one row of /movies/daily-showtime.
type ShowtimeItem struct {
	ID            FlexInt   `json:"id"`
	Title         string    `json:"title"`
	Poster        string    `json:"poster"`
	ShowtimePct   FlexFloat `json:"showtime_pct"`
	ShowtimeCount FlexInt   `json:"showtime_count"`
	ShowtimeDelta FlexInt   `json:"showtime_delta"`
	Rank          FlexInt   `json:"rank"`
}

// BoxOfficeItem is one row of /home/box-office/daily.
type BoxOfficeItem struct {
	ID             FlexInt   `json:"id"`
	Title          string    `json:"title"`
	Poster         string    `json:"poster"`
	Admission      FlexInt   `json:"admission"`
	AdmissionTotal FlexInt   `json:"admission_total"`
	Rank           FlexInt   `json:"rank"`
	RankDelta      FlexInt   `json:"rank_delta"`
	CinepointScore FlexFloat `json:"cinepoint_score"`
	Showtimes      FlexInt   `json:"showtime_count"`
	MarketShare    FlexFloat `json:"market_share"`
	AdmissionDelta FlexFloat `json:"admission_delta"`
}

// InsightItem is one entry of /insights.
type InsightItem struct {
	ID          FlexString `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	PublishedAt string     `json:"published_at"`
	Image       string     `json:"image"`
}

// Key is the dedup identity of a listed article: its id, or its slug when
// the id is absent.
func (i InsightItem) Key() string {
	if id := strings.TrimSpace(string(i.ID)); id != "" && id != "0" {
		return id
	}
	return strings.TrimSpace(i.Slug)
}

// InsightDetail is the data section of /insights/{slug}.
type InsightDetail struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	PublishedAt string `json:"published_at"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}
