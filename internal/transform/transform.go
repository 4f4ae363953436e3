// Package transform maps raw Cinepoint items onto domain records.
// Every function here is pure: no network or storage access.
package transform

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source/cinepoint"
)

// DefaultRating is the least restrictive Indonesian film classification.
const DefaultRating = "SU"

// ExcerptLength bounds excerpts derived from article content, in runes.
const ExcerptLength = 280

// ErrMissingField marks an item without a mandatory identity field.
// Only that item is dropped.
var ErrMissingField = errors.New("missing mandatory field")

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// Movie maps a directory entry onto a Movie.
func Movie(item cinepoint.MovieItem, now time.Time) (domain.Movie, error) {
	if item.ID.Value <= 0 {
		return domain.Movie{}, missing("id")
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.Movie{}, missing("title")
	}

	rating := strings.TrimSpace(item.Rating)
	if rating == "" {
		rating = DefaultRating
	}

	return domain.Movie{
		ID:              item.ID.Value,
		Title:           title,
		OriginalTitle:   strings.TrimSpace(item.OriginalTitle),
		PosterURL:       item.Poster,
		BackdropURL:     item.Backdrop,
		Genres:          nonEmpty(item.Genre),
		DurationMinutes: item.Duration.Int(),
		ReleaseDate:     item.ReleaseDate,
		Country:         item.Country,
		Rating:          rating,
		Synopsis:        item.Synopsis,
		Cast:            names(item.Cast),
		Directors:       names(item.Directors),
		CinepointScore:  item.CinepointScore.Ptr(),
		TotalAdmissions: item.AdmissionTotal.Ptr(),
		Status:          movieStatus(item.Status),
		LastUpdated:     now.UTC(),
	}, nil
}

// Showtime maps a daily showtime row for date onto a ShowtimeRanking.
func Showtime(item cinepoint.ShowtimeItem, date time.Time, now time.Time) (domain.ShowtimeRanking, error) {
	if item.ID.Value <= 0 {
		return domain.ShowtimeRanking{}, missing("id")
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.ShowtimeRanking{}, missing("title")
	}
	return domain.ShowtimeRanking{
		MovieID:            item.ID.Value,
		Date:               domain.FormatDate(date),
		MovieTitle:         title,
		Rank:               item.Rank.Int(),
		ShowtimeCount:      item.ShowtimeCount.Int(),
		ShowtimeChange:     item.ShowtimeDelta.Int(),
		MarketSharePercent: item.ShowtimePct.Value,
		ScrapedAt:          now.UTC(),
	}, nil
}

// BoxOffice maps a ranking row onto a BoxOfficeRecord for (date, period).
func BoxOffice(item cinepoint.BoxOfficeItem, date time.Time, period domain.Period, now time.Time) (domain.BoxOfficeRecord, error) {
	if item.ID.Value <= 0 {
		return domain.BoxOfficeRecord{}, missing("id")
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.BoxOfficeRecord{}, missing("title")
	}
	if period == "" {
		period = domain.PeriodDaily
	}
	return domain.BoxOfficeRecord{
		MovieID:         item.ID.Value,
		Date:            domain.FormatDate(date),
		Period:          period,
		MovieTitle:      title,
		Rank:            item.Rank.Int(),
		Admissions:      item.Admission.Value,
		TotalAdmissions: item.AdmissionTotal.Value,
		Showtimes:       item.Showtimes.IntPtr(),
		MarketShare:     item.MarketShare.Ptr(),
		RankChange:      item.RankDelta.IntPtr(),
		AdmissionChange: item.AdmissionDelta.Ptr(),
		ScrapedAt:       now.UTC(),
	}, nil
}

// Insight merges a listed article with its detail. Detail fields win over
// list fields when both are present.
func Insight(item cinepoint.InsightItem, detail cinepoint.InsightDetail, now time.Time) (domain.InsightArticle, error) {
	id := item.Key()
	if id == "" {
		return domain.InsightArticle{}, missing("id")
	}
	title := firstNonEmpty(detail.Title, item.Title)
	if title == "" {
		return domain.InsightArticle{}, missing("title")
	}

	excerpt := strings.TrimSpace(item.Excerpt)
	if excerpt == "" {
		excerpt = Excerpt(detail.Content, ExcerptLength)
	}

	return domain.InsightArticle{
		ID:          id,
		Title:       title,
		Slug:        item.Slug,
		Excerpt:     excerpt,
		Content:     detail.Content,
		PublishedAt: parseTimestamp(firstNonEmpty(detail.PublishedAt, item.PublishedAt)),
		Category:    firstNonEmpty(detail.Category, domain.DefaultInsightCategory),
		ImageURL:    firstNonEmpty(detail.Image, item.Image),
		ScrapedAt:   now.UTC(),
	}, nil
}

// Excerpt renders HTML as plain text with collapsed whitespace. Text longer
// than n runes is cut on a word boundary when possible and ends with an
// ellipsis, n runes at most.
func Excerpt(html string, n int) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("script, style").Remove()
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}

	if n <= 1 {
		return string([]rune(text)[:n])
	}
	cut := string([]rune(text)[:n-1])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func movieStatus(s string) domain.MovieStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return domain.MovieStatusNowPlaying
	}
	return domain.MovieStatus(s)
}

func names(people []cinepoint.Person) domain.StringArray {
	out := make(domain.StringArray, 0, len(people))
	for _, p := range people {
		if name := strings.TrimSpace(p.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func nonEmpty(values []string) domain.StringArray {
	out := make(domain.StringArray, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
