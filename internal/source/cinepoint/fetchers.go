package cinepoint

import (
	"context"
	"strconv"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
	"github.com/cineradar/cinepoint-sync/internal/source"
)

// Archive kinds, also used as the first segment of archived page keys.
const (
	KindMovies    = "movies"
	KindShowtimes = "showtimes"
	KindBoxOffice = "box_office"
	KindInsights  = "insights"
)

func toPage[T any](data *ListData[T]) *source.Page[T] {
	return &source.Page[T]{Items: data.Items, Total: data.Total.Int()}
}

// Movies pages through the movie directory. An empty status lists every
// movie.
func (c *Client) Movies(status string) source.PageFetcher[MovieItem] {
	unit := status
	if unit == "" {
		unit = "all"
	}
	return func(ctx context.Context, page, limit int) (*source.Page[MovieItem], error) {
		q := pageQuery(page, limit)
		if status != "" {
			q["status"] = status
		}
		data, err := listPage[MovieItem](ctx, c, KindMovies, unit, "/movies/directory", q, page)
		if err != nil {
			return nil, err
		}
		return toPage(data), nil
	}
}

// Showtimes pages through the daily showtime ranking ending on date.
func (c *Client) Showtimes(date time.Time) source.PageFetcher[ShowtimeItem] {
	day := domain.FormatDate(date)
	return func(ctx context.Context, page, limit int) (*source.Page[ShowtimeItem], error) {
		q := pageQuery(page, limit)
		q["date_end"] = day
		data, err := listPage[ShowtimeItem](ctx, c, KindShowtimes, day, "/movies/daily-showtime", q, page)
		if err != nil {
			return nil, err
		}
		return toPage(data), nil
	}
}

// BoxOffice pages through the box office ranking. The endpoint serves the
// current ranking only; date and period label the unit being archived.
func (c *Client) BoxOffice(date time.Time, period domain.Period) source.PageFetcher[BoxOfficeItem] {
	unit := string(period) + "-" + domain.FormatDate(date)
	return func(ctx context.Context, page, limit int) (*source.Page[BoxOfficeItem], error) {
		q := pageQuery(page, limit)
		q["type"] = "all"
		data, err := listPage[BoxOfficeItem](ctx, c, KindBoxOffice, unit, "/home/box-office/daily", q, page)
		if err != nil {
			return nil, err
		}
		return toPage(data), nil
	}
}

// Insights pages through the article list.
func (c *Client) Insights() source.PageFetcher[InsightItem] {
	return func(ctx context.Context, page, limit int) (*source.Page[InsightItem], error) {
		data, err := listPage[InsightItem](ctx, c, KindInsights, "list", "/insights", pageQuery(page, limit), page)
		if err != nil {
			return nil, err
		}
		return toPage(data), nil
	}
}

// InsightDetail fetches the full article for slug.
func (c *Client) InsightDetail(ctx context.Context, slug string) (*InsightDetail, error) {
	return detail[InsightDetail](ctx, c, "/insights/{slug}", nil, map[string]string{"slug": slug})
}

// MovieDetail fetches one directory entry by id.
func (c *Client) MovieDetail(ctx context.Context, id int64) (*MovieItem, error) {
	return detail[MovieItem](ctx, c, "/movies/directory/detail/{id}", nil,
		map[string]string{"id": strconv.FormatInt(id, 10)})
}

// BoxOfficeDetail fetches the per-period box office breakdown of one movie.
// The payload shape varies by period and is returned undecoded.
func (c *Client) BoxOfficeDetail(ctx context.Context, movieID int64, period domain.Period) (map[string]any, error) {
	data, err := detail[map[string]any](ctx, c, "/movies/top-box-office/{period}/detail",
		map[string]string{"movie_id": strconv.FormatInt(movieID, 10)},
		map[string]string{"period": string(period)})
	if err != nil {
		return nil, err
	}
	return *data, nil
}
