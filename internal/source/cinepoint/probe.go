package cinepoint

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/domain"
)

// ProbeResult describes one endpoint checked by Probe.
type ProbeResult struct {
	Endpoint string   `json:"endpoint"`
	OK       bool     `json:"ok"`
	Status   int      `json:"status,omitempty"`
	Total    int      `json:"total,omitempty"`
	Keys     []string `json:"keys,omitempty"` // top-level keys of the first item
	Error    string   `json:"error,omitempty"`
}

// Probe fetches one small page from every list endpoint, then the detail
// endpoints for the first movie and article found, and reports what came
// back. It never writes anything.
func (c *Client) Probe(ctx context.Context, today time.Time) []ProbeResult {
	var results []ProbeResult
	var movieID int64
	var slug string

	list := func(name, path string, query map[string]string) []json.RawMessage {
		res := ProbeResult{Endpoint: name}
		body, err := c.get(ctx, path, query, nil)
		if err != nil {
			res.Error = err.Error()
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				res.Status = apiErr.Status
			}
			results = append(results, res)
			return nil
		}
		var env Envelope[ListData[json.RawMessage]]
		if err := json.Unmarshal(body, &env); err != nil {
			res.Error = err.Error()
			results = append(results, res)
			return nil
		}
		res.OK = true
		res.Status = env.Status.Int()
		res.Total = env.Data.Total.Int()
		if len(env.Data.Items) > 0 {
			res.Keys = objectKeys(env.Data.Items[0])
		}
		results = append(results, res)
		return env.Data.Items
	}

	if items := list("movies/directory", "/movies/directory", pageQuery(0, 3)); len(items) > 0 {
		var m MovieItem
		if json.Unmarshal(items[0], &m) == nil {
			movieID = m.ID.Value
		}
	}
	q := pageQuery(0, 3)
	q["date_end"] = domain.FormatDate(today)
	list("movies/daily-showtime", "/movies/daily-showtime", q)
	q = pageQuery(0, 3)
	q["type"] = "all"
	list("home/box-office/daily", "/home/box-office/daily", q)
	if items := list("insights", "/insights", pageQuery(0, 3)); len(items) > 0 {
		var it InsightItem
		if json.Unmarshal(items[0], &it) == nil {
			slug = it.Slug
		}
	}

	if movieID > 0 {
		res := ProbeResult{Endpoint: "movies/directory/detail"}
		if _, err := c.MovieDetail(ctx, movieID); err != nil {
			res.Error = err.Error()
		} else {
			res.OK = true
		}
		results = append(results, res)

		res = ProbeResult{Endpoint: "movies/top-box-office/daily/detail"}
		if data, err := c.BoxOfficeDetail(ctx, movieID, domain.PeriodDaily); err != nil {
			res.Error = err.Error()
		} else {
			res.OK = true
			res.Keys = mapKeys(data)
		}
		results = append(results, res)
	}
	if slug != "" {
		res := ProbeResult{Endpoint: "insights/detail"}
		if _, err := c.InsightDetail(ctx, slug); err != nil {
			res.Error = err.Error()
		} else {
			res.OK = true
		}
		results = append(results, res)
	}
	return results
}

func objectKeys(raw json.RawMessage) []string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return mapKeys(obj)
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
