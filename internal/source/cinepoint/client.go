package cinepoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://cinepoint.com/bff/v1"
	DefaultUserAgent = "CineRadar-Spider/1.0"
)

// ErrMissingToken is returned by NewClient when no access token is configured.
var ErrMissingToken = errors.New("cinepoint: access token is required")

// APIError is a non-2xx answer from the BFF API.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cinepoint API error %d on %s: %s", e.Status, e.Path, e.Body)
}

// Config holds configuration for the Cinepoint client.
type Config struct {
	BaseURL      string
	AccessToken  string
	UserAgent    string
	RequestDelay time.Duration // minimum spacing between requests
	Timeout      time.Duration // per attempt
	MaxRetries   int           // retries on HTTP 429 only
	RetryBackoff time.Duration // first 429 backoff, doubled per attempt
	Logger       *logger.Logger // receives resty diagnostics; nil uses the default
}

// PageArchiver receives the raw body of every list page fetched.
type PageArchiver interface {
	ArchivePage(ctx context.Context, kind, unit string, page int, body []byte) error
}

// Client talks to the Cinepoint BFF API. Requests are paced by a shared
// limiter, so one Client must not be used to parallelize a scrape.
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	archiver PageArchiver
}

// NewClient creates a new Cinepoint client.
// Parameters:
//   - cfg: client configuration; zero values fall back to defaults.
// Returns:
//   - *Client: initialized client.
//   - error: ErrMissingToken when no access token is set.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 5 * time.Second
	}

	log := cfg.Logger
	if log == nil {
		log = logger.GetDefault()
	}

	backoff := cfg.RetryBackoff
	client := resty.New().
		SetLogger(log.WithField(logger.FieldComponent, "cinepoint")).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(backoff).
		SetRetryMaxWaitTime(backoff << cfg.MaxRetries).
		AddRetryCondition(func(r *resty.Response, _ error) bool {
			return r != nil && r.StatusCode() == http.StatusTooManyRequests
		}).
		SetRetryAfter(func(_ *resty.Client, r *resty.Response) (time.Duration, error) {
			attempt := 1
			if r != nil && r.Request != nil && r.Request.Attempt > 0 {
				attempt = r.Request.Attempt
			}
			return backoff << (attempt - 1), nil
		})

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// SetArchiver attaches a raw page archiver. Nil disables archiving.
func (c *Client) SetArchiver(a PageArchiver) {
	c.archiver = a
}

// get performs one paced GET and returns the raw 2xx body.
func (c *Client) get(ctx context.Context, path string, query map[string]string, pathParams map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}

	logger.CtxDebug(ctx, "[cinepoint] GET %s %v", path, query)
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("cinepoint GET %s: %w", path, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{Status: resp.StatusCode(), Path: path, Body: truncate(string(resp.Body()), 512)}
	}
	return resp.Body(), nil
}

// listPage fetches and decodes one list page, archiving its raw body.
func listPage[T any](ctx context.Context, c *Client, kind, unit, path string, query map[string]string, page int) (*ListData[T], error) {
	body, err := c.get(ctx, path, query, nil)
	if err != nil {
		return nil, err
	}

	var env Envelope[ListData[T]]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s page %d: %w", path, page, err)
	}

	if c.archiver != nil {
		if err := c.archiver.ArchivePage(ctx, kind, unit, page, body); err != nil {
			logger.CtxWarn(ctx, "[cinepoint] archive %s page %d failed: %v", kind, page, err)
		}
	}
	return &env.Data, nil
}

// detail fetches and decodes a single-object endpoint.
func detail[T any](ctx context.Context, c *Client, path string, query, pathParams map[string]string) (*T, error) {
	body, err := c.get(ctx, path, query, pathParams)
	if err != nil {
		return nil, err
	}
	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &env.Data, nil
}

func pageQuery(page, limit int) map[string]string {
	return map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
