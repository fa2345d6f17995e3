package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxRetries = 3
	userAgent  = "openground-tui/1.0"
)

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d for %s", e.Status, e.Path)
}

// DecodeError is a 2xx response whose body was not the expected JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the server, e.g. a story
// that no longer exists after a rebuild.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Client talks to an OpenGround server.
type Client struct {
	base       string
	http       *http.Client
	refreshGov *rate.Limiter
}

// New returns a client for the server at base (e.g. "http://localhost:8000").
func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
		// One refresh per 10s with a burst of 1: a held-down key in the
		// TUI must not stampede the server's re-ingestion.
		refreshGov: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string { return c.base }

// StoriesQuery selects one window of the filtered story list.
type StoriesQuery struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}

// Stories fetches one page of stories.
func (c *Client) Stories(ctx context.Context, q StoriesQuery) (Page, error) {
	vals := url.Values{}
	if q.Category != "" {
		vals.Set("category", q.Category)
	}
	if q.Query != "" {
		vals.Set("q", q.Query)
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		vals.Set("offset", strconv.Itoa(q.Offset))
	}
	path := "/api/stories"
	if len(vals) > 0 {
		path += "?" + vals.Encode()
	}
	var page Page
	if err := c.getJSON(ctx, path, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Story fetches the full record for one story.
func (c *Client) Story(ctx context.Context, id string) (StoryDetail, error) {
	var d StoryDetail
	err := c.getJSON(ctx, "/api/story/"+url.PathEscape(id), &d)
	return d, err
}

// Timeline fetches the coverage timeline for one story.
func (c *Client) Timeline(ctx context.Context, id string) (Timeline, error) {
	var t Timeline
	err := c.getJSON(ctx, "/api/story/"+url.PathEscape(id)+"/timeline", &t)
	return t, err
}

// Categories fetches the category list (includes "All").
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var body struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, "/api/categories", &body); err != nil {
		return nil, err
	}
	return body.Categories, nil
}

// Trending fetches the current trending topics.
func (c *Client) Trending(ctx context.Context) ([]TrendingTopic, error) {
	var body struct {
		Topics []TrendingTopic `json:"topics"`
	}
	if err := c.getJSON(ctx, "/api/trending", &body); err != nil {
		return nil, err
	}
	return body.Topics, nil
}

// Blindspots fetches stories with lopsided coverage. minCoverage <= 0
// uses the server default.
func (c *Client) Blindspots(ctx context.Context, minCoverage int) ([]BlindspotItem, error) {
	path := "/api/blindspots"
	if minCoverage > 0 {
		path += "?min_cov=" + strconv.Itoa(minCoverage)
	}
	var body struct {
		Items []BlindspotItem `json:"items"`
	}
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}

// Meta fetches the server's database summary.
func (c *Client) Meta(ctx context.Context) (Meta, error) {
	var m Meta
	err := c.getJSON(ctx, "/api/meta", &m)
	return m, err
}

// ErrRefreshThrottled means a refresh was requested too soon after the
// previous one and was not sent.
var ErrRefreshThrottled = errors.New("refresh throttled, try again shortly")

// Refresh asks the server to re-ingest feeds and rebuild stories. The
// call is safe to retry but is throttled client-side; it is never
// retried automatically because re-ingestion is slow.
func (c *Client) Refresh(ctx context.Context) (RefreshResult, error) {
	if !c.refreshGov.Allow() {
		return RefreshResult{}, ErrRefreshThrottled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/refresh", bytes.NewReader(nil))
	if err != nil {
		return RefreshResult{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("refreshing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RefreshResult{}, &StatusError{Status: resp.StatusCode, Path: "/api/refresh"}
	}

	var result RefreshResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return RefreshResult{}, &DecodeError{Path: "/api/refresh", Err: err}
	}
	return result, nil
}

// getJSON performs a GET with bounded retries on 5xx and decodes the
// body into out. 4xx responses are never retried.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// 100ms, 200ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		resp, err = c.http.Do(req)
		if err != nil {
			lastErr = err
			resp = nil
			continue
		}
		if resp.StatusCode < 500 {
			break
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = &StatusError{Status: resp.StatusCode, Path: path}
		resp = nil
	}

	if resp == nil {
		return fmt.Errorf("requesting %s: %w", path, lastErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Status: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
