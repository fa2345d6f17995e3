package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second)
}

func TestStoriesQueryEncoding(t *testing.T) {
	var gotPath, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"total":1,"items":[{"story_id":"s1","title":"T","lean":"Leans Left"}],"last_updated":"2026-08-23T10:00:00+00:00"}`))
	})

	page, err := c.Stories(context.Background(), StoriesQuery{
		Category: "World",
		Query:    "election",
		Limit:    30,
		Offset:   60,
	})
	if err != nil {
		t.Fatalf("Stories: %v", err)
	}
	if gotPath != "/api/stories" {
		t.Errorf("path = %q", gotPath)
	}
	want := "category=World&limit=30&offset=60&q=election"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != "s1" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestStoriesOmitsZeroParams(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"total":0,"items":[]}`))
	})

	if _, err := c.Stories(context.Background(), StoriesQuery{}); err != nil {
		t.Fatalf("Stories: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("expected no query params, got %q", gotQuery)
	}
}

func TestGetRetriesOn5xx(t *testing.T) {
	attempts := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"categories":["All","World"]}`))
	})

	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(cats) != 2 || cats[0] != "All" {
		t.Errorf("unexpected categories: %v", cats)
	}
}

func TestGetDoesNotRetry4xx(t *testing.T) {
	attempts := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found"}`))
	})

	_, err := c.Story(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if attempts != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", attempts)
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Errorf("expected StatusError 404, got %v", err)
	}
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"topics": [oops`))
	})

	_, err := c.Trending(context.Background())
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestStoryPathEscaping(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"story_id":"x"}`))
	})

	if _, err := c.Story(context.Background(), "ab/cd"); err != nil {
		t.Fatalf("Story: %v", err)
	}
	if gotPath != "/api/story/ab%2Fcd" {
		t.Errorf("path = %q, want escaped id", gotPath)
	}
}

func TestTimelineDecoding(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/story/s1/timeline" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"first_reported_by": {"publisher":"Reuters","timestamp":"2026-08-22T08:00:00+00:00","bias_bucket":"center","title":"First"},
			"coverage_span_hours": 18.5,
			"total_articles": 7,
			"phases": [{"phase_number":1,"start_time":"2026-08-22T08:00:00+00:00","article_count":4,"bias_distribution":{"left":1,"center":2,"right":1,"unknown":0},"dominant_bias":"mixed"}],
			"narrative_shifts": [{"phase_index":1,"description":"Coverage shifted"}],
			"timeline_items": []
		}`))
	})

	tl, err := c.Timeline(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if tl.FirstReportedBy == nil || tl.FirstReportedBy.Publisher != "Reuters" {
		t.Errorf("first_reported_by = %+v", tl.FirstReportedBy)
	}
	if tl.SpanHours != 18.5 || tl.TotalArticles != 7 {
		t.Errorf("span/total = %v/%d", tl.SpanHours, tl.TotalArticles)
	}
	if len(tl.Phases) != 1 || tl.Phases[0].BiasCounts.Center != 2 {
		t.Errorf("phases = %+v", tl.Phases)
	}
}

func TestBlindspotsMinCoverage(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"items":[{"story_id":"s1","kind":"Left blindspot"}]}`))
	})

	items, err := c.Blindspots(context.Background(), 6)
	if err != nil {
		t.Fatalf("Blindspots: %v", err)
	}
	if gotQuery != "min_cov=6" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(items) != 1 || items[0].Kind != "Left blindspot" {
		t.Errorf("items = %+v", items)
	}
}

func TestRefreshPostsAndDecodes(t *testing.T) {
	var gotMethod string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"ok":true,"added_articles":12,"stories":340}`))
	})

	res, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if !res.OK || res.AddedArticles != 12 || res.Stories != 340 {
		t.Errorf("result = %+v", res)
	}
}

func TestRefreshThrottled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	_, err := c.Refresh(context.Background())
	if !errors.Is(err, ErrRefreshThrottled) {
		t.Errorf("immediate second refresh should throttle, got %v", err)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2026-08-23T10:00:00+00:00", true},
		{"2026-08-23T10:00:00.123456+00:00", true},
		{"2026-08-23T10:00:00", true},
		{"", false},
		{"not a time", false},
	}
	for _, tt := range tests {
		_, ok := ParseTime(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
	}
}
