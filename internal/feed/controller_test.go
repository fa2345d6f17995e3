package feed

import (
	"errors"
	"testing"

	"github.com/Ahilan-1/openground/internal/api"
)

func stories(ids ...string) []api.StorySummary {
	out := make([]api.StorySummary, len(ids))
	for i, id := range ids {
		out[i] = api.StorySummary{ID: id, Title: "Story " + id}
	}
	return out
}

func ok(req PageRequest, total int, items []api.StorySummary) PageResult {
	return PageResult{Req: req, Page: api.Page{Total: total, Items: items}}
}

func TestInitialLoadReplacesList(t *testing.T) {
	c := New(30)
	req := c.Reload()

	if !c.Loading() {
		t.Error("expected loading=true while request is in flight")
	}
	if req.Offset != 0 || req.Category != "All" {
		t.Errorf("unexpected initial request: %+v", req)
	}

	if !c.Apply(ok(req, 2, stories("a", "b"))) {
		t.Fatal("result for current generation should apply")
	}
	if c.Loading() {
		t.Error("loading should clear after apply")
	}
	if got := len(c.Stories()); got != 2 {
		t.Fatalf("expected 2 stories, got %d", got)
	}
	if c.HasMore() {
		t.Error("2 of 2 loaded, hasMore should be false")
	}
}

func TestLoadMoreAppends(t *testing.T) {
	c := New(2)
	req := c.Reload()
	c.Apply(ok(req, 5, stories("a", "b")))

	if !c.HasMore() {
		t.Fatal("2 of 5 loaded, hasMore should be true")
	}

	req2, started := c.LoadMore()
	if !started {
		t.Fatal("LoadMore should start a fetch")
	}
	if req2.Offset != 2 {
		t.Errorf("expected offset 2, got %d", req2.Offset)
	}
	c.Apply(ok(req2, 5, stories("c", "d")))

	got := c.Stories()
	if len(got) != 4 {
		t.Fatalf("expected 4 accumulated stories, got %d", len(got))
	}
	want := []string{"a", "b", "c", "d"}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("story %d = %s, want %s", i, s.ID, want[i])
		}
	}
	if !c.HasMore() {
		t.Error("4 of 5 loaded, hasMore should be true")
	}
}

func TestLoadMoreNoopWhenExhausted(t *testing.T) {
	c := New(30)
	req := c.Reload()
	c.Apply(ok(req, 2, stories("a", "b")))

	if _, started := c.LoadMore(); started {
		t.Error("LoadMore with hasMore=false should not fetch")
	}
	if c.Offset() != 0 {
		t.Errorf("offset should be unchanged, got %d", c.Offset())
	}
}

func TestLoadMoreDuplicateTriggerDropped(t *testing.T) {
	c := New(2)
	req := c.Reload()
	c.Apply(ok(req, 10, stories("a", "b")))

	req2, started := c.LoadMore()
	if !started {
		t.Fatal("first LoadMore should start")
	}
	if _, started := c.LoadMore(); started {
		t.Error("second LoadMore before the first resolves should be dropped")
	}
	if c.Offset() != 2 {
		t.Errorf("offset should advance exactly once, got %d", c.Offset())
	}
	c.Apply(ok(req2, 10, stories("c", "d")))
	if len(c.Stories()) != 4 {
		t.Errorf("expected 4 stories, got %d", len(c.Stories()))
	}
}

func TestStaleResponseDiscardedAfterCategorySwitch(t *testing.T) {
	c := New(30)
	oldReq := c.Reload()

	newReq, switched := c.SetCategory("World")
	if !switched {
		t.Fatal("category switch should start a fresh load")
	}

	// The old fetch lands after the switch.
	if c.Apply(ok(oldReq, 50, stories("stale1", "stale2"))) {
		t.Error("stale response should be discarded")
	}
	if len(c.Stories()) != 0 {
		t.Errorf("stale items must not land, got %d stories", len(c.Stories()))
	}
	if !c.Loading() {
		t.Error("newer fetch is still in flight, loading must stay true")
	}

	c.Apply(ok(newReq, 1, stories("w1")))
	if len(c.Stories()) != 1 || c.Stories()[0].ID != "w1" {
		t.Errorf("expected only the new category's stories, got %+v", c.Stories())
	}
}

func TestSetCategorySameIsNoop(t *testing.T) {
	c := New(30)
	req := c.Reload()
	c.Apply(ok(req, 1, stories("a")))

	if _, started := c.SetCategory("All"); started {
		t.Error("selecting the active category should be a no-op")
	}
	if len(c.Stories()) != 1 {
		t.Error("no-op category select must not clear the list")
	}
}

func TestSearchDebounceCoalescing(t *testing.T) {
	c := New(30)
	req := c.Reload()
	c.Apply(ok(req, 1, stories("a")))

	// Three rapid keystrokes; only the last commit may fire.
	t1 := c.QueueSearch("u")
	t2 := c.QueueSearch("uk")
	t3 := c.QueueSearch("ukraine")

	if _, fired := c.CommitSearch(t1); fired {
		t.Error("superseded token must not fetch")
	}
	if _, fired := c.CommitSearch(t2); fired {
		t.Error("superseded token must not fetch")
	}
	req2, fired := c.CommitSearch(t3)
	if !fired {
		t.Fatal("latest token should fetch")
	}
	if req2.Query != "ukraine" {
		t.Errorf("fetch should use final text, got %q", req2.Query)
	}
	if req2.Offset != 0 {
		t.Errorf("search should reset offset, got %d", req2.Offset)
	}
	if len(c.Stories()) != 0 {
		t.Error("search should clear accumulated stories")
	}
}

func TestCommitSearchUnchangedTextIsNoop(t *testing.T) {
	c := New(30)
	c.Apply(ok(c.Reload(), 1, stories("a")))

	tok := c.QueueSearch("")
	if _, fired := c.CommitSearch(tok); fired {
		t.Error("committing the current query should not fetch")
	}
}

func TestFailureKeepsAccumulatedAndRetainsError(t *testing.T) {
	c := New(2)
	c.Apply(ok(c.Reload(), 6, stories("a", "b")))

	req, _ := c.LoadMore()
	c.Apply(PageResult{Req: req, Err: errors.New("boom")})

	if c.Loading() {
		t.Error("loading must clear on failure")
	}
	if len(c.Stories()) != 2 {
		t.Errorf("failure must leave accumulated list unchanged, got %d", len(c.Stories()))
	}
	if c.Err() == nil {
		t.Error("error context should be retained for display")
	}
	if c.Offset() != 0 {
		t.Errorf("failed advance should roll back, got offset %d", c.Offset())
	}

	// Retry re-requests the same window and clears the error.
	req2, started := c.LoadMore()
	if !started || req2.Offset != 2 {
		t.Fatalf("retry should re-request offset 2, got %+v started=%v", req2, started)
	}
	c.Apply(ok(req2, 6, stories("c", "d")))
	if c.Err() != nil {
		t.Error("error should clear on next successful load")
	}
}

func TestReloadAfterRefreshResetsMidEdit(t *testing.T) {
	c := New(2)
	c.Apply(ok(c.Reload(), 4, stories("a", "b")))
	c.QueueSearch("pending text never committed")

	req := c.Reload()
	if req.Offset != 0 {
		t.Errorf("refresh reload should request page 0, got offset %d", req.Offset)
	}
	c.Apply(ok(req, 2, stories("x", "y")))

	got := c.Stories()
	if len(got) != 2 || got[0].ID != "x" {
		t.Errorf("reload should replace the list wholesale, got %+v", got)
	}
}

func TestDuplicateStoriesAcrossPagesDeduped(t *testing.T) {
	c := New(2)
	c.Apply(ok(c.Reload(), 4, stories("a", "b")))

	req, _ := c.LoadMore()
	// Server re-serves "b" at the page boundary.
	c.Apply(ok(req, 4, stories("b", "c")))

	got := c.Stories()
	if len(got) != 3 {
		t.Fatalf("expected deduped list of 3, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Errorf("story %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestAllDuplicatePageStopsPaging(t *testing.T) {
	c := New(2)
	c.Apply(ok(c.Reload(), 10, stories("a", "b")))

	req, _ := c.LoadMore()
	c.Apply(ok(req, 10, stories("a", "b")))

	if c.HasMore() {
		t.Error("a page that adds nothing new should stop pagination")
	}
}
