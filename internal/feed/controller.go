// Package feed owns the story list's query state: the active category,
// search text, pagination window, and the accumulated page results. It
// decides when a fetch should happen and how its result is merged; the
// actual HTTP call and the scheduling of debounce timers belong to the
// caller.
package feed

import (
	"time"

	"github.com/Ahilan-1/openground/internal/api"
)

// DefaultCategory matches the server's catch-all category.
const DefaultCategory = "All"

// DebounceInterval is how long search input must settle before a fetch
// is issued.
const DebounceInterval = 300 * time.Millisecond

// PageRequest describes one fetch the controller wants performed. Gen
// ties the eventual result back to the filter state that produced it.
type PageRequest struct {
	Gen      int
	Category string
	Query    string
	Limit    int
	Offset   int
}

// PageResult is the outcome of a PageRequest.
type PageResult struct {
	Req  PageRequest
	Page api.Page
	Err  error
}

// Controller holds the query state for the story list view. Methods
// that start a load return a PageRequest and true; callers perform the
// fetch and hand the outcome back through Apply. All methods must be
// called from a single goroutine (the TUI update loop).
type Controller struct {
	limit    int
	category string
	query    string

	offset  int
	total   int
	hasMore bool
	loading bool

	// gen increments on every filter change so a response that arrives
	// after the filter moved on is recognizably stale.
	gen int

	// searchSeq invalidates queued search commits; only the newest
	// queued text survives the debounce window.
	searchSeq     int
	pendingSearch string

	stories     []api.StorySummary
	seen        map[string]bool
	lastErr     error
	lastUpdated string
}

func New(limit int) *Controller {
	if limit <= 0 {
		limit = 30
	}
	return &Controller{
		limit:    limit,
		category: DefaultCategory,
		seen:     make(map[string]bool),
	}
}

func (c *Controller) Stories() []api.StorySummary { return c.stories }
func (c *Controller) Category() string            { return c.category }
func (c *Controller) Query() string               { return c.query }
func (c *Controller) Loading() bool               { return c.loading }
func (c *Controller) HasMore() bool               { return c.hasMore }
func (c *Controller) Total() int                  { return c.total }
func (c *Controller) Offset() int                 { return c.offset }
func (c *Controller) LastUpdated() string         { return c.lastUpdated }

// Err returns the failure from the most recent load, or nil. It is
// cleared by the next successful load.
func (c *Controller) Err() error { return c.lastErr }

// Reload resets to page 0 of the current filter and starts a load. Used
// for the initial load, the retry affordance, and after a successful
// server refresh. Supersedes any in-flight fetch.
func (c *Controller) Reload() PageRequest {
	return c.restart()
}

// SetCategory switches the active category. Selecting the current
// category is a no-op. A switch supersedes any in-flight fetch: the old
// response will be discarded by Apply.
func (c *Controller) SetCategory(cat string) (PageRequest, bool) {
	if cat == "" {
		cat = DefaultCategory
	}
	if cat == c.category {
		return PageRequest{}, false
	}
	c.category = cat
	return c.restart(), true
}

// QueueSearch records a keystroke's worth of search text and returns a
// token for CommitSearch. Each call invalidates all earlier tokens, so
// of a burst of keystrokes only the last one's commit fires.
func (c *Controller) QueueSearch(text string) int {
	c.searchSeq++
	c.pendingSearch = text
	return c.searchSeq
}

// CommitSearch applies the queued search if token is still current.
// Returns false when a newer keystroke superseded this one or the text
// is unchanged.
func (c *Controller) CommitSearch(token int) (PageRequest, bool) {
	if token != c.searchSeq {
		return PageRequest{}, false
	}
	if c.pendingSearch == c.query {
		return PageRequest{}, false
	}
	c.query = c.pendingSearch
	return c.restart(), true
}

// ClearSearch drops the search term immediately (no debounce).
func (c *Controller) ClearSearch() (PageRequest, bool) {
	c.searchSeq++
	c.pendingSearch = ""
	if c.query == "" {
		return PageRequest{}, false
	}
	c.query = ""
	return c.restart(), true
}

// LoadMore advances the window by one page and starts an appending
// load. No-op while a load is in flight or when the server has no more
// matching stories.
func (c *Controller) LoadMore() (PageRequest, bool) {
	if c.loading || !c.hasMore {
		return PageRequest{}, false
	}
	c.offset += c.limit
	c.loading = true
	return c.request(), true
}

// Apply merges a fetch outcome. Results whose generation no longer
// matches are dropped wholesale: the filter changed while the request
// was in flight and a fresh load is already underway. Returns whether
// the result was applied.
func (c *Controller) Apply(res PageResult) bool {
	if res.Req.Gen != c.gen {
		return false
	}
	c.loading = false

	if res.Err != nil {
		c.lastErr = res.Err
		if res.Req.Offset > 0 {
			// Roll back the speculative advance so a retry re-requests
			// the same window.
			c.offset = res.Req.Offset - c.limit
		}
		return true
	}

	c.lastErr = nil
	c.total = res.Page.Total
	if res.Page.LastUpdated != "" {
		c.lastUpdated = res.Page.LastUpdated
	}

	if res.Req.Offset == 0 {
		c.stories = c.stories[:0]
		c.seen = make(map[string]bool)
	}
	added := 0
	for _, s := range res.Page.Items {
		if c.seen[s.ID] {
			continue
		}
		c.seen[s.ID] = true
		c.stories = append(c.stories, s)
		added++
	}

	c.hasMore = len(c.stories) < c.total
	// A non-empty window that yields nothing new means the server is
	// re-serving earlier items; stop paging rather than loop.
	if res.Req.Offset > 0 && added == 0 {
		c.hasMore = false
	}
	return true
}

// restart resets pagination for the current filter and begins a load.
func (c *Controller) restart() PageRequest {
	c.offset = 0
	c.total = 0
	c.hasMore = false
	c.stories = c.stories[:0]
	c.seen = make(map[string]bool)
	c.gen++
	c.loading = true
	return c.request()
}

func (c *Controller) request() PageRequest {
	return PageRequest{
		Gen:      c.gen,
		Category: c.category,
		Query:    c.query,
		Limit:    c.limit,
		Offset:   c.offset,
	}
}
