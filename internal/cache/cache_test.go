package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Ahilan-1/openground/internal/api"
)

func testDB(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleStories() []api.StorySummary {
	return []api.StorySummary{
		{
			ID: "s1", Title: "Senate passes budget", Category: "Politics",
			Coverage: 12, Freshness: 0.9, Lean: "Center-ish",
			BiasBar:  api.BiasBar{Left: 0.3, Center: 0.4, Right: 0.3},
			LastSeen: "2026-08-23T09:00:00+00:00",
		},
		{
			ID: "s2", Title: "Markets rally on jobs report", Category: "Business",
			Coverage: 6, Freshness: 0.8, Lean: "Leans Right", BiasScore: 0.4,
			BiasBar:  api.BiasBar{Right: 0.6, Unknown: 0.4},
			LastSeen: "2026-08-23T08:00:00+00:00",
		},
		{
			ID: "s3", Title: "Budget amendment stalls", Category: "Politics",
			Coverage: 2, Freshness: 0.1, Lean: "Leans Left", BiasScore: -0.3,
			LastSeen: "2026-08-21T12:00:00+00:00",
		},
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertStories(sampleStories()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, total, err := db.GetStories(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 3 || len(got) != 3 {
		t.Fatalf("expected 3 stories, got %d (total %d)", len(got), total)
	}
	// Highest freshness*coverage first, matching the server ordering.
	if got[0].ID != "s1" {
		t.Errorf("expected s1 first, got %s", got[0].ID)
	}
	if got[0].BiasBar.Center != 0.4 {
		t.Errorf("bias bar did not round-trip: %+v", got[0].BiasBar)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	stories := sampleStories()
	if err := db.UpsertStories(stories); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	stories[0].Coverage = 20
	stories[0].Title = "Senate passes budget after marathon session"
	if err := db.UpsertStories(stories[:1]); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, total, err := db.GetStories(QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 3 {
		t.Fatalf("re-upsert must not duplicate, total = %d", total)
	}
	if got[0].Coverage != 20 {
		t.Errorf("expected updated coverage, got %d", got[0].Coverage)
	}
}

func TestQueryCategory(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertStories(sampleStories()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, total, err := db.GetStories(QueryOpts{Category: "Politics"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("expected 2 Politics stories, got %d (total %d)", len(got), total)
	}

	// "All" behaves like no filter, as on the server.
	_, total, err = db.GetStories(QueryOpts{Category: "All"})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if total != 3 {
		t.Errorf("category All should match everything, total = %d", total)
	}
}

func TestQuerySearch(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertStories(sampleStories()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, total, err := db.GetStories(QueryOpts{Search: "budget"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("expected 2 matches for 'budget', got %d (total %d)", len(got), total)
	}
}

func TestQueryWindow(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertStories(sampleStories()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, total, err := db.GetStories(QueryOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if total != 3 {
		t.Errorf("total should count past the window, got %d", total)
	}
	if len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("expected window [s2], got %+v", got)
	}
}

func TestPrune(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertStories(sampleStories()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Everything was cached just now; a generous retention keeps it all.
	deleted, err := db.Prune(time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected nothing pruned, got %d", deleted)
	}

	// Zero retention sweeps the lot.
	deleted, err = db.Prune(0)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 pruned, got %d", deleted)
	}
}

func TestLastUpdatedRoundTrip(t *testing.T) {
	db := testDB(t)

	if got := db.LastUpdated(); got != "" {
		t.Errorf("expected empty stamp before set, got %q", got)
	}
	if err := db.SetLastUpdated("2026-08-23T10:00:00+00:00"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := db.LastUpdated(); got != "2026-08-23T10:00:00+00:00" {
		t.Errorf("stamp = %q", got)
	}
}
