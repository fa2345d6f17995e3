package api

import "time"

// BiasBar is the fraction of a story's coverage attributed to each
// political bucket. Fractions sum to at most 1.
type BiasBar struct {
	Left    float64 `json:"left"`
	Center  float64 `json:"center"`
	Right   float64 `json:"right"`
	Unknown float64 `json:"unknown"`
}

// StorySummary is one story row from /api/stories.
type StorySummary struct {
	ID        string  `json:"story_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Coverage  int     `json:"coverage"`
	Freshness float64 `json:"freshness"`
	BiasBar   BiasBar `json:"bias_bar"`
	BiasScore float64 `json:"bias_score"`
	Lean      string  `json:"lean"`
	LastSeen  string  `json:"last_seen"`
}

// Page is one window of the filtered story list.
type Page struct {
	Total       int            `json:"total"`
	Items       []StorySummary `json:"items"`
	LastUpdated string         `json:"last_updated"`
}

// Article is a single publisher's coverage of a story, annotated with
// the publisher's bias metadata.
type Article struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Link          string  `json:"link"`
	Domain        string  `json:"domain"`
	Summary       string  `json:"summary"`
	Published     string  `json:"published"`
	SourceFeed    string  `json:"source_feed"`
	Category      string  `json:"category"`
	PublisherName string  `json:"publisher_name"`
	BiasBucket    string  `json:"bias_bucket"`
	BiasScore     float64 `json:"bias_score"`
}

// StoryDetail is the full story record from /api/story/:id, including
// the deduplicated article list and per-bucket compare samples.
type StoryDetail struct {
	ID        string               `json:"story_id"`
	Title     string               `json:"title"`
	Category  string               `json:"category"`
	FirstSeen string               `json:"first_seen"`
	LastSeen  string               `json:"last_seen"`
	Coverage  int                  `json:"coverage"`
	Freshness float64              `json:"freshness"`
	BiasBar   BiasBar              `json:"bias_bar"`
	BiasScore float64              `json:"bias_score"`
	Lean      string               `json:"lean"`
	Compare   map[string][]Article `json:"compare"`
	Articles  []Article            `json:"articles"`
}

// BiasCounts is an absolute article count per bucket (timeline phases
// report counts, not fractions).
type BiasCounts struct {
	Left    int `json:"left"`
	Center  int `json:"center"`
	Right   int `json:"right"`
	Unknown int `json:"unknown"`
}

type TimelineItem struct {
	Timestamp  string `json:"timestamp"`
	Publisher  string `json:"publisher"`
	BiasBucket string `json:"bias_bucket"`
	Title      string `json:"title"`
	Link       string `json:"link"`
}

// TimelinePhase is one 6-hour window of a story's coverage.
type TimelinePhase struct {
	PhaseNumber  int        `json:"phase_number"`
	StartTime    string     `json:"start_time"`
	ArticleCount int        `json:"article_count"`
	BiasCounts   BiasCounts `json:"bias_distribution"`
	DominantBias string     `json:"dominant_bias"`
}

type NarrativeShift struct {
	PhaseIndex  int    `json:"phase_index"`
	Description string `json:"description"`
}

type FirstReport struct {
	Publisher  string `json:"publisher"`
	Timestamp  string `json:"timestamp"`
	BiasBucket string `json:"bias_bucket"`
	Title      string `json:"title"`
}

// Timeline describes how a story's coverage evolved.
type Timeline struct {
	FirstReportedBy *FirstReport     `json:"first_reported_by"`
	SpanHours       float64          `json:"coverage_span_hours"`
	TotalArticles   int              `json:"total_articles"`
	Phases          []TimelinePhase  `json:"phases"`
	NarrativeShifts []NarrativeShift `json:"narrative_shifts"`
	Items           []TimelineItem   `json:"timeline_items"`
}

// TrendingTopic is a keyword with rising attention, scored server-side.
type TrendingTopic struct {
	Keyword         string   `json:"keyword"`
	Count           int      `json:"count"`
	Velocity        float64  `json:"velocity"`
	HeatScore       float64  `json:"heat_score"`
	Sources         int      `json:"sources"`
	SampleHeadlines []string `json:"sample_headlines"`
	RelatedArticles int      `json:"related_articles"`
}

// BlindspotItem is a story whose coverage is lopsided toward one side
// of the spectrum.
type BlindspotItem struct {
	StoryID   string  `json:"story_id"`
	Title     string  `json:"title"`
	Coverage  int     `json:"coverage"`
	BiasBar   BiasBar `json:"bias_bar"`
	BiasScore float64 `json:"bias_score"`
	Lean      string  `json:"lean"`
	Kind      string  `json:"kind"`
	LastSeen  string  `json:"last_seen"`
}

// Meta is the server's database summary.
type Meta struct {
	LastUpdated    string `json:"last_updated"`
	Stories        int    `json:"stories"`
	Articles       int    `json:"articles"`
	TrendingTopics int    `json:"trending_topics"`
}

// RefreshResult reports what a server-side re-ingestion produced.
type RefreshResult struct {
	OK            bool   `json:"ok"`
	AddedArticles int    `json:"added_articles"`
	Stories       int    `json:"stories"`
	UpdatedAt     string `json:"updated_at"`
}

// ParseTime parses the server's ISO 8601 timestamps. The second return
// is false for empty or unparseable values.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
