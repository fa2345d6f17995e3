package tui

import (
	"github.com/Ahilan-1/openground/internal/api"
	"github.com/Ahilan-1/openground/internal/feed"
)

type pageMsg struct {
	res feed.PageResult
}

type categoriesMsg struct {
	categories []string
	err        error
}

type metaMsg struct {
	meta api.Meta
	err  error
}

// searchTickMsg fires when a keystroke's debounce window elapses. The
// token decides whether this keystroke is still the latest.
type searchTickMsg struct {
	token int
}

type refreshDoneMsg struct {
	result api.RefreshResult
	err    error
}

type detailMsg struct {
	id     string
	detail api.StoryDetail
	err    error
}

type timelineMsg struct {
	id       string
	timeline api.Timeline
	err      error
}

type trendingMsg struct {
	topics []api.TrendingTopic
	err    error
}

type blindspotsMsg struct {
	items []api.BlindspotItem
	err   error
}

// cachedStoriesMsg carries the offline fallback after a failed page-0
// load.
type cachedStoriesMsg struct {
	stories     []api.StorySummary
	total       int
	lastUpdated string
}

// noticeExpiredMsg clears a transient status-line notification.
type noticeExpiredMsg struct {
	seq int
}
