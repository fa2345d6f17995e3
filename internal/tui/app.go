package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahilan-1/openground/internal/api"
	"github.com/Ahilan-1/openground/internal/browser"
	"github.com/Ahilan-1/openground/internal/cache"
	"github.com/Ahilan-1/openground/internal/config"
	"github.com/Ahilan-1/openground/internal/feed"
)

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

type view int

const (
	viewStories view = iota
	viewTrending
	viewBlindspots
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeCategory
	modeHelp
)

// loadMoreMargin is how close to the bottom the cursor may get before
// the next page is requested.
const loadMoreMargin = 3

type App struct {
	cfg    *config.Config
	client *api.Client
	db     *cache.Cache // nil when the cache could not be opened

	feed     *feed.Controller
	catBar   categoryBar
	themeSet theme

	view  view
	mode  mode
	focus focusPane

	width  int
	height int

	cursor       int
	detailScroll int

	searchInput textinput.Model
	spinner     spinner.Model

	// story detail for the cursor's story, fetched lazily
	detail   *api.StoryDetail
	timeline *api.Timeline

	trending   []api.TrendingTopic
	trendCur   int
	blindspots []api.BlindspotItem
	blindCur   int

	meta       api.Meta
	refreshing bool
	loadFailed bool

	// offline fallback shown when page 0 cannot be fetched
	offline        bool
	offlineStories []api.StorySummary
	offlineTotal   int

	notice      string
	noticeIsErr bool
	noticeSeq   int
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg      *config.Config
	Client   *api.Client
	DB       *cache.Cache
	Category string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search stories..."
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	th := newTheme(opts.Cfg.ThemeOrDefault())
	ti.Prompt = th.searchPrompt.Render("/ ")
	sp.Style = th.spinner

	ctrl := feed.New(opts.Cfg.Limit())

	a := &App{
		cfg:         opts.Cfg,
		client:      opts.Client,
		db:          opts.DB,
		feed:        ctrl,
		catBar:      newCategoryBar(),
		themeSet:    th,
		searchInput: ti,
		spinner:     sp,
	}
	if opts.Category != "" && opts.Category != feed.DefaultCategory {
		a.catBar.active = opts.Category
		ctrl.SetCategory(opts.Category)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.fetchPage(a.feed.Reload()),
		a.fetchCategories(),
		a.fetchMeta(),
	)
}

// --- commands -----------------------------------------------------------

func (a *App) fetchPage(req feed.PageRequest) tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := client.Stories(ctx, api.StoriesQuery{
			Category: req.Category,
			Query:    req.Query,
			Limit:    req.Limit,
			Offset:   req.Offset,
		})
		return pageMsg{res: feed.PageResult{Req: req, Page: page, Err: err}}
	}
}

func (a *App) fetchCategories() tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		cats, err := client.Categories(ctx)
		return categoriesMsg{categories: cats, err: err}
	}
}

func (a *App) fetchMeta() tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		m, err := client.Meta(ctx)
		return metaMsg{meta: m, err: err}
	}
}

func (a *App) fetchTrending() tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		topics, err := client.Trending(ctx)
		return trendingMsg{topics: topics, err: err}
	}
}

func (a *App) fetchBlindspots() tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	minCov := a.cfg.MinCoverage
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := client.Blindspots(ctx, minCov)
		return blindspotsMsg{items: items, err: err}
	}
}

func (a *App) fetchDetail(id string) tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		d, err := client.Story(ctx, id)
		return detailMsg{id: id, detail: d, err: err}
	}
}

func (a *App) fetchTimeline(id string) tea.Cmd {
	client := a.client
	timeout := a.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tl, err := client.Timeline(ctx, id)
		return timelineMsg{id: id, timeline: tl, err: err}
	}
}

func (a *App) doRefresh() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		// Re-ingestion is slow server-side; give it well beyond the
		// normal request timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result, err := client.Refresh(ctx)
		return refreshDoneMsg{result: result, err: err}
	}
}

// writeThrough caches a fetched page in the background.
func (a *App) writeThrough(items []api.StorySummary, lastUpdated string) tea.Cmd {
	if a.db == nil || len(items) == 0 {
		return nil
	}
	db := a.db
	return func() tea.Msg {
		db.UpsertStories(items)
		if lastUpdated != "" {
			db.SetLastUpdated(lastUpdated)
		}
		return nil
	}
}

// loadCached pulls the offline fallback after a failed page-0 load.
func (a *App) loadCached(category, query string) tea.Cmd {
	if a.db == nil {
		return nil
	}
	db := a.db
	return func() tea.Msg {
		stories, total, err := db.GetStories(cache.QueryOpts{
			Category: category,
			Search:   query,
			Limit:    500,
		})
		if err != nil || len(stories) == 0 {
			return nil
		}
		return cachedStoriesMsg{stories: stories, total: total, lastUpdated: db.LastUpdated()}
	}
}

func (a *App) searchTick(token int) tea.Cmd {
	return tea.Tick(feed.DebounceInterval, func(time.Time) tea.Msg {
		return searchTickMsg{token: token}
	})
}

func (a *App) showNotice(text string, isErr bool) tea.Cmd {
	a.notice = text
	a.noticeIsErr = isErr
	a.noticeSeq++
	seq := a.noticeSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		browser.Open(url)
		return nil
	}
}

// --- update -------------------------------------------------------------

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case pageMsg:
		return a.handlePage(msg)

	case categoriesMsg:
		// A failed category fetch leaves the bare "All" tab; the list
		// still works without it.
		if msg.err == nil {
			a.catBar.setCategories(msg.categories)
		}
		return a, nil

	case metaMsg:
		if msg.err == nil {
			a.meta = msg.meta
		}
		return a, nil

	case searchTickMsg:
		if req, ok := a.feed.CommitSearch(msg.token); ok {
			a.cursor = 0
			return a, a.fetchPage(req)
		}
		return a, nil

	case refreshDoneMsg:
		a.refreshing = false
		if msg.err != nil {
			return a, a.showNotice("refresh failed: "+msg.err.Error(), true)
		}
		notice := fmt.Sprintf("refreshed: %d new articles, %d stories",
			msg.result.AddedArticles, msg.result.Stories)
		a.cursor = 0
		return a, tea.Batch(
			a.showNotice(notice, false),
			a.fetchPage(a.feed.Reload()),
			a.fetchMeta(),
		)

	case detailMsg:
		if msg.id == a.selectedStoryID() {
			if msg.err == nil {
				d := msg.detail
				a.detail = &d
			}
		}
		return a, nil

	case timelineMsg:
		if msg.id == a.selectedStoryID() && msg.err == nil {
			tl := msg.timeline
			a.timeline = &tl
		}
		return a, nil

	case trendingMsg:
		if msg.err != nil {
			a.trending = nil
			return a, a.showNotice("trending unavailable", true)
		}
		a.trending = msg.topics
		a.trendCur = 0
		return a, nil

	case blindspotsMsg:
		if msg.err != nil {
			a.blindspots = nil
			return a, a.showNotice("blindspots unavailable", true)
		}
		a.blindspots = msg.items
		a.blindCur = 0
		return a, nil

	case cachedStoriesMsg:
		if a.loadFailed {
			a.offline = true
			a.offlineStories = msg.stories
			a.offlineTotal = msg.total
			a.cursor = 0
		}
		return a, nil

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case spinner.TickMsg:
		if a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if !a.feed.Apply(msg.res) {
		return a, nil // stale generation, a newer fetch is in flight
	}

	if msg.res.Err != nil {
		if msg.res.Req.Offset == 0 {
			a.loadFailed = true
			return a, a.loadCached(msg.res.Req.Category, msg.res.Req.Query)
		}
		return a, a.showNotice("failed to load more stories", true)
	}

	a.loadFailed = false
	a.offline = false
	a.offlineStories = nil
	if n := len(a.feed.Stories()); a.cursor >= n {
		a.cursor = maxInt(0, n-1)
	}
	return a, tea.Batch(
		a.writeThrough(msg.res.Page.Items, msg.res.Page.LastUpdated),
		a.maybeFetchDetail(),
	)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeCategory:
		return a.handleCategoryKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeNormal
		}
		return a, nil
	}

	// Error panel: retry or quit.
	if a.loadFailed && !a.offline && a.view == viewStories {
		switch msg.String() {
		case "enter", "r":
			a.loadFailed = false
			return a, a.fetchPage(a.feed.Reload())
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.mode = modeHelp
		return a, nil
	case "T":
		return a, a.toggleTheme()
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.doRefresh(), a.spinner.Tick)
		}
		return a, nil
	case "g":
		a.view = viewTrending
		return a, a.fetchTrending()
	case "b":
		a.view = viewBlindspots
		return a, a.fetchBlindspots()
	case "e", "esc":
		if a.view != viewStories {
			a.view = viewStories
			return a, nil
		}
	}

	switch a.view {
	case viewTrending:
		return a.handleTrendingKey(msg)
	case viewBlindspots:
		return a.handleBlindspotsKey(msg)
	}
	return a.handleStoriesKey(msg)
}

func (a *App) handleStoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.focus == focusDetail {
			a.detailScroll++
			return a, nil
		}
		stories := a.visibleStories()
		if a.cursor < len(stories)-1 {
			a.cursor++
			a.detailScroll = 0
			a.detail = nil
			a.timeline = nil
			return a, tea.Batch(a.maybeFetchDetail(), a.maybeLoadMore())
		}
		return a, a.maybeLoadMore()
	case "k", "up":
		if a.focus == focusDetail {
			if a.detailScroll > 0 {
				a.detailScroll--
			}
			return a, nil
		}
		if a.cursor > 0 {
			a.cursor--
			a.detailScroll = 0
			a.detail = nil
			a.timeline = nil
			return a, a.maybeFetchDetail()
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusDetail
		} else {
			a.focus = focusList
		}
		return a, nil
	case "m":
		// Explicit load-more for users who prefer a key to scrolling.
		return a, a.maybeLoadMore()
	case "enter":
		return a, a.maybeFetchDetail()
	case "t":
		if id := a.selectedStoryID(); id != "" && a.timeline == nil {
			return a, a.fetchTimeline(id)
		}
		return a, nil
	case "o":
		if a.detail != nil && len(a.detail.Articles) > 0 {
			return a, openBrowserCmd(a.detail.Articles[0].Link)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeCategory
		a.catBar.pickMode = true
		return a, nil
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		if req, ok := a.feed.ClearSearch(); ok {
			a.cursor = 0
			return a, a.fetchPage(req)
		}
		return a, nil
	case "enter":
		// Commit immediately, skipping the rest of the debounce window.
		a.mode = modeNormal
		a.searchInput.Blur()
		token := a.feed.QueueSearch(a.searchInput.Value())
		if req, ok := a.feed.CommitSearch(token); ok {
			a.cursor = 0
			return a, a.fetchPage(req)
		}
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if v := a.searchInput.Value(); v != before {
		// Debounce: only the newest keystroke's tick will still hold
		// the latest token when it fires.
		token := a.feed.QueueSearch(v)
		return a, tea.Batch(cmd, a.searchTick(token))
	}
	return a, cmd
}

func (a *App) handleCategoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.catBar.pickMode = false
		return a, nil
	case "left", "h":
		a.catBar.moveLeft()
		return a, nil
	case "right", "l":
		a.catBar.moveRight()
		return a, nil
	case " ", "enter":
		cat := a.catBar.selectCurrent()
		a.mode = modeNormal
		a.catBar.pickMode = false
		return a, a.switchCategory(cat)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if cat, ok := a.catBar.selectIndex(idx); ok {
			a.mode = modeNormal
			a.catBar.pickMode = false
			return a, a.switchCategory(cat)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleTrendingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.trendCur < len(a.trending)-1 {
			a.trendCur++
		}
	case "k", "up":
		if a.trendCur > 0 {
			a.trendCur--
		}
	}
	return a, nil
}

func (a *App) handleBlindspotsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.blindCur < len(a.blindspots)-1 {
			a.blindCur++
		}
	case "k", "up":
		if a.blindCur > 0 {
			a.blindCur--
		}
	}
	return a, nil
}

// --- state helpers ------------------------------------------------------

func (a *App) visibleStories() []api.StorySummary {
	if a.offline {
		return a.offlineStories
	}
	return a.feed.Stories()
}

func (a *App) selectedStoryID() string {
	stories := a.visibleStories()
	if len(stories) == 0 || a.cursor >= len(stories) {
		return ""
	}
	return stories[a.cursor].ID
}

func (a *App) switchCategory(cat string) tea.Cmd {
	req, ok := a.feed.SetCategory(cat)
	if !ok {
		return nil
	}
	a.cursor = 0
	a.detail = nil
	a.timeline = nil
	a.loadFailed = false
	return a.fetchPage(req)
}

// maybeLoadMore requests the next page when the cursor is near the end
// of the accumulated list. The controller drops the request if a load
// is already in flight or everything is loaded.
func (a *App) maybeLoadMore() tea.Cmd {
	if a.offline {
		return nil
	}
	stories := a.feed.Stories()
	if len(stories) == 0 || a.cursor < len(stories)-loadMoreMargin {
		return nil
	}
	req, ok := a.feed.LoadMore()
	if !ok {
		return nil
	}
	return a.fetchPage(req)
}

// maybeFetchDetail lazily loads the full story under the cursor, once
// per selection.
func (a *App) maybeFetchDetail() tea.Cmd {
	if a.offline {
		return nil
	}
	id := a.selectedStoryID()
	if id == "" {
		return nil
	}
	if a.detail != nil && a.detail.ID == id {
		return nil
	}
	return a.fetchDetail(id)
}

func (a *App) toggleTheme() tea.Cmd {
	a.themeSet = a.themeSet.toggled()
	a.searchInput.Prompt = a.themeSet.searchPrompt.Render("/ ")
	a.spinner.Style = a.themeSet.spinner
	name := a.themeSet.name
	cfg := a.cfg
	return func() tea.Msg {
		cfg.SaveTheme(name)
		return nil
	}
}

// --- view ---------------------------------------------------------------

func (a *App) View() string {
	if a.width == 0 {
		return a.themeSet.header.Render("openground")
	}

	th := a.themeSet

	headerHeight := 1
	tabHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - tabHeight - statusHeight - 4 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	left := th.header.Render("openground")
	right := th.headerMeta.Render(a.headerMeta())
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	header := left + fmt.Sprintf("%*s", gap, "") + right

	// Tab bar, replaced by the search input while typing
	tabs := a.catBar.render(th, a.width)
	if a.mode == modeSearch {
		tabs = a.searchInput.View()
	}

	var content string
	switch {
	case a.mode == modeHelp:
		content = a.renderHelp()
	case a.view == viewTrending:
		content = th.listPane.Width(a.width - 2).Height(contentHeight).
			Render(renderTrending(th, a.trending, a.trendCur, a.width-6, contentHeight))
	case a.view == viewBlindspots:
		content = th.listPane.Width(a.width - 2).Height(contentHeight).
			Render(renderBlindspots(th, a.blindspots, a.blindCur, a.width-6, contentHeight))
	case a.loadFailed && !a.offline:
		content = renderLoadError(th, a.feed.Err(), a.width, contentHeight+2)
	default:
		content = a.renderStoriesView(contentHeight)
	}

	status := renderStatusBar(th, a.statusInfo(), a.width)
	if a.refreshing {
		status = a.spinner.View() + " " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status)
}

func (a *App) renderStoriesView(contentHeight int) string {
	th := a.themeSet
	listWidth := int(float64(a.width) * 0.45)
	detailWidth := a.width - listWidth - 1

	stories := a.visibleStories()
	innerListW := listWidth - 4
	listContent := renderList(th, stories, a.cursor, contentHeight, innerListW, !a.offline && a.feed.HasMore())

	listStyle := th.listPane
	if a.focus == focusList {
		listStyle = th.listPaneActive
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	innerDetailW := detailWidth - 4
	detailContent := renderDetail(th, a.detail, a.timeline, innerDetailW, contentHeight, a.detailScroll)

	detailStyle := th.detailPane
	if a.focus == focusDetail {
		detailStyle = th.detailPaneActive
	}
	detailPane := detailStyle.Width(detailWidth - 2).Height(contentHeight).Render(detailContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (a *App) headerMeta() string {
	if a.meta.Stories == 0 && a.meta.Articles == 0 {
		return time.Now().Format("Jan 2")
	}
	return fmt.Sprintf("%d stories · %d articles · %s",
		a.meta.Stories, a.meta.Articles, time.Now().Format("Jan 2"))
}

func (a *App) statusInfo() statusInfo {
	hints := "/ search  f category  g trending  b blindspots  r refresh  ? help  q quit"
	switch a.mode {
	case modeSearch:
		hints = "esc cancel  enter search"
	case modeCategory:
		hints = "←/→ move  enter select  esc done"
	}
	switch a.view {
	case viewTrending, viewBlindspots:
		hints = "j/k move  esc back  q quit"
	}

	total := a.feed.Total()
	lastUpdated := a.feed.LastUpdated()
	if a.offline {
		total = a.offlineTotal
		lastUpdated = ""
		if a.db != nil {
			lastUpdated = a.db.LastUpdated()
		}
	}

	return statusInfo{
		shown:       len(a.visibleStories()),
		total:       total,
		category:    a.feed.Category(),
		query:       a.feed.Query(),
		lastUpdated: lastUpdated,
		offline:     a.offline,
		loading:     a.feed.Loading(),
		refreshing:  a.refreshing,
		notice:      a.notice,
		noticeIsErr: a.noticeIsErr,
		hints:       hints,
	}
}

func (a *App) renderHelp() string {
	th := a.themeSet
	title := lipgloss.NewStyle().Foreground(th.colorAccent).Bold(true).Render("openground")
	dim := th.detailLabel

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through the story list\n" +
		"  tab           Switch focus between list and detail\n" +
		"  m             Load more stories\n\n" +
		dim.Render("Views") + "\n" +
		"  g             Trending topics\n" +
		"  b             Blindspots\n" +
		"  t             Story timeline (in detail)\n" +
		"  esc, e        Back to stories\n\n" +
		dim.Render("Actions") + "\n" +
		"  /             Search stories\n" +
		"  f             Pick a category\n" +
		"  r             Ask the server to refresh\n" +
		"  o             Open top article in browser\n" +
		"  T             Toggle dark/light theme\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := th.errorPanel.BorderForeground(th.colorPrimary).Render(help)
	return lipgloss.Place(a.width, a.height-3, lipgloss.Center, lipgloss.Center, card)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

