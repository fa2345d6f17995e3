package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahilan-1/openground/internal/feed"
)

// categoryBar is the row of category tabs. Exactly one category is
// active at a time; "All" is the catch-all the server also knows.
type categoryBar struct {
	categories []string
	active     string
	pickMode   bool
	cursor     int
}

func newCategoryBar() categoryBar {
	return categoryBar{
		categories: []string{feed.DefaultCategory},
		active:     feed.DefaultCategory,
	}
}

// setCategories replaces the tab list, keeping the active selection
// when it still exists.
func (b *categoryBar) setCategories(cats []string) {
	if len(cats) == 0 {
		cats = []string{feed.DefaultCategory}
	}
	b.categories = cats
	b.cursor = 0
	found := false
	for i, c := range cats {
		if c == b.active {
			b.cursor = i
			found = true
			break
		}
	}
	if !found {
		b.active = feed.DefaultCategory
	}
}

func (b *categoryBar) moveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *categoryBar) moveRight() {
	if b.cursor < len(b.categories)-1 {
		b.cursor++
	}
}

// selectCurrent activates the tab under the cursor and reports the
// chosen category.
func (b *categoryBar) selectCurrent() string {
	if b.cursor < len(b.categories) {
		b.active = b.categories[b.cursor]
	}
	return b.active
}

func (b *categoryBar) selectIndex(i int) (string, bool) {
	if i < 0 || i >= len(b.categories) {
		return "", false
	}
	b.cursor = i
	b.active = b.categories[i]
	return b.active, true
}

func (b *categoryBar) render(th theme, width int) string {
	sep := lipgloss.NewStyle().Foreground(th.colorDim).Render(" · ")
	var parts []string

	for i, c := range b.categories {
		style := th.tabInactive
		if c == b.active {
			style = th.tabActive
		}
		label := c
		if b.pickMode && i == b.cursor {
			label = "[" + c + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	return th.tabBar.Width(width).Render(row)
}
