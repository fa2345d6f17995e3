package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ahilan-1/openground/internal/api"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// relativeStamp renders a server timestamp; unparseable stamps come
// back empty rather than wrong.
func relativeStamp(s string) string {
	t, ok := api.ParseTime(s)
	if !ok {
		return ""
	}
	return relativeTime(t)
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// biasSegments splits width cells across the four buckets in
// proportion to their fractions. Segments keep at least one cell when
// their fraction is nonzero; leftover cells go to the unknown bucket.
func biasSegments(bar api.BiasBar, width int) [4]int {
	if width <= 0 {
		return [4]int{}
	}
	fracs := [4]float64{bar.Left, bar.Center, bar.Right, bar.Unknown}
	var cells [4]int
	used := 0
	for i, f := range fracs {
		if f <= 0 {
			continue
		}
		n := int(f*float64(width) + 0.5)
		if n < 1 {
			n = 1
		}
		cells[i] = n
		used += n
	}
	// Trim overshoot from the largest segment, pad shortfall into unknown.
	for used > width {
		big := 0
		for i := 1; i < 4; i++ {
			if cells[i] > cells[big] {
				big = i
			}
		}
		if cells[big] == 0 {
			break
		}
		cells[big]--
		used--
	}
	if used < width {
		cells[3] += width - used
	}
	return cells
}

// renderBiasBar draws the left/center/right/unknown proportion bar.
func renderBiasBar(th theme, bar api.BiasBar, width int) string {
	cells := biasSegments(bar, width)
	colors := []struct {
		n int
		c lipgloss.Color
	}{
		{cells[0], th.colorLeft},
		{cells[1], th.colorCenter},
		{cells[2], th.colorRight},
		{cells[3], th.colorUnknown},
	}
	var b strings.Builder
	for _, seg := range colors {
		if seg.n <= 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(seg.c).Render(strings.Repeat("█", seg.n)))
	}
	return b.String()
}

func renderListItem(th theme, s api.StorySummary, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = th.itemSelected.Render("> " + truncateStr(s.Title, width-4))
	} else {
		title = th.itemTitle.Render("  " + truncateStr(s.Title, width-4))
	}

	meta := "  " + th.itemLean.Render(s.Lean) +
		" " + th.itemMeta.Render(fmt.Sprintf("· %d sources", s.Coverage))
	if rel := relativeStamp(s.LastSeen); rel != "" {
		meta += " " + th.itemMeta.Render("· "+rel)
	}

	barWidth := width - 4
	if barWidth > 24 {
		barWidth = 24
	}
	bar := "  " + renderBiasBar(th, s.BiasBar, barWidth)

	return title + "\n" + meta + "\n" + bar
}

const listItemHeight = 4 // three content lines + one blank

func renderList(th theme, stories []api.StorySummary, cursor int, height int, width int, hasMore bool) string {
	if len(stories) == 0 {
		return lipglossCenter("No stories found", width, height)
	}

	visible := height / listItemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(stories) {
		end = len(stories)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(th, stories[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	if hasMore && end == len(stories) {
		b.WriteString("\n")
		b.WriteString(th.itemMeta.Render("  ↓ more stories"))
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
