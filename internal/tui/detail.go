package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ahilan-1/openground/internal/api"
)

// compareOrder fixes the bucket display order for the coverage compare
// section.
var compareOrder = []string{"left", "center", "right", "unknown"}

func bucketLabel(bucket string) string {
	switch bucket {
	case "left":
		return "From the Left"
	case "center":
		return "From the Center"
	case "right":
		return "From the Right"
	default:
		return "Unrated Sources"
	}
}

// renderDetail draws the story detail pane: bias summary, per-bucket
// headline compare, and the coverage timeline once loaded.
func renderDetail(th theme, d *api.StoryDetail, tl *api.Timeline, width, height, scroll int) string {
	if d == nil {
		return lipglossCenter("Select a story", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	var sections []string

	sections = append(sections, th.detailTitle.Width(contentWidth).Render(d.Title))

	meta := fmt.Sprintf("%s · %d sources · %s", d.Lean, d.Coverage, d.Category)
	if rel := relativeStamp(d.LastSeen); rel != "" {
		meta += " · updated " + rel
	}
	sections = append(sections, th.itemLean.Render(meta))

	barWidth := contentWidth
	if barWidth > 40 {
		barWidth = 40
	}
	legend := fmt.Sprintf("L %.0f%%  C %.0f%%  R %.0f%%  ? %.0f%%",
		d.BiasBar.Left*100, d.BiasBar.Center*100, d.BiasBar.Right*100, d.BiasBar.Unknown*100)
	sections = append(sections, renderBiasBar(th, d.BiasBar, barWidth)+"\n"+th.detailLabel.Render(legend))

	for _, bucket := range compareOrder {
		arts := d.Compare[bucket]
		if len(arts) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(th.bucketHeading.Render(bucketLabel(bucket)))
		for _, a := range arts {
			b.WriteString("\n  ")
			b.WriteString(th.detailBody.Render(truncateStr(a.Title, contentWidth-2)))
			b.WriteString("\n  ")
			b.WriteString(th.detailLabel.Render(a.PublisherName))
		}
		sections = append(sections, b.String())
	}

	if tl != nil {
		sections = append(sections, renderTimeline(th, tl, contentWidth))
	} else {
		sections = append(sections, th.detailLabel.Render("t timeline · o open top article"))
	}

	if len(d.Articles) > 0 {
		link := th.detailLink.Width(contentWidth).Render("Read more: " + d.Articles[0].Link)
		sections = append(sections, link)
	}

	content := strings.Join(sections, "\n\n")

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// renderTimeline draws how coverage evolved: who broke the story, the
// 6-hour phases with their dominant bias, and any narrative shifts.
func renderTimeline(th theme, tl *api.Timeline, width int) string {
	var b strings.Builder
	b.WriteString(th.bucketHeading.Render("Coverage Timeline"))

	if tl.FirstReportedBy != nil {
		first := fmt.Sprintf("First reported by %s (%s)",
			tl.FirstReportedBy.Publisher, tl.FirstReportedBy.BiasBucket)
		if rel := relativeStamp(tl.FirstReportedBy.Timestamp); rel != "" {
			first += " · " + rel
		}
		b.WriteString("\n" + th.detailBody.Render(wrapText(first, width)))
	}
	b.WriteString("\n" + th.detailLabel.Render(
		fmt.Sprintf("%d articles over %.1f hours", tl.TotalArticles, tl.SpanHours)))

	for _, p := range tl.Phases {
		line := fmt.Sprintf("Phase %d · %d articles · %s", p.PhaseNumber, p.ArticleCount, p.DominantBias)
		if rel := relativeStamp(p.StartTime); rel != "" {
			line += " · " + rel
		}
		b.WriteString("\n  " + th.detailBody.Render(truncateStr(line, width-2)))
		b.WriteString("\n  " + renderBiasBar(th, phaseFractions(p.BiasCounts), minInt(width-2, 24)))
	}

	for _, s := range tl.NarrativeShifts {
		b.WriteString("\n" + th.errorNotice.Render("⚠ "+wrapText(s.Description, width-2)))
	}

	return b.String()
}

// phaseFractions converts a phase's absolute bucket counts into the
// fractional form the bias bar renderer expects.
func phaseFractions(c api.BiasCounts) api.BiasBar {
	total := c.Left + c.Center + c.Right + c.Unknown
	if total == 0 {
		return api.BiasBar{Unknown: 1}
	}
	return api.BiasBar{
		Left:    float64(c.Left) / float64(total),
		Center:  float64(c.Center) / float64(total),
		Right:   float64(c.Right) / float64(total),
		Unknown: float64(c.Unknown) / float64(total),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// renderLoadError is the offset-0 failure panel with its retry hint.
func renderLoadError(th theme, err error, width, height int) string {
	msg := "Failed to load stories"
	if err != nil {
		msg += "\n" + wrapText(err.Error(), 60)
	}
	msg += "\n\n" + "enter retry · q quit"
	panel := th.errorPanel.Render(msg)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
