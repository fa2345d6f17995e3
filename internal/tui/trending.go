package tui

import (
	"fmt"
	"strings"

	"github.com/Ahilan-1/openground/internal/api"
)

// renderTrending draws the trending topics view: keyword, heat score,
// velocity, source spread, and a few sample headlines for the topic
// under the cursor.
func renderTrending(th theme, topics []api.TrendingTopic, cursor, width, height int) string {
	if len(topics) == 0 {
		return lipglossCenter("No trending topics", width, height)
	}

	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(topics) {
		end = len(topics)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		tp := topics[i]
		marker := "  "
		style := th.itemTitle
		if i == cursor {
			marker = "> "
			style = th.itemSelected
		}
		heat := strings.Repeat("▰", minInt(int(tp.HeatScore/10)+1, 10))
		b.WriteString(style.Render(marker + truncateStr(tp.Keyword, width-16)))
		b.WriteString(" " + th.errorNotice.Render(heat))
		b.WriteString("\n  " + th.itemMeta.Render(fmt.Sprintf(
			"%d mentions · %d sources · velocity %.2f", tp.Count, tp.Sources, tp.Velocity)))

		if i == cursor {
			for _, h := range tp.SampleHeadlines {
				b.WriteString("\n    " + th.detailBody.Render(truncateStr(h, width-6)))
			}
		}
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
