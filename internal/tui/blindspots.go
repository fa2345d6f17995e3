package tui

import (
	"fmt"
	"strings"

	"github.com/Ahilan-1/openground/internal/api"
)

// renderBlindspots draws stories flagged for lopsided coverage.
func renderBlindspots(th theme, items []api.BlindspotItem, cursor, width, height int) string {
	if len(items) == 0 {
		return lipglossCenter("No blindspots detected", width, height)
	}

	itemHeight := 4
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		it := items[i]
		marker := "  "
		style := th.itemTitle
		if i == cursor {
			marker = "> "
			style = th.itemSelected
		}
		b.WriteString(style.Render(marker + truncateStr(it.Title, width-4)))
		b.WriteString("\n  " + th.errorNotice.Render(it.Kind) +
			" " + th.itemMeta.Render(fmt.Sprintf("· %d sources · %s", it.Coverage, it.Lean)))
		b.WriteString("\n  " + renderBiasBar(th, it.BiasBar, minInt(width-4, 24)))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
