package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type statusInfo struct {
	shown       int
	total       int
	category    string
	query       string
	lastUpdated string
	offline     bool
	loading     bool
	refreshing  bool
	notice      string
	noticeIsErr bool
	hints       string
}

func renderStatusBar(th theme, info statusInfo, width int) string {
	left := fmt.Sprintf(" %d/%d stories", info.shown, info.total)
	if info.category != "All" && info.category != "" {
		left += " · " + info.category
	}
	if info.query != "" {
		left += fmt.Sprintf(" · %q", info.query)
	}
	if rel := relativeStamp(info.lastUpdated); rel != "" {
		left += " · updated " + rel
	}
	if info.offline {
		left += " · " + th.errorNotice.Render("offline")
	}
	if info.loading {
		left += " (loading...)"
	}
	if info.refreshing {
		left += " (refreshing...)"
	}

	if info.notice != "" {
		style := th.notice
		if info.noticeIsErr {
			style = th.errorNotice
		}
		left += " · " + style.Render(info.notice)
	}

	right := " " + info.hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return th.statusBar.Width(width).Render(bar)
}
