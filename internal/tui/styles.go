package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahilan-1/openground/internal/config"
)

// theme bundles every style the views use so the whole palette can be
// swapped at runtime when the user toggles dark/light.
type theme struct {
	name string

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorDim       lipgloss.Color
	colorAccent    lipgloss.Color
	colorGreen     lipgloss.Color

	// bias bar segment colors
	colorLeft    lipgloss.Color
	colorCenter  lipgloss.Color
	colorRight   lipgloss.Color
	colorUnknown lipgloss.Color

	header     lipgloss.Style
	headerMeta lipgloss.Style

	listPane         lipgloss.Style
	listPaneActive   lipgloss.Style
	detailPane       lipgloss.Style
	detailPaneActive lipgloss.Style

	itemTitle    lipgloss.Style
	itemSelected lipgloss.Style
	itemMeta     lipgloss.Style
	itemLean     lipgloss.Style

	detailTitle   lipgloss.Style
	detailLabel   lipgloss.Style
	detailBody    lipgloss.Style
	detailLink    lipgloss.Style
	bucketHeading lipgloss.Style

	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	tabBar      lipgloss.Style

	statusBar    lipgloss.Style
	notice       lipgloss.Style
	errorNotice  lipgloss.Style
	spinner      lipgloss.Style
	searchPrompt lipgloss.Style

	errorPanel lipgloss.Style
}

func newTheme(name string) theme {
	dark := name != config.ThemeLight

	pick := func(light, darkC string) lipgloss.Color {
		if dark {
			return lipgloss.Color(darkC)
		}
		return lipgloss.Color(light)
	}

	t := theme{
		name:           name,
		colorPrimary:   pick("#5A56E0", "#7571F9"),
		colorSecondary: pick("#3D3D3D", "#ABABAB"),
		colorDim:       pick("#9B9B9B", "#626262"),
		colorAccent:    pick("#F25D94", "#F25D94"),
		colorGreen:     pick("#04B575", "#25D366"),
		colorLeft:      pick("#2F6FDE", "#5B8DEF"),
		colorCenter:    pick("#8A63D2", "#A98FE8"),
		colorRight:     pick("#D64545", "#E06C6C"),
		colorUnknown:   pick("#9B9B9B", "#4F4F4F"),
	}

	border := pick("#DBDBDB", "#383838")
	activeBorder := t.colorPrimary
	tabBg := pick("#EEEEEE", "#2A2A3E")
	statusBg := pick("#E8E8E8", "#16213E")

	t.header = lipgloss.NewStyle().Bold(true).Foreground(t.colorPrimary).PaddingLeft(1)
	t.headerMeta = lipgloss.NewStyle().Foreground(t.colorDim).Align(lipgloss.Right)

	t.listPane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
	t.listPaneActive = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(activeBorder)
	t.detailPane = t.listPane
	t.detailPaneActive = t.listPaneActive

	t.itemTitle = lipgloss.NewStyle().Foreground(t.colorPrimary).Bold(true)
	t.itemSelected = lipgloss.NewStyle().Foreground(t.colorAccent).Bold(true)
	t.itemMeta = lipgloss.NewStyle().Foreground(t.colorDim)
	t.itemLean = lipgloss.NewStyle().Foreground(t.colorGreen)

	t.detailTitle = lipgloss.NewStyle().Bold(true).Foreground(t.colorPrimary).MarginBottom(1)
	t.detailLabel = lipgloss.NewStyle().Foreground(t.colorDim)
	t.detailBody = lipgloss.NewStyle().Foreground(t.colorSecondary)
	t.detailLink = lipgloss.NewStyle().Foreground(t.colorDim).Italic(true)
	t.bucketHeading = lipgloss.NewStyle().Foreground(t.colorGreen).Bold(true)

	t.tabActive = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(t.colorPrimary).
		Padding(0, 1).
		Bold(true)
	t.tabInactive = lipgloss.NewStyle().
		Foreground(t.colorSecondary).
		Background(tabBg).
		Padding(0, 1)
	t.tabBar = lipgloss.NewStyle().Background(tabBg).PaddingLeft(1)

	t.statusBar = lipgloss.NewStyle().
		Background(statusBg).
		Foreground(t.colorSecondary).
		PaddingLeft(1).
		PaddingRight(1)
	t.notice = lipgloss.NewStyle().Foreground(t.colorGreen)
	t.errorNotice = lipgloss.NewStyle().Foreground(t.colorAccent)
	t.spinner = lipgloss.NewStyle().Foreground(t.colorAccent)
	t.searchPrompt = lipgloss.NewStyle().Foreground(t.colorAccent).Bold(true)

	t.errorPanel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.colorAccent).
		Padding(1, 2)

	return t
}

func (t theme) toggled() theme {
	if t.name == config.ThemeLight {
		return newTheme(config.ThemeDark)
	}
	return newTheme(config.ThemeLight)
}
