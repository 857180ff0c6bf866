package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// categoryBar is a single-select tab row over the fixed category set,
// with "All" meaning no category filter.
type categoryBar struct {
	tabs       []string // "All" + categories
	selected   int
	filterMode bool
	cursor     int
}

func newCategoryBar(categories []string) categoryBar {
	tabs := make([]string, 0, len(categories)+1)
	tabs = append(tabs, "All")
	tabs = append(tabs, categories...)
	return categoryBar{tabs: tabs}
}

// selectCurrent commits the cursor position and returns the selected
// category ("All" for no filter).
func (b *categoryBar) selectCurrent() string {
	b.selected = b.cursor
	return b.tabs[b.selected]
}

func (b *categoryBar) selectedLabel() string {
	return b.tabs[b.selected]
}

func (b *categoryBar) moveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *categoryBar) moveRight() {
	if b.cursor < len(b.tabs)-1 {
		b.cursor++
	}
}

func (b *categoryBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	for i, tab := range b.tabs {
		style := tabInactiveStyle
		if i == b.selected {
			style = tabActiveStyle
		}
		label := tab
		if b.filterMode && i == b.cursor {
			label = "[" + tab + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Keep the selected tab visible: start rendering a little before it
	// when it would fall off the right edge.
	start := 0
	if b.filterMode && b.cursor > 0 {
		start = windowStart(parts, b.cursor, sep, width)
	} else if b.selected > 0 {
		start = windowStart(parts, b.selected, sep, width)
	}

	var row string
	for i := start; i < len(parts); i++ {
		candidate := row
		if i > start {
			candidate += sep
		}
		candidate += parts[i]
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorTabBg).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

// windowStart picks the first tab to render so the tab at idx fits.
func windowStart(parts []string, idx int, sep string, width int) int {
	for start := 0; start <= idx; start++ {
		w := 0
		for i := start; i <= idx; i++ {
			if i > start {
				w += lipgloss.Width(sep)
			}
			w += lipgloss.Width(parts[i])
		}
		if w <= width {
			return start
		}
	}
	return idx
}
