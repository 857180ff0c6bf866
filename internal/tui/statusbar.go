package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(postCount int, filterLabel, note string, width int, searching, loading, exhausted bool, errText string) string {
	left := fmt.Sprintf(" %d posts", postCount)
	if filterLabel != "All" {
		left += " · " + filterLabel
	}
	if loading {
		left += " (loading...)"
	} else if exhausted && postCount > 0 {
		left += " · end of feed"
	}
	if note != "" {
		left += " · " + lipgloss.NewStyle().Foreground(colorGreen).Render(note)
	}

	right := " / search  f filter  b bookmark  ? help  q quit "
	if searching {
		right = " esc cancel  enter search "
	}

	if errText != "" {
		left = " " + lipgloss.NewStyle().Foreground(colorAccent).Render(errText+"  (r retry)")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
