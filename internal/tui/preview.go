package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/insighthub/cli/internal/feed"
)

func renderPreview(post *feed.Post, width, height, scroll int, bookmarked bool) string {
	if post == nil {
		return lipglossCenter("Select a post", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(post.Title)

	meta := post.DisplayCategory()
	if post.Author.Name != "" {
		meta += " · " + post.Author.Name
		if post.Author.Role != "" {
			meta += " (" + post.Author.Role + ")"
		}
	}
	if !post.CreatedAt.IsZero() {
		meta += " · " + post.CreatedAt.Format("Jan 2, 2006")
	}
	if bookmarked {
		meta += " · bookmarked"
	}
	metaLine := previewMetaStyle.Render(meta)

	text := stripHTML(post.Content)
	if text == "" {
		text = "(No content)"
	}
	readLine := previewLinkStyle.Render(fmt.Sprintf("%d min read", readingTime(text)))

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(text, contentWidth))

	imageLine := ""
	switch {
	case post.AssetURL != "":
		imageLine = previewLinkStyle.Width(contentWidth).Render("Image: " + post.AssetURL)
	case post.AssetRef != "":
		imageLine = previewLinkStyle.Render("Image: (unavailable)")
	}

	parts := []string{title, metaLine, readLine, "", body}
	if imageLine != "" {
		parts = append(parts, "", imageLine)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

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

// readingTime estimates minutes at 200 words per minute.
func readingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// stripHTML drops tags and collapses whitespace. The server already
// sanitizes post bodies; this only flattens them for terminal display.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
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
