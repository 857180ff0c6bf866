package tui

import (
	"strings"
	"testing"
	"time"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 20, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a very long title that overflows", 12, "a very lo..."},
		{"abc", 0, ""},
		{"abcdef", 2, "ab"},
		{"héllo wörld extra", 10, "héllo w..."},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.s, tt.n); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		if got := relativeTime(tt.t); got != tt.want {
			t.Errorf("relativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}

	old := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := relativeTime(old); got != "Jun 15" {
		t.Errorf("relativeTime(old) = %q, want Jun 15", got)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>hello</p>", "hello"},
		{"<p>hello <b>bold</b> world</p>", "hello bold world"},
		{"plain text", "plain text"},
		{"<div>\n  spaced\n  out\n</div>", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	if got := readingTime("a few words"); got != 1 {
		t.Errorf("short text = %d min, want 1", got)
	}
	long := strings.Repeat("word ", 450)
	if got := readingTime(long); got != 3 {
		t.Errorf("450 words = %d min, want 3", got)
	}
	if got := readingTime(""); got != 1 {
		t.Errorf("empty text = %d min, want 1", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}

	if got := wrapText("unbroken", 0); got != "unbroken" {
		t.Errorf("zero width = %q", got)
	}
	if got := wrapText("   ", 10); got != "" {
		t.Errorf("whitespace only = %q", got)
	}
}
