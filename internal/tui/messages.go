package tui

import "github.com/insighthub/cli/internal/feed"

type pageMsg struct {
	res feed.Result
}

// searchTickMsg fires after the search debounce quiet period.
type searchTickMsg struct{}

type deleteDoneMsg struct {
	postID string
	err    error
}

type errMsg struct {
	err error
}
