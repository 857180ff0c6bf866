package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/insighthub/cli/internal/api"
	"github.com/insighthub/cli/internal/browser"
	"github.com/insighthub/cli/internal/config"
	"github.com/insighthub/cli/internal/feed"
	"github.com/insighthub/cli/internal/store"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeFilter
	modeConfirmDelete
	modeHelp
)

// paginateThreshold is how close to the end of the loaded items the
// cursor may get before the next page is requested.
const paginateThreshold = 3

type App struct {
	cfg       *config.Config
	client    *api.Client
	ctrl      *feed.Controller
	bookmarks *store.Store
	viewer    api.User

	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	catBar      categoryBar

	// Scheduling policies
	debounce *feed.Debounce
	throttle *feed.Throttle

	// State
	previewScroll int
	currentDate   string
	bookmarked    map[string]bool
	deleteTarget  *feed.Post
	status        string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg        *config.Config
	Client     *api.Client
	Controller *feed.Controller
	Bookmarks  *store.Store
	Viewer     api.User
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search posts..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	bookmarked := make(map[string]bool)
	if opts.Bookmarks != nil {
		if ids, err := opts.Bookmarks.IDs(); err == nil {
			bookmarked = ids
		}
	}

	return &App{
		cfg:         opts.Cfg,
		client:      opts.Client,
		ctrl:        opts.Controller,
		bookmarks:   opts.Bookmarks,
		viewer:      opts.Viewer,
		searchInput: ti,
		spinner:     sp,
		catBar:      newCategoryBar(feed.Categories),
		debounce:    feed.NewDebounce(opts.Cfg.SearchDebounceDuration()),
		throttle:    feed.NewThrottle(opts.Cfg.ScrollThrottleDuration()),
		currentDate: time.Now().Format("Jan 2"),
		bookmarked:  bookmarked,
	}
}

func (a *App) Init() tea.Cmd {
	job, ok := a.ctrl.Start()
	if !ok {
		return nil
	}
	return tea.Batch(a.runJob(job), a.spinner.Tick)
}

// runJob executes a fetch off the update loop; the result comes back
// as a pageMsg and is reconciled by Apply on the loop.
func (a *App) runJob(job feed.Job) tea.Cmd {
	ctrl := a.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return pageMsg{res: ctrl.Run(ctx, job)}
	}
}

func (a *App) deleteCmd(post feed.Post) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := client.DeletePost(ctx, post.ID)
		return deleteDoneMsg{postID: post.ID, err: err}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) searchTickCmd() tea.Cmd {
	return tea.Tick(a.debounce.Quiet(), func(time.Time) tea.Msg {
		return searchTickMsg{}
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Transient notices clear on any keypress
		a.status = ""
		a.err = nil
		return a.handleKey(msg)

	case pageMsg:
		a.ctrl.Apply(msg.res)
		a.clampCursor()
		return a, nil

	case searchTickMsg:
		if !a.debounce.Fire() {
			return a, nil
		}
		if job, ok := a.ctrl.CommitSearch(); ok {
			a.cursor = 0
			a.previewScroll = 0
			return a, tea.Batch(a.runJob(job), a.spinner.Tick)
		}
		return a, nil

	case deleteDoneMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.ctrl.NotifyDeleted(msg.postID)
		a.clampCursor()
		a.status = "Post deleted"
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.ctrl.Snapshot().Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) clampCursor() {
	n := len(a.ctrl.Snapshot().Items)
	if a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

func (a *App) selected() *feed.Post {
	items := a.ctrl.Snapshot().Items
	if len(items) == 0 || a.cursor >= len(items) {
		return nil
	}
	return &items[a.cursor]
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeConfirmDelete:
		return a.handleConfirmKey(msg)
	case modeHelp:
		if s := msg.String(); s == "?" || s == "esc" || s == "q" {
			a.mode = modeList
		}
		return a, nil
	}

	// List mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList {
			if a.cursor < len(a.ctrl.Snapshot().Items)-1 {
				a.cursor++
				a.previewScroll = 0
			}
			return a, a.maybePaginate()
		}
		a.previewScroll++
		return a, nil
	case "k", "up":
		if a.focus == focusList {
			if a.cursor > 0 {
				a.cursor--
				a.previewScroll = 0
			}
		} else if a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if p := a.selected(); p != nil {
			return a, openBrowserCmd(a.cfg.PostWebURL(p.ID))
		}
		return a, nil
	case "b":
		a.toggleBookmark()
		return a, nil
	case "d":
		p := a.selected()
		if p == nil {
			return a, nil
		}
		if a.viewer.ID == "" || p.Author.ID != a.viewer.ID {
			a.status = "Only your own posts can be deleted"
			return a, nil
		}
		a.deleteTarget = p
		a.mode = modeConfirmDelete
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.catBar.filterMode = true
		a.catBar.cursor = a.catBar.selected
		return a, nil
	case "r":
		var (
			job feed.Job
			ok  bool
		)
		if a.ctrl.Snapshot().Err != nil {
			job, ok = a.ctrl.Retry()
		} else {
			job, ok = a.ctrl.Refresh()
			a.cursor = 0
			a.previewScroll = 0
		}
		if ok {
			return a, tea.Batch(a.runJob(job), a.spinner.Tick)
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

// maybePaginate requests the next page when the cursor nears the end
// of the loaded items. The throttle bounds check frequency; the
// controller's loading gate and hasMore flag own correctness.
func (a *App) maybePaginate() tea.Cmd {
	items := a.ctrl.Snapshot().Items
	if len(items)-a.cursor > paginateThreshold {
		return nil
	}
	if !a.throttle.Allow() {
		return nil
	}
	if job, ok := a.ctrl.ScrolledNearEnd(); ok {
		return tea.Batch(a.runJob(job), a.spinner.Tick)
	}
	return nil
}

func (a *App) toggleBookmark() {
	p := a.selected()
	if p == nil || a.bookmarks == nil {
		return
	}
	if a.bookmarked[p.ID] {
		if _, err := a.bookmarks.Remove(p.ID); err != nil {
			a.err = err
			return
		}
		delete(a.bookmarked, p.ID)
		a.status = "Bookmark removed"
		return
	}
	b := store.Bookmark{
		PostID:   p.ID,
		Title:    p.Title,
		Category: p.DisplayCategory(),
		Author:   p.Author.Name,
		Excerpt:  truncateStr(stripHTML(p.Content), 200),
	}
	if err := a.bookmarks.Add(b); err != nil {
		a.err = err
		return
	}
	a.bookmarked[p.ID] = true
	a.status = "Bookmarked"
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.ctrl.SetSearchTerm("")
		if job, ok := a.ctrl.CommitSearch(); ok {
			a.cursor = 0
			return a, tea.Batch(a.runJob(job), a.spinner.Tick)
		}
		return a, nil
	case "enter":
		a.mode = modeList
		a.searchInput.Blur()
		if job, ok := a.ctrl.CommitSearch(); ok {
			a.cursor = 0
			return a, tea.Batch(a.runJob(job), a.spinner.Tick)
		}
		return a, nil
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-arm the debounce on actual value changes, not cursor moves
	if v := a.searchInput.Value(); v != before {
		a.ctrl.SetSearchTerm(v)
		a.debounce.Bump()
		return a, tea.Batch(cmd, a.searchTickCmd())
	}
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeList
		a.catBar.filterMode = false
		return a, nil
	case "left", "h":
		a.catBar.moveLeft()
		return a, nil
	case "right", "l":
		a.catBar.moveRight()
		return a, nil
	case " ", "enter":
		category := a.catBar.selectCurrent()
		a.mode = modeList
		a.catBar.filterMode = false
		if job, ok := a.ctrl.SetCategory(category); ok {
			a.cursor = 0
			a.previewScroll = 0
			return a, tea.Batch(a.runJob(job), a.spinner.Tick)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		target := a.deleteTarget
		a.deleteTarget = nil
		a.mode = modeList
		if target == nil {
			return a, nil
		}
		return a, a.deleteCmd(*target)
	case "n", "esc", "q":
		a.deleteTarget = nil
		a.mode = modeList
		return a, nil
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorPrimary).Render("  insighthub")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	snap := a.ctrl.Snapshot()

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("insighthub")
	headerRight := headerDateStyle.Render(a.currentDate)
	if a.viewer.Name != "" {
		headerRight = headerDateStyle.Render(a.viewer.Name + " · " + a.currentDate)
	}
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Category bar (replaced by the search input while searching)
	filter := a.catBar.render(a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(snap.Items, a.bookmarked, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	selected := a.selected()
	innerPreviewW := previewWidth - 4
	bookmarked := selected != nil && a.bookmarked[selected.ID]
	previewContent := renderPreview(selected, innerPreviewW, contentHeight, a.previewScroll, bookmarked)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	// Join panes
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	// Status bar
	errText := ""
	if snap.Err != nil {
		errText = snap.Err.Error()
	} else if a.err != nil {
		errText = a.err.Error()
	}
	status := renderStatusBar(
		len(snap.Items),
		a.catBar.selectedLabel(),
		a.status,
		a.width,
		a.mode == modeSearch,
		snap.Loading,
		!snap.HasMore,
		errText,
	)

	if snap.Loading {
		status = a.spinner.View() + " " + status
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)

	if a.mode == modeConfirmDelete && a.deleteTarget != nil {
		prompt := fmt.Sprintf("Delete %q?\n\ny delete  n cancel", truncateStr(a.deleteTarget.Title, 40))
		card := confirmStyle.Render(prompt)
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
	}

	return screen
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("insighthub")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate post list (loads more near the end)\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open post in browser\n" +
		"  b             Bookmark / unbookmark post\n" +
		"  d             Delete your own post\n" +
		"  r             Refresh feed (retry after an error)\n" +
		"  /             Search posts\n" +
		"  f             Category filter mode\n\n" +
		dim.Render("Filter Mode") + "\n" +
		"  ←/→, h/l     Move between categories\n" +
		"  space/enter   Select category\n" +
		"  esc, f        Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
