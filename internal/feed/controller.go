package feed

import (
	"context"
	"sync"
)

// Fetcher loads one page of posts for a query. An empty result page
// signals exhaustion; errors propagate unmodified and are never
// retried here.
type Fetcher interface {
	FetchPage(ctx context.Context, q Query) ([]Post, error)
}

// Resolver turns an opaque asset reference into a fetchable URL.
// An empty reference resolves to "" without I/O.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseError
)

// Job describes one page fetch the controller has decided to issue.
// Generation tags the query lineage so late results for superseded
// queries can be discarded; Reset marks page 1 of a new query, whose
// result replaces the item list instead of appending.
type Job struct {
	Query      Query
	Generation uint64
	Reset      bool
}

// Result carries a completed fetch back into Apply.
type Result struct {
	Job   Job
	Posts []Post
	Err   error
}

// Snapshot is the reactive view of feed state handed to the rendering
// layer.
type Snapshot struct {
	Items   []Post
	Loading bool
	HasMore bool
	Err     error
}

// Controller owns the feed state machine: query state, page cursor,
// the loading gate, and the ordered, identity-unique item list.
//
// It is not safe for concurrent use. A single driver (the TUI update
// loop, or a test) calls the trigger methods and Apply; only Run, which
// touches no controller state beyond the fetcher and resolver, may
// execute on another goroutine.
type Controller struct {
	fetcher  Fetcher
	resolver Resolver

	query      Query
	generation uint64
	page       int
	items      []Post
	seen       map[string]struct{}
	hasMore    bool
	phase      Phase
	lastErr    error

	pendingSearch string
	searchDirty   bool
}

func NewController(fetcher Fetcher, resolver Resolver, pageSize int) *Controller {
	return &Controller{
		fetcher:  fetcher,
		resolver: resolver,
		query:    BuildQuery("", "", pageSize),
		page:     1,
		seen:     make(map[string]struct{}),
		hasMore:  true,
		phase:    PhaseIdle,
	}
}

// Start issues the initial page-1 fetch for the current query.
func (c *Controller) Start() (Job, bool) {
	if c.phase == PhaseLoading {
		return Job{}, false
	}
	return c.reset(c.query), true
}

// Refresh re-issues the current query from page 1, discarding whatever
// is in flight via the generation bump.
func (c *Controller) Refresh() (Job, bool) {
	return c.reset(c.query), true
}

// SetCategory switches the category filter. Selecting the category the
// feed already shows is a no-op.
func (c *Controller) SetCategory(category string) (Job, bool) {
	candidate := BuildQuery(category, c.query.Search, c.query.PageSize)
	if candidate.EquivalentTo(c.query) {
		return Job{}, false
	}
	return c.reset(candidate), true
}

// SetSearchTerm records the latest search input. Nothing is fetched
// until the caller's debounce elapses and CommitSearch runs.
func (c *Controller) SetSearchTerm(term string) {
	c.pendingSearch = term
	c.searchDirty = true
}

// CommitSearch turns the pending search term into a query change. If
// typing ended up back at an equivalent term, no fetch is issued.
func (c *Controller) CommitSearch() (Job, bool) {
	if !c.searchDirty {
		return Job{}, false
	}
	c.searchDirty = false
	candidate := BuildQuery(c.query.Category, c.pendingSearch, c.query.PageSize)
	candidate.Author = c.query.Author
	if candidate.EquivalentTo(c.query) {
		return Job{}, false
	}
	return c.reset(candidate), true
}

// ScrolledNearEnd advances the page cursor when the viewport nears the
// end of the loaded items. The loading flag acts as a mutex: at most
// one in-flight page fetch per generation. Once the query is exhausted
// this is a no-op until the query changes.
func (c *Controller) ScrolledNearEnd() (Job, bool) {
	if c.phase != PhaseIdle || !c.hasMore {
		return Job{}, false
	}
	c.page++
	c.phase = PhaseLoading
	return Job{Query: c.query.withPage(c.page), Generation: c.generation}, true
}

// Retry re-issues the fetch that failed. Only valid from the error
// state; generation and page cursor are unchanged.
func (c *Controller) Retry() (Job, bool) {
	if c.phase != PhaseError {
		return Job{}, false
	}
	c.phase = PhaseLoading
	return Job{
		Query:      c.query.withPage(c.page),
		Generation: c.generation,
		Reset:      c.page == 1,
	}, true
}

// NotifyDeleted strikes a post from the item list by identity. It is
// idempotent and deliberately leaves page, generation, and hasMore
// alone, so a feed can under-fill below a full page after deletions.
func (c *Controller) NotifyDeleted(id string) {
	if _, ok := c.seen[id]; !ok {
		return
	}
	delete(c.seen, id)
	for i, p := range c.items {
		if p.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
}

func (c *Controller) reset(q Query) Job {
	c.generation++
	c.query = q
	c.page = 1
	c.items = nil
	c.seen = make(map[string]struct{})
	c.hasMore = true
	c.phase = PhaseLoading
	c.lastErr = nil
	return Job{Query: q.withPage(1), Generation: c.generation, Reset: true}
}

// Run executes a job: one page fetch, then concurrent asset resolution
// for every fetched post. Per-item resolution failures degrade to an
// empty URL and never fail the page. Run holds no controller state, so
// the driver may call it off the update loop.
func (c *Controller) Run(ctx context.Context, job Job) Result {
	posts, err := c.fetcher.FetchPage(ctx, job.Query)
	if err != nil {
		return Result{Job: job, Err: err}
	}

	if c.resolver != nil {
		var wg sync.WaitGroup
		for i := range posts {
			if posts[i].AssetRef == "" {
				continue
			}
			wg.Add(1)
			go func(p *Post) {
				defer wg.Done()
				url, err := c.resolver.Resolve(ctx, p.AssetRef)
				if err != nil {
					return // render a placeholder instead
				}
				p.AssetURL = url
			}(&posts[i])
		}
		wg.Wait()
	}

	return Result{Job: job, Posts: posts}
}

// Apply reconciles a completed fetch into the feed state.
func (c *Controller) Apply(res Result) {
	// A result tagged with an old generation was superseded by a newer
	// filter or search change; it must not touch the state the newer
	// query owns.
	if res.Job.Generation != c.generation {
		return
	}

	if res.Err != nil {
		c.phase = PhaseError
		c.lastErr = res.Err
		return
	}

	if res.Job.Reset {
		c.items = nil
		c.seen = make(map[string]struct{})
	}
	for _, p := range res.Posts {
		if _, dup := c.seen[p.ID]; dup {
			continue
		}
		c.seen[p.ID] = struct{}{}
		c.items = append(c.items, p)
	}

	// Only a raw empty page signals exhaustion. A non-empty page whose
	// items were all duplicates is a no-op append, not the end.
	if len(res.Posts) == 0 {
		c.hasMore = false
	}

	c.phase = PhaseIdle
	c.lastErr = nil
}

// Snapshot returns the current feed state for rendering.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Items:   c.items,
		Loading: c.phase == PhaseLoading,
		HasMore: c.hasMore,
		Err:     c.lastErr,
	}
}

// Query returns the query the feed currently shows.
func (c *Controller) Query() Query {
	return c.query
}

// Phase exposes the state-machine phase.
func (c *Controller) Phase() Phase {
	return c.phase
}
