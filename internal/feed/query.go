package feed

import "strings"

// Query addresses one page of the feed. Category and Search identify
// the query; Page and PageSize only describe a position within it.
type Query struct {
	Category string
	Search   string
	Author   string
	Page     int
	PageSize int
}

// BuildQuery composes a page-1 query from user-facing filter state.
// "All" or an empty category means no category filter. The search term
// is transmitted verbatim; the server owns matching semantics.
func BuildQuery(category, search string, pageSize int) Query {
	if category == "All" {
		category = ""
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return Query{
		Category: category,
		Search:   search,
		Page:     1,
		PageSize: pageSize,
	}
}

// EquivalentTo reports whether two queries name the same result set,
// ignoring position. Search terms compare trimmed and case-folded.
func (q Query) EquivalentTo(o Query) bool {
	return q.Category == o.Category &&
		q.Author == o.Author &&
		normalizeSearch(q.Search) == normalizeSearch(o.Search)
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// withPage returns a copy of q positioned at the given page.
func (q Query) withPage(page int) Query {
	q.Page = page
	return q
}
