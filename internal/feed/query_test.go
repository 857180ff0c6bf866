package feed

import "testing"

func TestBuildQueryNormalizesCategory(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"All", ""},
		{"", ""},
		{"Travel", "Travel"},
	}
	for _, tt := range tests {
		q := BuildQuery(tt.category, "", 10)
		if q.Category != tt.want {
			t.Errorf("BuildQuery(%q).Category = %q, want %q", tt.category, q.Category, tt.want)
		}
	}
}

func TestBuildQueryStartsAtPageOne(t *testing.T) {
	q := BuildQuery("Tech", "go", 25)
	if q.Page != 1 {
		t.Errorf("expected page 1, got %d", q.Page)
	}
	if q.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", q.PageSize)
	}

	q = BuildQuery("", "", 0)
	if q.PageSize != 10 {
		t.Errorf("expected default page size 10, got %d", q.PageSize)
	}
}

func TestSearchTermTransmittedVerbatim(t *testing.T) {
	q := BuildQuery("", "  Rust Performance  ", 10)
	if q.Search != "  Rust Performance  " {
		t.Errorf("search term was mangled: %q", q.Search)
	}
}

func TestQueryEquivalence(t *testing.T) {
	tests := []struct {
		name string
		a, b Query
		want bool
	}{
		{
			name: "identical",
			a:    Query{Category: "Tech", Search: "go"},
			b:    Query{Category: "Tech", Search: "go"},
			want: true,
		},
		{
			name: "page does not participate",
			a:    Query{Category: "Tech", Search: "go", Page: 1, PageSize: 10},
			b:    Query{Category: "Tech", Search: "go", Page: 7, PageSize: 20},
			want: true,
		},
		{
			name: "search compares trimmed and case-folded",
			a:    Query{Search: "  GO  "},
			b:    Query{Search: "go"},
			want: true,
		},
		{
			name: "different category",
			a:    Query{Category: "Tech"},
			b:    Query{Category: "Travel"},
			want: false,
		},
		{
			name: "different search",
			a:    Query{Search: "go"},
			b:    Query{Search: "rust"},
			want: false,
		},
		{
			name: "different author",
			a:    Query{Author: "u1"},
			b:    Query{Author: "u2"},
			want: false,
		},
	}
	for _, tt := range tests {
		if got := tt.a.EquivalentTo(tt.b); got != tt.want {
			t.Errorf("%s: EquivalentTo = %v, want %v", tt.name, got, tt.want)
		}
	}
}
