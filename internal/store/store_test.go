package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndHas(t *testing.T) {
	s := testStore(t)

	ok, err := s.Has("p1")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if ok {
		t.Error("empty store reports bookmark")
	}

	if err := s.Add(Bookmark{PostID: "p1", Title: "First", Category: "Tech"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ok, err = s.Has("p1")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !ok {
		t.Error("bookmark not found after Add")
	}
}

func TestAddUpdatesExisting(t *testing.T) {
	s := testStore(t)

	if err := s.Add(Bookmark{PostID: "p1", Title: "Old Title", Category: "Tech"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(Bookmark{PostID: "p1", Title: "New Title", Category: "Travel"}); err != nil {
		t.Fatalf("second Add: %v", err)
	}

	list, err := s.List(ListOpts{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d bookmarks, want 1", len(list))
	}
	if list[0].Title != "New Title" || list[0].Category != "Travel" {
		t.Errorf("bookmark not updated: %+v", list[0])
	}
}

func TestRemove(t *testing.T) {
	s := testStore(t)

	removed, err := s.Remove("missing")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Error("Remove reported success for missing bookmark")
	}

	if err := s.Add(Bookmark{PostID: "p1", Title: "First"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	removed, err = s.Remove("p1")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("Remove reported no bookmark deleted")
	}

	ok, err := s.Has("p1")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if ok {
		t.Error("bookmark still present after Remove")
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	s := testStore(t)

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	fixtures := []Bookmark{
		{PostID: "p1", Title: "Slow Trains Through Portugal", Category: "Travel", Author: "Dana", SavedAt: base},
		{PostID: "p2", Title: "Profiling Go Services", Category: "Tech", Author: "Avery", SavedAt: base.Add(1 * time.Hour)},
		{PostID: "p3", Title: "Sourdough Basics", Category: "Food", Author: "Dana", Excerpt: "A starter guide", SavedAt: base.Add(2 * time.Hour)},
	}
	for _, b := range fixtures {
		if err := s.Add(b); err != nil {
			t.Fatalf("Add %s: %v", b.PostID, err)
		}
	}

	// Newest first.
	list, err := s.List(ListOpts{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d bookmarks, want 3", len(list))
	}
	if list[0].PostID != "p3" || list[2].PostID != "p1" {
		t.Errorf("wrong order: %s, %s, %s", list[0].PostID, list[1].PostID, list[2].PostID)
	}

	// Category filter.
	list, err = s.List(ListOpts{Category: "Tech"})
	if err != nil {
		t.Fatalf("List category: %v", err)
	}
	if len(list) != 1 || list[0].PostID != "p2" {
		t.Errorf("category filter returned %+v", list)
	}

	// Search matches title, excerpt, and author.
	for _, tt := range []struct {
		search string
		want   int
	}{
		{"trains", 1},
		{"starter", 1},
		{"dana", 2},
		{"nomatch", 0},
	} {
		list, err = s.List(ListOpts{Search: tt.search})
		if err != nil {
			t.Fatalf("List search %q: %v", tt.search, err)
		}
		if len(list) != tt.want {
			t.Errorf("search %q returned %d, want %d", tt.search, len(list), tt.want)
		}
	}

	// Limit caps the result.
	list, err = s.List(ListOpts{Limit: 2})
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("limit returned %d, want 2", len(list))
	}
}

func TestIDs(t *testing.T) {
	s := testStore(t)

	for _, id := range []string{"p1", "p2"} {
		if err := s.Add(Bookmark{PostID: id, Title: id}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	ids, err := s.IDs()
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if len(ids) != 2 || !ids["p1"] || !ids["p2"] {
		t.Errorf("IDs = %v", ids)
	}
}

func TestClearAndStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bookmarks.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := s.Add(Bookmark{PostID: id, Title: id}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	count, size, err := s.Stats(dbPath)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}

	deleted, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Clear deleted %d, want 3", deleted)
	}

	count, _, err = s.Stats(dbPath)
	if err != nil {
		t.Fatalf("Stats after clear: %v", err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}
