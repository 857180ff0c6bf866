// Package store keeps read-later bookmarks in a local sqlite database.
// The platform has no server-side bookmark API, so these never leave
// the machine.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Bookmark struct {
	PostID   string
	Title    string
	Category string
	Author   string
	Excerpt  string
	SavedAt  time.Time
}

type ListOpts struct {
	Search   string
	Category string
	Limit    int
}

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS bookmarks (
			post_id  TEXT PRIMARY KEY,
			title    TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			author   TEXT NOT NULL DEFAULT '',
			excerpt  TEXT NOT NULL DEFAULT '',
			saved_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_saved ON bookmarks(saved_at DESC);
		CREATE INDEX IF NOT EXISTS idx_bookmarks_category ON bookmarks(category);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Add saves a bookmark, updating the stored copy if it already exists.
func (s *Store) Add(b Bookmark) error {
	if b.SavedAt.IsZero() {
		b.SavedAt = time.Now()
	}
	_, err := s.writeDB.Exec(`
		INSERT INTO bookmarks (post_id, title, category, author, excerpt, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(post_id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			author = excluded.author,
			excerpt = excluded.excerpt
	`, b.PostID, b.Title, b.Category, b.Author, b.Excerpt, b.SavedAt)
	if err != nil {
		return fmt.Errorf("saving bookmark %s: %w", b.PostID, err)
	}
	return nil
}

// Remove deletes a bookmark, reporting whether one existed.
func (s *Store) Remove(postID string) (bool, error) {
	res, err := s.writeDB.Exec("DELETE FROM bookmarks WHERE post_id = ?", postID)
	if err != nil {
		return false, fmt.Errorf("removing bookmark %s: %w", postID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Has(postID string) (bool, error) {
	var one int
	err := s.readDB.QueryRow("SELECT 1 FROM bookmarks WHERE post_id = ?", postID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IDs returns all bookmarked post identities.
func (s *Store) IDs() (map[string]bool, error) {
	rows, err := s.readDB.Query("SELECT post_id FROM bookmarks")
	if err != nil {
		return nil, fmt.Errorf("querying bookmark ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func (s *Store) List(opts ListOpts) ([]Bookmark, error) {
	var (
		where []string
		args  []interface{}
	)

	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}

	if opts.Search != "" {
		where = append(where, "(title LIKE ? OR excerpt LIKE ? OR author LIKE ?)")
		term := "%" + opts.Search + "%"
		args = append(args, term, term, term)
	}

	query := "SELECT post_id, title, category, author, excerpt, saved_at FROM bookmarks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY saved_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.PostID, &b.Title, &b.Category, &b.Author, &b.Excerpt, &b.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Clear removes every bookmark and reports how many were deleted.
func (s *Store) Clear() (int64, error) {
	res, err := s.writeDB.Exec("DELETE FROM bookmarks")
	if err != nil {
		return 0, fmt.Errorf("clearing bookmarks: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns the bookmark count and database size on disk.
func (s *Store) Stats(dbPath string) (count int64, size int64, err error) {
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM bookmarks").Scan(&count); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}
