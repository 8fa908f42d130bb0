// Package cache persists parse results in a local SQLite database so
// unchanged inputs are not parsed twice.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

var (
	// ErrNotFound is returned by Get when no entry matches.
	ErrNotFound = errors.New("cache entry not found")
	// ErrNotOpen is returned by operations on a closed store.
	ErrNotOpen = errors.New("cache not opened")
)

const (
	getSQL = `SELECT id, tree_json, unparsable, created_at FROM parse_cache WHERE dialect = ? AND hash = ?`
	putSQL = `INSERT INTO parse_cache (id, dialect, hash, tree_json, unparsable, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (dialect, hash) DO UPDATE SET
    tree_json = excluded.tree_json,
    unparsable = excluded.unparsable,
    created_at = excluded.created_at`
	statsSQL = `SELECT dialect, COUNT(*), COALESCE(SUM(LENGTH(tree_json)), 0), MAX(created_at)
FROM parse_cache GROUP BY dialect ORDER BY dialect`
	clearSQL = `DELETE FROM parse_cache`
)

// Entry is one cached parse result.
type Entry struct {
	ID         string
	Dialect    string
	Hash       string
	TreeJSON   []byte
	Unparsable int
	CreatedAt  time.Time
}

// DialectStats summarises the entries of one dialect.
type DialectStats struct {
	Dialect string
	Entries int
	Bytes   int64
	Newest  time.Time
}

// Store is a parse-result cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// New wraps an open database. The caller runs InitSchema if needed.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open opens or creates the cache database at path and migrates it.
// Use ":memory:" for a throwaway cache.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	s := New(db)
	s.path = path
	if err := s.InitSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Get returns the entry for dialect and hash.
func (s *Store) Get(ctx context.Context, dialect, hash string) (*Entry, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	e := &Entry{Dialect: dialect, Hash: hash}
	var tree, created string
	err := s.db.QueryRowContext(ctx, getSQL, dialect, hash).Scan(&e.ID, &tree, &e.Unparsable, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	e.TreeJSON = []byte(tree)
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %s: %w", e.ID, err)
	}
	return e, nil
}

// Put stores an entry, replacing any entry with the same dialect and hash.
// ID and CreatedAt are filled in when empty.
func (s *Store) Put(ctx context.Context, e *Entry) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, putSQL,
		e.ID, e.Dialect, e.Hash, string(e.TreeJSON), e.Unparsable, e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

// Stats returns per-dialect entry counts ordered by dialect.
func (s *Store) Stats(ctx context.Context) ([]DialectStats, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, statsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []DialectStats
	for rows.Next() {
		var st DialectStats
		var newest string
		if err := rows.Scan(&st.Dialect, &st.Entries, &st.Bytes, &newest); err != nil {
			return nil, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		st.Newest, _ = time.Parse(time.RFC3339Nano, newest)
		out = append(out, st)
	}
	return out, rows.Err()
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, clearSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return res.RowsAffected()
}

// Hash returns the cache key of sql. Extra parts, such as rendering
// options, are folded into the key.
func Hash(sql string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(sql))
	for _, p := range parts {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
