// Package store provides SQLite persistence for articles.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"newsbrief/internal/feed"
)

// ErrDuplicate is returned by Insert when an article with the same
// fingerprint already exists. Callers treat it as a successful dedup.
var ErrDuplicate = errors.New("store: duplicate fingerprint")

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at the given database path, creating tables as
// needed. File databases run in WAL mode for better concurrent reads.
// Any open or ping failure means the data layer is unavailable and is
// fatal for the caller.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		fingerprint TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		raw_summary TEXT,
		short_summary TEXT,
		classification TEXT NOT NULL,
		factual_signals INTEGER NOT NULL DEFAULT 0,
		speculative_signals INTEGER NOT NULL DEFAULT 0,
		published_at DATETIME NOT NULL,
		ingested_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_ingested ON articles(ingested_at);
	CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Exists reports whether an article with the given fingerprint is stored.
func (s *Store) Exists(fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM articles WHERE fingerprint = ?", fingerprint).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return true, nil
}

// Insert stores a complete article. Articles are never mutated after
// insert; a fingerprint collision returns ErrDuplicate and leaves the
// existing row untouched.
func (s *Store) Insert(a feed.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		INSERT OR IGNORE INTO articles (
			fingerprint, source_url, category, title, raw_summary,
			short_summary, classification, factual_signals,
			speculative_signals, published_at, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.Fingerprint,
		a.SourceURL,
		string(a.Category),
		a.Title,
		a.RawSummary,
		a.ShortSummary,
		string(a.Classification),
		a.FactualSignals,
		a.SpeculativeSignals,
		a.PublishedAt,
		a.IngestedAt,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	if rows == 0 {
		return ErrDuplicate
	}
	return nil
}

// DeleteOlderThan removes articles whose ingested_at precedes the cutoff
// and returns the number deleted. Idempotent.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM articles WHERE ingested_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old articles: %w", err)
	}
	return result.RowsAffected()
}

// QueryFilter narrows Query results. Nil fields match everything.
type QueryFilter struct {
	Category *feed.Category
	Since    *time.Time
	Until    *time.Time
}

// Query returns matching articles ordered by published_at descending.
func (s *Store) Query(filter QueryFilter) ([]feed.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT fingerprint, source_url, category, title, raw_summary,
		       short_summary, classification, factual_signals,
		       speculative_signals, published_at, ingested_at
		FROM articles
		WHERE 1=1
	`
	var args []any
	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*filter.Category))
	}
	if filter.Since != nil {
		query += " AND published_at >= ?"
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += " AND published_at < ?"
		args = append(args, *filter.Until)
	}
	query += " ORDER BY published_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []feed.Article
	for rows.Next() {
		var a feed.Article
		var category, classification string
		err := rows.Scan(
			&a.Fingerprint,
			&a.SourceURL,
			&category,
			&a.Title,
			&a.RawSummary,
			&a.ShortSummary,
			&classification,
			&a.FactualSignals,
			&a.SpeculativeSignals,
			&a.PublishedAt,
			&a.IngestedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Category = feed.Category(category)
		a.Classification = feed.Classification(classification)
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CountByCategory returns stored article counts per category.
func (s *Store) CountByCategory() (map[feed.Category]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT category, COUNT(*) FROM articles GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[feed.Category]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[feed.Category(category)] = n
	}
	return counts, rows.Err()
}
