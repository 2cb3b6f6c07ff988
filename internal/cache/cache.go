// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists serialized search responses in SQLite with a TTL.
// Implements: prd004-cache (R1-R3);
//
//	docs/ARCHITECTURE § Response Cache.
//
// The cache is read-through on request start and write-through on
// successful completion. It is strictly optional: every failure mode
// degrades to direct computation, never to a failed request.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// DefaultTTL applies when the configuration names none.
const DefaultTTL = time.Hour

// Store manages the response cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens or creates the cache database at cfg.Path, bootstrapping the
// schema if needed (R1.1).
func Open(cfg types.CacheConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Store{db: db, ttl: ttl}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_expires ON responses(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Key derives the composite cache key from request parameters. Empty
// parts are kept so "query=|category=cs.LG" and "query=cs.LG|category="
// stay distinct.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get returns the cached body for key. A missing or expired entry is a
// miss; expired entries are pruned on the way out. Database errors are
// misses too (R2.2) — the caller recomputes.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		body      []byte
		expiresAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM responses WHERE key = ?`, key,
	).Scan(&body, &expiresAt)
	if err != nil {
		return nil, false
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || time.Now().After(expiry) {
		s.db.ExecContext(ctx, `DELETE FROM responses WHERE key = ?`, key)
		return nil, false
	}
	return body, true
}

// Put stores body under key with the configured TTL, replacing any
// previous entry, and prunes expired rows opportunistically (R1.3).
func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	expiresAt := time.Now().Add(s.ttl).UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (key, body, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body=excluded.body, expires_at=excluded.expires_at`,
		key, body, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("storing cached response: %w", err)
	}

	s.db.ExecContext(ctx,
		`DELETE FROM responses WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return nil
}
