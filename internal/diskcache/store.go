// Package diskcache implements SPEC_FULL.md §4.15's persistent DNS-answer
// and HTTP-response cache: a sqlite-backed store that survives process
// restart, additive to (not a replacement for) the in-memory TTL caches
// spec.md §3/§4.8 already define.
//
// Grounded on internal/store/store.go's embed.FS migration runner and
// modernc.org/sqlite driver registration.
package diskcache

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ehrlich-b/browsercore/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store owns the sqlite database backing both caches.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at dsn and runs
// every pending migration, per internal/store/store.go's Open.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("diskcache: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("diskcache: set WAL mode: %w", err)
	}
	s := &Store{db: db}
	applied, err := s.migrate()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("diskcache: migrate: %w", err)
	}
	if applied > 0 {
		logger.With("component", "diskcache").Info("applied migrations", "dsn", dsn, "count", applied)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies every pending migration and returns how many it ran.
func (s *Store) migrate() (int, error) {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return 0, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, f := range files {
		var alreadyApplied int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", f).Scan(&alreadyApplied); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", f, err)
		}
		if alreadyApplied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + f)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", f, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return applied, fmt.Errorf("begin tx for %s: %w", f, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("exec migration %s: %w", f, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", f); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %s: %w", f, err)
		}
		applied++
	}
	return applied, nil
}
