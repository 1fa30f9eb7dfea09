// Package store persists accounts, categories, portfolio holdings,
// watchlist items and saved comparisons in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound means the record doesn't exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a uniqueness rule was violated.
	ErrDuplicate = errors.New("already exists")
	// ErrInUse means the record is referenced by other records and cannot
	// be deleted yet.
	ErrInUse = errors.New("in use")
)

// Store wraps the SQLite database. Writes are serialized behind a mutex.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   INTEGER NOT NULL,
			name      TEXT NOT NULL,
			color     TEXT NOT NULL DEFAULT '#3b82f6',
			parent_id INTEGER
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_name ON categories(user_id, name)`,

		`CREATE TABLE IF NOT EXISTS holdings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL,
			screener_id INTEGER NOT NULL,
			name        TEXT NOT NULL,
			category_id INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_holdings_user_company ON holdings(user_id, screener_id)`,

		`CREATE TABLE IF NOT EXISTS watchlist (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL,
			screener_id INTEGER NOT NULL,
			name        TEXT NOT NULL,
			category_id INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_watchlist_user_company ON watchlist(user_id, screener_id)`,

		`CREATE TABLE IF NOT EXISTS comparisons (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       INTEGER NOT NULL,
			name          TEXT NOT NULL,
			screener_ids  TEXT NOT NULL,
			company_names TEXT NOT NULL,
			kind          TEXT NOT NULL DEFAULT 'mixed',
			created_at    INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_comparisons_user_name ON comparisons(user_id, name)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	log.Println("[INFO] closing store")
	return s.db.Close()
}
