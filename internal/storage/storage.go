// Package storage persists processed games: one summary row per game, the
// full canonical event timeline, and the aggregated per-player stat lines.
// Re-scraping a game replaces its rows wholesale, so every write path is
// idempotent by game id.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is a handle on the metrics store. One per process; safe for the
// sequential CLI workflows this tool runs.
type DB struct {
	conn *sql.DB
}

// dsn builds the connection string. WAL keeps a partially written re-scrape
// from blocking concurrent reads of the same file.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
}

// Open opens or creates the store at path and ensures the schema exists.
// ":memory:" yields a throwaway store, used by tests.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open metrics store %s: %w", path, err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply metrics schema to %s: %w", path, err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
