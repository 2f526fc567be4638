package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/earnbox/earnbox/internal/domain"
)

// ─── Key-Value Schema ───────────────────────────────────────────────────────

// KVMigrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func KVMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

var _ domain.KeyValueStore = (*DB)(nil)

// ─── Key-Value Operations ───────────────────────────────────────────────────

// Get returns the value stored under key and whether it exists.
func (db *DB) Get(key string) ([]byte, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, false, domain.ErrStoreClosed
	}

	var value []byte
	err := db.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set inserts or overwrites the value stored under key.
func (db *DB) Set(key string, value []byte) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return domain.ErrStoreClosed
	}

	_, err := db.db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = datetime('now')
	`, key, value)
	return err
}

// UpdatedAt returns when key was last written, or the zero time if absent.
func (db *DB) UpdatedAt(key string) (time.Time, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return time.Time{}, domain.ErrStoreClosed
	}

	var updatedStr string
	err := db.db.QueryRow(`SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse("2006-01-02 15:04:05", updatedStr)
	return t, nil
}
