package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDB wraps a database/sql handle backed by go-sqlite3
type SQLiteDB struct {
	DB *sql.DB
}

// NewSQLiteDB opens (creating if needed) the SQLite database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteDB(ctx context.Context, path string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", path)
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}

	handle, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite serialises writers; a single connection also keeps an
	// in-memory database alive and shared across requests.
	handle.SetMaxOpenConns(1)
	handle.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to establish sqlite connection: %w", err)
	}

	return &SQLiteDB{DB: handle}, nil
}

// SQL returns the underlying handle
func (db *SQLiteDB) SQL() *sql.DB {
	return db.DB
}

// Close closes the database handle
func (db *SQLiteDB) Close() {
	if db.DB != nil {
		db.DB.Close()
	}
}
