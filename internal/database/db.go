package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrency between the HTTP handlers and the
	// scheduled recompute job
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// NewInMemory creates an in-memory database, used by tests
func NewInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// A single connection keeps every query on the same in-memory database
	conn.SetMaxOpenConns(1)

	return &DB{conn: conn, path: ":memory:"}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the schema if it does not exist
func (db *DB) Migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS indicators (
			key            TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			theme          TEXT NOT NULL,
			temporal       TEXT NOT NULL,
			weight         REAL NOT NULL DEFAULT 1.0,
			inverted       INTEGER NOT NULL DEFAULT 0,
			current_value  REAL,
			pct_min        REAL,
			pct_33         REAL,
			pct_67         REAL,
			pct_max        REAL,
			updated_at     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS indicator_history (
			indicator_key  TEXT NOT NULL,
			position       INTEGER NOT NULL,
			value          REAL NOT NULL,
			PRIMARY KEY (indicator_key, position)
		)`,
		`CREATE TABLE IF NOT EXISTS theme_history (
			theme      TEXT NOT NULL,
			position   INTEGER NOT NULL,
			value      REAL NOT NULL,
			PRIMARY KEY (theme, position)
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			symbol     TEXT PRIMARY KEY,
			quantity   REAL NOT NULL DEFAULT 0,
			value      REAL NOT NULL DEFAULT 0,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			payload    TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
