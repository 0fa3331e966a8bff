package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Dialect hides SQLite's SQL quirks from the store: integer booleans and
// string timestamps.
type Dialect struct{}

func NewDialect() *Dialect { return &Dialect{} }

func (s *Dialect) Name() string { return "sqlite" }

// BoolToStorage maps bool onto the 0/1 integers SQLite stores.
func (s *Dialect) BoolToStorage(b bool) interface{} {
	if b {
		return 1
	}
	return 0
}

func (s *Dialect) BoolFromStorage(v interface{}) bool {
	switch n := v.(type) {
	case int64:
		return n != 0
	case int:
		return n != 0
	}
	return false
}

// TimeToStorage stores timestamps as RFC3339Nano strings in UTC.
func (s *Dialect) TimeToStorage(t time.Time) interface{} {
	return t.UTC().Format(time.RFC3339Nano)
}

// Connect opens the database file and pins the pool to a single connection,
// since SQLite permits only one writer.
func (s *Dialect) Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// EnsureDDL returns the runs table creation statement.
func (s *Dialect) EnsureDDL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
		"id INTEGER PRIMARY KEY AUTOINCREMENT, "+
		"target TEXT NOT NULL, "+
		"auth_mode TEXT NOT NULL, "+
		"status_code INTEGER NOT NULL, "+
		"body TEXT NULL, "+
		"verified INTEGER NOT NULL DEFAULT 0, "+
		"ran_at TEXT NOT NULL)", table)
}
