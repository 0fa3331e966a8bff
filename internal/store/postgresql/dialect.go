package postgresql

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect covers what differs from SQLite on the PostgreSQL side: native
// booleans and TIMESTAMPTZ columns.
type Dialect struct{}

func NewDialect() *Dialect { return &Dialect{} }

func (p *Dialect) Name() string { return "postgresql" }

// TimeFromStorage renders a scanned TIMESTAMPTZ as RFC3339Nano, so both
// backends report run timestamps in the same shape.
func (p *Dialect) TimeFromStorage(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if t != nil {
			return t.UTC().Format(time.RFC3339Nano)
		}
	}
	return ""
}

func (p *Dialect) Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// EnsureDDL returns the runs table creation statement.
func (p *Dialect) EnsureDDL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
		"id SERIAL PRIMARY KEY, "+
		"target TEXT NOT NULL, "+
		"auth_mode TEXT NOT NULL, "+
		"status_code INTEGER NOT NULL, "+
		"body TEXT NULL, "+
		"verified BOOLEAN NOT NULL DEFAULT FALSE, "+
		"ran_at TIMESTAMPTZ NOT NULL)", table)
}
