package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store/connector"
	"github.com/go-viper/mapstructure/v2"
)

const (
	busyTimeoutMS    = 5000
	foreignKeysParam = "_fk=1"
)

// Store persists verification runs in a SQLite database file.
type Store struct {
	db      *sql.DB
	dialect *Dialect
	DSN     string
}

// NewStore creates a new SQLite store
func NewStore() *Store {
	return &Store{
		dialect: NewDialect(),
	}
}

type options struct {
	DSN  string `mapstructure:"dsn"`
	Path string `mapstructure:"path"`
}

// Load accepts either a complete DSN or a file path from the backend config.
func (s *Store) Load(config map[string]interface{}) error {
	var opt options
	if err := mapstructure.Decode(config, &opt); err != nil {
		return fmt.Errorf("sqlite: decode store config: %w", err)
	}
	if opt.DSN != "" {
		s.DSN = opt.DSN
		return nil
	}
	if opt.Path != "" {
		s.DSN = fmt.Sprintf("file:%s?_busy_timeout=%d&%s", opt.Path, busyTimeoutMS, foreignKeysParam)
	}
	return nil
}

// Connect establishes a connection to SQLite using the dialect
func (s *Store) Connect() (*sql.DB, error) {
	if s.DSN == "" {
		// Default to in-memory database for testing
		s.DSN = ":memory:"
	}

	db, err := s.dialect.Connect(s.DSN)
	if err != nil {
		return nil, err
	}
	s.db = db

	common.GetLogger().WithStore(s.dialect.Name()).Debug("database connection established")
	return db, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure creates the runs table when it does not exist yet
func (s *Store) Ensure(table string) error {
	if _, err := s.db.Exec(s.dialect.EnsureDDL(table)); err != nil {
		return fmt.Errorf("sqlite: ensure table %s: %w", table, err)
	}
	return nil
}

// RecordRun inserts one verification attempt
func (s *Store) RecordRun(table string, run connector.Run) error {
	q := fmt.Sprintf("INSERT INTO %s(target, auth_mode, status_code, body, verified, ran_at) VALUES(?, ?, ?, ?, ?, ?)", table)
	_, err := s.db.Exec(q,
		run.Target,
		run.AuthMode,
		run.StatusCode,
		run.Body,
		s.dialect.BoolToStorage(run.Verified),
		s.dialect.TimeToStorage(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("sqlite: record run: %w", err)
	}
	return nil
}

// ListRuns returns all recorded runs ordered by id ASC
func (s *Store) ListRuns(table string) ([]connector.Run, error) {
	q := fmt.Sprintf("SELECT id, target, auth_mode, status_code, body, verified, ran_at FROM %s ORDER BY id ASC", table)
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []connector.Run
	for rows.Next() {
		var r connector.Run
		var body sql.NullString
		var verified int64
		if err := rows.Scan(&r.ID, &r.Target, &r.AuthMode, &r.StatusCode, &body, &verified, &r.RanAt); err != nil {
			return nil, err
		}
		if body.Valid {
			b := body.String
			r.Body = &b
		}
		r.Verified = s.dialect.BoolFromStorage(verified)
		out = append(out, r)
	}
	return out, rows.Err()
}
