package postgresql

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store/connector"
	"github.com/go-viper/mapstructure/v2"
)

// Store persists verification runs in a PostgreSQL database.
type Store struct {
	db      *sql.DB
	dialect *Dialect
	DSN     string
}

// NewStore creates a new PostgreSQL store
func NewStore() *Store {
	return &Store{
		dialect: NewDialect(),
	}
}

type options struct {
	DSN string `mapstructure:"dsn"`
}

// Load requires a resolved DSN; component-to-DSN assembly happens in Config.
func (s *Store) Load(config map[string]interface{}) error {
	var opt options
	if err := mapstructure.Decode(config, &opt); err != nil {
		return fmt.Errorf("postgresql: decode store config: %w", err)
	}
	if opt.DSN == "" {
		return errors.New("postgresql: missing dsn")
	}
	s.DSN = opt.DSN
	return nil
}

// Connect establishes a connection to PostgreSQL using the dialect
func (s *Store) Connect() (*sql.DB, error) {
	if s.DSN == "" {
		return nil, errors.New("postgresql: missing dsn")
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
		return fmt.Errorf("postgresql: ensure table %s: %w", table, err)
	}
	return nil
}

// RecordRun inserts one verification attempt
func (s *Store) RecordRun(table string, run connector.Run) error {
	q := fmt.Sprintf("INSERT INTO %s(target, auth_mode, status_code, body, verified, ran_at) VALUES($1, $2, $3, $4, $5, $6)", table)
	_, err := s.db.Exec(q,
		run.Target,
		run.AuthMode,
		run.StatusCode,
		run.Body,
		run.Verified,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgresql: record run: %w", err)
	}
	return nil
}

// ListRuns returns all recorded runs ordered by id ASC
func (s *Store) ListRuns(table string) ([]connector.Run, error) {
	q := fmt.Sprintf("SELECT id, target, auth_mode, status_code, body, verified, ran_at FROM %s ORDER BY id ASC", table)
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("postgresql: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []connector.Run
	for rows.Next() {
		var r connector.Run
		var body sql.NullString
		var ranAt time.Time
		if err := rows.Scan(&r.ID, &r.Target, &r.AuthMode, &r.StatusCode, &body, &r.Verified, &ranAt); err != nil {
			return nil, err
		}
		if body.Valid {
			b := body.String
			r.Body = &b
		}
		r.RanAt = s.dialect.TimeFromStorage(ranAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
