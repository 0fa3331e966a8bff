// Package store records verification run history in SQLite or PostgreSQL.
// The store is optional; when disabled the verifier stays stateless.
package store

import (
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store/connector"
)

// Run is re-exported for callers of the facade.
type Run = connector.Run

type connectorWithMap struct {
	conn connector.Connector
	cfg  map[string]interface{}
}

// Store is the facade over a connected history backend.
type Store struct {
	conn     connector.Connector
	table    string
	saveBody bool
}

// Open connects the configured backend and ensures the runs table exists.
// Returns (nil, nil) when the store is disabled.
func Open(cfg Config) (*Store, error) {
	if cfg.Disabled {
		return nil, nil
	}
	cm, err := cfg.newConnector()
	if err != nil {
		return nil, err
	}
	if err := cm.conn.Load(cm.cfg); err != nil {
		return nil, err
	}
	if _, err := cm.conn.Connect(); err != nil {
		return nil, err
	}
	table := cfg.RunsTable()
	if err := cm.conn.Ensure(table); err != nil {
		_ = cm.conn.Close()
		return nil, err
	}
	return &Store{conn: cm.conn, table: table, saveBody: cfg.SaveResponseBody}, nil
}

// Close releases the backend connection. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// RecordRun persists one verification attempt. The response body is stored
// only when save_response_body is set, truncated to a bounded size.
func (s *Store) RecordRun(target, authMode string, statusCode int, body string, verified bool) error {
	if s == nil || s.conn == nil {
		return nil
	}
	run := Run{
		Target:     target,
		AuthMode:   authMode,
		StatusCode: statusCode,
		Verified:   verified,
	}
	if s.saveBody {
		b := body
		if len(b) > constants.MaxStoredBodyBytes {
			b = b[:constants.MaxStoredBodyBytes]
		}
		run.Body = &b
	}
	if err := s.conn.RecordRun(s.table, run); err != nil {
		common.GetLogger().WithComponent("store").Error("failed to record run", "error", err)
		return err
	}
	return nil
}

// ListRuns returns the recorded history ordered oldest first.
func (s *Store) ListRuns() ([]Run, error) {
	if s == nil || s.conn == nil {
		return nil, nil
	}
	return s.conn.ListRuns(s.table)
}
