package store

import (
	"fmt"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/constants"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store/postgresql"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store/sqlite"
	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/util"
)

const (
	DriverSqlite     = "sqlite"
	DriverPostgresql = "postgresql"
)

// SQLiteConfig holds the file path for the SQLite backend.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Config selects and parameterizes the history backend.
type Config struct {
	Disabled         bool              `mapstructure:"disabled" yaml:"disabled"`
	SaveResponseBody bool              `mapstructure:"save_response_body" yaml:"save_response_body"`
	Type             string            `mapstructure:"type" yaml:"type"`
	SQLite           SQLiteConfig      `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres         postgresql.Config `mapstructure:"postgres" yaml:"postgres"`
	// Optional table name customization
	TablePrefix string `mapstructure:"table_prefix" yaml:"table_prefix"`
	TableRuns   string `mapstructure:"table_runs" yaml:"table_runs"`
}

// Configured reports whether any backend setting was provided. The commands
// skip history entirely for an untouched config so a plain run leaves no
// database file behind.
func (c *Config) Configured() bool {
	if c.Disabled {
		return false
	}
	if _, ok := util.Trimmed(c.Type); ok {
		return true
	}
	if _, ok := util.Trimmed(c.SQLite.Path); ok {
		return true
	}
	if _, ok := util.Trimmed(c.Postgres.DSN); ok {
		return true
	}
	_, ok := util.Trimmed(c.Postgres.Host)
	return ok
}

// RunsTable returns the effective runs table name.
func (c *Config) RunsTable() string {
	if t, ok := util.Trimmed(c.TableRuns); ok {
		return t
	}
	if p, ok := util.Trimmed(c.TablePrefix); ok {
		return p + constants.RunsTableSuffix
	}
	return constants.DefaultRunsTable
}

// newConnector builds the backend connector with its config map loaded.
func (c *Config) newConnector() (connectorWithMap, error) {
	switch util.Normalize(c.Type) {
	case "", DriverSqlite:
		path := util.OrDefault(c.SQLite.Path, constants.DefaultSQLiteFile)
		return connectorWithMap{
			conn: sqlite.NewStore(),
			cfg:  map[string]interface{}{"path": path},
		}, nil
	case DriverPostgresql, "postgres", "pg":
		return connectorWithMap{
			conn: postgresql.NewStore(),
			cfg:  c.Postgres.ToMap(),
		}, nil
	default:
		return connectorWithMap{}, fmt.Errorf("store: unsupported type %q (valid: sqlite, postgresql)", c.Type)
	}
}
