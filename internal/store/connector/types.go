package connector

import "database/sql"

// Run is a single recorded verification attempt.
// Body may be nil when response saving is disabled.
type Run struct {
	ID         int
	Target     string
	AuthMode   string
	StatusCode int
	Body       *string
	Verified   bool
	RanAt      string // RFC3339Nano; Postgres timestamps converted on read
}

// Connector abstracts the database backend that persists verification runs.
type Connector interface {
	Connect() (*sql.DB, error)
	Load(config map[string]interface{}) error
	Ensure(table string) error
	RecordRun(table string, run Run) error
	// ListRuns returns run history ordered by id ASC
	ListRuns(table string) ([]Run, error)
	Close() error
}
