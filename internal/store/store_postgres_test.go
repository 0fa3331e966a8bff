package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable postgres container and returns a ready
// DSN. Skips the test where containers are unavailable.
func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()
	const user, pass, db = "verify", "verify", "runs_test"

	pg, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": pass,
				"POSTGRES_DB":       db,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("containers unavailable, skipping postgres store test: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", user, pass, host, port.Int(), db)

	// The log line can precede actual readiness, so ping until it answers.
	deadline := time.Now().Add(60 * time.Second)
	for {
		conn, err := sql.Open("pgx", dsn)
		if err == nil {
			err = conn.Ping()
			_ = conn.Close()
		}
		if err == nil {
			return dsn
		}
		if time.Now().After(deadline) {
			t.Fatalf("postgres not ready: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func TestPostgresStore_RecordAndList(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()
	dsn := startPostgres(t, ctx)

	cfg := Config{Type: DriverPostgresql, SaveResponseBody: true}
	cfg.Postgres.DSN = dsn

	st, err := Open(cfg)
	if err != nil {
		t.Fatalf("open postgres store: %v", err)
	}
	defer func() { _ = st.Close() }()

	if err := st.RecordRun("https://jenkins.cicd.local:10400", "token", 200, "Welcome", true); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := st.RecordRun("https://jenkins.cicd.local:10400", "token", 403, "No valid crumb", false); err != nil {
		t.Fatalf("record run: %v", err)
	}

	runs, err := st.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	first := runs[0]
	if !first.Verified || first.StatusCode != 200 || first.AuthMode != "token" {
		t.Fatalf("unexpected first run: %+v", first)
	}
	if first.Body == nil || *first.Body != "Welcome" {
		t.Fatalf("expected saved body, got %v", first.Body)
	}
	if runs[1].Verified {
		t.Fatalf("second run should be a failure: %+v", runs[1])
	}
	if _, err := time.Parse(time.RFC3339Nano, first.RanAt); err != nil {
		t.Fatalf("ran_at not RFC3339Nano: %q (%v)", first.RanAt, err)
	}
}
