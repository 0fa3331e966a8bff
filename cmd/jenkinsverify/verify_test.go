package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/store"
	"github.com/spf13/viper"
)

// scriptServer emulates the two Jenkins endpoints the verifier touches.
type scriptServer struct {
	crumbStatus int
	crumbHits   int
	scriptHits  int
	lastAuth    string
	lastCrumb   string
}

func (s *scriptServer) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/crumbIssuer/api/json", func(w http.ResponseWriter, r *http.Request) {
		s.crumbHits++
		if s.crumbStatus != 200 {
			w.WriteHeader(s.crumbStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"crumb":"c0ffee","crumbRequestField":"Jenkins-Crumb"}`))
	})
	mux.HandleFunc("/scriptText", func(w http.ResponseWriter, r *http.Request) {
		s.scriptHits++
		s.lastAuth = r.Header.Get("Authorization")
		s.lastCrumb = r.Header.Get("Jenkins-Crumb")
		_, _ = w.Write([]byte("Welcome"))
	})
	mux.HandleFunc("/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Jenkins", "2.452.1")
		_, _ = w.Write([]byte(`{"mode":"NORMAL"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunVerification_MissingEnvFile_ExitsOne(t *testing.T) {
	resetViper(t)
	fake := swapExitHandler(t)

	viper.Set("env_file", filepath.Join(t.TempDir(), "absent.env"))
	viper.Set("url", "http://127.0.0.1:1") // must never be dialed

	if err := runVerification(context.Background()); err != nil {
		t.Fatalf("config failures exit via handler, not error: %v", err)
	}
	if !fake.exited || fake.exitCode != 1 {
		t.Fatalf("expected exit(1), got exited=%v code=%d", fake.exited, fake.exitCode)
	}
}

func TestRunVerification_MissingSecret_ExitsOne(t *testing.T) {
	resetViper(t)
	fake := swapExitHandler(t)

	dir := t.TempDir()
	envPath := writeFile(t, dir, "jenkins.env", "OTHER_KEY=value\n")
	viper.Set("env_file", envPath)
	viper.Set("url", "http://127.0.0.1:1")

	if err := runVerification(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fake.exited || fake.exitCode != 1 {
		t.Fatalf("expected exit(1) for missing JENKINS_ADMIN_PASSWORD, got exited=%v code=%d", fake.exited, fake.exitCode)
	}
}

func TestRunVerification_CrumbMode_Success(t *testing.T) {
	resetViper(t)
	fake := swapExitHandler(t)
	mock := &scriptServer{crumbStatus: 200}
	srv := mock.start(t)

	dir := t.TempDir()
	envPath := writeFile(t, dir, "jenkins.env", "JENKINS_ADMIN_PASSWORD=\"s3cret\"\n")
	viper.Set("env_file", envPath)
	viper.Set("url", srv.URL)
	viper.Set("auth", "crumb")

	if err := runVerification(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.exited {
		t.Fatalf("successful verification must not exit nonzero")
	}
	if mock.crumbHits != 1 || mock.scriptHits != 1 {
		t.Fatalf("expected crumb+script calls, got %d/%d", mock.crumbHits, mock.scriptHits)
	}
	if mock.lastCrumb != "c0ffee" {
		t.Fatalf("crumb header missing on script call: %q", mock.lastCrumb)
	}
}

func TestRunVerification_TokenMode_BasicHeader(t *testing.T) {
	resetViper(t)
	fake := swapExitHandler(t)
	mock := &scriptServer{crumbStatus: 200}
	srv := mock.start(t)

	dir := t.TempDir()
	envPath := writeFile(t, dir, "jenkins.env", "JENKINS_API_TOKEN=abc123\n")
	viper.Set("env_file", envPath)
	viper.Set("url", srv.URL)
	viper.Set("auth", "token")
	viper.Set("user", "admin")

	if err := runVerification(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.exited {
		t.Fatalf("successful verification must not exit nonzero")
	}
	if mock.crumbHits != 0 {
		t.Fatalf("token mode must skip the crumb issuer, hits=%d", mock.crumbHits)
	}
	if mock.lastAuth != "Basic YWRtaW46YWJjMTIz" {
		t.Fatalf("unexpected Authorization header: %q", mock.lastAuth)
	}
}

func TestRunVerification_CrumbFailure_SkipsScriptAndExitsZero(t *testing.T) {
	resetViper(t)
	fake := swapExitHandler(t)
	mock := &scriptServer{crumbStatus: 500}
	srv := mock.start(t)

	dir := t.TempDir()
	envPath := writeFile(t, dir, "jenkins.env", "JENKINS_ADMIN_PASSWORD=s3cret\n")
	viper.Set("env_file", envPath)
	viper.Set("url", srv.URL)
	viper.Set("auth", "crumb")

	if err := runVerification(context.Background()); err != nil {
		t.Fatalf("a failed probe is reported, not returned: %v", err)
	}
	// A failed API call is only printed; the process still exits 0.
	if fake.exited {
		t.Fatalf("crumb failure must not escalate the exit code")
	}
	if mock.scriptHits != 0 {
		t.Fatalf("script endpoint must not be called after crumb failure, hits=%d", mock.scriptHits)
	}
}

func TestRunVerification_RecordsRunInStore(t *testing.T) {
	resetViper(t)
	swapExitHandler(t)
	mock := &scriptServer{crumbStatus: 200}
	srv := mock.start(t)

	dir := t.TempDir()
	envPath := writeFile(t, dir, "jenkins.env", "JENKINS_API_TOKEN=abc123\n")
	dbPath := filepath.Join(dir, "runs.db")
	cfgPath := writeFile(t, dir, "config.yaml", fmt.Sprintf(`---
logging:
  level: error
store:
  type: sqlite
  save_response_body: true
  sqlite:
    path: %s
`, dbPath))

	viper.Set("config", cfgPath)
	viper.Set("env_file", envPath)
	viper.Set("url", srv.URL)
	viper.Set("auth", "token")

	if err := runVerification(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := store.Config{Type: store.DriverSqlite, SQLite: store.SQLiteConfig{Path: dbPath}}
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = st.Close() }()

	runs, err := st.ListRuns()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d (%v)", len(runs), err)
	}
	r := runs[0]
	if !r.Verified || r.StatusCode != 200 || r.AuthMode != "token" {
		t.Fatalf("unexpected run: %+v", r)
	}
	if r.Body == nil || !strings.Contains(*r.Body, "Welcome") {
		t.Fatalf("expected Welcome in stored body, got %v", r.Body)
	}
}
