package jenkinsverify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestVerify_TokenMode(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scriptText" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("Welcome to Jenkins"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	envPath := filepath.Join(dir, "jenkins.env")
	if err := os.WriteFile(envPath, []byte("JENKINS_API_TOKEN=abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Verify(context.Background(), srv.URL, "admin", envPath, AuthToken, false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !res.Verified || res.StatusCode != 200 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotAuth != "Basic YWRtaW46YWJjMTIz" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestVerify_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "jenkins.env")
	if err := os.WriteFile(envPath, []byte("UNRELATED=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Verify(context.Background(), "http://127.0.0.1:1", "admin", envPath, AuthCrumb, false)
	var miss *MissingSecretError
	if !errors.As(err, &miss) {
		t.Fatalf("expected MissingSecretError, got %v", err)
	}
	if miss.Key != "JENKINS_ADMIN_PASSWORD" {
		t.Fatalf("unexpected key: %q", miss.Key)
	}
}

func TestVerify_MissingEnvFile(t *testing.T) {
	_, err := Verify(context.Background(), "http://127.0.0.1:1", "admin",
		filepath.Join(t.TempDir(), "absent.env"), AuthCrumb, false)
	if err == nil {
		t.Fatal("expected error for missing credentials file")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "jenkins.env")
	if err := os.WriteFile(envPath, []byte("JENKINS_ADMIN_PASSWORD=\"p@ss\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := LoadEnvFile(envPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, ok := m.Lookup("JENKINS_ADMIN_PASSWORD"); !ok || v != "p@ss" {
		t.Fatalf("lookup = %q %v", v, ok)
	}
}
