package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// fakeExitHandler records exit calls instead of terminating the process.
type fakeExitHandler struct {
	exitCode int
	exited   bool
}

func (f *fakeExitHandler) Exit(code int) {
	f.exited = true
	f.exitCode = code
}

func (f *fakeExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	f.Exit(1)
}

// swapExitHandler installs a recording exit handler for one test.
func swapExitHandler(t *testing.T) *fakeExitHandler {
	t.Helper()
	orig := exitHandler
	fake := &fakeExitHandler{}
	exitHandler = fake
	t.Cleanup(func() { exitHandler = orig })
	return fake
}

// resetViper restores the keys the commands read to their zero defaults.
func resetViper(t *testing.T) {
	t.Helper()
	v := viper.GetViper()
	keys := []string{"config", "auth", "env_file", "url", "user", "insecure", "wait_url", "wait_timeout", "wait_interval"}
	for _, k := range keys {
		v.Set(k, "")
	}
	v.Set("insecure", false)
	t.Cleanup(func() {
		for _, k := range keys {
			v.Set(k, "")
		}
		v.Set("insecure", false)
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}
