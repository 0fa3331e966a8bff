// Package envfile parses the dotenv-style files written by the Jenkins
// provisioning scripts (jenkins.env) into an explicit map. Values never
// reach the process environment; callers pass the map where it is needed.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Map holds the key/value pairs loaded from an environment file.
type Map map[string]string

// Lookup returns the value for key and whether it is present and non-empty.
func (m Map) Lookup(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Load reads a KEY=VALUE file at path and returns its entries.
// Blank lines and lines starting with '#' are skipped. Values may be wrapped
// in single or double quotes, which are stripped. Duplicate keys overwrite
// earlier ones in file order. A missing file is an error; the caller decides
// how to report it.
func Load(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("envfile: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	m := Map{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		m[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("envfile: read %s: %w", path, err)
	}
	return m, nil
}
