// Package util holds small string normalization helpers shared by the
// config and store layers.
package util

import "strings"

// Normalize trims whitespace and lowercases, for comparing config values.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Trimmed returns the trimmed string and whether anything remains.
func Trimmed(s string) (string, bool) {
	t := strings.TrimSpace(s)
	return t, t != ""
}

// OrDefault returns the trimmed value, or def when it trims to nothing.
func OrDefault(s, def string) string {
	if t, ok := Trimmed(s); ok {
		return t
	}
	return def
}

// TrimAll trims every field, preserving order.
func TrimAll(fields ...string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
