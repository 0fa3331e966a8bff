package common

import (
	"regexp"
	"strings"
)

// MaskedValue replaces sensitive data in log output.
const MaskedValue = "***MASKED***"

// sensitiveKeys lists attribute names whose values are masked wholesale,
// compared case-insensitively. They cover the credential material this tool
// moves around: the admin password, API tokens, CSRF crumbs and assembled
// auth headers.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"passwd":        {},
	"pwd":           {},
	"token":         {},
	"api_token":     {},
	"api-token":     {},
	"access_token":  {},
	"access-token":  {},
	"secret":        {},
	"crumb":         {},
	"jenkins-crumb": {},
	"authorization": {},
}

type maskRule struct {
	re          *regexp.Regexp
	replacement string
}

// maskRules rewrite credential material embedded in free-form text, such as
// an error message that echoes a request header.
var maskRules = []maskRule{
	{regexp.MustCompile(`(?i)(password|passwd|pwd|secret)["'\s]*[:=]["'\s]*[^"',}\]\s]+`), `${1}=` + MaskedValue},
	{regexp.MustCompile(`(?i)((?:api[_-]?|access[_-]?)?token)["'\s]*[:=]["'\s]*[^"',}\]\s]+`), `${1}=` + MaskedValue},
	{regexp.MustCompile(`(?i)((?:jenkins-)?crumb)["'\s]*[:=]["'\s]*[^"',}\]\s]+`), `${1}=` + MaskedValue},
	{regexp.MustCompile(`(?i)(authorization)["'\s]*[:=]["'\s]*[^"',}\]\s]+`), `${1}=` + MaskedValue},
	{regexp.MustCompile(`(?i)Basic\s+[A-Za-z0-9+/]+=*`), "Basic " + MaskedValue},
	{regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`), "Bearer " + MaskedValue},
}

// Masker scrubs credentials from log attributes and messages.
type Masker struct {
	enabled bool
}

func NewMasker() *Masker {
	return &Masker{enabled: true}
}

func (m *Masker) SetEnabled(enabled bool) { m.enabled = enabled }

func (m *Masker) IsEnabled() bool { return m.enabled }

// MaskString rewrites credential material found inside free text.
func (m *Masker) MaskString(input string) string {
	if !m.enabled {
		return input
	}
	out := input
	for _, r := range maskRules {
		out = r.re.ReplaceAllString(out, r.replacement)
	}
	return out
}

// MaskValue masks by attribute key first, then falls back to text scrubbing
// for string-like values.
func (m *Masker) MaskValue(key string, value interface{}) interface{} {
	if !m.enabled {
		return value
	}
	if _, hit := sensitiveKeys[strings.ToLower(key)]; hit {
		return MaskedValue
	}
	switch v := value.(type) {
	case string:
		return m.MaskString(v)
	case []byte:
		return m.MaskString(string(v))
	case error:
		return m.MaskString(v.Error())
	default:
		return value
	}
}
