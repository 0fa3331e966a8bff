package common

import (
	"strings"
	"testing"
)

func TestMaskString_BasicHeader(t *testing.T) {
	m := NewMasker()
	in := "sending header Authorization: Basic YWRtaW46YWJjMTIz"
	out := m.MaskString(in)
	if strings.Contains(out, "YWRtaW46YWJjMTIz") {
		t.Fatalf("basic credential leaked: %s", out)
	}
	if !strings.Contains(out, MaskedValue) {
		t.Fatalf("expected masked marker in %q", out)
	}
}

func TestMaskString_CrumbValue(t *testing.T) {
	m := NewMasker()
	out := m.MaskString(`crumb=6bbabc6e0f9aa1e5a78cc64e`)
	if strings.Contains(out, "6bbabc6e0f9aa1e5a78cc64e") {
		t.Fatalf("crumb value leaked: %s", out)
	}
}

func TestMaskValue_SensitiveKeys(t *testing.T) {
	m := NewMasker()
	for _, key := range []string{"password", "token", "api_token", "crumb", "secret", "authorization"} {
		got := m.MaskValue(key, "supersecret")
		if got != MaskedValue {
			t.Fatalf("key %q: expected %q, got %v", key, MaskedValue, got)
		}
	}
}

func TestMaskValue_NonSensitiveKeyPreserved(t *testing.T) {
	m := NewMasker()
	if got := m.MaskValue("url", "https://jenkins:10400"); got != "https://jenkins:10400" {
		t.Fatalf("non-sensitive value altered: %v", got)
	}
}

func TestMaskValue_DisabledPassesThrough(t *testing.T) {
	m := NewMasker()
	m.SetEnabled(false)
	if got := m.MaskValue("password", "plain"); got != "plain" {
		t.Fatalf("disabled masker should pass through, got %v", got)
	}
	if !strings.Contains(m.MaskString("password=plain"), "plain") {
		t.Fatalf("disabled masker should not rewrite strings")
	}
}
