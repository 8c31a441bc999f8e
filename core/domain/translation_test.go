package domain

import (
	"strings"
	"testing"
)

func TestHashText_Deterministic(t *testing.T) {
	if HashText("Bonjour le monde") != HashText("Bonjour le monde") {
		t.Error("HashText should be deterministic")
	}
}

func TestHashText_OrderSensitive(t *testing.T) {
	if HashText("ab") == HashText("ba") {
		t.Error("HashText should depend on character order")
	}
}

func TestNewTranslationKey_String(t *testing.T) {
	key := NewTranslationKey("Hola", "ES", "en_us")

	got := key.String()
	if !strings.HasPrefix(got, "translation:es:en-us:") {
		t.Errorf("String() = %q, want prefix %q", got, "translation:es:en-us:")
	}
	if key.Hash != HashText("Hola") {
		t.Error("key hash should be the text hash")
	}
}

func TestSameLanguage(t *testing.T) {
	tests := []struct {
		source, target string
		want           bool
	}{
		{"fr", "fr", true},
		{"FR", "fr", true},
		{"pt_BR", "pt-br", true},
		{"fr", "en", false},
		{"en-US", "en-GB", false},
	}

	for _, tt := range tests {
		if got := SameLanguage(tt.source, tt.target); got != tt.want {
			t.Errorf("SameLanguage(%q, %q) = %v, want %v", tt.source, tt.target, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	short := "A short sentence."
	if Preview(short) != short {
		t.Errorf("Preview(%q) should be unchanged", short)
	}

	long := strings.Repeat("ü", 100)
	got := Preview(long)
	if got != strings.Repeat("ü", PreviewLength)+"…" {
		t.Errorf("Preview of long text = %q", got)
	}
}

func TestSeverity_Valid(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Severity("fatal").Valid() {
		t.Error("unknown severity should be invalid")
	}
}
