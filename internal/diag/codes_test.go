package diag

import "testing"

func TestCodeDescriptor(t *testing.T) {
	tests := []struct {
		code     Code
		id       string
		category string
	}{
		{SynUnterminatedString, "SYN2002", "syntax"},
		{SemaUnusedImport, "SEM3004", "semantic"},
		{UnknownCode, "E0000", "unknown"},
	}
	for _, tt := range tests {
		d := Diagnostic{Code: tt.code}.Descriptor()
		if d.ID != tt.id || d.Category != tt.category || d.Title == "" {
			t.Errorf("Descriptor(%d) = %+v", tt.code, d)
		}
	}
	if Code(2999).Title() != "Unknown error" {
		t.Errorf("unregistered code title = %q", Code(2999).Title())
	}
	if got := SemaUnusedVar.String(); got != "[SEM3003]: Declared and not used" {
		t.Errorf("String = %q", got)
	}
}

func TestParseCode(t *testing.T) {
	for c := range codeDescription {
		if c == UnknownCode {
			continue
		}
		got, ok := ParseCode(c.ID())
		if !ok || got != c {
			t.Errorf("ParseCode(%q) = %d, %v", c.ID(), got, ok)
		}
	}
	if _, ok := ParseCode("E0000"); ok {
		t.Error("E0000 must not parse")
	}
	if _, ok := ParseCode("SEM9999"); ok {
		t.Error("unknown id must not parse")
	}
}

func TestSuppressionKindString(t *testing.T) {
	want := map[SuppressionKind]string{
		SuppressImplicitImport: "implicit-import",
		SuppressDirective:      "directive",
		SuppressConfig:         "config",
		SuppressionKind(0):     "unknown",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), s)
		}
	}
	var nilInfo *SuppressionInfo
	if nilInfo.Clone() != nil {
		t.Error("nil clone must be nil")
	}
}
