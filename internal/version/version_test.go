package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate }()

	// как при сборке с -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" || GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("overrides not applied: %q %q %q", Version, GitCommit, BuildDate)
	}
}

func TestPretty(t *testing.T) {
	tests := []struct {
		in       string
		colorize bool
		plain    string
		colored  bool
	}{
		{"0.1.0-dev", false, "0.1.0-dev", false},
		{"0.1.0-dev", true, "0.1.0-dev", true},
		{"1.2.3+build.7", true, "1.2.3+build.7", true},
		{"dev", true, "dev", false},
		{"1.2", true, "1.2", false},
	}
	for _, tt := range tests {
		got := Pretty(tt.in, tt.colorize)
		if strings.Contains(got, "\x1b[") != tt.colored {
			t.Errorf("Pretty(%q, %v) = %q, colored = %v", tt.in, tt.colorize, got, !tt.colored)
		}
		if stripANSI(got) != tt.plain {
			t.Errorf("Pretty(%q) text = %q, want %q", tt.in, stripANSI(got), tt.plain)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
