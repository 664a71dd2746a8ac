package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"keystroke/internal/frontend"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, configFileName), "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig = %q, %v, %v", path, ok, err)
	}
	if path != filepath.Join(root, configFileName) {
		t.Fatalf("path = %q", path)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(t.TempDir(), envOf(nil))
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if !slices.Equal(s.Frontend.DefaultImports, []string{frontend.DefaultImport}) {
		t.Fatalf("imports = %v", s.Frontend.DefaultImports)
	}
	if s.Format != "pretty" || s.Color != "auto" || s.ConfigPath != "" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestLoadSettingsFromToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), `
[analysis]
imports = ["strings", "os"]
suppress = ["SEM3003"]
max_diagnostics = 5
normalize = true

[output]
format = "JSON"
color = "off"
`)
	s, err := loadSettings(dir, envOf(nil))
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if !slices.Equal(s.Frontend.DefaultImports, []string{"strings", "os"}) {
		t.Fatalf("imports = %v", s.Frontend.DefaultImports)
	}
	if !slices.Equal(s.Frontend.Suppress, []string{"SEM3003"}) || s.Frontend.MaxDiagnostics != 5 {
		t.Fatalf("frontend = %+v", s.Frontend)
	}
	if !s.Normalize || s.Format != "json" || s.Color != "off" {
		t.Fatalf("settings = %+v", s)
	}
}

func TestLoadSettingsEmptyImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), "[analysis]\nimports = []\n")
	s, err := loadSettings(dir, envOf(nil))
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if len(s.Frontend.DefaultImports) != 0 {
		t.Fatalf("imports = %v, want none", s.Frontend.DefaultImports)
	}
}

func TestLoadSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), "[analysis]\nimports = [\"os\"]\n[output]\nformat = \"short\"\n")
	writeFile(t, filepath.Join(dir, ".env"), "KEYSTROKE_IMPORTS=strings, bytes\nKEYSTROKE_FORMAT=json\n")

	s, err := loadSettings(dir, envOf(map[string]string{envFormat: "msgpack"}))
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	// .env перекрывает toml, окружение перекрывает .env
	if !slices.Equal(s.Frontend.DefaultImports, []string{"strings", "bytes"}) {
		t.Fatalf("imports = %v", s.Frontend.DefaultImports)
	}
	if s.Format != "msgpack" {
		t.Fatalf("format = %q", s.Format)
	}
}

func TestLoadSettingsRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), "[analysis]\nimport = [\"os\"]\n")
	if _, err := loadSettings(dir, envOf(nil)); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestLoadSettingsValidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, configFileName), "[analysis]\nsuppress = [\"NOPE1\"]\n")
	_, err := loadSettings(dir, envOf(nil))
	if !errors.Is(err, frontend.ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"fmt", []string{"fmt"}},
		{" fmt , strings ,", []string{"fmt", "strings"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
