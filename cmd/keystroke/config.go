package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"keystroke/internal/frontend"
)

const configFileName = "keystroke.toml"

// Переменные окружения, перекрывающие keystroke.toml.
const (
	envImports  = "KEYSTROKE_IMPORTS"
	envSuppress = "KEYSTROKE_SUPPRESS"
	envFormat   = "KEYSTROKE_FORMAT"
	envColor    = "KEYSTROKE_COLOR"
)

type fileConfig struct {
	Analysis analysisConfig `toml:"analysis"`
	Output   outputConfig   `toml:"output"`
}

type analysisConfig struct {
	Imports        []string `toml:"imports"`
	Suppress       []string `toml:"suppress"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Normalize      bool     `toml:"normalize"`
}

type outputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// settings is the merged configuration: defaults, then keystroke.toml, then
// .env, then the process environment. Flags are applied by the commands.
type settings struct {
	Frontend  frontend.Options
	Normalize bool
	Format    string
	Color     string

	// ConfigPath is the keystroke.toml in effect, "" when none was found.
	ConfigPath string
}

func defaultSettings() settings {
	return settings{
		Frontend: frontend.DefaultOptions(),
		Format:   "pretty",
		Color:    "auto",
	}
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadSettings merges every configuration layer visible from startDir.
// lookup reads the process environment; the .env next to startDir fills in
// variables lookup does not have.
func loadSettings(startDir string, lookup func(string) (string, bool)) (settings, error) {
	s := defaultSettings()

	path, ok, err := findConfig(startDir)
	if err != nil {
		return s, err
	}
	if ok {
		if err := applyConfigFile(&s, path); err != nil {
			return s, err
		}
		s.ConfigPath = path
	}

	dotenv, err := readDotenv(filepath.Join(startDir, ".env"))
	if err != nil {
		return s, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	applyEnv(&s, env)

	if err := s.Frontend.Validate(); err != nil {
		where := "configuration"
		if s.ConfigPath != "" {
			where = s.ConfigPath
		}
		return s, fmt.Errorf("%s: %w", where, err)
	}
	return s, nil
}

func applyConfigFile(s *settings, path string) error {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	// пустой список imports означает "без неявных импортов"
	if meta.IsDefined("analysis", "imports") {
		s.Frontend.DefaultImports = cfg.Analysis.Imports
	}
	if meta.IsDefined("analysis", "suppress") {
		s.Frontend.Suppress = cfg.Analysis.Suppress
	}
	if meta.IsDefined("analysis", "max_diagnostics") {
		s.Frontend.MaxDiagnostics = cfg.Analysis.MaxDiagnostics
	}
	s.Normalize = cfg.Analysis.Normalize
	if f := strings.TrimSpace(cfg.Output.Format); f != "" {
		s.Format = strings.ToLower(f)
	}
	if c := strings.TrimSpace(cfg.Output.Color); c != "" {
		s.Color = strings.ToLower(c)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

func applyEnv(s *settings, env func(string) (string, bool)) {
	if v, ok := env(envImports); ok {
		s.Frontend.DefaultImports = splitList(v)
	}
	if v, ok := env(envSuppress); ok {
		s.Frontend.Suppress = splitList(v)
	}
	if v, ok := env(envFormat); ok && strings.TrimSpace(v) != "" {
		s.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := env(envColor); ok && strings.TrimSpace(v) != "" {
		s.Color = strings.ToLower(strings.TrimSpace(v))
	}
}

// splitList разбирает "fmt, strings" в ["fmt" "strings"]; пустая строка - пустой список.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseColorMode(mode string) (string, error) {
	switch mode {
	case "auto", "on", "off":
		return mode, nil
	}
	return "", fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
}
