package diag

import "keystroke/internal/source"

// SuppressionKind tells which mechanism silenced a diagnostic.
type SuppressionKind uint8

const (
	// SuppressImplicitImport covers "imported and not used" for default imports.
	SuppressImplicitImport SuppressionKind = iota + 1
	// SuppressDirective is an inline //keystroke:ignore comment.
	SuppressDirective
	// SuppressConfig comes from the configured suppress list.
	SuppressConfig
)

func (k SuppressionKind) String() string {
	switch k {
	case SuppressImplicitImport:
		return "implicit-import"
	case SuppressDirective:
		return "directive"
	case SuppressConfig:
		return "config"
	}
	return "unknown"
}

// SuppressionInfo describes how a diagnostic is suppressed in one compilation.
// A nil *SuppressionInfo means the diagnostic is not suppressed.
type SuppressionInfo struct {
	Kind   SuppressionKind
	Code   Code
	Reason string
	// Directive is the span of the suppressing comment; valid only when
	// HasDirective is set.
	Directive    source.Span
	HasDirective bool
}

// Clone returns a copy, nil-safe.
func (s *SuppressionInfo) Clone() *SuppressionInfo {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
