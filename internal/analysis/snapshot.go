package analysis

import (
	"slices"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
	"keystroke/internal/observ"
	"keystroke/internal/source"
)

// DiagnosticEntry pairs a raw diagnostic with its suppression status.
type DiagnosticEntry struct {
	Diag        diag.Diagnostic
	Suppression *diag.SuppressionInfo // nil when not suppressed
}

// Suppressed reports whether the entry carries suppression info.
func (e DiagnosticEntry) Suppressed() bool {
	return e.Suppression != nil
}

// Snapshot is the analysis of one prefix. All collections are materialized
// when the snapshot is built and never change afterwards; accessors hand out
// copies.
type Snapshot struct {
	prefix  string
	index   int
	unit    frontend.Unit
	trees   []frontend.SyntaxTree
	models  []frontend.SemanticModel
	diags   []diag.Diagnostic
	entries []DiagnosticEntry
	timing  observ.Report
}

// Prefix is the exact text that was analyzed.
func (s *Snapshot) Prefix() string { return s.prefix }

// Index is the prefix length in characters.
func (s *Snapshot) Index() int { return s.index }

// Unit is the compilation unit owned by this snapshot.
func (s *Snapshot) Unit() frontend.Unit { return s.unit }

// Sources resolves the diagnostic spans of this snapshot.
func (s *Snapshot) Sources() *source.FileSet { return s.unit.Sources() }

func (s *Snapshot) Trees() []frontend.SyntaxTree {
	return slices.Clone(s.trees)
}

// Models are positional: Models()[i] is bound to Trees()[i].
func (s *Snapshot) Models() []frontend.SemanticModel {
	return slices.Clone(s.models)
}

// Model returns the semantic model of the i-th tree.
func (s *Snapshot) Model(i int) (frontend.SemanticModel, bool) {
	if i < 0 || i >= len(s.models) {
		return nil, false
	}
	return s.models[i], true
}

// Diagnostics returns the raw diagnostics in frontend order.
func (s *Snapshot) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(s.diags))
	for i := range s.diags {
		out[i] = s.diags[i].Clone()
	}
	return out
}

// Entries returns diagnostics paired with suppression info, in the same
// order as Diagnostics.
func (s *Snapshot) Entries() []DiagnosticEntry {
	out := make([]DiagnosticEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = DiagnosticEntry{Diag: e.Diag.Clone(), Suppression: e.Suppression.Clone()}
	}
	return out
}

// Entry returns the i-th entry.
func (s *Snapshot) Entry(i int) (DiagnosticEntry, bool) {
	if i < 0 || i >= len(s.entries) {
		return DiagnosticEntry{}, false
	}
	e := s.entries[i]
	return DiagnosticEntry{Diag: e.Diag.Clone(), Suppression: e.Suppression.Clone()}, true
}

// TreeCount and DiagnosticCount avoid copying when only sizes matter.
func (s *Snapshot) TreeCount() int       { return len(s.trees) }
func (s *Snapshot) DiagnosticCount() int { return len(s.diags) }

// SuppressedCount returns how many diagnostics are suppressed.
func (s *Snapshot) SuppressedCount() int {
	n := 0
	for _, e := range s.entries {
		if e.Suppressed() {
			n++
		}
	}
	return n
}

// Active returns the entries that are not suppressed.
func (s *Snapshot) Active() []DiagnosticEntry {
	out := make([]DiagnosticEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.Suppressed() {
			out = append(out, DiagnosticEntry{Diag: e.Diag.Clone()})
		}
	}
	return out
}

// HasErrors reports unsuppressed error-severity diagnostics.
func (s *Snapshot) HasErrors() bool {
	for _, e := range s.entries {
		if !e.Suppressed() && e.Diag.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Timing is empty unless the analyzer ran with timings enabled.
func (s *Snapshot) Timing() observ.Report { return s.timing }
