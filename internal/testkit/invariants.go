// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"keystroke/internal/analysis"
	"keystroke/internal/source"
)

// CheckSnapshotInvariants runs the structural invariants of one snapshot:
// 1) Index is the character count of Prefix
// 2) models pair 1:1 with trees, model i belongs to tree i
// 3) every entry mirrors the diagnostic at the same position
// 4) primary, note and directive spans lie inside their file
func CheckSnapshotInvariants(snap *analysis.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if got := utf8.RuneCountInString(snap.Prefix()); got != snap.Index() {
		return fmt.Errorf("index %d does not match prefix length %d", snap.Index(), got)
	}

	trees, models := snap.Trees(), snap.Models()
	if len(trees) != len(models) {
		return fmt.Errorf("%d trees but %d models", len(trees), len(models))
	}
	for i := range trees {
		if models[i] == nil || models[i].Tree() != trees[i] {
			return fmt.Errorf("model %d does not belong to tree %d", i, i)
		}
	}

	diags, entries := snap.Diagnostics(), snap.Entries()
	if len(diags) != len(entries) {
		return fmt.Errorf("%d diagnostics but %d entries", len(diags), len(entries))
	}
	fs := snap.Sources()
	for i, d := range diags {
		e := entries[i]
		if e.Diag.Code != d.Code || e.Diag.Message != d.Message || e.Diag.Primary != d.Primary {
			return fmt.Errorf("entry %d does not mirror diagnostic %s", i, d.Code.ID())
		}
		if err := checkSpan(fs, d.Primary); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Code.ID(), err)
		}
		for j, n := range d.Notes {
			if err := checkSpan(fs, n.Span); err != nil {
				return fmt.Errorf("diagnostic %d note %d: %w", i, j, err)
			}
		}
		if s := e.Suppression; s != nil && s.HasDirective {
			if err := checkSpan(fs, s.Directive); err != nil {
				return fmt.Errorf("diagnostic %d directive: %w", i, err)
			}
		}
	}
	return nil
}

// CheckWalk checks a finished walk over src: indices strictly ascend, every
// prefix is a strict prefix of src and every snapshot passes
// CheckSnapshotInvariants.
func CheckWalk(src string, snaps []*analysis.Snapshot) error {
	n := utf8.RuneCountInString(src)
	last := 0
	for i, snap := range snaps {
		if err := CheckSnapshotInvariants(snap); err != nil {
			return fmt.Errorf("snapshot %d: %w", i, err)
		}
		if snap.Index() <= last {
			return fmt.Errorf("snapshot %d: index %d after %d", i, snap.Index(), last)
		}
		if snap.Index() >= n || !strings.HasPrefix(src, snap.Prefix()) {
			return fmt.Errorf("snapshot %d: %q is not a strict prefix", i, snap.Prefix())
		}
		last = snap.Index()
	}
	return nil
}

func checkSpan(fs *source.FileSet, sp source.Span) error {
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %d..%d", sp.Start, sp.End)
	}
	if fs == nil || !fs.HasFile(sp.File) {
		return fmt.Errorf("span points to unknown file %d", sp.File)
	}
	size, err := safecast.Conv[uint32](len(fs.Get(sp.File).Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > size {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, size)
	}
	return nil
}
