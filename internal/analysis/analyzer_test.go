package analysis

import (
	"context"
	"errors"
	"testing"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
	"keystroke/internal/frontend/fronttest"
)

func newAnalyzer(t *testing.T, c frontend.Compiler, opts frontend.Options, o ...Option) *Analyzer {
	t.Helper()
	a, err := New(c, opts, o...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAnalyzeMaterializesCollections(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{}, frontend.DefaultOptions())

	snap, err := a.Analyze(context.Background(), "x := ?\ny := \"ab")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if snap.Prefix() != "x := ?\ny := \"ab" || snap.Index() != 15 {
		t.Fatalf("unexpected prefix/index %q/%d", snap.Prefix(), snap.Index())
	}

	trees, models := snap.Trees(), snap.Models()
	if len(trees) != 2 || len(models) != len(trees) {
		t.Fatalf("trees/models = %d/%d", len(trees), len(models))
	}
	for i := range trees {
		if models[i].Tree() != trees[i] {
			t.Errorf("model %d bound to %s, want %s", i, models[i].Tree().Name(), trees[i].Name())
		}
	}

	diags, entries := snap.Diagnostics(), snap.Entries()
	if len(diags) != 2 || len(entries) != len(diags) {
		t.Fatalf("diags/entries = %d/%d", len(diags), len(entries))
	}
	for i := range diags {
		if !entries[i].Diag.Equal(diags[i]) {
			t.Errorf("entry %d does not match diagnostic", i)
		}
	}
	if diags[0].Code != diag.SemaUndefined || diags[1].Code != diag.SynUnterminatedString {
		t.Errorf("frontend order not preserved: %v, %v", diags[0].Code, diags[1].Code)
	}
	if !snap.HasErrors() || snap.SuppressedCount() != 0 {
		t.Errorf("unexpected error/suppression state")
	}
}

func TestAnalyzeCountsRunes(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{}, frontend.Options{})
	snap, err := a.Analyze(context.Background(), "héllo")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if snap.Index() != 5 {
		t.Fatalf("Index = %d, want 5", snap.Index())
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{}, frontend.Options{})
	snap, err := a.Analyze(context.Background(), "?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	diags := snap.Diagnostics()
	diags[0].Message = "changed"
	entries := snap.Entries()
	entries[0].Suppression = &diag.SuppressionInfo{Kind: diag.SuppressConfig}
	trees := snap.Trees()
	trees[0] = nil

	if snap.Diagnostics()[0].Message != "undefined: ?" {
		t.Error("diagnostics mutated through accessor")
	}
	if snap.Entries()[0].Suppressed() {
		t.Error("entries mutated through accessor")
	}
	if snap.Trees()[0] == nil {
		t.Error("trees mutated through accessor")
	}
}

func TestAnalyzeSuppression(t *testing.T) {
	opts := frontend.Options{Suppress: []string{diag.SemaUndefined.ID()}}
	a := newAnalyzer(t, &fronttest.Compiler{}, opts)

	snap, err := a.Analyze(context.Background(), "a?b?\"")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if snap.DiagnosticCount() != 3 || snap.SuppressedCount() != 2 {
		t.Fatalf("diags/suppressed = %d/%d", snap.DiagnosticCount(), snap.SuppressedCount())
	}
	active := snap.Active()
	if len(active) != 1 || active[0].Diag.Code != diag.SynUnterminatedString {
		t.Fatalf("unexpected active entries %+v", active)
	}
	e, ok := snap.Entry(0)
	if !ok || e.Suppression == nil || e.Suppression.Kind != diag.SuppressConfig {
		t.Fatalf("entry 0 = %+v", e)
	}
	if _, ok := snap.Entry(3); ok {
		t.Fatal("out-of-range entry reported ok")
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{}, frontend.DefaultOptions())
	ctx := context.Background()
	first, err := a.Analyze(ctx, "x?\n\"")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := a.Analyze(ctx, "x?\n\"")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if first.Unit() == second.Unit() {
		t.Fatal("snapshots share a compilation unit")
	}
	if first.TreeCount() != second.TreeCount() || len(first.Models()) != len(second.Models()) {
		t.Fatal("tree/model counts differ")
	}
	d1, d2 := first.Diagnostics(), second.Diagnostics()
	if len(d1) != len(d2) {
		t.Fatalf("diagnostic counts differ: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if !d1[i].Equal(d2[i]) {
			t.Errorf("diagnostic %d differs", i)
		}
	}
}

func TestAnalyzeInvocationFailure(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{FailAt: 3}, frontend.Options{})
	_, err := a.Analyze(context.Background(), "abc")
	if !errors.Is(err, frontend.ErrInvocation) || !errors.Is(err, fronttest.ErrScripted) {
		t.Fatalf("expected invocation failure, got %v", err)
	}
}

func TestAnalyzeForeignModel(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{ForeignModels: true}, frontend.Options{})
	_, err := a.Analyze(context.Background(), "x")
	if !errors.Is(err, frontend.ErrForeignTree) || !errors.Is(err, frontend.ErrInvocation) {
		t.Fatalf("expected foreign tree failure, got %v", err)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(&fronttest.Compiler{}, frontend.Options{DefaultImports: []string{""}})
	if !errors.Is(err, frontend.ErrInvalidOptions) || !errors.Is(err, frontend.ErrInvocation) {
		t.Fatalf("expected invalid options failure, got %v", err)
	}
	if _, err := New(nil, frontend.Options{}); !errors.Is(err, frontend.ErrInvocation) {
		t.Fatalf("expected failure for nil compiler, got %v", err)
	}
}

func TestAnalyzeNilUnit(t *testing.T) {
	c := frontend.CompilerFunc(func(context.Context, string, frontend.Options) (frontend.Unit, error) {
		return nil, nil
	})
	a := newAnalyzer(t, c, frontend.Options{})
	if _, err := a.Analyze(context.Background(), "x"); !errors.Is(err, frontend.ErrInvocation) {
		t.Fatalf("expected invocation failure, got %v", err)
	}
}

func TestAnalyzeTimings(t *testing.T) {
	a := newAnalyzer(t, &fronttest.Compiler{}, frontend.Options{}, WithTimings(true))
	snap, err := a.Analyze(context.Background(), "x")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	phases := snap.Timing().Phases
	if len(phases) != 3 || phases[0].Name != "compile" || phases[2].Name != "diagnostics" {
		t.Fatalf("unexpected phases %+v", phases)
	}

	plain := newAnalyzer(t, &fronttest.Compiler{}, frontend.Options{})
	snap, _ = plain.Analyze(context.Background(), "x")
	if len(snap.Timing().Phases) != 0 {
		t.Fatal("timings recorded without WithTimings")
	}
}
