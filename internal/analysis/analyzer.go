// Package analysis turns one source prefix into a Snapshot by driving a
// frontend.Compiler.
package analysis

import (
	"context"
	"fmt"
	"unicode/utf8"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
	"keystroke/internal/observ"
	"keystroke/internal/trace"
)

// Analyzer is stateless between calls and safe for concurrent use as long
// as its Compiler is.
type Analyzer struct {
	compiler frontend.Compiler
	opts     frontend.Options
	timings  bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTimings records per-phase durations into each Snapshot.
func WithTimings(enabled bool) Option {
	return func(a *Analyzer) { a.timings = enabled }
}

// New validates opts and returns an Analyzer. Invalid options are a frontend
// invocation failure: no snapshot could ever be produced with them.
func New(compiler frontend.Compiler, opts frontend.Options, options ...Option) (*Analyzer, error) {
	if compiler == nil {
		return nil, frontend.Invocation("new analyzer", fmt.Errorf("nil compiler"))
	}
	if err := opts.Validate(); err != nil {
		return nil, frontend.Invocation("new analyzer", err)
	}
	a := &Analyzer{compiler: compiler, opts: opts.Clone()}
	for _, o := range options {
		o(a)
	}
	return a, nil
}

// Options returns a copy of the frontend options.
func (a *Analyzer) Options() frontend.Options { return a.opts.Clone() }

// Analyze compiles prefix and materializes its snapshot. Problems in the
// source come back as diagnostics; a returned error always wraps
// frontend.ErrInvocation. ctx carries tracing only: a started analysis is
// never cancelled halfway.
func (a *Analyzer) Analyze(ctx context.Context, prefix string) (*Snapshot, error) {
	index := utf8.RuneCountInString(prefix)
	span, ctx := trace.BeginCtx(ctx, trace.ScopePrefix, "prefix")
	span.WithExtraInt("index", index)

	var timer *observ.Timer
	if a.timings {
		timer = observ.NewTimer()
	}

	ph := timer.Begin("compile")
	unit, err := a.compiler.Compile(ctx, prefix, a.opts)
	timer.End(ph, "")
	if err != nil {
		span.End("failed")
		return nil, frontend.Invocation("compile", err)
	}
	if unit == nil {
		span.End("failed")
		return nil, frontend.Invocation("compile", fmt.Errorf("frontend returned no unit"))
	}

	ph = timer.Begin("models")
	trees := append([]frontend.SyntaxTree(nil), unit.SyntaxTrees()...)
	models := make([]frontend.SemanticModel, len(trees))
	for i, tree := range trees {
		model, err := unit.SemanticModel(tree)
		if err != nil {
			span.End("failed")
			return nil, frontend.Invocation(fmt.Sprintf("semantic model %d", i), err)
		}
		if model == nil || model.Tree() != tree {
			span.End("failed")
			return nil, frontend.Invocation(fmt.Sprintf("semantic model %d", i), frontend.ErrForeignTree)
		}
		models[i] = model
	}
	timer.End(ph, fmt.Sprintf("%d trees", len(trees)))

	ph = timer.Begin("diagnostics")
	raw := unit.Diagnostics()
	diags := make([]diag.Diagnostic, len(raw))
	entries := make([]DiagnosticEntry, len(raw))
	suppressed := 0
	for i := range raw {
		diags[i] = raw[i].Clone()
		info := unit.Suppression(raw[i]).Clone()
		if info != nil {
			suppressed++
		}
		entries[i] = DiagnosticEntry{Diag: raw[i].Clone(), Suppression: info}
	}
	timer.End(ph, fmt.Sprintf("%d diagnostics", len(diags)))

	span.WithExtraInt("trees", len(trees)).
		WithExtraInt("diags", len(diags)).
		WithExtraInt("suppressed", suppressed).
		End("")

	return &Snapshot{
		prefix:  prefix,
		index:   index,
		unit:    unit,
		trees:   trees,
		models:  models,
		diags:   diags,
		entries: entries,
		timing:  timer.Report(),
	}, nil
}
