// Package fronttest provides a scripted frontend for contract tests of the
// analyzer and the prefix iterator.
//
// The fake language is tiny: an unbalanced '"' yields an unterminated string
// diagnostic at the opening quote, every '?' yields an undefined-name
// diagnostic, and every '\n'-separated line becomes its own syntax tree.
package fronttest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
	"keystroke/internal/source"
)

// ErrScripted is the cause used by Compiler.FailAt.
var ErrScripted = errors.New("scripted failure")

// Compiler is a deterministic fake frontend.
type Compiler struct {
	// FailAt makes Compile fail for sources of exactly this many bytes (0 = never).
	FailAt int
	// ForeignModels makes SemanticModel bind models to a wrong tree.
	ForeignModels bool

	calls atomic.Int64
}

// Calls returns how many times Compile ran.
func (c *Compiler) Calls() int { return int(c.calls.Load()) }

func (c *Compiler) Compile(ctx context.Context, src string, opts frontend.Options) (frontend.Unit, error) {
	c.calls.Add(1)
	if err := opts.Validate(); err != nil {
		return nil, frontend.Invocation("compile", err)
	}
	if c.FailAt > 0 && len(src) == c.FailAt {
		return nil, frontend.Invocation("compile", ErrScripted)
	}

	u := &Unit{opts: opts.Clone(), fs: source.NewFileSet(), foreign: c.ForeignModels}
	for i, line := range strings.Split(src, "\n") {
		name := fmt.Sprintf("line%d", i+1)
		id := u.fs.AddVirtual(name, []byte(line))
		u.trees = append(u.trees, &Tree{name: name, file: id, unit: u})
		u.scan(line, id)
	}
	return u, nil
}

// Tree is one fake syntax tree.
type Tree struct {
	name string
	file source.FileID
	unit *Unit
}

func (t *Tree) Name() string        { return t.name }
func (t *Tree) File() source.FileID { return t.file }

// Model is the fake semantic model.
type Model struct{ tree frontend.SyntaxTree }

func (m *Model) Tree() frontend.SyntaxTree { return m.tree }

// Unit is the fake compilation unit.
type Unit struct {
	opts    frontend.Options
	fs      *source.FileSet
	trees   []frontend.SyntaxTree
	diags   []diag.Diagnostic
	foreign bool
}

func (u *Unit) scan(line string, file source.FileID) {
	quote := -1
	for i, r := range line {
		switch r {
		case '"':
			if quote < 0 {
				quote = i
			} else {
				quote = -1
			}
		case '?':
			u.add(diag.NewError(diag.SemaUndefined, span(file, i, i+1), "undefined: ?"))
		}
	}
	if quote >= 0 {
		u.add(diag.NewError(diag.SynUnterminatedString, span(file, quote, len(line)), "string literal not terminated"))
	}
}

func (u *Unit) add(d diag.Diagnostic) {
	if u.opts.MaxDiagnostics > 0 && len(u.diags) >= u.opts.MaxDiagnostics {
		return
	}
	u.diags = append(u.diags, d)
}

func span(file source.FileID, start, end int) source.Span {
	return source.Span{File: file, Start: uint32(start), End: uint32(end)} // #nosec G115 -- test sizes
}

func (u *Unit) SyntaxTrees() []frontend.SyntaxTree { return u.trees }

func (u *Unit) SemanticModel(tree frontend.SyntaxTree) (frontend.SemanticModel, error) {
	t, ok := tree.(*Tree)
	if !ok || t.unit != u {
		return nil, frontend.ErrForeignTree
	}
	if u.foreign {
		return &Model{tree: &Tree{name: "elsewhere", unit: u}}, nil
	}
	return &Model{tree: t}, nil
}

func (u *Unit) Diagnostics() []diag.Diagnostic { return u.diags }

func (u *Unit) Suppression(d diag.Diagnostic) *diag.SuppressionInfo {
	if u.opts.Suppressed(d.Code) {
		return &diag.SuppressionInfo{Kind: diag.SuppressConfig, Code: d.Code, Reason: "configured"}
	}
	return nil
}

func (u *Unit) Sources() *source.FileSet { return u.fs }
