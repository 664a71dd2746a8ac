// Package frontend declares the capabilities keystroke needs from a language
// frontend: compile a source text into a unit, enumerate its syntax trees,
// bind a semantic model to each tree, list diagnostics and look up their
// suppression status.
//
// Implementations must be deterministic for identical inputs and must report
// invalid or incomplete source as diagnostics. An error from Compile means the
// frontend itself could not run and must wrap ErrInvocation.
package frontend

import (
	"context"

	"keystroke/internal/diag"
	"keystroke/internal/source"
)

// SyntaxTree is an opaque parsed tree owned by one Unit.
type SyntaxTree interface {
	// Name identifies the tree inside its unit (typically a file name).
	Name() string
	// File is the source file the tree was parsed from.
	File() source.FileID
}

// SemanticModel is a resolved-symbol view bound to exactly one SyntaxTree.
type SemanticModel interface {
	Tree() SyntaxTree
}

// Unit is the result of one compilation of one source text.
type Unit interface {
	SyntaxTrees() []SyntaxTree
	SemanticModel(tree SyntaxTree) (SemanticModel, error)
	Diagnostics() []diag.Diagnostic
	// Suppression returns nil when d is not suppressed in this unit.
	Suppression(d diag.Diagnostic) *diag.SuppressionInfo
	// Sources resolves the spans of this unit's diagnostics.
	Sources() *source.FileSet
}

// Compiler produces Units.
type Compiler interface {
	Compile(ctx context.Context, src string, opts Options) (Unit, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(ctx context.Context, src string, opts Options) (Unit, error)

func (f CompilerFunc) Compile(ctx context.Context, src string, opts Options) (Unit, error) {
	return f(ctx, src, opts)
}
