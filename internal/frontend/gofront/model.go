package gofront

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"keystroke/internal/frontend"
)

// Model is the semantic model of one Tree: the go/types facts recorded while
// checking it.
type Model struct {
	tree *Tree
	pkg  *types.Package
	info *types.Info
	main types.Object
}

var _ frontend.SemanticModel = (*Model)(nil)

func (m *Model) Tree() frontend.SyntaxTree { return m.tree }

// Package is the checked script package. It may be incomplete when the
// snippet has errors.
func (m *Model) Package() *types.Package { return m.pkg }

func (m *Model) Info() *types.Info { return m.info }

// ObjectOf returns the object id defines or uses, or nil.
func (m *Model) ObjectOf(id *ast.Ident) types.Object {
	if id == nil {
		return nil
	}
	return m.info.ObjectOf(id)
}

// TypeOf returns the type of e, or nil if it was not recorded.
func (m *Model) TypeOf(e ast.Expr) types.Type {
	if e == nil {
		return nil
	}
	return m.info.TypeOf(e)
}

// ScopeAt returns the innermost scope at a snippet offset. Outside every
// local scope this is the package scope.
func (m *Model) ScopeAt(offset int) *types.Scope {
	if m.pkg == nil {
		return nil
	}
	if s := m.pkg.Scope().Innermost(m.tree.Pos(offset)); s != nil {
		return s
	}
	return m.pkg.Scope()
}

// VisibleAt lists the objects nameable at a snippet offset, innermost scope
// first, without shadowed names and without universe builtins. Local objects
// declared after the offset are not visible yet.
func (m *Model) VisibleAt(offset int) []types.Object {
	scope := m.ScopeAt(offset)
	if scope == nil {
		return nil
	}
	pos := m.tree.Pos(offset)
	pkgScope := m.pkg.Scope()

	var out []types.Object
	seen := make(map[string]struct{})
	for s := scope; s != nil && s != types.Universe; s = s.Parent() {
		for _, name := range s.Names() {
			if _, dup := seen[name]; dup {
				continue
			}
			obj := s.Lookup(name)
			if obj == nil || obj == m.main {
				continue
			}
			if s != pkgScope && obj.Pos().IsValid() && obj.Pos() >= pos {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, obj)
		}
	}
	return out
}

// PathAt returns the AST nodes enclosing a snippet offset, innermost first,
// ending with the *ast.File. exact follows astutil.PathEnclosingInterval.
func (m *Model) PathAt(offset int) (path []ast.Node, exact bool) {
	pos := m.tree.Pos(offset)
	return astutil.PathEnclosingInterval(m.tree.file, pos, pos)
}
