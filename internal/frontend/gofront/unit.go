package gofront

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"keystroke/internal/diag"
	"keystroke/internal/frontend"
	"keystroke/internal/source"
)

// ScriptName is the name of the single syntax tree of a unit.
const ScriptName = "script.go"

const (
	scriptHeader = "package main\n\nfunc main() {\n"
	scriptFooter = "\n}\n"
)

// Unit is one compiled snippet. It is immutable after Compile returns.
type Unit struct {
	opts frontend.Options
	src  string

	fs     *source.FileSet
	fileID source.FileID

	fset  *token.FileSet
	tree  *Tree
	model *Model

	diags      []diag.Diagnostic
	directives []directive
}

var _ frontend.Unit = (*Unit)(nil)

func (u *Unit) SyntaxTrees() []frontend.SyntaxTree { return []frontend.SyntaxTree{u.tree} }

// Tree returns the unit's only syntax tree.
func (u *Unit) Tree() *Tree { return u.tree }

func (u *Unit) SemanticModel(tree frontend.SyntaxTree) (frontend.SemanticModel, error) {
	t, ok := tree.(*Tree)
	if !ok || t != u.tree {
		return nil, frontend.ErrForeignTree
	}
	return u.model, nil
}

// Model returns the semantic model of the unit's tree.
func (u *Unit) Model() *Model { return u.model }

func (u *Unit) Diagnostics() []diag.Diagnostic { return u.diags }

func (u *Unit) Sources() *source.FileSet { return u.fs }

// FileSet returns the token.FileSet positions of the AST refer to.
func (u *Unit) FileSet() *token.FileSet { return u.fset }

// Suppression checks, in order: implicit default imports, inline directives,
// the configured suppress list.
func (u *Unit) Suppression(d diag.Diagnostic) *diag.SuppressionInfo {
	if d.Code == diag.SemaUnusedImport {
		for _, p := range u.opts.DefaultImports {
			if strings.HasPrefix(d.Message, strconv.Quote(p)+" imported") {
				return &diag.SuppressionInfo{
					Kind:   diag.SuppressImplicitImport,
					Code:   d.Code,
					Reason: "default import " + strconv.Quote(p),
				}
			}
		}
	}
	if d.Primary.File == u.fileID && len(u.directives) > 0 {
		start, _ := u.fs.Resolve(d.Primary)
		for _, dir := range u.directives {
			if dir.covers(d.Code, start.Line) {
				reason := dir.reason
				if reason == "" {
					reason = "ignored by directive"
				}
				return &diag.SuppressionInfo{
					Kind:         diag.SuppressDirective,
					Code:         d.Code,
					Reason:       reason,
					Directive:    dir.span,
					HasDirective: true,
				}
			}
		}
	}
	if u.opts.Suppressed(d.Code) {
		return &diag.SuppressionInfo{Kind: diag.SuppressConfig, Code: d.Code, Reason: "suppressed by configuration"}
	}
	return nil
}

// offset converts a position of the wrapped file into a snippet offset,
// clamped to [0, len(src)].
func (u *Unit) offset(pos token.Pos) int {
	raw, _ := u.rawOffset(pos)
	return u.clamp(raw)
}

func (u *Unit) clamp(off int) int {
	return max(0, min(off, len(u.src)))
}

// span builds a snippet span; Compile has already checked that every offset
// fits into uint32.
func (u *Unit) span(start, end int) source.Span {
	start, end = u.clamp(start), u.clamp(end)
	if end < start {
		end = start
	}
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: u.fileID, Start: s, End: e}
}

// pointSpan covers the token at a raw snippet offset. Offsets inside the
// wrapper give an empty span at the nearest snippet bound.
func (u *Unit) pointSpan(raw int) source.Span {
	if raw < 0 || raw >= len(u.src) {
		return u.span(raw, raw)
	}
	return u.span(raw, u.tokenEnd(raw))
}

// rawOffset is the snippet offset of pos without clamping; ok is false for
// positions outside the wrapped file.
func (u *Unit) rawOffset(pos token.Pos) (int, bool) {
	if !pos.IsValid() {
		return 0, false
	}
	p := u.fset.PositionFor(pos, false)
	if p.Filename != ScriptName {
		return 0, false
	}
	return p.Offset - len(scriptHeader), true
}

// tokenEnd extends a point position over the identifier or the single
// character starting there.
func (u *Unit) tokenEnd(start int) int {
	if start >= len(u.src) {
		return start
	}
	r, size := utf8.DecodeRuneInString(u.src[start:])
	if !isIdentRune(r) {
		return start + size
	}
	end := start
	for end < len(u.src) {
		r, size = utf8.DecodeRuneInString(u.src[end:])
		if !isIdentRune(r) {
			break
		}
		end += size
	}
	return end
}

func (u *Unit) lineEnd(start int) int {
	if start >= len(u.src) {
		return len(u.src)
	}
	if i := strings.IndexByte(u.src[start:], '\n'); i >= 0 {
		return start + i
	}
	return len(u.src)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tree is the parsed, wrapped snippet.
type Tree struct {
	unit *Unit
	file *ast.File
	tok  *token.File
}

var _ frontend.SyntaxTree = (*Tree)(nil)

func (t *Tree) Name() string { return ScriptName }

func (t *Tree) File() source.FileID { return t.unit.fileID }

// AST returns the parsed file, default imports included. It must not be
// modified.
func (t *Tree) AST() *ast.File { return t.file }

// Pos converts a snippet offset into a position of the AST.
func (t *Tree) Pos(offset int) token.Pos {
	return t.tok.Pos(len(scriptHeader) + t.unit.clamp(offset))
}

// Offset converts an AST position into a snippet offset.
func (t *Tree) Offset(pos token.Pos) int { return t.unit.offset(pos) }

// Span returns the snippet span covered by node.
func (t *Tree) Span(node ast.Node) source.Span {
	return t.unit.span(t.unit.offset(node.Pos()), t.unit.offset(node.End()))
}

// Statements returns the snippet's statements: the body of the synthesized
// main. Statements after a stray closing brace are not included.
func (t *Tree) Statements() []ast.Stmt {
	if fn := mainDecl(t.file); fn != nil && fn.Body != nil {
		return fn.Body.List
	}
	return nil
}

func mainDecl(file *ast.File) *ast.FuncDecl {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok && fn.Recv == nil && fn.Name != nil && fn.Name.Name == "main" {
			return fn
		}
	}
	return nil
}

// mainObject is the synthesized func main, hidden from name lookups.
func mainObject(file *ast.File, info *types.Info) types.Object {
	if fn := mainDecl(file); fn != nil {
		return info.Defs[fn.Name]
	}
	return nil
}
