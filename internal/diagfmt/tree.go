package diagfmt

import (
	"fmt"
	"go/ast"
	"io"
	"reflect"
	"strconv"

	"keystroke/internal/source"
)

// SyntaxView is a syntax tree that can list its statements and map nodes
// back to source spans.
type SyntaxView interface {
	Name() string
	Statements() []ast.Stmt
	Span(node ast.Node) source.Span
}

// FormatTreePretty печатает дерево операторов:
//
//	script.go (2 statements)
//	├─ AssignStmt := (span: 1:1-1:7)
//	│  ├─ Ident x (span: 1:1-1:2)
//	...
func FormatTreePretty(w io.Writer, tree SyntaxView, fs *source.FileSet) {
	stmts := tree.Statements()
	fmt.Fprintf(w, "%s (%d statements)\n", tree.Name(), len(stmts))
	for i, st := range stmts {
		writeNode(w, tree, fs, st, "", i == len(stmts)-1)
	}
}

func writeNode(w io.Writer, tree SyntaxView, fs *source.FileSet, n ast.Node, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, branch, NodeLabel(n), formatSpan(tree.Span(n), fs))

	children := childNodes(n)
	for i, c := range children {
		writeNode(w, tree, fs, c, prefix+next, i == len(children)-1)
	}
}

// childNodes returns the direct children of n in source order.
func childNodes(n ast.Node) []ast.Node {
	var out []ast.Node
	ast.Inspect(n, func(c ast.Node) bool {
		if c == nil || c == n {
			return c == n
		}
		out = append(out, c)
		return false
	})
	return out
}

// NodeLabel names the node kind plus its most telling detail, e.g. "Ident x".
func NodeLabel(n ast.Node) string {
	kind := reflect.TypeOf(n).Elem().Name()
	switch n := n.(type) {
	case *ast.Ident:
		return kind + " " + n.Name
	case *ast.BasicLit:
		return kind + " " + n.Value
	case *ast.AssignStmt:
		return kind + " " + n.Tok.String()
	case *ast.BinaryExpr:
		return kind + " " + n.Op.String()
	case *ast.UnaryExpr:
		return kind + " " + n.Op.String()
	case *ast.IncDecStmt:
		return kind + " " + n.Tok.String()
	case *ast.BranchStmt:
		return kind + " " + n.Tok.String()
	case *ast.BadExpr, *ast.BadStmt:
		return kind + " <error>"
	case *ast.CallExpr:
		return kind + " args=" + strconv.Itoa(len(n.Args))
	}
	return kind
}
