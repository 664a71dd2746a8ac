package gofront

import (
	"go/ast"
	"strings"

	"keystroke/internal/diag"
	"keystroke/internal/source"
)

// DirectivePrefix starts an inline suppression comment:
//
//	//keystroke:ignore SEM3003,SEM3004 reason text
//
// It silences the listed codes on its own line and on the line below.
// "*" or an empty code list silences everything.
const DirectivePrefix = "//keystroke:ignore"

type directive struct {
	span   source.Span
	line   uint32
	codes  []string
	reason string
}

func (d directive) covers(code diag.Code, line uint32) bool {
	if line != d.line && line != d.line+1 {
		return false
	}
	if len(d.codes) == 0 {
		return true
	}
	id := code.ID()
	for _, c := range d.codes {
		if c == "*" || c == id {
			return true
		}
	}
	return false
}

// parseDirective splits the comment text; ok is false for ordinary comments.
func parseDirective(text string) (codes []string, reason string, ok bool) {
	rest, found := strings.CutPrefix(text, DirectivePrefix)
	if !found {
		return nil, "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, "", false // //keystroke:ignored и т.п.
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, "", true
	}
	for _, c := range strings.Split(fields[0], ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, strings.ToUpper(c))
		}
	}
	return codes, strings.Join(fields[1:], " "), true
}

func (u *Unit) collectDirectives(file *ast.File) {
	for _, group := range file.Comments {
		for _, c := range group.List {
			codes, reason, ok := parseDirective(c.Text)
			if !ok {
				continue
			}
			start := u.offset(c.Pos())
			sp := u.span(start, start+len(c.Text))
			lc, _ := u.fs.Resolve(sp)
			u.directives = append(u.directives, directive{
				span:   sp,
				line:   lc.Line,
				codes:  codes,
				reason: reason,
			})
		}
	}
}
