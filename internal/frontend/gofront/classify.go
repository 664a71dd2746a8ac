package gofront

import (
	"strings"

	"keystroke/internal/diag"
)

// syntaxCode maps go/scanner and go/parser messages to SYN codes.
func syntaxCode(msg string) diag.Code {
	switch {
	case strings.HasSuffix(msg, "string literal not terminated"):
		return diag.SynUnterminatedString
	case strings.HasSuffix(msg, "rune literal not terminated"):
		return diag.SynUnterminatedRune
	case msg == "comment not terminated":
		return diag.SynUnterminatedComment
	case strings.Contains(msg, "found 'EOF'"), strings.Contains(msg, "unexpected EOF"):
		return diag.SynUnexpectedEOF
	case strings.HasPrefix(msg, "illegal character"):
		return diag.SynIllegalChar
	case strings.HasPrefix(msg, "expected "):
		return diag.SynExpectedToken
	}
	return diag.SynError
}

// порядок важен: "x.f undefined (type T has no field or method f)" раньше "undefined: x"
var semaRules = []struct {
	match func(string) bool
	code  diag.Code
}{
	{contains("has no field or method"), diag.SemaMissingField},
	{prefix("undefined: "), diag.SemaUndefined},
	{prefix("declared and not used"), diag.SemaUnusedVar},
	{contains("imported and not used"), diag.SemaUnusedImport},
	{contains("imported as "), diag.SemaUnusedImport},
	{prefix("assignment mismatch"), diag.SemaAssignMismatch},
	{prefix("no new variables"), diag.SemaNoNewVars},
	{contains("redeclared in this block"), diag.SemaRedeclared},
	{contains("cannot call non-function"), diag.SemaNotCallable},
	{prefix("not enough arguments"), diag.SemaArgCount},
	{prefix("too many arguments"), diag.SemaArgCount},
	{contains("mismatched types"), diag.SemaTypeMismatch},
	{prefix("cannot use "), diag.SemaTypeMismatch},
	{suffix(" is not used"), diag.SemaUnusedValue},
}

// semaCode maps go/types messages to SEM codes.
func semaCode(msg string) diag.Code {
	for _, r := range semaRules {
		if r.match(msg) {
			return r.code
		}
	}
	return diag.SemaError
}

func prefix(p string) func(string) bool { return func(s string) bool { return strings.HasPrefix(s, p) } }
func suffix(p string) func(string) bool { return func(s string) bool { return strings.HasSuffix(s, p) } }
func contains(p string) func(string) bool { return func(s string) bool { return strings.Contains(s, p) } }
