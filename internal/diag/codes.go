package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксические (go/scanner, go/parser)
	SynInfo                Code = 2000
	SynError               Code = 2001
	SynUnterminatedString  Code = 2002
	SynUnterminatedRune    Code = 2003
	SynUnterminatedComment Code = 2004
	SynUnexpectedEOF       Code = 2005
	SynIllegalChar         Code = 2006
	SynExpectedToken       Code = 2007

	// Семантические (go/types)
	SemaInfo           Code = 3000
	SemaError          Code = 3001
	SemaUndefined      Code = 3002
	SemaUnusedVar      Code = 3003
	SemaUnusedImport   Code = 3004
	SemaTypeMismatch   Code = 3005
	SemaArgCount       Code = 3006
	SemaAssignMismatch Code = 3007
	SemaUnusedValue    Code = 3008
	SemaRedeclared     Code = 3009
	SemaNoNewVars      Code = 3010
	SemaNotCallable    Code = 3011
	SemaMissingField   Code = 3012
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		SynInfo:                "Syntax information",
		SynError:               "Syntax error",
		SynUnterminatedString:  "Unterminated string literal",
		SynUnterminatedRune:    "Unterminated rune literal",
		SynUnterminatedComment: "Unterminated block comment",
		SynUnexpectedEOF:       "Unexpected end of input",
		SynIllegalChar:         "Illegal character",
		SynExpectedToken:       "Expected token",
		SemaInfo:               "Semantic information",
		SemaError:              "Type error",
		SemaUndefined:          "Undefined name",
		SemaUnusedVar:          "Declared and not used",
		SemaUnusedImport:       "Imported and not used",
		SemaTypeMismatch:       "Mismatched types",
		SemaArgCount:           "Wrong number of arguments",
		SemaAssignMismatch:     "Assignment count mismatch",
		SemaUnusedValue:        "Value is not used",
		SemaRedeclared:         "Redeclared name",
		SemaNoNewVars:          "No new variables on left side of :=",
		SemaNotCallable:        "Value is not callable",
		SemaMissingField:       "Missing field or method",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// Category names the analysis phase the code belongs to.
func (c Code) Category() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return "syntax"
	case ic >= 3000 && ic < 4000:
		return "semantic"
	}
	return "unknown"
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode resolves a stable ID such as "SEM3003" back into a Code.
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
