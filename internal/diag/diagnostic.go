package diag

import (
	"keystroke/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Descriptor groups the stable metadata of a diagnostic code.
type Descriptor struct {
	ID       string
	Title    string
	Category string
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// Descriptor returns the code metadata of the diagnostic.
func (d Diagnostic) Descriptor() Descriptor {
	return Descriptor{
		ID:       d.Code.ID(),
		Title:    d.Code.Title(),
		Category: d.Code.Category(),
	}
}

// Equal compares two diagnostics field by field, notes included.
func (d Diagnostic) Equal(other Diagnostic) bool {
	if d.Severity != other.Severity || d.Code != other.Code ||
		d.Message != other.Message || d.Primary != other.Primary ||
		len(d.Notes) != len(other.Notes) {
		return false
	}
	for i := range d.Notes {
		if d.Notes[i] != other.Notes[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no slices with d.
func (d Diagnostic) Clone() Diagnostic {
	if d.Notes != nil {
		d.Notes = append([]Note(nil), d.Notes...)
	}
	return d
}
