package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"keystroke/internal/analysis"
	"keystroke/internal/observ"
	"keystroke/internal/source"
)

// LocationReport представляет местоположение в файле
type LocationReport struct {
	File      string `json:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" msgpack:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

type NoteReport struct {
	Message  string         `json:"message" msgpack:"message"`
	Location LocationReport `json:"location" msgpack:"location"`
}

// SuppressionReport описывает, чем подавлена диагностика.
type SuppressionReport struct {
	Kind      string          `json:"kind" msgpack:"kind"`
	Reason    string          `json:"reason,omitempty" msgpack:"reason,omitempty"`
	Directive *LocationReport `json:"directive,omitempty" msgpack:"directive,omitempty"`
}

type DiagnosticReport struct {
	Severity    string             `json:"severity" msgpack:"severity"`
	Code        string             `json:"code" msgpack:"code"`
	Message     string             `json:"message" msgpack:"message"`
	Location    LocationReport     `json:"location" msgpack:"location"`
	Notes       []NoteReport       `json:"notes,omitempty" msgpack:"notes,omitempty"`
	Suppression *SuppressionReport `json:"suppression,omitempty" msgpack:"suppression,omitempty"`
}

type TreeReport struct {
	Name string `json:"name" msgpack:"name"`
	File string `json:"file" msgpack:"file"`
}

// SnapshotReport is the serializable form of one prefix snapshot.
type SnapshotReport struct {
	Index       int                `json:"index" msgpack:"index"`
	Prefix      string             `json:"prefix" msgpack:"prefix"`
	Trees       []TreeReport       `json:"trees" msgpack:"trees"`
	Diagnostics []DiagnosticReport `json:"diagnostics" msgpack:"diagnostics"`
	Count       int                `json:"count" msgpack:"count"`
	Suppressed  int                `json:"suppressed" msgpack:"suppressed"`
	Timing      *observ.Report     `json:"timing,omitempty" msgpack:"timing,omitempty"`
}

// ScanReport groups the snapshots of one source. Error is set when the walk
// stopped on a frontend failure.
type ScanReport struct {
	Source    string           `json:"source" msgpack:"source"`
	Prefixes  int              `json:"prefixes" msgpack:"prefixes"`
	Snapshots []SnapshotReport `json:"snapshots" msgpack:"snapshots"`
	Error     string           `json:"error,omitempty" msgpack:"error,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts ReportOpts) LocationReport {
	loc := LocationReport{
		File:      formatPath(fs.Get(span.File), opts.PathMode, opts.BaseDir),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions && fs.HasFile(span.File) {
		start, end := fs.Resolve(span)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

// BuildSnapshotReport формирует отчёт без сериализации. Count is the number
// of diagnostics in the snapshot, even when Max trims the list.
func BuildSnapshotReport(snap *analysis.Snapshot, opts ReportOpts) SnapshotReport {
	fs := snap.Sources()
	entries := snap.Entries()
	n := len(entries)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}

	rep := SnapshotReport{
		Index:       snap.Index(),
		Prefix:      snap.Prefix(),
		Trees:       make([]TreeReport, 0, snap.TreeCount()),
		Diagnostics: make([]DiagnosticReport, 0, n),
		Count:       len(entries),
		Suppressed:  snap.SuppressedCount(),
	}
	for _, tree := range snap.Trees() {
		rep.Trees = append(rep.Trees, TreeReport{
			Name: tree.Name(),
			File: formatPath(fs.Get(tree.File()), opts.PathMode, opts.BaseDir),
		})
	}
	for _, e := range entries[:n] {
		d := e.Diag
		dr := DiagnosticReport{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		for _, note := range d.Notes {
			dr.Notes = append(dr.Notes, NoteReport{Message: note.Msg, Location: makeLocation(note.Span, fs, opts)})
		}
		if s := e.Suppression; s != nil {
			dr.Suppression = &SuppressionReport{Kind: s.Kind.String(), Reason: s.Reason}
			if s.HasDirective {
				loc := makeLocation(s.Directive, fs, opts)
				dr.Suppression.Directive = &loc
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, dr)
	}
	if opts.IncludeTimings {
		timing := snap.Timing()
		if len(timing.Phases) > 0 {
			rep.Timing = &timing
		}
	}
	return rep
}

// JSON пишет отчёт с отступами.
func JSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MsgPack пишет отчёт в формате MessagePack.
func MsgPack(w io.Writer, v any) error {
	return msgpack.NewEncoder(w).Encode(v)
}

// DecodeMsgPack читает ScanReport, записанный MsgPack.
func DecodeMsgPack(r io.Reader) (ScanReport, error) {
	var out ScanReport
	err := msgpack.NewDecoder(r).Decode(&out)
	return out, err
}
