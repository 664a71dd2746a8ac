package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"keystroke/internal/analysis"
	"keystroke/internal/diag"
	"keystroke/internal/source"
)

const tabWidth = 4

// palette красит строки только при включённом цвете, независимо от
// глобального color.NoColor.
type palette struct{ on bool }

func (p palette) paint(s string, attrs ...color.Attribute) string {
	if !p.on || s == "" {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.paint(sev.String(), color.FgRed, color.Bold)
	case diag.SevWarning:
		return p.paint(sev.String(), color.FgYellow, color.Bold)
	default:
		return p.paint(sev.String(), color.FgCyan, color.Bold)
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой записи печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и
// причину подавления. Подавленные записи печатаются только с ShowSuppressed.
func Pretty(w io.Writer, entries []analysis.DiagnosticEntry, fs *source.FileSet, opts PrettyOpts) {
	p := palette{on: opts.Color}
	for _, e := range entries {
		if e.Suppressed() && !opts.ShowSuppressed {
			continue
		}
		d := e.Diag
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.paint(location(d.Primary, fs, opts), color.Bold),
			p.severity(d.Severity),
			p.paint(d.Code.ID(), color.Faint),
			diag.SanitizeMessage(d.Message))

		if opts.ShowSource {
			writeSourceLine(w, p, d.Primary, fs)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", p.paint("note:", color.FgCyan), location(n.Span, fs, opts), n.Msg)
			}
		}
		if e.Suppression != nil {
			fmt.Fprintf(w, "  %s %s\n", p.paint("= suppressed ("+e.Suppression.Kind.String()+"):", color.FgMagenta), e.Suppression.Reason)
		}
	}
}

func location(sp source.Span, fs *source.FileSet, opts PrettyOpts) string {
	if fs == nil || !fs.HasFile(sp.File) {
		return fmt.Sprintf("<unknown>:%d", sp.Start)
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(sp.File), opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// writeSourceLine печатает строку начала span и подчёркивание под ним.
// Span, уходящий за конец строки, подчёркивается до конца строки.
func writeSourceLine(w io.Writer, p palette, sp source.Span, fs *source.FileSet) {
	if fs == nil || !fs.HasFile(sp.File) {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)

	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	to = max(to, from)

	pad := displayWidth(line[:from])
	width := max(displayWidth(line[from:to]), 1)

	gutter := strconv.FormatUint(uint64(start.Line), 10)
	blank := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(w, " %s %s %s\n", p.paint(gutter, color.FgBlue), p.paint("|", color.FgBlue), expandTabs(line))
	fmt.Fprintf(w, " %s %s %s%s\n", blank, p.paint("|", color.FgBlue), strings.Repeat(" ", pad),
		p.paint("^"+strings.Repeat("~", width-1), color.FgGreen, color.Bold))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

// Summary печатает одну строку на снимок префикса:
// #<index> "<prefix>" trees=N diags=N suppressed=N
func Summary(w io.Writer, snap *analysis.Snapshot, opts PrettyOpts) {
	p := palette{on: opts.Color}
	quoted := strconv.Quote(snap.Prefix())
	if opts.Width > 0 {
		quoted = truncate(quoted, opts.Width)
	}

	active := len(snap.Active())
	diags := strconv.Itoa(active)
	switch {
	case snap.HasErrors():
		diags = p.paint(diags, color.FgRed, color.Bold)
	case active > 0:
		diags = p.paint(diags, color.FgYellow)
	default:
		diags = p.paint(diags, color.FgGreen)
	}
	fmt.Fprintf(w, "%s %s trees=%d diags=%s suppressed=%d\n",
		p.paint(fmt.Sprintf("#%d", snap.Index()), color.Bold),
		quoted, snap.TreeCount(), diags, snap.SuppressedCount())
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
