package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"keystroke/internal/analysis"
	"keystroke/internal/diag"
)

// Short печатает снимок в стабильном виде для golden-тестов:
// строка-заголовок и по строке на каждую неподавленную диагностику.
func Short(w io.Writer, snap *analysis.Snapshot) {
	fmt.Fprintf(w, "#%d %s trees=%d diags=%d suppressed=%d\n",
		snap.Index(), strconv.Quote(snap.Prefix()), snap.TreeCount(), snap.DiagnosticCount(), snap.SuppressedCount())

	active := snap.Active()
	if len(active) == 0 {
		return
	}
	diags := make([]diag.Diagnostic, len(active))
	for i, e := range active {
		diags[i] = e.Diag
	}
	for _, line := range strings.Split(diag.FormatShortDiagnostics(diags, snap.Sources(), false), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
