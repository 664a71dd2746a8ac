package main

import (
	"fmt"
	"go/ast"
	"go/types"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"keystroke/internal/analysis"
	"keystroke/internal/diagfmt"
	"keystroke/internal/frontend/gofront"
	"keystroke/internal/prefix"
)

type inspectOptions struct {
	format  string
	snippet string
	at      int
}

// objectReport - имя, видимое в позиции курсора.
type objectReport struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Type string `json:"type,omitempty"`
}

type inspectReport struct {
	Source   string                 `json:"source"`
	At       int                    `json:"at"`
	Snapshot diagfmt.SnapshotReport `json:"snapshot"`
	Visible  []objectReport         `json:"visible"`
	Path     []string               `json:"path"`
}

func newInspectCmd(a *app) *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect --at N [file|-]",
		Short: "Show the tree, scope and diagnostics of a single prefix",
		Long: `inspect analyzes the first N characters of a source, as if the cursor
stood after them, and prints the syntax tree, the names visible at the
cursor, the nodes enclosing it, and every diagnostic with its suppression.
Unlike scan it accepts N equal to the full length.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer dumpTraceOnPanic()
			if !cmd.Flags().Changed("format") {
				opts.format = a.settings.Format
			}
			return runInspect(cmd, a, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "pretty", "output format (pretty|json)")
	cmd.Flags().StringVarP(&opts.snippet, "expr", "e", "", "inspect the given text instead of a file")
	cmd.Flags().IntVar(&opts.at, "at", -1, "prefix length in characters (default: the whole text)")
	return cmd
}

func runInspect(cmd *cobra.Command, a *app, args []string, opts inspectOptions) error {
	switch opts.format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}
	if len(args) == 0 && !cmd.Flags().Changed("expr") {
		args = []string{"-"}
	}
	inputs, err := gatherInputs(cmd, args, opts.snippet)
	if err != nil {
		return err
	}
	in := inputs[0]

	at := opts.at
	if at < 0 {
		at = utf8.RuneCountInString(in.Text)
	}
	text, ok := prefix.At(in.Text, at)
	if !ok {
		return fmt.Errorf("--at %d is out of range [0, %d]", at, utf8.RuneCountInString(in.Text))
	}

	analyzer, err := analysis.New(gofront.New(), a.settings.Frontend, analysis.WithTimings(timings(cmd)))
	if err != nil {
		return err
	}
	snap, err := analyzer.Analyze(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("%s: %w", in.Name, err)
	}

	var (
		tree  *gofront.Tree
		model *gofront.Model
	)
	if trees := snap.Trees(); len(trees) > 0 {
		tree, _ = trees[0].(*gofront.Tree)
	}
	if m, ok := snap.Model(0); ok {
		model, _ = m.(*gofront.Model)
	}
	if tree == nil || model == nil {
		return fmt.Errorf("%s: frontend produced no Go syntax tree", in.Name)
	}

	cursor := len(text)
	visible := describeObjects(model.VisibleAt(cursor), model.Package())
	path, _ := model.PathAt(cursor)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		rep := inspectReport{
			Source:   in.Name,
			At:       at,
			Snapshot: diagfmt.BuildSnapshotReport(snap, diagfmt.ReportOpts{IncludePositions: true, IncludeTimings: timings(cmd)}),
			Visible:  visible,
			Path:     pathLabels(path),
		}
		return diagfmt.JSON(out, rep)
	}

	colorize := a.useColor(out)
	pretty := diagfmt.PrettyOpts{Color: colorize, ShowNotes: true, ShowSuppressed: true, ShowSource: true}
	diagfmt.Summary(out, snap, pretty)
	diagfmt.FormatTreePretty(out, tree, snap.Sources())
	writeVisible(out, cursor, visible)
	if len(path) > 0 {
		fmt.Fprintf(out, "path: %s\n", strings.Join(pathLabels(path), " > "))
	}
	if !quiet(cmd) && snap.DiagnosticCount() > 0 {
		fmt.Fprintln(out, "diagnostics:")
		diagfmt.Pretty(out, snap.Entries(), snap.Sources(), pretty)
	}
	if timings(cmd) {
		fmt.Fprint(cmd.ErrOrStderr(), snap.Timing().Summary())
	}
	return nil
}

func describeObjects(objs []types.Object, pkg *types.Package) []objectReport {
	out := make([]objectReport, 0, len(objs))
	qual := types.RelativeTo(pkg)
	for _, obj := range objs {
		rep := objectReport{Name: obj.Name()}
		switch o := obj.(type) {
		case *types.PkgName:
			rep.Kind = "package"
			rep.Type = o.Imported().Path()
		case *types.Var:
			rep.Kind = "var"
		case *types.Const:
			rep.Kind = "const"
		case *types.TypeName:
			rep.Kind = "type"
		case *types.Func:
			rep.Kind = "func"
		case *types.Label:
			rep.Kind = "label"
		default:
			rep.Kind = "object"
		}
		if rep.Type == "" && obj.Type() != nil {
			rep.Type = types.TypeString(obj.Type(), qual)
		}
		out = append(out, rep)
	}
	return out
}

func writeVisible(out io.Writer, cursor int, objs []objectReport) {
	fmt.Fprintf(out, "visible at %d:", cursor)
	if len(objs) == 0 {
		fmt.Fprintln(out, " (none)")
		return
	}
	fmt.Fprintln(out)
	for _, o := range objs {
		fmt.Fprintf(out, "  %s\n", strings.TrimSpace(o.Kind+" "+o.Name+" "+o.Type))
	}
}

func pathLabels(path []ast.Node) []string {
	out := make([]string, 0, len(path))
	for _, n := range path {
		out = append(out, diagfmt.NodeLabel(n))
	}
	return out
}
