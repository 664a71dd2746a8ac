package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"keystroke/internal/diagfmt"
	"keystroke/internal/driver"
	"keystroke/internal/frontend/gofront"
	"keystroke/internal/observ"
	"keystroke/internal/source"
)

type scanOptions struct {
	format         string
	snippet        string
	jobs           int
	from, to       int
	normalize      bool
	showSource     bool
	showSuppressed bool
	width          int
}

func newScanCmd(a *app) *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [flags] [file...|-]",
		Short: "Analyze every strict prefix of the given sources",
		Long: `scan feeds each source to the analyzer one character at a time: for a
text of N characters it analyzes the prefixes of length 1..N-1, each from
scratch, and reports what every prefix produced. "-" reads stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer dumpTraceOnPanic()
			if !cmd.Flags().Changed("format") {
				opts.format = a.settings.Format
			}
			if !cmd.Flags().Changed("normalize") {
				opts.normalize = a.settings.Normalize
			}
			return runScan(cmd, a, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "pretty", "output format (pretty|short|json|msgpack)")
	cmd.Flags().StringVarP(&opts.snippet, "expr", "e", "", "analyze the given text instead of files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "max inputs analyzed in parallel (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.from, "from", 1, "shortest prefix length to analyze")
	cmd.Flags().IntVar(&opts.to, "to", 0, "longest prefix length to analyze (0 = all but the full text)")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "NFC-normalize input before splitting into characters")
	cmd.Flags().BoolVar(&opts.showSource, "show-source", false, "print the source line under each diagnostic")
	cmd.Flags().BoolVar(&opts.showSuppressed, "show-suppressed", false, "print suppressed diagnostics too")
	cmd.Flags().IntVar(&opts.width, "width", 60, "truncate prefixes in summaries to this width (0 = no limit)")
	return cmd
}

func runScan(cmd *cobra.Command, a *app, args []string, opts scanOptions) error {
	switch opts.format {
	case "pretty", "short", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
	if opts.jobs < 0 {
		return fmt.Errorf("invalid --jobs value %d", opts.jobs)
	}

	inputs, err := gatherInputs(cmd, args, opts.snippet)
	if err != nil {
		return err
	}

	withTimings := timings(cmd)
	results, err := driver.Scan(cmd.Context(), gofront.New(), inputs, driver.Options{
		Frontend:  a.settings.Frontend,
		Jobs:      opts.jobs,
		Timings:   withTimings,
		Normalize: opts.normalize,
		From:      opts.from,
		To:        opts.to,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json", "msgpack":
		err = writeScanReports(out, opts.format, results, withTimings)
	case "short":
		for _, res := range results {
			fmt.Fprintf(out, "== %s (%d prefixes)\n", res.Input.Name, res.Prefixes)
			for _, snap := range res.Snapshots {
				diagfmt.Short(out, snap)
			}
		}
	default:
		writeScanPretty(out, a, cmd, results, opts)
	}
	if err != nil {
		return err
	}

	if withTimings {
		reports := make([]observ.Report, 0, len(results))
		for _, res := range results {
			reports = append(reports, res.Timing)
		}
		fmt.Fprint(cmd.ErrOrStderr(), observ.Aggregate(reports).Summary())
	}

	var failed []error
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", res.Err)
			failed = append(failed, res.Err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("analysis failed for %d input(s): %w", len(failed), errors.Join(failed...))
	}
	return nil
}

// gatherInputs собирает входы: -e, файлы или "-" для stdin.
func gatherInputs(cmd *cobra.Command, args []string, snippet string) ([]driver.Input, error) {
	fs := source.NewFileSet()
	if cmd.Flags().Changed("expr") {
		if len(args) > 0 {
			return nil, fmt.Errorf("--expr cannot be combined with file arguments")
		}
		in, err := driver.SnippetInput(fs, snippet)
		if err != nil {
			return nil, err
		}
		return []driver.Input{in}, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no input: pass files, \"-\" for stdin, or --expr")
	}
	return driver.LoadInputs(fs, args, cmd.InOrStdin())
}

func writeScanPretty(out io.Writer, a *app, cmd *cobra.Command, results []driver.Result, opts scanOptions) {
	colorize := a.useColor(out)
	pretty := diagfmt.PrettyOpts{
		Color:          colorize,
		Width:          opts.width,
		ShowNotes:      true,
		ShowSuppressed: opts.showSuppressed,
		ShowSource:     opts.showSource,
	}
	silent := quiet(cmd)
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "== %s (%d prefixes)\n", res.Input.Name, res.Prefixes)
		for _, snap := range res.Snapshots {
			diagfmt.Summary(out, snap, pretty)
			if silent {
				continue
			}
			var b strings.Builder
			diagfmt.Pretty(&b, snap.Entries(), snap.Sources(), pretty)
			for _, line := range strings.SplitAfter(b.String(), "\n") {
				if line != "" {
					fmt.Fprint(out, "    ", line)
				}
			}
		}
	}
}

func writeScanReports(out io.Writer, format string, results []driver.Result, withTimings bool) error {
	reportOpts := diagfmt.ReportOpts{IncludePositions: true, IncludeTimings: withTimings}
	reports := make([]diagfmt.ScanReport, 0, len(results))
	for _, res := range results {
		rep := diagfmt.ScanReport{
			Source:    res.Input.Name,
			Prefixes:  res.Prefixes,
			Snapshots: make([]diagfmt.SnapshotReport, 0, len(res.Snapshots)),
		}
		for _, snap := range res.Snapshots {
			rep.Snapshots = append(rep.Snapshots, diagfmt.BuildSnapshotReport(snap, reportOpts))
		}
		if res.Err != nil {
			rep.Error = res.Err.Error()
		}
		reports = append(reports, rep)
	}

	if format == "json" {
		return diagfmt.JSON(out, reports)
	}
	// msgpack: поток ScanReport, по одному на вход
	for _, rep := range reports {
		if err := diagfmt.MsgPack(out, rep); err != nil {
			return err
		}
	}
	return nil
}
