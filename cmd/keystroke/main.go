package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"keystroke/internal/version"
)

// app держит состояние одного запуска: окружение и слитые настройки.
type app struct {
	lookup   func(string) (string, bool)
	dir      string // откуда искать keystroke.toml и .env
	settings settings
	cleanup  func()
}

func newApp() *app {
	return &app{
		lookup:  os.LookupEnv,
		dir:     ".",
		cleanup: func() {},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "keystroke",
		Short: "Analyze Go snippets one keystroke at a time",
		Long: `keystroke replays typing a Go snippet: every strict prefix of the input
is parsed and type-checked from scratch, and the trees, models and
diagnostics of each prefix are reported.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(a.dir, a.lookup)
			if err != nil {
				return err
			}
			if err := applyRootFlags(cmd, &s); err != nil {
				return err
			}
			a.settings = s

			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanup, err := setupTracing(cmd)
			if err != nil {
				stopProfiling()
				return err
			}
			a.cleanup = func() {
				cleanup()
				stopProfiling()
			}
			return nil
		},
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per prefix (0 = unlimited)")
	root.PersistentFlags().StringSlice("import", nil, "default imports (replaces configured ones)")
	root.PersistentFlags().StringSlice("suppress", nil, "diagnostic IDs to suppress, \"*\" for all")

	root.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	root.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for ring|both modes")

	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime execution trace to file")

	root.AddCommand(newScanCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// applyRootFlags перекрывает настройки флагами, заданными явно.
func applyRootFlags(cmd *cobra.Command, s *settings) error {
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("color") {
		c, err := flags.GetString("color")
		if err != nil {
			return err
		}
		s.Color = c
	}
	if _, err := parseColorMode(s.Color); err != nil {
		return err
	}
	if flags.Changed("max-diagnostics") {
		n, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return err
		}
		s.Frontend.MaxDiagnostics = n
	}
	if flags.Changed("import") {
		imports, err := flags.GetStringSlice("import")
		if err != nil {
			return err
		}
		s.Frontend.DefaultImports = imports
	}
	if flags.Changed("suppress") {
		ids, err := flags.GetStringSlice("suppress")
		if err != nil {
			return err
		}
		s.Frontend.Suppress = ids
	}
	return s.Frontend.Validate()
}

// main builds the command tree and executes it under a context cancelled by
// SIGINT/SIGTERM. If command execution returns an error, the process exits
// with status code 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	// PersistentPostRun не вызывается при ошибке, поэтому трейсер закрываем здесь
	a.cleanup()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// useColor решает, раскрашивать ли вывод в w.
func (a *app) useColor(w io.Writer) bool {
	switch a.settings.Color {
	case "on":
		return true
	case "off":
		return false
	}
	if _, ok := a.lookup("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

func timings(cmd *cobra.Command) bool {
	t, _ := cmd.Root().PersistentFlags().GetBool("timings")
	return t
}
