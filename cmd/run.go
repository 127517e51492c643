// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/OMTS/Hop/diagnostic"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	runExpressions  []string
	runDefines      []string
	runPrintExports bool
	runTrace        string
	runCallgrind    string
	runCPUProfile   string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [file...]",
	Short: "Run hop scripts",
	Long: `Run hop scripts supplied via the command line or files.  Every script
runs in a fresh session with the standard library available for import.
Lines printed with Sys.print are written to stdout.

Examples:
  hop run main.hop
  hop run -e 'import Sys' -e 'Sys.print("hello")'
  hop run --define 'limit=10' --define 'names=["a", "b"]' main.hop
  hop run --print-exports tests/geometry.hop
  hop run --trace otel -v 1 main.hop
  hop run --callgrind callgrind.out main.hop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && len(runExpressions) == 0 {
			return fmt.Errorf("no script to run")
		}
		if runCPUProfile != "" {
			f, err := os.Create(runCPUProfile)
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // closed after the profile is flushed
			if err := pprof.StartCPUProfile(f); err != nil {
				return err
			}
			defer pprof.StopCPUProfile()
		}
		opts := newSessionOptions(cmd.OutOrStdout(), runDefines, runPrintExports)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		tr, err := newTracing(ctx, runTrace, runCallgrind, opts.logger)
		if err != nil {
			return err
		}
		defer tr.shutdown(ctx) //nolint:errcheck // best-effort flush

		var sources []source
		if len(runExpressions) > 0 {
			sources = append(sources, source{text: strings.Join(runExpressions, "\n") + "\n"})
		}
		for _, path := range args {
			sources = append(sources, source{path: path})
		}
		err = runSources(opts, tr, sources)
		if err != nil {
			renderErrors(cmd.ErrOrStderr(), err, sources)
			return errReported
		}
		return nil
	},
}

// source is a script given on the command line: a file path or, when path
// is empty, the script text.
type source struct {
	path string
	text string
}

func (src source) name() string {
	if src.path == "" {
		return "<expression>"
	}
	return src.path
}

// runSources runs each source in its own session and returns the combined
// errors of the failed runs.
func runSources(opts *sessionOptions, tr *tracing, sources []source) error {
	var errs error
	for _, src := range sources {
		errs = multierr.Append(errs, runSource(opts, tr, src))
	}
	return errs
}

func runSource(opts *sessionOptions, tr *tracing, src source) (err error) {
	s, err := opts.newSession()
	if err != nil {
		return err
	}
	complete, err := tr.annotate(s, src.name())
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, complete())
	}()
	if src.path == "" {
		return s.Run(src.text)
	}
	return s.RunFile(src.path)
}

// renderErrors renders each error combined in err.  Source lines are read
// from the files, or from the expression text for errors located in it.
func renderErrors(w io.Writer, err error, sources []source) {
	r := newRenderer()
	r.SourceReader = func(name string) ([]byte, error) {
		if name == "" {
			for _, src := range sources {
				if src.path == "" {
					return []byte(src.text), nil
				}
			}
		}
		return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
	}
	var diags []diagnostic.Diagnostic
	for _, e := range multierr.Errors(err) {
		diags = append(diags, diagnostic.FromError(e))
	}
	_ = r.RenderAll(w, diags)
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().StringArrayVarP(&runExpressions, "expression", "e", nil,
		"Run a line of hop source (may be repeated, lines form one script).")
	runCmd.Flags().StringArrayVarP(&runDefines, "define", "D", nil,
		"Declare a global constant name=literal, e.g. 'n=3' or 'xs=[1, 2]'.")
	runCmd.Flags().BoolVar(&runPrintExports, "print-exports", false,
		"Print values exported with Test.export as label = value.")
	runCmd.Flags().StringVar(&runTrace, "trace", "",
		`Trace function calls: "otel" or "opencensus" log spans, "pprof" labels CPU profiles.`)
	runCmd.Flags().StringVar(&runCallgrind, "callgrind", "",
		"Write a callgrind profile of the run to the given file.")
	runCmd.Flags().StringVar(&runCPUProfile, "cpuprofile", "",
		"Write a pprof CPU profile to the given file.")
	runCmd.MarkFlagsMutuallyExclusive("trace", "callgrind")
}
