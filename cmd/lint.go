// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OMTS/Hop/diagnostic"
	"github.com/OMTS/Hop/lint"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	lintJSON     bool
	lintChecks   string
	lintListAll  bool
	lintExcludes []string
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [files...]",
	Short: "Run static analysis checks on hop source files",
	Long: `Run static analysis checks on hop source files.

The linter reports likely mistakes in hop code, similar to "go vet" for Go.
Each check is an independent analyzer that examines the parsed program and
reports diagnostics. The linter does not report style issues, use "hop fmt"
for that.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr. The command fails when anything is reported.

To suppress a specific diagnostic, add a comment on the same line:
  x = x // nolint:self-assignment

To suppress all checks on a line:
  x = x // nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  hop lint main.hop                           # Lint a single file
  hop lint ./...                              # Lint every hop file
  hop lint --json main.hop                    # Output diagnostics as JSON
  hop lint --checks=unused-import main.hop    # Run only specific checks
  hop lint --list                             # List available checks
  hop lint --exclude='vendor' ./...           # Exclude a directory
  cat main.hop | hop lint                     # Lint from stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if lintListAll {
			for _, name := range lint.AnalyzerNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name) //nolint:errcheck // best-effort output
			}
			return nil
		}

		analyzers, err := selectAnalyzers(lintChecks)
		if err != nil {
			return err
		}
		l := &lint.Linter{Analyzers: analyzers}

		var diags []lint.Diagnostic
		if len(args) == 0 {
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			diags, err = l.LintFile(src, "<stdin>")
			if err != nil {
				renderErrors(cmd.ErrOrStderr(), err, []source{{text: string(src)}})
				return errReported
			}
		} else {
			paths, err := expandArgs(args, lintExcludes)
			if err != nil {
				return err
			}
			diags, err = lintFiles(l, paths)
			if err != nil {
				renderErrors(cmd.ErrOrStderr(), err, nil)
				return errReported
			}
		}

		if len(diags) == 0 {
			return nil
		}
		if lintJSON {
			if err := lint.FormatJSON(cmd.OutOrStdout(), diags); err != nil {
				return err
			}
		} else {
			renderLintDiagnostics(cmd.ErrOrStderr(), diags)
		}
		return errReported
	},
}

// selectAnalyzers returns the default analyzers named in the comma separated
// list checks, or all of them when checks is empty.
func selectAnalyzers(checks string) ([]*lint.Analyzer, error) {
	analyzers := lint.DefaultAnalyzers()
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return filtered, nil
}

// lintFiles analyzes paths concurrently.  Diagnostics keep the path order.
func lintFiles(l *lint.Linter, paths []string) ([]lint.Diagnostic, error) {
	type result struct {
		diags []lint.Diagnostic
		err   error
	}
	results := iter.Map(paths, func(path *string) result {
		src, err := os.ReadFile(*path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return result{err: err}
		}
		diags, err := l.LintFile(src, *path)
		return result{diags: diags, err: err}
	})
	var all []lint.Diagnostic
	var errs error
	for _, r := range results {
		all = append(all, r.diags...)
		errs = multierr.Append(errs, r.err)
	}
	return all, errs
}

func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		})
	}
	d.Notes = append(d.Notes, ld.Notes...)
	d.Notes = append(d.Notes, "to suppress: add \"// nolint:"+ld.Analyzer+"\" as a comment on this line")
	return d
}

func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, len(diags))
	for i, ld := range diags {
		ds[i] = lintDiagToDiagnostic(ld)
	}
	_ = newRenderer().RenderAll(w, ds)
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output diagnostics as JSON.")
	lintCmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	lintCmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
	lintCmd.Flags().StringArrayVar(&lintExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
