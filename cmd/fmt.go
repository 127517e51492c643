// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/OMTS/Hop/formatter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	fmtWrite      bool
	fmtDiff       bool
	fmtList       bool
	fmtIndentSize int
	fmtExcludes   []string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [files...]",
	Short: "Format hop source files",
	Long: `Format hop source files, similar to gofmt for Go.

Normalizes spacing and indentation, collapses runs of blank lines, and
preserves comments. The formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  hop fmt main.hop                 Print formatted output
  hop fmt -w main.hop              Format in place
  hop fmt -w ./...                 Format all hop files in place
  hop fmt -d main.hop              Show what would change
  hop fmt -l ./...                 List files needing formatting
  cat main.hop | hop fmt           Format from stdin
  hop fmt --indent-size 4 main.hop Use 4-space indentation`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := formatter.DefaultConfig()
		cfg.IndentSize = fmtIndentSize

		if len(args) == 0 {
			return fmtReader(cmd.OutOrStdout(), cmd.InOrStdin(), cfg)
		}

		expanded, err := expandArgs(args, fmtExcludes)
		if err != nil {
			return err
		}
		var errs error
		changed := false
		for _, path := range expanded {
			c, err := fmtFile(cmd.OutOrStdout(), path, cfg)
			errs = multierr.Append(errs, err)
			changed = changed || c
		}
		if errs != nil {
			renderErrors(cmd.ErrOrStderr(), errs, nil)
			return errReported
		}
		if fmtList && changed {
			return errReported
		}
		return nil
	},
}

func fmtReader(w io.Writer, r io.Reader, cfg *formatter.Config) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	out, err := formatter.Format(src, cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// fmtFile formats the file at path according to the selected mode and
// reports whether its formatting changed.
func fmtFile(w io.Writer, path string, cfg *formatter.Config) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return false, err
	}
	out, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, err
	}

	changed := !bytes.Equal(src, out)

	switch {
	case fmtList:
		if changed {
			fmt.Fprintln(w, path) //nolint:errcheck // best-effort output
		}
		return changed, nil
	case fmtDiff:
		if changed {
			return true, writeDiff(w, path, src, out)
		}
		return false, nil
	case fmtWrite:
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		return true, os.WriteFile(path, out, info.Mode().Perm())
	}

	// Default: print to stdout
	_, err = w.Write(out)
	return changed, err
}

func writeDiff(w io.Writer, path string, original, formatted []byte) error {
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(formatted)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"List files whose formatting differs from hop fmt's.")
	fmtCmd.Flags().IntVar(&fmtIndentSize, "indent-size", 0,
		"Number of spaces per indentation level (0 indents with tabs).")
	fmtCmd.Flags().StringArrayVar(&fmtExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
