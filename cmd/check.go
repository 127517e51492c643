// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/OMTS/Hop/parser"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var checkExcludes []string

var checkCmd = &cobra.Command{
	Use:   "check [flags] file...",
	Short: "Parse hop scripts without running them",
	Long: `Parse hop scripts and report every lexical and syntax error found.
Files are parsed concurrently.  An argument ending in "/..." stands for all
the .hop files found recursively under the directory.

Examples:
  hop check main.hop
  hop check ./...
  hop check --exclude='vendor' --exclude='*_gen.hop' ./...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandArgs(args, checkExcludes)
		if err != nil {
			return err
		}
		err = checkFiles(paths)
		if err != nil {
			sources := make([]source, len(paths))
			for i, path := range paths {
				sources[i] = source{path: path}
			}
			renderErrors(cmd.ErrOrStderr(), err, sources)
			return errReported
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files ok\n", len(paths)) //nolint:errcheck // best-effort output
		return nil
	},
}

// checkFiles parses paths concurrently and combines the errors in path
// order.
func checkFiles(paths []string) error {
	errs := iter.Map(paths, func(path *string) error {
		return checkFile(*path)
	})
	return multierr.Combine(errs...)
}

func checkFile(path string) error {
	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read only
	return checkReader(path, f)
}

func checkReader(name string, r io.Reader) error {
	_, err := parser.NewReader().Read(name, r, true)
	return err
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringArrayVar(&checkExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
