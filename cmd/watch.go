// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	watchDefines []string
	watchDelay   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] file",
	Short: "Run a hop script again every time it changes",
	Long: `Run a hop script, then watch its directory and run the script again in a
fresh session each time the file is written.  Errors are reported without
stopping the watch.  Interrupt the command to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := newSessionOptions(cmd.OutOrStdout(), watchDefines, false)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return watchFile(ctx, opts, args[0], watchDelay, cmd.ErrOrStderr())
	},
}

// watchFile runs path and runs it again after each write, until ctx is done.
// Writes closer together than delay trigger a single run.
func watchFile(ctx context.Context, opts *sessionOptions, path string, delay time.Duration, stderr io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck // best-effort cleanup
	// Editors often replace files instead of writing them, so the directory
	// is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	log := opts.logger.WithName("watch")
	tr, err := newTracing(ctx, "", "", log)
	if err != nil {
		return err
	}
	run := func() {
		src := []source{{path: path}}
		if err := runSources(opts, tr, src); err != nil {
			renderErrors(stderr, err, src)
		}
	}
	run()

	target := filepath.Clean(path)
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.V(1).Info("changed", "file", ev.Name, "op", ev.Op.String())
			timer = time.After(delay)
		case <-timer:
			timer = nil
			fmt.Fprintf(stderr, "--- %s changed, running\n", path) //nolint:errcheck // best-effort output
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(err, "watch failed")
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringArrayVarP(&watchDefines, "define", "D", nil,
		"Declare a global constant name=literal.")
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 100*time.Millisecond,
		"Wait for writes to settle before running.")
}
