// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/OMTS/Hop/diagnostic"
	"github.com/OMTS/Hop/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replDefines []string

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive hop session",
	Long: `Start an interactive read-eval-print loop.

Declarations persist between inputs and the value of an expression is
printed after it runs.  Input continues on the next line while braces,
parentheses or brackets are open.  Line editing, completion of the names in
scope and command history are supported via readline.  Use Ctrl-C to discard
the input being typed and Ctrl-D to exit.

Example session:
  hop> import Math
  hop> func square(#x: Real) -> Real {
  ...      return x * x
  ...  }
  hop> square(Math.pi)
  9.869604401089358`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := newSessionOptions(cmd.ErrOrStderr(), replDefines, false)
		// the repl always tracks locations to point at the failing input
		opts.debug = true
		configs, err := opts.configs()
		if err != nil {
			return err
		}
		return repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithSessionConfig(configs...),
			repl.WithHistoryFile(historyFile()),
			repl.WithColor(diagnostic.ParseColorMode(viper.GetString("color"))))
	},
}

func historyFile() string {
	if viper.IsSet("history-file") {
		return viper.GetString("history-file")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hop_history")
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringArrayVarP(&replDefines, "define", "D", nil,
		"Declare a global constant name=literal.")
	replCmd.Flags().String("history-file", "", "File keeping the input history (default $HOME/.hop_history).")
	_ = viper.BindPFlag("history-file", replCmd.Flags().Lookup("history-file"))
}
