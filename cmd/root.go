// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/OMTS/Hop/diagnostic"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hop",
	Short: "Hop, an embeddable scripting language",
	Long: `Hop is a small statically typed scripting language with classes,
closures and native modules, implemented as an embeddable Go runtime. The hop
command runs, checks and explores Hop scripts.

Getting started:
  hop run main.hop                      Run a script
  hop run -e 'import Sys' -e 'Sys.print("hi")'
                                        Run source given on the command line
  hop repl                              Start an interactive session
  hop check src/...                     Parse every script under src
  hop fmt -w src/...                    Format scripts in place
  hop lint src/...                      Report likely mistakes
  hop modules Math                      Document a native module
  hop watch main.hop                    Re-run a script when it changes

Configuration is read from $HOME/.hop.yaml (or --config) and from HOP_*
environment variables, e.g. HOP_DEBUG=true or HOP_MAX_CALL_DEPTH=500.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if err != errReported {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hop.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.Bool("debug", true, "Track source locations for error reports.")
	flags.IntP("verbose", "v", 0, "Log verbosity of the runtime (1 modules, 2 calls).")
	flags.Int("max-call-depth", 0, "Maximum nesting of function calls (default 10000).")
	for _, key := range []string{"color", "debug", "verbose", "max-call-depth"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".hop" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".hop")
	}

	viper.SetEnvPrefix("hop")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		newLogger().V(1).Info("using config file", "path", viper.ConfigFileUsed())
	}
}

// newLogger returns the logger given to sessions, writing to stderr.
func newLogger() logr.Logger {
	stdr.SetVerbosity(viper.GetInt("verbose"))
	return stdr.New(log.New(os.Stderr, "hop: ", log.LstdFlags))
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: diagnostic.ParseColorMode(viper.GetString("color"))}
}
