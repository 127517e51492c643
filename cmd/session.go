// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/OMTS/Hop/messenger"
	"github.com/OMTS/Hop/parser/literal"
	"github.com/go-logr/logr"
	"github.com/spf13/viper"
)

// errReported is returned by commands that already rendered their errors.
var errReported = errors.New("errors reported")

// sessionOptions holds the settings shared by the commands running scripts.
type sessionOptions struct {
	debug        bool
	maxCallDepth int
	defines      []string
	printExports bool
	stdout       io.Writer
	logger       logr.Logger
}

func newSessionOptions(stdout io.Writer, defines []string, printExports bool) *sessionOptions {
	return &sessionOptions{
		debug:        viper.GetBool("debug"),
		maxCallDepth: viper.GetInt("max-call-depth"),
		defines:      defines,
		printExports: printExports,
		stdout:       stdout,
		logger:       newLogger(),
	}
}

// configs returns the session configs applied after the standard library.
func (o *sessionOptions) configs() ([]hop.Config, error) {
	configs := []hop.Config{
		hop.WithDebug(o.debug),
		hop.WithLogger(o.logger),
		hop.WithStdout(o.stdout),
	}
	if o.maxCallDepth > 0 {
		configs = append(configs, hop.WithMaxCallDepth(o.maxCallDepth))
	}
	if o.printExports {
		configs = append(configs, hop.WithMessenger(messenger.PosterFunc(o.printExport)))
	}
	for _, def := range o.defines {
		name, text, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid definition %q: expected name=literal", def)
		}
		configs = append(configs, literal.Define(name, text))
	}
	return configs, nil
}

func (o *sessionOptions) printExport(msg messenger.Message) {
	if msg.Topic != messenger.Export {
		return
	}
	v, _ := msg.Data.(hop.Value)
	fmt.Fprintf(o.stdout, "%s = %s\n", msg.Identifier, hop.FormatValue(v)) //nolint:errcheck // best-effort output
}

// newSession returns a session with the standard library loaded.
func (o *sessionOptions) newSession() (*hop.Session, error) {
	configs, err := o.configs()
	if err != nil {
		return nil, err
	}
	return hoplib.NewSession(configs...)
}
