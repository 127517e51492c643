// Copyright © 2018 The ELPS authors

// Package repl implements an interactive hop session on a terminal.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/OMTS/Hop/diagnostic"
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/OMTS/Hop/parser/rdparser"
	"github.com/ergochat/readline"
)

type config struct {
	stdin    io.ReadCloser
	stderr   io.Writer
	history  string
	color    diagnostic.ColorMode
	sessions []hop.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		stderr:  os.Stderr,
		history: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file keeping the lines typed in previous runs.
// An empty path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithColor sets the color mode of rendered errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithSessionConfig adds configs to the session created by RunRepl.
func WithSessionConfig(configs ...hop.Config) Option {
	return func(c *config) {
		c.sessions = append(c.sessions, configs...)
	}
}

// RunRepl runs a repl in a session with the standard library loaded.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	configs := []hop.Config{
		hop.WithDebug(true),
		hop.WithStdout(cfg.stderr),
	}
	s, err := hoplib.NewSession(append(configs, cfg.sessions...)...)
	if err != nil {
		return fmt.Errorf("session initialization failure: %w", err)
	}
	return RunSession(s, prompt, "... ", opts...)
}

// RunSession runs a repl evaluating input in s.  Declarations persist
// between inputs.
func RunSession(s *hop.Session, prompt, cont string, opts ...Option) error {
	cfg := newConfig(opts...)
	p := rdparser.NewInteractive(nil)
	p.SetPrompts(prompt, cont)

	ensureHistoryFilePermissions(cfg.history)
	rlCfg := &readline.Config{
		Stdout:            cfg.stderr,
		Stderr:            cfg.stderr,
		Prompt:            p.Prompt(),
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{session: s},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	p.Read = func() (string, error) {
		rl.SetPrompt(p.Prompt())
		for {
			line, err := rl.ReadSlice()
			if errors.Is(err, readline.ErrInterrupt) {
				// ^C abandons the chunk being typed
				p.Reset()
				rl.SetPrompt(p.Prompt())
				continue
			}
			if err != nil {
				return "", err
			}
			return string(line), nil
		}
	}

	r := &diagnostic.Renderer{Color: cfg.color}
	for {
		src, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		v, err := s.Eval(src)
		if err != nil {
			renderError(cfg.stderr, r, err, src)
			continue
		}
		if v != nil {
			fmt.Fprintln(cfg.stderr, hop.FormatValue(v.Value())) //nolint:errcheck // best-effort REPL output
		}
	}
}

// renderError renders err with the chunk that failed as its source.
func renderError(w io.Writer, r *diagnostic.Renderer, err error, src string) {
	rr := *r
	rr.SourceReader = func(string) ([]byte, error) {
		return []byte(src), nil
	}
	_ = rr.RenderError(w, err)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hop_history")
}

// ensureHistoryFilePermissions creates the history file readable only by its
// owner, restricting an existing file to the same mode.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // user history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
