// Copyright © 2018 The ELPS authors

// Package hoptest runs hop scripts from Go tests.
package hoptest

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/OMTS/Hop/messenger"
	"github.com/OMTS/Hop/parser"
)

func BenchmarkParse(path string, r func() hop.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf), false)
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// Recorder is a messenger.Poster keeping what a script printed and exported.
// Exported values are kept rendered.
type Recorder struct {
	Prints  []string
	Exports map[string]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Exports: make(map[string]string)}
}

// Post implements messenger.Poster.
func (r *Recorder) Post(msg messenger.Message) {
	switch msg.Topic {
	case messenger.Stdout:
		line, _ := msg.Data.(string)
		if i := strings.Index(line, "] -- "); strings.HasPrefix(line, "[") && i >= 0 {
			line = line[i+len("] -- "):]
		}
		r.Prints = append(r.Prints, line)
	case messenger.Export:
		v, _ := msg.Data.(hop.Value)
		r.Exports[msg.Identifier] = hop.FormatValue(v)
	}
}

// Runner is a test runner.
type Runner struct {
	// Configs are applied to every session after the standard library.
	Configs []hop.Config
}

// NewSession returns a debug session with the standard library loaded whose
// messages go to post and whose printed lines are logged to t.
func (r *Runner) NewSession(t testing.TB, post messenger.Poster) (*hop.Session, *Logger, error) {
	logger := NewLogger(t)
	configs := []hop.Config{
		hop.WithReader(parser.NewReader()),
		hop.WithDebug(true),
		hop.WithStdout(logger),
		hop.WithMessenger(post),
		hoplib.LoadLibrary(),
	}
	s, err := hop.NewSession(append(configs, r.Configs...)...)
	if err != nil {
		return nil, nil, err
	}
	return s, logger, nil
}

// Run runs script and returns what it printed and exported.
func (r *Runner) Run(t testing.TB, script string) (*Recorder, error) {
	rec := NewRecorder()
	s, logger, err := r.NewSession(t, rec)
	if err != nil {
		return nil, err
	}
	defer logger.Flush()
	return rec, s.Run(script)
}

// RunFile runs the script at path and reports a failure as a test error.
func (r *Runner) RunFile(t *testing.T, path string) *Recorder {
	rec := NewRecorder()
	s, logger, err := r.NewSession(t, rec)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Flush()
	if err := s.RunFile(path); err != nil {
		HopError(t, err)
	}
	return rec
}

// HopError reports err as a test error, with the hop call stack when err is a
// runtime error.
func HopError(t testing.TB, err error) {
	var herr *hop.Error
	if !errors.As(err, &herr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := herr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// TestSuite is a set of named scripts run in isolated sessions.
type TestSuite []struct {
	Name   string
	Script string
	// Exports maps labels passed to Test.export to the rendered values.
	// Only the listed labels are checked.
	Exports map[string]string
	// Prints lists the texts passed to Sys.print.  It is not checked when
	// nil.
	Prints []string
	// Error is the kind of the error the script fails with, empty for
	// scripts expected to complete.
	Error string
}

// RunTestSuite runs each test of tests in a separate session.
func RunTestSuite(t *testing.T, tests TestSuite) {
	var r Runner
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			rec, err := r.Run(t, test.Script)
			if rec == nil {
				t.Fatalf("test %d %q: %v", i, test.Name, err)
			}
			switch {
			case test.Error == "" && err != nil:
				HopError(t, err)
				return
			case test.Error != "":
				kind, ok := hop.KindOf(err)
				if !ok {
					t.Errorf("test %d %q: expected error %q (got %v)", i, test.Name, test.Error, err)
					return
				}
				if kind.String() != test.Error {
					t.Errorf("test %d %q: expected error %q (got %v)", i, test.Name, test.Error, err)
				}
			}
			for label, want := range test.Exports {
				got, ok := rec.Exports[label]
				if !ok {
					t.Errorf("test %d %q: %s was not exported", i, test.Name, label)
					continue
				}
				if got != want {
					t.Errorf("test %d %q: expected %s = %s (got %s)", i, test.Name, label, want, got)
				}
			}
			if test.Prints != nil && strings.Join(test.Prints, "\n") != strings.Join(rec.Prints, "\n") {
				t.Errorf("test %d %q: expected prints %q (got %q)", i, test.Name, test.Prints, rec.Prints)
			}
		})
	}
}
