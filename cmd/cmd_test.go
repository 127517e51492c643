// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func funcLogger(lines *[]string) logr.Logger {
	return funcr.New(func(prefix, args string) {
		*lines = append(*lines, args)
	}, funcr.Options{})
}

func TestCheckFiles(t *testing.T) {
	good := writeScript(t, "good.hop", "var x = 1\n")
	bad := writeScript(t, "bad.hop", "var = 1\n")
	lexBad := writeScript(t, "lex.hop", "var x = 1 $ 2\n")

	require.NoError(t, checkFiles([]string{good, good}))

	err := checkFiles([]string{bad, good, lexBad})
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), bad)
	assert.Contains(t, errs[1].Error(), lexBad)

	err = checkFiles([]string{"does-not-exist.hop"})
	assert.Error(t, err)
}

func TestDumpTokens(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, dumpTokens(&out, "t.hop", "var x = 1"))
	assert.Equal(t, strings.Join([]string{
		"1:1\tvar",
		"1:5\tidentifier(x)",
		"1:7\t=",
		"1:9\tinteger(1)",
		"1:10\tEOF",
		"",
	}, "\n"), out.String())

	out.Reset()
	assert.Error(t, dumpTokens(&out, "t.hop", "x $"))
	assert.Contains(t, out.String(), "identifier(x)")
}

func TestRenderModules(t *testing.T) {
	s, err := hoplib.NewSession()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderModuleList(&out, s.NativeModules()))
	assert.Contains(t, out.String(), "Math     Real valued mathematical functions and constants.\n")
	assert.Contains(t, out.String(), "Sys      System functions: printing to the session output and converting values to strings.\n")

	var math *hop.Module
	for _, mod := range s.NativeModules() {
		if mod.Name == "Math" {
			math = mod
		}
	}
	require.NotNil(t, math)
	out.Reset()
	require.NoError(t, renderModule(&out, math))
	got := out.String()
	assert.True(t, strings.HasPrefix(got, "module Math\n\nReal valued"))
	assert.Contains(t, got, "\nfunc sqrt(#value: Real) -> Real\n    Returns the square root of value.\n")
	assert.Contains(t, got, "\nconst pi: Real = 3.14159")
}

func TestPrototype(t *testing.T) {
	p := &hop.Prototype{
		Name: "insert",
		Args: []hop.Argument{
			{Label: hop.AnonymousLabel, Name: "element", Type: hop.TypeAny},
			{Label: "at", Name: "at", Type: hop.TypeInteger},
		},
	}
	assert.Equal(t, "insert(#element: Any, at: Int)", prototype(p))
	p.Return = hop.TypeBoolean
	p.Args[1].Name = "index"
	assert.Equal(t, "insert(#element: Any, at index: Int) -> Bool", prototype(p))
}

func TestCleanDoc(t *testing.T) {
	assert.Equal(t, "", cleanDoc("  \n\t", 2))
	assert.Equal(t, "  Converts a value.", cleanDoc("Converts\n\t\ta value.", 2))
	assert.Equal(t, "First.", summary("First.  Second."))
}
