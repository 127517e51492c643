// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/OMTS/Hop/diagnostic"
	"github.com/OMTS/Hop/formatter"
	"github.com/OMTS/Hop/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestSelectAnalyzers(t *testing.T) {
	all, err := selectAnalyzers("")
	require.NoError(t, err)
	assert.Len(t, all, len(lint.DefaultAnalyzers()))

	some, err := selectAnalyzers("zero-division, unused-import")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "zero-division", some[0].Name)
	assert.Equal(t, "unused-import", some[1].Name)

	_, err = selectAnalyzers("unused-import,fnord")
	assert.EqualError(t, err, "unknown check: fnord")
}

func TestLintFiles(t *testing.T) {
	a := writeScript(t, "a.hop", "import Sys\n")
	b := writeScript(t, "b.hop", "var x = 1 / 0\n")
	bad := writeScript(t, "bad.hop", "var = 1\n")
	l := &lint.Linter{Analyzers: lint.DefaultAnalyzers()}

	diags, err := lintFiles(l, []string{b, a})
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, b, diags[0].Pos.File)
	assert.Equal(t, "unused-import", diags[1].Analyzer)

	_, err = lintFiles(l, []string{a, bad, "missing.hop"})
	assert.Len(t, multierr.Errors(err), 2)

	d := lintDiagToDiagnostic(diags[0])
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "division by zero (zero-division)", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, 1, d.Spans[0].Line)
	assert.Contains(t, d.Notes[len(d.Notes)-1], "nolint:zero-division")

	var out bytes.Buffer
	renderLintDiagnostics(&out, diags)
	assert.Contains(t, out.String(), "error: division by zero (zero-division)")
	assert.Contains(t, out.String(), "warning: module Sys imported and not used (unused-import)")
	assert.Contains(t, out.String(), "var x = 1 / 0")
}

func TestFmtFile(t *testing.T) {
	path := writeScript(t, "main.hop", "var  x=1\n")
	cfg := formatter.DefaultConfig()

	var out bytes.Buffer
	changed, err := fmtFile(&out, path, cfg)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "var x = 1\n", out.String())

	out.Reset()
	require.NoError(t, writeDiff(&out, path, []byte("var  x=1\n"), []byte("var x = 1\n")))
	assert.Contains(t, out.String(), "-var  x=1\n+var x = 1\n")

	fmtWrite = true
	defer func() { fmtWrite = false }()
	out.Reset()
	changed, err = fmtFile(&out, path, cfg)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, out.String())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "var x = 1\n", string(b))

	changed, err = fmtFile(&out, path, cfg)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = fmtFile(&out, writeScript(t, "bad.hop", "var = 1\n"), cfg)
	assert.Error(t, err)
}
