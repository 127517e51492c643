// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func testOptions(out *bytes.Buffer, defines ...string) *sessionOptions {
	return &sessionOptions{
		debug:        true,
		defines:      defines,
		printExports: true,
		stdout:       out,
		logger:       logr.Discard(),
	}
}

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestRunSources(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(&out, "n=20", `greeting="hi"`)
	tr, err := newTracing(context.Background(), "", "", logr.Discard())
	require.NoError(t, err)

	path := writeScript(t, "main.hop", "import Test\nTest.export(n * 2 + 2, label: \"answer\")\n")
	err = runSources(opts, tr, []source{
		{text: "import Test\nTest.export(greeting, label: \"g\")\n"},
		{path: path},
	})
	require.NoError(t, err)
	assert.Equal(t, "g = hi\nanswer = 42\n", out.String())
}

func TestRunSourcesCombinesErrors(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(&out)
	tr, err := newTracing(context.Background(), "", "", logr.Discard())
	require.NoError(t, err)

	bad := writeScript(t, "bad.hop", "var a = 1\nvar a = 2\n")
	sources := []source{
		{text: "1 / 0\n"},
		{path: bad},
		{text: "import Test\nTest.export(1, label: \"ran\")\n"},
	}
	err = runSources(opts, tr, sources)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	kind, _ := hop.KindOf(errs[0])
	assert.Equal(t, hop.ZeroDivisionAttempt, kind)
	kind, _ = hop.KindOf(errs[1])
	assert.Equal(t, hop.InvalidRedeclaration, kind)
	assert.Equal(t, "ran = 1\n", out.String(), "later sources still run")

	var stderr bytes.Buffer
	renderErrors(&stderr, err, sources)
	got := stderr.String()
	assert.Contains(t, got, "error: zero division attempt")
	assert.Contains(t, got, "--> <input>:1:")
	assert.Contains(t, got, "1 / 0")
	assert.Contains(t, got, "--> "+bad+":2:")
	assert.Contains(t, got, "var a = 2")
}

func TestSessionOptionsDefines(t *testing.T) {
	var out bytes.Buffer
	_, err := testOptions(&out, "novalue").configs()
	assert.ErrorContains(t, err, "expected name=literal")
	_, err = testOptions(&out, "=1").configs()
	assert.Error(t, err)

	_, err = testOptions(&out, "xs=[1,").newSession()
	assert.ErrorContains(t, err, "xs")
}

func TestCallgrindTracing(t *testing.T) {
	var out bytes.Buffer
	profile := filepath.Join(t.TempDir(), "callgrind.out")
	tr, err := newTracing(context.Background(), "", profile, logr.Discard())
	require.NoError(t, err)
	src := source{text: "func f() {\n}\nf()\n"}
	require.NoError(t, runSources(testOptions(&out), tr, []source{src, src}))

	b, err := os.ReadFile(profile)
	require.NoError(t, err)
	assert.Contains(t, string(b), ") f()\n")
	assert.FileExists(t, profile+".2")
}

func TestOpenTelemetryTracing(t *testing.T) {
	var lines []string
	logger := funcLogger(&lines)
	ctx := context.Background()
	tr, err := newTracing(ctx, "otel", "", logger)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, runSources(testOptions(&out), tr, []source{{text: "func f() {\n}\nf()\n"}}))
	require.NoError(t, tr.shutdown(ctx))

	log := strings.Join(lines, "\n")
	assert.Contains(t, log, `"name"="f()"`)
	assert.Contains(t, log, `"name"="run <expression>"`)

	_, err = newTracing(ctx, "jaeger", "", logger)
	assert.Error(t, err)
}

func TestOpenCensusTracing(t *testing.T) {
	var lines []string
	ctx := context.Background()
	tr, err := newTracing(ctx, "opencensus", "", funcLogger(&lines))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, runSources(testOptions(&out), tr, []source{{text: "func f() {\n}\nf()\n"}}))
	require.NoError(t, tr.shutdown(ctx))

	assert.Contains(t, strings.Join(lines, "\n"), `"name"="main:f()"`)
}
