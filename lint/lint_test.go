// Copyright © 2018 The ELPS authors

package lint

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(source), "test.hop")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintFile([]byte(source), "test.hop")
	require.NoError(t, err)
	return diags
}

func messages(diags []Diagnostic) []string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.String()
	}
	return msgs
}

func TestAnalyzers(t *testing.T) {
	tests := []struct {
		analyzer *Analyzer
		source   string
		want     []string
	}{
		{AnalyzerUnreachableCode, `
func f() -> Int {
	return 1
	var x = 2
}
for i in 0 to 3 {
	break
	continue
}
`, []string{
			"test.hop:4:2: unreachable code after return (unreachable-code)",
			"test.hop:8:2: unreachable code after break (unreachable-code)",
		}},
		{AnalyzerUnreachableCode, "func f() -> Int {\n\treturn 1\n}\n", nil},
		{AnalyzerSelfAssignment, "var x = 1\nx = x\nx = 2\n", []string{
			"test.hop:2:3: self-assignment of x (self-assignment)",
		}},
		{AnalyzerSelfComparison, "var x = 1\nvar a = x == x\nvar b = x < x\nvar c = x == 1\n", []string{
			"test.hop:2:11: comparison of x with itself is always true (self-comparison)",
			"test.hop:3:11: comparison of x with itself is always false (self-comparison)",
		}},
		{AnalyzerConstantCondition, "if true {\n}\nwhile false {\n}\nwhile true {\n\tbreak\n}\n", []string{
			"test.hop:1:4: if condition is always true (constant-condition)",
			"test.hop:3:7: while loop body never runs (constant-condition)",
		}},
		{AnalyzerZeroDivision, "var a = 1 / 0\nvar b = 1 % 0\nvar c = 1 / 1\n", []string{
			"test.hop:1:11: division by zero (zero-division)",
			"test.hop:2:11: remainder by zero (zero-division)",
		}},
		{AnalyzerDuplicateImport, "import Sys\nimport Math\nimport Sys\nSys.print(\"\")\n", []string{
			"test.hop:3:1: Sys imported more than once (duplicate-import)\n  = note: first imported at line 1",
		}},
		{AnalyzerUnusedImport, "import Sys\nimport Math\nvar x: Int = 1\nMath.sqrt(2.0)\n", []string{
			"test.hop:1:1: module Sys imported and not used (unused-import)",
		}},
		{AnalyzerUnusedVariable, `
func f(#a: Int) -> Int {
	var used = a
	var unused = 2
	func g() -> Int {
		return used
	}
	return g()
}
var toplevel = 1
`, []string{
			"test.hop:4:2: unused declared and not used (unused-variable)",
		}},
		{AnalyzerEmptyBlock, "var x = 1\nif x > 0 {\n}\nif x > 0 {\n} else {\n\tx = 2\n}\nfor i in 0 to 1 {\n}\n", []string{
			"test.hop:2:1: empty if body (empty-block)",
			"test.hop:8:1: empty loop body (empty-block)",
		}},
	}
	for i, test := range tests {
		diags := lintCheck(t, test.analyzer, test.source)
		if test.want == nil {
			assert.Empty(t, diags, "test %d", i)
			continue
		}
		assert.Equal(t, test.want, messages(diags), "test %d (%s)", i, test.analyzer.Name)
	}
}

func TestSeverities(t *testing.T) {
	diags := lintSource(t, "var a = 1 / 0\nif a > 0 {\n}\n")
	require.Len(t, diags, 2)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, SeverityInfo, diags[1].Severity)
}

func TestNolint(t *testing.T) {
	src := `var x = 1
x = x // nolint
x = x // nolint:self-assignment
x = x // nolint:unused-import
x = x /* nolint */
`
	diags := lintSource(t, src)
	require.Len(t, diags, 1)
	assert.Equal(t, 4, diags[0].Pos.Line)
	assert.Equal(t, "self-assignment", diags[0].Analyzer)
}

func TestLintSyntaxError(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	_, err := l.LintFile([]byte("func (\n"), "bad.hop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.hop:1:")
}

func TestCleanProgram(t *testing.T) {
	diags := lintSource(t, `
import Sys
class Counter {
	var n = 0
	func inc() -> Int {
		n = n + 1
		return n
	}
}
var c = Counter()
Sys.print(Sys.string(c.inc()))
`)
	assert.Empty(t, messages(diags))
}

func TestFormatOutput(t *testing.T) {
	diags := lintSource(t, "import Sys\n")
	var text bytes.Buffer
	FormatText(&text, diags)
	assert.Equal(t, "test.hop:1:1: module Sys imported and not used (unused-import)\n", text.String())

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))
	var decoded []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, diags, decoded)
	assert.Contains(t, buf.String(), `"severity": "warning"`)

	var unset struct {
		S Severity `json:"s"`
	}
	b, err := json.Marshal(unset)
	require.NoError(t, err)
	assert.Equal(t, `{"s":"warning"}`, string(b))
	assert.Error(t, json.Unmarshal([]byte(`{"s":"fatal"}`), &unset))
}

func TestAnalyzerDocs(t *testing.T) {
	names := AnalyzerNames()
	assert.Len(t, names, len(DefaultAnalyzers()))
	assert.True(t, strings.HasPrefix(names[0], "constant-condition"))
	doc := AnalyzerDoc()
	for _, a := range DefaultAnalyzers() {
		assert.Contains(t, doc, "  "+a.Name+"\n")
	}
}
