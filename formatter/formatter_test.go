// Copyright © 2018 The ELPS authors

package formatter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/OMTS/Hop/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatTest struct {
	name     string
	input    string
	expected string
	config   *Config
}

func runFormatTests(t *testing.T, tests []formatTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format([]byte(tt.input), tt.config)
			require.NoError(t, err, "Format failed")
			assert.Equal(t, tt.expected, string(got), "formatted output mismatch")

			got2, err := Format(got, tt.config)
			require.NoError(t, err, "Format (idempotency) failed")
			assert.Equal(t, string(got), string(got2), "not idempotent")

			roundTripEqual(t, tt.input, string(got))
		})
	}
}

// roundTripEqual parses both sources and compares the printed statements.
func roundTripEqual(t *testing.T, original, formatted string) {
	t.Helper()
	parse := func(src string) []string {
		prog, err := parser.NewReader().Read("test", strings.NewReader(src), false)
		require.NoError(t, err)
		stmts := make([]string, len(prog.Stmts))
		for i, stmt := range prog.Stmts {
			stmts[i] = fmt.Sprint(stmt)
		}
		return stmts
	}
	assert.Equal(t, parse(original), parse(formatted), "AST mismatch after round-trip")
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestSpacing(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"declaration", "var   x:Int=1+2*3", "var x: Int = 1 + 2 * 3\n", nil},
		{"call", "import Sys\nSys . print ( \"a b\" )", joinLines("import Sys", `Sys.print("a b")`), nil},
		{"labels", "import Test\nTest.export( 1 ,label : \"x\" )", joinLines("import Test", `Test.export(1, label: "x")`), nil},
		{"unary", "var a = - 1\nvar b = a - -a\nvar c = ! true\nvar d = [ -1 , +2 ]",
			joinLines("var a = -1", "var b = a - -a", "var c = !true", "var d = [-1, +2]"), nil},
		{"escapes", `var s = "a\"b\n"`, `var s = "a\"b\n"` + "\n", nil},
		{"prototype", "func  add( #x:Int,y : Int )->Int{\nreturn x+y\n}",
			joinLines("func add(#x: Int, y: Int) -> Int {", "\treturn x + y", "}"), nil},
		{"parens", "var x = ( 1 + 2 ) * ( 3 )", "var x = (1 + 2) * (3)\n", nil},
	})
}

func TestIndent(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"nested blocks", joinLines(
			"class Point {",
			"        var x = 1",
			"  func move(#dx: Int) {",
			"x = x + dx",
			"       }",
			"}"), joinLines(
			"class Point {",
			"\tvar x = 1",
			"\tfunc move(#dx: Int) {",
			"\t\tx = x + dx",
			"\t}",
			"}"), nil},
		{"else", joinLines(
			"var x = 1",
			"if x < 2 {",
			"x = 2",
			"}   else   {",
			"x = 3",
			"}"), joinLines(
			"var x = 1",
			"if x < 2 {",
			"\tx = 2",
			"} else {",
			"\tx = 3",
			"}"), nil},
		{"loops", joinLines(
			"for i in 0 to 10 step 2 {",
			"while i > 3 {",
			"break",
			"}",
			"}"), joinLines(
			"for i in 0 to 10 step 2 {",
			"\twhile i > 3 {",
			"\t\tbreak",
			"\t}",
			"}"), nil},
		{"spaces", joinLines(
			"func f() {",
			"return",
			"}"), joinLines(
			"func f() {",
			"    return",
			"}"), &Config{IndentSize: 4, MaxBlankLines: 1}},
		{"continued arguments", joinLines(
			"import Test",
			"Test.export([1,",
			"2, 3], label: \"xs\")"), joinLines(
			"import Test",
			"Test.export([1,",
			"\t2, 3], label: \"xs\")"), nil},
		{"closing line", joinLines(
			"var xs = [",
			"1,",
			"2",
			"]"), joinLines(
			"var xs = [",
			"\t1,",
			"\t2",
			"]"), nil},
		{"empty block", "func f() {   }", "func f() {}\n", nil},
	})
}

func TestComments(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"leading", joinLines(
			"  // Adds one.",
			"func inc(#x: Int) -> Int {",
			"    // body",
			"return x + 1   // done   ",
			"}"), joinLines(
			"// Adds one.",
			"func inc(#x: Int) -> Int {",
			"\t// body",
			"\treturn x + 1 // done",
			"}"), nil},
		{"block", joinLines(
			"/* header",
			"   kept as is */",
			"var x = 1"), joinLines(
			"/* header",
			"   kept as is */",
			"var x = 1"), nil},
		{"comment only", "   // nothing here   \n\n\n", "// nothing here\n", nil},
	})
}

func TestBlankLines(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"collapse", "\n\nvar a = 1\n\n\n\nvar b = 2\n\n\n", "var a = 1\n\nvar b = 2\n", nil},
		{"keep all", "var a = 1\n\n\n\nvar b = 2", "var a = 1\n\n\nvar b = 2\n", &Config{MaxBlankLines: 2}},
		{"empty", "", "", nil},
		{"crlf", "var a = 1\r\n\r\nvar b = 2\r\n", "var a = 1\n\nvar b = 2\n", nil},
	})
}

func TestFormatErrors(t *testing.T) {
	src := []byte("func f( {\n")
	out, err := FormatFile(src, "bad.hop", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.hop")
	assert.Equal(t, src, out)

	_, err = Format([]byte("var x = 1 $ 2\n"), nil)
	assert.Error(t, err)
}
