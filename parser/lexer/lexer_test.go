// Copyright © 2018 The ELPS authors

package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/OMTS/Hop/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []*token.Token
	}{
		{``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc a1B2`, []*token.Token{
			testToken(token.IDENT, "abc"),
			testToken(token.IDENT, "a1B2"),
			testToken(token.EOF, ""),
		}},
		{`var const true false nil`, []*token.Token{
			testToken(token.VAR, "var"),
			testToken(token.CONST, "const"),
			testToken(token.BOOL, "true"),
			testToken(token.BOOL, "false"),
			testToken(token.NIL, "nil"),
			testToken(token.EOF, ""),
		}},
		{`10 0.5 3.14159 7.`, []*token.Token{
			testToken(token.INT, "10"),
			testToken(token.REAL, "0.5"),
			testToken(token.REAL, "3.14159"),
			testToken(token.INT, "7"),
			testToken(token.DOT, "."),
			testToken(token.EOF, ""),
		}},
		{`"abc" "" "a\"b\n"`, []*token.Token{
			testToken(token.STRING, `abc`),
			testToken(token.STRING, ``),
			testToken(token.STRING, `a\"b\n`),
			testToken(token.EOF, ""),
		}},
		{`== != <= >= && || -> = ! < > -`, []*token.Token{
			testToken(token.EQ, "=="),
			testToken(token.NE, "!="),
			testToken(token.LE, "<="),
			testToken(token.GE, ">="),
			testToken(token.AND, "&&"),
			testToken(token.OR, "||"),
			testToken(token.ARROW, "->"),
			testToken(token.ASSIGN, "="),
			testToken(token.NOT, "!"),
			testToken(token.LT, "<"),
			testToken(token.GT, ">"),
			testToken(token.MINUS, "-"),
			testToken(token.EOF, ""),
		}},
		{`#:,.{}()[]+*/%~`, []*token.Token{
			testToken(token.HASH, "#"),
			testToken(token.COLON, ":"),
			testToken(token.COMMA, ","),
			testToken(token.DOT, "."),
			testToken(token.BRACE_L, "{"),
			testToken(token.BRACE_R, "}"),
			testToken(token.PAREN_L, "("),
			testToken(token.PAREN_R, ")"),
			testToken(token.BRACKET_L, "["),
			testToken(token.BRACKET_R, "]"),
			testToken(token.PLUS, "+"),
			testToken(token.STAR, "*"),
			testToken(token.SLASH, "/"),
			testToken(token.PERCENT, "%"),
			testToken(token.TILDE, "~"),
			testToken(token.EOF, ""),
		}},
		{"a // comment\nb /* multi\nline */ c", []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.LF, "\n"),
			testToken(token.IDENT, "b"),
			testToken(token.IDENT, "c"),
			testToken(token.EOF, ""),
		}},
		{"x-1", []*token.Token{
			testToken(token.IDENT, "x"),
			testToken(token.MINUS, "-"),
			testToken(token.INT, "1"),
			testToken(token.EOF, ""),
		}},
	}

	for i, test := range tests {
		toks, err := Tokenize(New(token.NewScanner("test", test.input), false))
		if assert.NoError(t, err, "test %d: %q", i, test.input) {
			assert.Equal(t, test.tokens, toks, "test %d: %q", i, test.input)
		}
	}
}

func TestLexerLineFeeds(t *testing.T) {
	script := "import Sys\nSys.print(\"42\")\n"
	unix, err := Tokenize(New(token.NewScanner("test", script), false))
	require.NoError(t, err)
	windows, err := Tokenize(New(token.NewScanner("test", strings.ReplaceAll(script, "\n", "\r\n")), false))
	require.NoError(t, err)
	assert.Equal(t, unix, windows)
	require.Len(t, unix, 11)
	assert.Equal(t, token.LF, unix[2].Type)
	assert.Equal(t, token.LF, unix[9].Type)
	assert.Equal(t, token.EOF, unix[10].Type)
}

func TestLexerDebugPositions(t *testing.T) {
	script := "const a = 3\n\n  a"
	lex := New(token.NewScanner("test", script), true)
	toks, err := Tokenize(lex)
	require.NoError(t, err)
	require.Len(t, toks, 8)
	assert.Equal(t, token.CONST, toks[0].Type)
	assert.Equal(t, 0, toks[0].Source.Pos)
	assert.Equal(t, 6, toks[1].Source.Pos)
	assert.Equal(t, 1, toks[1].Source.Line)
	assert.Equal(t, 7, toks[1].Source.Col)
	assert.Equal(t, token.IDENT, toks[6].Type)
	assert.Equal(t, 15, toks[6].Source.Pos)
	assert.Equal(t, 3, toks[6].Source.Line)
	assert.Equal(t, 3, toks[6].Source.Col)
	assert.Equal(t, 16, lex.Position())
}

func TestLexerNoPositionsWithoutDebug(t *testing.T) {
	toks, err := Tokenize(New(token.NewScanner("test", "a b"), false))
	require.NoError(t, err)
	for _, tok := range toks {
		assert.Nil(t, tok.Source)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"a & b", IllegalContent},
		{"a | b", IllegalContent},
		{`"unterminated`, IllegalContent},
		{"a @ b", UnknownError},
		{"$", UnknownError},
		{"_x", UnknownError},
	}
	for _, test := range tests {
		_, err := Tokenize(New(token.NewScanner("test", test.input), true))
		var lexErr *Error
		if assert.True(t, errors.As(err, &lexErr), "%q", test.input) {
			assert.Equal(t, test.kind, lexErr.Kind, "%q", test.input)
			assert.NotNil(t, lexErr.Source)
		}
	}
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}

func TestLexerFormattingComments(t *testing.T) {
	script := "// doc\nvar a = 1 // trailing\n/* block\n comment */ a\n"
	toks, err := Tokenize(NewFormatting(token.NewScanner("test", script)))
	require.NoError(t, err)
	var comments []string
	for _, tok := range toks {
		if tok.Type == token.COMMENT {
			comments = append(comments, tok.Text)
		}
	}
	assert.Equal(t, []string{"// doc", "// trailing", "/* block\n comment */"}, comments)
	assert.Equal(t, token.COMMENT, toks[0].Type)
	assert.Equal(t, 1, toks[0].Source.Line)
	assert.Equal(t, token.LF, toks[1].Type)

	toks, err = Tokenize(New(token.NewScanner("test", script), false))
	require.NoError(t, err)
	for _, tok := range toks {
		assert.NotEqual(t, token.COMMENT, tok.Type)
	}
}
