// Copyright © 2018 The ELPS authors

package formatter

import "github.com/OMTS/Hop/parser/token"

// Config holds formatting configuration.
type Config struct {
	IndentSize    int // spaces per indent level, 0 indents with tabs (default: 0)
	MaxBlankLines int // max consecutive blank lines (default: 1)
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize:    0,
		MaxBlankLines: 1,
	}
}

func isOpen(typ token.Type) bool {
	return typ == token.BRACE_L || typ == token.PAREN_L || typ == token.BRACKET_L
}

func isClose(typ token.Type) bool {
	return typ == token.BRACE_R || typ == token.PAREN_R || typ == token.BRACKET_R
}

// endsOperand reports whether a token of type typ can end an operand, making
// a following sign a binary operator.
func endsOperand(typ token.Type) bool {
	switch typ {
	case token.IDENT, token.INT, token.REAL, token.BOOL, token.STRING,
		token.NIL, token.SUPER, token.PAREN_R, token.BRACKET_R, token.BRACE_R:
		return true
	}
	return false
}

// unary reports whether the operator at index i of line is a prefix operator.
func unary(line []*token.Token, i int) bool {
	switch line[i].Type {
	case token.NOT, token.TILDE:
		return true
	case token.PLUS, token.MINUS:
		return i == 0 || !endsOperand(line[i-1].Type)
	}
	return false
}

// spaceBefore reports whether a space separates the token at index i of line
// from the token before it.
func spaceBefore(line []*token.Token, i int) bool {
	prev, cur := line[i-1].Type, line[i].Type
	switch {
	case cur == token.COMMENT:
		return true
	case prev == token.BRACE_L && cur == token.BRACE_R:
		return false
	case cur == token.BRACE_L || cur == token.BRACE_R || prev == token.BRACE_L:
		return true
	case prev == token.PAREN_L || prev == token.BRACKET_L || prev == token.DOT || prev == token.HASH:
		return false
	case unary(line, i-1):
		return false
	}
	switch cur {
	case token.PAREN_R, token.BRACKET_R, token.COMMA, token.COLON, token.DOT:
		return false
	case token.PAREN_L, token.BRACKET_L:
		return prev != token.IDENT && prev != token.PAREN_R && prev != token.BRACKET_R
	}
	return true
}
