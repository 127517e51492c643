// Copyright © 2018 The ELPS authors

// Package formatter rewrites hop source in a canonical layout.  Statements
// keep their lines.  Indentation follows the open delimiters, spacing around
// tokens is normalized, runs of blank lines are collapsed and comments are
// preserved.  Formatting is idempotent.
package formatter

import (
	"strings"

	"github.com/OMTS/Hop/parser"
	"github.com/OMTS/Hop/parser/lexer"
	"github.com/OMTS/Hop/parser/token"
)

// Format formats hop source code.  If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats hop source code, using filename for error messages.
// Source that does not parse is returned unchanged with the syntax error.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if _, err := parser.NewReader().Read(filename, strings.NewReader(string(source)), true); err != nil {
		return source, err
	}
	toks, err := lexer.Tokenize(lexer.NewFormatting(token.NewScanner(filename, string(source))))
	if err != nil {
		return source, err
	}

	pr := newPrinter(cfg)
	for _, line := range splitLines(toks) {
		pr.writeLine(line)
	}
	result := strings.TrimRight(pr.buf.String(), "\n")
	if result == "" {
		return nil, nil
	}
	return []byte(result + "\n"), nil
}

// splitLines groups toks on line feeds.  The EOF token is dropped.
func splitLines(toks []*token.Token) [][]*token.Token {
	var lines [][]*token.Token
	var line []*token.Token
	for _, tok := range toks {
		switch tok.Type {
		case token.LF:
			lines = append(lines, line)
			line = nil
		case token.EOF:
		default:
			line = append(line, tok)
		}
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}
