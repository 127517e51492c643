// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"strings"

	"github.com/OMTS/Hop/parser/token"
)

// ErrorKind classifies lexical failures.
type ErrorKind int

const (
	// UnknownError is reported for a character that cannot start any token.
	UnknownError ErrorKind = iota
	// IllegalContent is reported for a malformed character sequence, such as a
	// lone '&' or an unterminated string.
	IllegalContent
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalContent:
		return "illegal content"
	default:
		return "unknown lexing error"
	}
}

// Error is returned by ReadToken when the source cannot be tokenized.  Source
// is only populated when the lexer runs in debug mode.
type Error struct {
	Kind   ErrorKind
	Text   string
	Source *token.Location
}

func (err *Error) Error() string {
	if err.Source != nil {
		return fmt.Sprintf("%s: %v: %q", err.Source, err.Kind, err.Text)
	}
	return fmt.Sprintf("%v: %q", err.Kind, err.Text)
}

// Lexer produces tokens one at a time from a token.Scanner.
type Lexer struct {
	scanner  *token.Scanner
	debug    bool
	comments bool
	lastPos  int

	pending []string
	blank   int
	doc     string
}

// New returns a lexer reading from s.  When debug is true every token carries
// the source location of its first byte.
func New(s *token.Scanner, debug bool) *Lexer {
	return &Lexer{
		scanner: s,
		debug:   debug,
	}
}

// NewFormatting returns a debug lexer that also returns comments as
// token.COMMENT tokens.  The parser does not accept comment tokens.
func NewFormatting(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner:  s,
		debug:    true,
		comments: true,
	}
}

// Debug reports whether tokens are annotated with source locations.
func (lex *Lexer) Debug() bool {
	return lex.debug
}

// Position returns the byte offset at which the most recently returned token
// starts.
func (lex *Lexer) Position() int {
	return lex.lastPos
}

// Doc returns the line comments directly above the most recently returned
// token, without their leading "//".  A blank line detaches comments from the
// token that follows.
func (lex *Lexer) Doc() string {
	return lex.doc
}

// Locate resolves a byte offset into a line and column.
func (lex *Lexer) Locate(pos int) *token.Location {
	return lex.scanner.Locate(pos)
}

// ReadToken returns the next token in the source.  At the end of the source
// ReadToken returns a token with type token.EOF on every call.
func (lex *Lexer) ReadToken() (*token.Token, error) {
	for {
		lex.skipWhitespace()
		lex.lastPos = lex.scanner.Start()
		if lex.scanner.EOF() {
			return lex.emit(token.EOF), nil
		}
		if lex.scanComment() {
			if lex.comments {
				return lex.emitComment(), nil
			}
			lex.scanner.Ignore()
			continue
		}
		return lex.readToken()
	}
}

func (lex *Lexer) readToken() (*token.Token, error) {
	if err := lex.scanner.ScanRune(); err != nil {
		return nil, lex.errorf(UnknownError)
	}
	c := lex.scanner.Rune()
	switch {
	case c == '\n':
		return lex.emit(token.LF), nil
	case isLetter(c):
		lex.scanner.AcceptSeq(isAlnum)
		return lex.emit(token.Lookup(lex.scanner.Text())), nil
	case isDigit(c):
		return lex.readNumber(), nil
	}
	switch c {
	case '"':
		return lex.readString()
	case '#':
		return lex.emit(token.HASH), nil
	case ':':
		return lex.emit(token.COLON), nil
	case ',':
		return lex.emit(token.COMMA), nil
	case '.':
		return lex.emit(token.DOT), nil
	case '{':
		return lex.emit(token.BRACE_L), nil
	case '}':
		return lex.emit(token.BRACE_R), nil
	case '(':
		return lex.emit(token.PAREN_L), nil
	case ')':
		return lex.emit(token.PAREN_R), nil
	case '[':
		return lex.emit(token.BRACKET_L), nil
	case ']':
		return lex.emit(token.BRACKET_R), nil
	case '+':
		return lex.emit(token.PLUS), nil
	case '*':
		return lex.emit(token.STAR), nil
	case '/':
		return lex.emit(token.SLASH), nil
	case '%':
		return lex.emit(token.PERCENT), nil
	case '~':
		return lex.emit(token.TILDE), nil
	case '-':
		return lex.either('>', token.ARROW, token.MINUS), nil
	case '=':
		return lex.either('=', token.EQ, token.ASSIGN), nil
	case '!':
		return lex.either('=', token.NE, token.NOT), nil
	case '<':
		return lex.either('=', token.LE, token.LT), nil
	case '>':
		return lex.either('=', token.GE, token.GT), nil
	case '&':
		if !lex.scanner.AcceptRune('&') {
			return nil, lex.errorf(IllegalContent)
		}
		return lex.emit(token.AND), nil
	case '|':
		if !lex.scanner.AcceptRune('|') {
			return nil, lex.errorf(IllegalContent)
		}
		return lex.emit(token.OR), nil
	}
	return nil, lex.errorf(UnknownError)
}

// either emits long when the next rune is c and short otherwise.
func (lex *Lexer) either(c rune, long, short token.Type) *token.Token {
	if lex.scanner.AcceptRune(c) {
		return lex.emit(long)
	}
	return lex.emit(short)
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeq(isDigit)
	next, ok := lex.scanner.PeekAt(1)
	if ok && isDigit(next) && lex.scanner.AcceptRune('.') {
		lex.scanner.AcceptSeq(isDigit)
		return lex.emit(token.REAL)
	}
	return lex.emit(token.INT)
}

// readString scans a double quoted literal.  Escape sequences are kept
// verbatim, a backslash only prevents the following rune from terminating
// the literal.
func (lex *Lexer) readString() (*token.Token, error) {
	for {
		if !lex.scanner.Accept(func(rune) bool { return true }) {
			return nil, lex.errorf(IllegalContent)
		}
		switch lex.scanner.Rune() {
		case '"':
			tok := lex.emit(token.STRING)
			tok.Text = tok.Text[1 : len(tok.Text)-1]
			return tok, nil
		case '\\':
			if !lex.scanner.Accept(func(rune) bool { return true }) {
				return nil, lex.errorf(IllegalContent)
			}
		}
	}
}

func (lex *Lexer) skipWhitespace() {
	lex.scanner.AcceptSeqAny(" \t\r")
	lex.scanner.Ignore()
}

// scanComment consumes a line or block comment and reports whether one was
// found.  A line comment stops before the terminating line feed so that the
// statement it follows is still terminated.
func (lex *Lexer) scanComment() bool {
	switch {
	case lex.scanner.AcceptString("//"):
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		text := strings.TrimPrefix(lex.scanner.Text(), "//")
		lex.pending = append(lex.pending, strings.TrimPrefix(text, " "))
	case lex.scanner.AcceptString("/*"):
		for !lex.scanner.EOF() && !lex.scanner.AcceptString("*/") {
			_ = lex.scanner.ScanRune()
		}
		lex.pending = nil
	default:
		return false
	}
	lex.blank = 0
	return true
}

// emitComment returns the comment just scanned, including its delimiters.
func (lex *Lexer) emitComment() *token.Token {
	loc := lex.scanner.LocStart()
	tok := lex.scanner.EmitToken(token.COMMENT)
	tok.Source = loc
	return tok
}

func (lex *Lexer) emit(typ token.Type) *token.Token {
	if typ == token.LF {
		lex.blank++
		if lex.blank > 1 {
			lex.pending = nil
		}
	} else {
		lex.doc = strings.Join(lex.pending, "\n")
		lex.pending = nil
		lex.blank = 0
	}
	var loc *token.Location
	if lex.debug {
		loc = lex.scanner.LocStart()
	}
	tok := lex.scanner.EmitToken(typ)
	tok.Source = loc
	return tok
}

func (lex *Lexer) errorf(kind ErrorKind) error {
	err := &Error{
		Kind: kind,
		Text: lex.scanner.Text(),
	}
	if lex.debug {
		err.Source = lex.scanner.LocStart()
	}
	lex.scanner.Ignore()
	return err
}

// Tokenize reads every token from lex up to and including EOF.
func Tokenize(lex *Lexer) ([]*token.Token, error) {
	var toks []*token.Token
	for {
		tok, err := lex.ReadToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func isLetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c rune) bool {
	return isLetter(c) || isDigit(c)
}
