// Copyright © 2018 The ELPS authors

package rdparser

import (
	"strings"
	"sync"

	"github.com/OMTS/Hop/parser/lexer"
	"github.com/OMTS/Hop/parser/token"
)

// LineReader returns the next line typed by a user, without its line
// terminator.
type LineReader func() (string, error)

// Interactive groups the lines typed in a REPL into chunks of source that
// can be evaluated on their own.  A chunk ends at the first line where every
// brace, parenthesis and bracket opened in the chunk has been closed.
type Interactive struct {
	prompt     string
	promptCont string
	Read       LineReader
	mut        sync.RWMutex
	buf        strings.Builder
}

// NewInteractive initializes and returns a new Interactive parser.
func NewInteractive(read LineReader) *Interactive {
	return &Interactive{
		Read: read,
	}
}

// SetPrompts configures the string prompts returned by p.Prompt().  The cont
// string is used to prompt the user when a chunk spans more than one line.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt = prompt
	p.promptCont = cont
}

// Prompt returns a simple prompt that can be used by a REPL line reader.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.promptCont
	}
	return p.prompt
}

// IsParsing returns true if p holds the first lines of an unfinished chunk.
// IsParsing can be called at any time, potentially by concurrent goroutines or
// when p is nil.
func (p *Interactive) IsParsing() bool {
	if p == nil {
		// definitely not parsing right now
		return false
	}
	p.mut.RLock()
	defer p.mut.RUnlock()
	return p.buf.Len() > 0
}

// Reset discards the lines of an unfinished chunk.
func (p *Interactive) Reset() {
	p.mut.Lock()
	defer p.mut.Unlock()
	p.buf.Reset()
}

// Next reads lines until a chunk is complete and returns its source.  Blank
// lines outside a chunk are skipped.  When the line reader fails, an
// unfinished chunk is returned first and the error on the following call.
func (p *Interactive) Next() (string, error) {
	if p.Read == nil {
		panic("nil read func")
	}
	for {
		line, err := p.Read()
		p.mut.Lock()
		if err != nil {
			src := p.buf.String()
			p.buf.Reset()
			p.mut.Unlock()
			if strings.TrimSpace(src) != "" {
				return src, nil
			}
			return "", err
		}
		if p.buf.Len() == 0 && strings.TrimSpace(line) == "" {
			p.mut.Unlock()
			continue
		}
		p.buf.WriteString(line)
		p.buf.WriteString("\n")
		src := p.buf.String()
		if OpenDelimiters(src) > 0 {
			p.mut.Unlock()
			continue
		}
		p.buf.Reset()
		p.mut.Unlock()
		return src, nil
	}
}

// OpenDelimiters returns the number of braces, parentheses and brackets
// opened in src and not closed.  Delimiters inside strings and comments do
// not count.  Scanning stops at the first lexical error, leaving the error to
// be reported by the parser.
func OpenDelimiters(src string) int {
	lex := lexer.New(token.NewScanner("stdin", src), false)
	depth := 0
	for {
		tok, err := lex.ReadToken()
		if err != nil || tok.Type == token.EOF {
			return depth
		}
		switch tok.Type {
		case token.BRACE_L, token.PAREN_L, token.BRACKET_L:
			depth++
		case token.BRACE_R, token.PAREN_R, token.BRACKET_R:
			depth--
		}
	}
}
