// Copyright © 2018 The ELPS authors

package formatter

import (
	"bytes"
	"strings"

	"github.com/OMTS/Hop/parser/token"
)

type printer struct {
	buf    bytes.Buffer
	cfg    *Config
	open   []int // line number of every open delimiter
	line   int   // index of the line being written
	blanks int   // blank lines seen since the last written line
	first  bool  // nothing written yet
}

func newPrinter(cfg *Config) *printer {
	return &printer{cfg: cfg, first: true}
}

// writeLine writes the tokens of one source line.  Blank lines are deferred
// until the next non-blank line so that trailing ones disappear.
func (p *printer) writeLine(toks []*token.Token) {
	defer func() { p.line++ }()
	if len(toks) == 0 {
		p.blanks++
		return
	}
	if !p.first {
		n := p.blanks
		if n > p.cfg.MaxBlankLines {
			n = p.cfg.MaxBlankLines
		}
		for ; n > 0; n-- {
			p.buf.WriteByte('\n')
		}
	}
	p.blanks = 0
	p.first = false

	i := 0
	for ; i < len(toks) && isClose(toks[i].Type); i++ {
		p.close()
	}
	p.indent(p.depth())
	for j, tok := range toks {
		if j > 0 && spaceBefore(toks, j) {
			p.buf.WriteByte(' ')
		}
		p.buf.WriteString(text(tok))
		if j < i {
			continue
		}
		switch {
		case isOpen(tok.Type):
			p.open = append(p.open, p.line)
		case isClose(tok.Type):
			p.close()
		}
	}
	p.buf.WriteByte('\n')
}

// depth is the number of distinct lines holding an open delimiter.  Several
// delimiters opened on one line indent the lines that follow once.
func (p *printer) depth() int {
	n := 0
	for i, line := range p.open {
		if i == 0 || p.open[i-1] != line {
			n++
		}
	}
	return n
}

func (p *printer) close() {
	if len(p.open) > 0 {
		p.open = p.open[:len(p.open)-1]
	}
}

func (p *printer) indent(n int) {
	if p.cfg.IndentSize <= 0 {
		p.buf.WriteString(strings.Repeat("\t", n))
		return
	}
	p.buf.WriteString(strings.Repeat(" ", n*p.cfg.IndentSize))
}

func text(tok *token.Token) string {
	switch tok.Type {
	case token.STRING:
		return `"` + tok.Text + `"`
	case token.COMMENT:
		return strings.TrimRight(tok.Text, " \t\r")
	}
	return tok.Text
}
