// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from an immutable source text.
// Positions are byte offsets into the source.  Line and column numbers are
// not tracked while scanning, they are computed on demand from a line index
// that is built the first time a position is resolved.
type Scanner struct {
	file  string
	path  string
	src   string
	start int // start of the current token
	pos   int // offset of c
	next  int // offset of the rune following c
	c     rune

	lines []int // offsets of every line start, built lazily
}

// NewScanner initializes and returns a new Scanner over src.
func NewScanner(file string, src string) *Scanner {
	return &Scanner{
		file: file,
		src:  src,
		c:    -1,
	}
}

// SetPath associates a physical location (e.g. filesystem path) with s to aid
// in debugging projects which scan many files.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// File returns the name given to the scanned source.
func (s *Scanner) File() string {
	return s.file
}

// Source returns the complete source text.
func (s *Scanner) Source() string {
	return s.src
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type: typ,
		Text: s.Text(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
}

// Start returns the offset of the first byte of the current token.
func (s *Scanner) Start() int {
	return s.start
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.next]
}

// Rune returns the last rune that was scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// EOF reports whether all source text has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.src)
}

// Peek returns the next rune to be scanned, if there is one.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.next:])
	return c, true
}

// PeekAt returns the rune n runes past the next rune to be scanned.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	off := s.next
	for ; n > 0 && off < len(s.src); n-- {
		_, size := utf8.DecodeRuneInString(s.src[off:])
		off += size
	}
	if off >= len(s.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[off:])
	return c, true
}

// ScanRune includes the next rune in the current token.
func (s *Scanner) ScanRune() error {
	if s.EOF() {
		return fmt.Errorf("unexpected end of input")
	}
	c, n := utf8.DecodeRuneInString(s.src[s.next:])
	if c == utf8.RuneError && n == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.src[s.next])
	}
	s.c = c
	s.pos = s.next
	s.next += n
	return nil
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqAny(charset string) int {
	var n int
	for s.AcceptAny(charset) {
		n++
	}
	return n
}

func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(s.src[s.next:], literal) {
		return false
	}
	for range literal {
		if s.ScanRune() != nil {
			return false
		}
	}
	return true
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return s.Locate(s.start)
}

// Locate resolves a byte offset into a Location with line and column numbers.
func (s *Scanner) Locate(pos int) *Location {
	line := s.LineNumber(pos)
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  pos,
		Line: line,
		Col:  pos - s.lines[line-1] + 1,
	}
}

// LineNumber returns the 1-based line containing the byte offset pos.
func (s *Scanner) LineNumber(pos int) int {
	if s.lines == nil {
		s.lines = []int{0}
		for i := 0; i < len(s.src); i++ {
			if s.src[i] == '\n' {
				s.lines = append(s.lines, i+1)
			}
		}
	}
	// number of line starts at or before pos
	return sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > pos })
}
