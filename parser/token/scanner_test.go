// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEOF(t *testing.T) {
	s := NewScanner("test", "xy")
	require.NoError(t, s.ScanRune())
	require.NoError(t, s.ScanRune())
	assert.True(t, s.EOF())
	assert.Error(t, s.ScanRune())
	tok := s.EmitToken(IDENT)
	assert.Equal(t, "xy", tok.Text)
	assert.Equal(t, "", s.Text())
}

func TestScannerAcceptSeq(t *testing.T) {
	s := NewScanner("test", "aaab")
	assert.Equal(t, 3, s.AcceptSeq(func(c rune) bool { return c == 'a' }))
	assert.Equal(t, "aaa", s.Text())
	c, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 'b', c)
	s.Ignore()
	assert.True(t, s.AcceptAny("xyzb"))
	assert.Equal(t, "b", s.Text())
	_, ok = s.Peek()
	assert.False(t, ok)
}

func TestScannerAcceptString(t *testing.T) {
	s := NewScanner("test", "->x")
	assert.False(t, s.AcceptString("-x"))
	assert.True(t, s.AcceptString("->"))
	assert.Equal(t, "->", s.Text())
	c, ok := s.PeekAt(0)
	assert.True(t, ok)
	assert.Equal(t, 'x', c)
	_, ok = s.PeekAt(1)
	assert.False(t, ok)
}

func TestScannerLocate(t *testing.T) {
	s := NewScanner("test", "ab\ncd\n\nef")
	tests := []struct {
		pos, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the line feed belongs to the line it ends
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, test := range tests {
		loc := s.Locate(test.pos)
		assert.Equal(t, test.line, loc.Line, "pos %d", test.pos)
		assert.Equal(t, test.col, loc.Col, "pos %d", test.pos)
		assert.Equal(t, test.pos, loc.Pos)
		assert.Equal(t, "test", loc.File)
	}
}
