// Copyright © 2018 The ELPS authors

package rdparser

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(input ...string) LineReader {
	return func() (string, error) {
		if len(input) == 0 {
			return "", io.EOF
		}
		line := input[0]
		input = input[1:]
		return line, nil
	}
}

func TestInteractive(t *testing.T) {
	var prompts []string
	p := NewInteractive(nil)
	p.SetPrompts("hop> ", "...  ")
	read := lines(
		"",
		"var x = 1",
		"func f() -> Int {",
		"  return [1,",
		"  2].count() // }",
		"}",
		"f(",
	)
	p.Read = func() (string, error) {
		prompts = append(prompts, p.Prompt())
		return read()
	}

	src, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, "var x = 1\n", src)

	src, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, "func f() -> Int {\n  return [1,\n  2].count() // }\n}\n", src)
	assert.False(t, p.IsParsing())

	src, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, "f(\n", src, "unfinished chunk flushed at EOF")
	_, err = p.Next()
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, []string{"hop> ", "hop> ", "hop> ", "...  ", "...  ", "...  ", "hop> ", "...  ", "hop> "}, prompts)
}

func TestInteractiveReset(t *testing.T) {
	p := NewInteractive(lines("class A {"))
	p.buf.WriteString("class A {\n")
	assert.True(t, p.IsParsing())
	p.Reset()
	assert.False(t, p.IsParsing())
	var nilp *Interactive
	assert.False(t, nilp.IsParsing())
}

func TestOpenDelimiters(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"", 0},
		{"f()", 0},
		{"class A {", 1},
		{"xs[f(", 2},
		{`"{" + "("`, 0},
		{"/* { */ {", 1},
		{"}", -1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, OpenDelimiters(test.src), "%q", test.src)
	}
}
