// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader_Standard(t *testing.T) {
	r := NewReader()
	prog, err := r.Read("test", strings.NewReader("const a = 1 + 2\n"), false)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	decl, ok := prog.Stmts[0].(*hop.VarDecl)
	require.True(t, ok)
	assert.True(t, decl.Constant)
	// Standard reader does not attach positions outside debug mode.
	assert.Nil(t, decl.Loc())
}

func TestNewReader_Debug(t *testing.T) {
	r := NewReader()
	prog, err := r.Read("test", strings.NewReader("\nvar a = 1\n"), true)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	loc := prog.Stmts[0].Loc()
	require.NotNil(t, loc)
	assert.Equal(t, "test", loc.File)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 1, loc.Pos)
}
