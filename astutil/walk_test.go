// Copyright © 2018 The ELPS authors

package astutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) []hop.Node {
	t.Helper()
	prog, err := parser.NewReader().Read("test.hop", strings.NewReader(src), true)
	require.NoError(t, err)
	return prog.Stmts
}

const program = `
import Sys
class Point: Base {
	var x: Int = 1
	func move(#dx: Int) -> Point {
		x = x + dx
		return self
	}
}
for i in 0 to 3 {
	if i > 1 {
		Sys.print(Sys.string(i))
	} else {
		break
	}
}
`

func TestWalkDepth(t *testing.T) {
	stmts := parse(t, program)
	var kinds []string
	Walk(stmts, func(node hop.Node, parent hop.Node, depth int) {
		if depth == 0 {
			assert.Nil(t, parent)
		}
		if depth <= 1 {
			kinds = append(kinds, fmt.Sprintf("%d:%T", depth, node))
		}
	})
	assert.Equal(t, []string{
		"0:*hop.ImportStmt",
		"0:*hop.ClassDecl",
		"1:*hop.VarDecl",
		"1:*hop.FuncDecl",
		"0:*hop.ForStmt",
		"1:*hop.IntLiteral",
		"1:*hop.IntLiteral",
		"1:*hop.Block",
	}, kinds)
}

func TestWalkCalls(t *testing.T) {
	var calls []string
	WalkCalls(parse(t, program), func(call *hop.CallExpr, depth int) {
		calls = append(calls, call.Name)
	})
	assert.Equal(t, []string{"print", "string"}, calls)
}

func TestReferenced(t *testing.T) {
	refs := Referenced(parse(t, program))
	for _, name := range []string{"Sys", "x", "dx", "self", "i", "Base", "Int", "Point"} {
		assert.True(t, refs[name], name)
	}
	assert.False(t, refs["print"], "member names are not identifiers")
	assert.False(t, refs["move"])
}

func TestDeclared(t *testing.T) {
	defs := Declared(parse(t, program))
	for _, name := range []string{"Point", "x", "move", "dx", "i"} {
		assert.True(t, defs[name], name)
	}
	assert.False(t, defs["Sys"])
}

func TestStatementLists(t *testing.T) {
	var sizes []int
	StatementLists(parse(t, program), func(stmts []hop.Node) {
		sizes = append(sizes, len(stmts))
	})
	assert.Equal(t, []int{3, 2, 1, 1, 1}, sizes)
}

func TestSourceOf(t *testing.T) {
	stmts := parse(t, program)
	loc := SourceOf(stmts[1])
	require.NotNil(t, loc)
	assert.Equal(t, 3, loc.Line)
	assert.Nil(t, SourceOf(nil))
	assert.Nil(t, SourceOf(&hop.IntLiteral{Value: 1}))
	assert.True(t, Terminates(&hop.BreakStmt{}))
	assert.False(t, Terminates(&hop.IntLiteral{}))
}
