// Copyright © 2018 The ELPS authors

package libtest_test

import (
	"io"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/OMTS/Hop/messenger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPostsCopies(t *testing.T) {
	var msgs []messenger.Message
	post := messenger.PosterFunc(func(msg messenger.Message) {
		msgs = append(msgs, msg)
	})
	s, err := hoplib.NewSession(hop.WithStdout(io.Discard), hop.WithMessenger(post))
	require.NoError(t, err)
	require.NoError(t, s.Run(`
import Test
class Box {
	var v = 1
}
var b = Box()
Test.export(b, label: "box")
b.v = 2
Test.export([b], label: "list")
Test.export(b.v, label: "v")
`))
	require.Len(t, msgs, 3)
	assert.Equal(t, messenger.Export, msgs[0].Topic)
	assert.Equal(t, "box", msgs[0].Identifier)

	box, ok := msgs[0].Data.(*hop.Instance)
	require.True(t, ok)
	assert.False(t, box.Cleared())
	v, ok := box.Property("v")
	require.True(t, ok)
	assert.Equal(t, hop.Int(1), v.Value())

	list, ok := msgs[1].Data.(*hop.Instance)
	require.True(t, ok)
	arr := list.ArrayStorage()
	require.NotNil(t, arr)
	require.Len(t, arr.Elements, 1)
	elem, ok := arr.Elements[0].Value().(*hop.Instance)
	require.True(t, ok)
	v, ok = elem.Property("v")
	require.True(t, ok)
	assert.Equal(t, hop.Int(2), v.Value())
	assert.EqualValues(t, 0, elem.RefCount())

	assert.Equal(t, hop.Int(2), msgs[2].Data)
}

func TestExportNil(t *testing.T) {
	s, err := hoplib.NewSession(hop.WithStdout(io.Discard))
	require.NoError(t, err)
	err = s.Run("import Test\nvar x: Int\nTest.export(x, label: \"x\")\n")
	kind, ok := hop.KindOf(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, hop.NativeFunctionCallParameterError, kind)
}
