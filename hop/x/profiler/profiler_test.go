// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"io"
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/stretchr/testify/require"
)

const testHop = `
import Sys
// @trace{Add It}
func addIt(#x: Int, #y: Int) -> Int {
	return x + y
}
func recurseIt(#x: Int) -> Int {
	if x < 4 {
		return addIt(x, 3)
	}
	return recurseIt(x - 1)
}
Sys.print(Sys.string(addIt(addIt(3, recurseIt(5)), 8)))
`

func newSession(t *testing.T) *hop.Session {
	t.Helper()
	s, err := hoplib.NewSession(hop.WithDebug(true), hop.WithStdout(io.Discard))
	require.NoError(t, err)
	return s
}
