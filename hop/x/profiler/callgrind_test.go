// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/OMTS/Hop/hop/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallgrind(t *testing.T) {
	s := newSession(t)
	p := profiler.NewCallgrindProfiler(s)
	assert.Error(t, p.Enable(), "no output")

	var out bytes.Buffer
	require.NoError(t, p.SetWriter(&out))
	require.NoError(t, p.Enable())
	assert.Error(t, p.SetWriter(&out))
	require.NoError(t, s.Run(testHop))
	require.NoError(t, p.Complete())

	prof := out.String()
	assert.Contains(t, prof, "creator: hop ")
	assert.Contains(t, prof, "events: Time_(ns) Memory_(bytes)")
	assert.Contains(t, prof, ") addIt(_:_:)\n")
	assert.Contains(t, prof, ") Sys.print(_:)\n")
	assert.Regexp(t, `fn=\(\d+\) ENTRYPOINT\n`, prof)
	assert.Contains(t, prof, "calls=1 0 0\n")
	assert.Contains(t, prof, "\nsummary ")
}

func TestCallgrindFile(t *testing.T) {
	s := newSession(t)
	p := profiler.NewCallgrindProfiler(s, profiler.WithoutNatives())
	path := filepath.Join(t.TempDir(), "callgrind.out")
	require.NoError(t, p.SetFile(path))
	require.NoError(t, p.Enable())
	require.NoError(t, s.Run(testHop))
	require.NoError(t, p.Complete())
	assert.Error(t, p.Complete())
	assert.FileExists(t, path)
}
