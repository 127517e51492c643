// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.hop",
		"src/shirocore.hop",
		"lib/utils.hop",
	}
	result := filterExcludes(paths, []string{"shirocore.hop"})
	assert.Equal(t, []string{"src/main.hop", "lib/utils.hop"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.hop",
		"build/output.hop",
		"build/sub/deep.hop",
		"lib/utils.hop",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.hop", "lib/utils.hop"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.hop",
		"src/generated_foo.hop",
		"src/generated_bar.hop",
		"lib/utils.hop",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.hop", "lib/utils.hop"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.hop",
		"build/output.hop",
		"src/shirocore.hop",
		"lib/utils.hop",
	}
	result := filterExcludes(paths, []string{"build", "shirocore.hop"})
	assert.Equal(t, []string{"src/main.hop", "lib/utils.hop"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.hop",
		"lib/utils.hop",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.hop", "lib/utils.hop"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.hop"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.hop"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.hop", []string{"src/*.hop"}))
	assert.False(t, matchesAny("lib/main.hop", []string{"src/*.hop"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/shirocore.hop", []string{"shirocore.hop"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.hop", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.hop", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.hop")
	assert.Contains(t, components, "c.hop")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.hop", "sub/b.hop", "sub/notes.txt", "vendor/c.hop"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}
	paths, err := expandArgs([]string{dir + "/...", "extra.hop"}, []string{"vendor"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hop"),
		filepath.Join(dir, "sub", "b.hop"),
		"extra.hop",
	}, paths)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."}, nil)
	assert.Error(t, err)
}
