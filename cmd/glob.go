// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .hop files found recursively under the given directory, and drops the
// paths matching excludes. Non-pattern arguments pass through unchanged.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findHopFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findHopFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".hop" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes returns the paths not matching any of the excludes.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, path := range paths {
		if !matchesAny(path, excludes) {
			out = append(out, path)
		}
	}
	return out
}

// matchesAny reports whether a pattern matches path, its base name or one
// of its directories.
func matchesAny(path string, patterns []string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		for _, component := range splitPath(path) {
			if ok, _ := filepath.Match(pattern, component); ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	var components []string
	for _, c := range strings.Split(filepath.ToSlash(path), "/") {
		if c != "" && c != "." {
			components = append(components, c)
		}
	}
	return components
}
