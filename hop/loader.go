// Copyright © 2018 The ELPS authors

package hop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read parses the contents of r as a program named name.  In debug mode
	// every node carries its source location.
	Read(name string, r io.Reader, debug bool) (*Program, error)
}

// ModuleResolver locates the source of script modules.  Resolve returns an
// error matching os.ErrNotExist when no module exists at path.
type ModuleResolver interface {
	Resolve(path []string) (name string, r io.ReadCloser, err error)
}

// ModuleResolverFunc is a function implementing ModuleResolver.
type ModuleResolverFunc func(path []string) (string, io.ReadCloser, error)

// Resolve implements ModuleResolver.
func (fn ModuleResolverFunc) Resolve(path []string) (string, io.ReadCloser, error) {
	return fn(path)
}

// FileSystemResolver resolves import a.b.C to the file <Root>/a/b/C.hop.
type FileSystemResolver struct {
	Root string
}

// Resolve implements ModuleResolver.
func (r *FileSystemResolver) Resolve(path []string) (string, io.ReadCloser, error) {
	if len(path) == 0 {
		return "", nil, fmt.Errorf("empty module path: %w", os.ErrNotExist)
	}
	elems := append([]string{r.Root}, path...)
	loc := filepath.Join(elems...) + FileExt
	f, err := os.Open(loc)
	if err != nil {
		return "", nil, err
	}
	return loc, f, nil
}

// FileExt is the extension of hop source files.
const FileExt = ".hop"
