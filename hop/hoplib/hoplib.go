// Copyright © 2018 The ELPS authors

// Package hoplib is used to conveniently load the standard library into a
// hop session
package hoplib

import (
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib/libarray"
	"github.com/OMTS/Hop/hop/hoplib/libmath"
	"github.com/OMTS/Hop/hop/hoplib/libsys"
	"github.com/OMTS/Hop/hop/hoplib/libtest"
	"github.com/OMTS/Hop/hoputil"
	"github.com/OMTS/Hop/parser"
)

// Packages returns the native modules of the standard library.
func Packages() []hoputil.Package {
	return []hoputil.Package{
		libsys.Package{},
		libmath.Package{},
		libtest.Package{},
	}
}

// LoadLibrary returns a Config declaring the Array class and making the Sys,
// Math and Test modules importable.
func LoadLibrary() hop.Config {
	return hop.WithConfigs(
		libarray.LoadClass(),
		hoputil.PackageLoader(Packages()...),
	)
}

// NewSession returns a session with the default reader and the standard
// library loaded.  configs are applied after the library.
func NewSession(configs ...hop.Config) (*hop.Session, error) {
	base := []hop.Config{
		hop.WithReader(parser.NewReader()),
		LoadLibrary(),
	}
	return hop.NewSession(append(base, configs...)...)
}
