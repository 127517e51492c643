// Copyright © 2018 The ELPS authors

// Package libtest implements the Test module used by scripts to publish
// values to their host.
package libtest

import (
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hoputil"
	"github.com/OMTS/Hop/messenger"
)

// DefaultPackageName is the module name used by LoadPackage.
const DefaultPackageName = "Test"

// Package is the Test module.
type Package struct{}

// LoadPackage returns a Config making the Test module importable.
func LoadPackage() hop.Config {
	return hoputil.PackageLoader(Package{})
}

// PackageName implements hoputil.Package.
func (Package) PackageName() string {
	return DefaultPackageName
}

// PackageDoc implements hoputil.PackageDocumented.
func (Package) PackageDoc() string {
	return `Host communication for tests.`
}

// Builtins implements hoputil.PackageBuiltins.
func (Package) Builtins() []*hoputil.Builtin {
	return builtins
}

var builtins = []*hoputil.Builtin{
	hoputil.FunctionDoc("export",
		hoputil.Args(hoputil.Arg("variable", hop.TypeAny), hoputil.Labeled("label", hop.TypeString)),
		hop.TypeVoid, builtinExport,
		`Posts a copy of the value of variable on the export topic under
		label.  Exporting nil is an error.`),
}

func builtinExport(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	v := args[0].Value()
	if v == nil {
		return nil, ctx.Errorf(hop.NativeFunctionCallParameterError, "cannot export nil")
	}
	label, ok := args[1].Value().(hop.String)
	if !ok {
		return nil, ctx.Errorf(hop.NativeFunctionCallParameterError, "export label must be a String")
	}
	ctx.Session.Post(messenger.Export, string(label), hop.Snapshot(v))
	return nil, nil
}
