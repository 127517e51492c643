// Copyright © 2018 The ELPS authors

// Package libsys implements the Sys module: printing and value conversion.
package libsys

import (
	"fmt"
	"strconv"
	"time"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hoputil"
	"github.com/OMTS/Hop/messenger"
)

// DefaultPackageName is the module name used by LoadPackage.
const DefaultPackageName = "Sys"

// Now returns the time stamped on printed lines.
var Now = time.Now

// Package is the Sys module.
type Package struct{}

// LoadPackage returns a Config making the Sys module importable.
func LoadPackage() hop.Config {
	return hoputil.PackageLoader(Package{})
}

// PackageName implements hoputil.Package.
func (Package) PackageName() string {
	return DefaultPackageName
}

// PackageDoc implements hoputil.PackageDocumented.
func (Package) PackageDoc() string {
	return `System functions: printing to the session output and converting
		values to strings.`
}

// Builtins implements hoputil.PackageBuiltins.
func (Package) Builtins() []*hoputil.Builtin {
	return builtins
}

var builtins = []*hoputil.Builtin{
	hoputil.FunctionDoc("print", hoputil.Args(hoputil.Arg("text", hop.TypeString)), hop.TypeVoid, builtinPrint,
		`Writes text prefixed with a timestamp to the session output and
		posts the line on the stdout topic.`),
	hoputil.FunctionDoc("string", hoputil.Args(hoputil.Arg("value", hop.TypeAny)), hop.TypeString, builtinString,
		`Converts an Int, Real, Bool or String to a String.  Other values,
		nil included, convert to the empty string.`),
}

// FormatLine returns text as Sys.print writes it at time t.
func FormatLine(t time.Time, text string) string {
	stamp := strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', -1, 64)
	return "[" + stamp + "] -- " + text
}

func builtinPrint(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	text, ok := args[0].Value().(hop.String)
	if !ok {
		return nil, ctx.Errorf(hop.NativeFunctionCallParameterError, "print expects a String")
	}
	line := FormatLine(Now(), string(text))
	s := ctx.Session
	if s.Stdout != nil {
		fmt.Fprintln(s.Stdout, line)
	}
	s.Post(messenger.Stdout, "", line)
	return nil, nil
}

func builtinString(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	switch v := args[0].Value().(type) {
	case hop.Int, hop.Real, hop.Bool, hop.String:
		return hop.Literal(hop.String(hop.FormatValue(v))), nil
	default:
		return hop.Literal(hop.String("")), nil
	}
}
