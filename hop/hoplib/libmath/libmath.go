// Copyright © 2018 The ELPS authors

package libmath

import (
	"math"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hoputil"
)

// DefaultPackageName is the module name used by LoadPackage.
const DefaultPackageName = "Math"

// Package is the Math module.
type Package struct{}

var _ hoputil.PackageBuiltins = Package{}

// LoadPackage returns a Config making the Math module importable.
func LoadPackage() hop.Config {
	return hoputil.PackageLoader(Package{})
}

// PackageName implements hoputil.Package.
func (Package) PackageName() string {
	return DefaultPackageName
}

// PackageDoc implements hoputil.PackageDocumented.
func (Package) PackageDoc() string {
	return `Real valued mathematical functions and constants.`
}

// Constants implements hoputil.PackageConstants.
func (Package) Constants() map[string]hop.Value {
	return map[string]hop.Value{
		"pi": hop.Real(math.Pi),
		"e":  hop.Real(math.E),
	}
}

// Builtins implements hoputil.PackageBuiltins.
func (Package) Builtins() []*hoputil.Builtin {
	return builtins
}

var builtins = []*hoputil.Builtin{
	unary("acos", math.Acos, `Returns the arccosine of value in radians.`),
	unary("asin", math.Asin, `Returns the arcsine of value in radians.`),
	unary("atan", math.Atan, `Returns the arctangent of value in radians.`),
	binary("atan2", math.Atan2, `Returns the arctangent of x/y, using the signs of both
		arguments to determine the quadrant.`),
	unary("cos", math.Cos, `Returns the cosine of value in radians.`),
	unary("sin", math.Sin, `Returns the sine of value in radians.`),
	unary("tan", math.Tan, `Returns the tangent of value in radians.`),
	unary("acosh", math.Acosh, `Returns the inverse hyperbolic cosine of value.`),
	unary("asinh", math.Asinh, `Returns the inverse hyperbolic sine of value.`),
	unary("atanh", math.Atanh, `Returns the inverse hyperbolic tangent of value.`),
	unary("cosh", math.Cosh, `Returns the hyperbolic cosine of value.`),
	unary("sinh", math.Sinh, `Returns the hyperbolic sine of value.`),
	unary("tanh", math.Tanh, `Returns the hyperbolic tangent of value.`),
	unary("exp", math.Exp, `Returns e raised to the power of value.`),
	unary("log", math.Log, `Returns the natural logarithm of value.`),
	unary("log10", math.Log10, `Returns the decimal logarithm of value.`),
	unary("fabs", math.Abs, `Returns the absolute value of value.`),
	binary("hypot", math.Hypot, `Returns sqrt(x*x + y*y).`),
	binary("pow", math.Pow, `Returns x raised to the power of y.`),
	unary("sqrt", math.Sqrt, `Returns the square root of value.`),
	unary("ceil", math.Ceil, `Returns the least integral value greater than or equal to value.`),
	unary("floor", math.Floor, `Returns the greatest integral value less than or equal to value.`),
	unary("round", math.Round, `Returns the nearest integral value, rounding half away from zero.`),
}

func unary(name string, fn func(float64) float64, docs string) *hoputil.Builtin {
	args := hoputil.Args(hoputil.Arg("value", hop.TypeReal))
	return hoputil.FunctionDoc(name, args, hop.TypeReal, func(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
		x, err := toReal(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return hop.Literal(hop.Real(fn(x))), nil
	}, docs)
}

func binary(name string, fn func(float64, float64) float64, docs string) *hoputil.Builtin {
	args := hoputil.Args(hoputil.Arg("x", hop.TypeReal), hoputil.Arg("y", hop.TypeReal))
	return hoputil.FunctionDoc(name, args, hop.TypeReal, func(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
		x, err := toReal(ctx, args[0])
		if err != nil {
			return nil, err
		}
		y, err := toReal(ctx, args[1])
		if err != nil {
			return nil, err
		}
		return hop.Literal(hop.Real(fn(x, y))), nil
	}, docs)
}

func toReal(ctx *hop.CallContext, v *hop.Variable) (float64, error) {
	x, ok := v.Value().(hop.Real)
	if !ok {
		return 0, ctx.Errorf(hop.NativeFunctionCallParameterError, "%s expects a Real", ctx.Closure.QualifiedName())
	}
	return float64(x), nil
}
