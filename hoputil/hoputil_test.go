// Copyright © 2018 The ELPS authors

package hoputil_test

import (
	"testing"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hoptest"
	"github.com/OMTS/Hop/hoputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geometry struct {
	initialized bool
}

func (*geometry) PackageName() string { return "Geometry" }

func (*geometry) PackageDoc() string { return "Shapes." }

func (*geometry) Constants() map[string]hop.Value {
	return map[string]hop.Value{"sides": hop.Int(4)}
}

func (*geometry) Builtins() []*hoputil.Builtin {
	return []*hoputil.Builtin{
		hoputil.FunctionDoc("area", hoputil.Args(hoputil.Labeled("width", hop.TypeInteger), hoputil.Labeled("height", hop.TypeInteger)),
			hop.TypeInteger, func(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
				w := args[0].Value().(hop.Int)
				h := args[1].Value().(hop.Int)
				return hop.Literal(w * h), nil
			}, "Returns width times height."),
		hoputil.Function("scale", hoputil.Args(hoputil.Arg("n", hop.TypeInteger)),
			hop.TypeInteger, func(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
				n, ok := args[0].Value().(hop.Int)
				if !ok {
					return nil, ctx.Errorf(hop.NativeFunctionCallParameterError, "scale expects an Int")
				}
				return hop.Literal(n * 10), nil
			}),
	}
}

func (g *geometry) PackageInit(mod *hop.Module) error {
	g.initialized = true
	return nil
}

func TestNewModule(t *testing.T) {
	g := &geometry{}
	mod, err := hoputil.NewModule(g)
	require.NoError(t, err)
	assert.True(t, g.initialized)
	assert.Equal(t, "Geometry", mod.Name)
	assert.Equal(t, "Shapes.", mod.Doc)
	assert.Equal(t, []string{"area(width:height:)", "scale(_:)", "sides"}, mod.Scope.Names())

	sym, ok := mod.Scope.LookupLocal(hop.FunctionID("area", []string{"width", "height"}))
	require.True(t, ok)
	fn := sym.(*hop.Closure)
	assert.Equal(t, "Returns width times height.", fn.Doc)
	assert.Equal(t, "Geometry.area(width:height:)", fn.QualifiedName())
	assert.True(t, fn.IsNative())
}

func TestPackageLoader(t *testing.T) {
	r := hoptest.Runner{Configs: []hop.Config{hoputil.PackageLoader(&geometry{})}}
	rec, err := r.Run(t, `
import Test
import Geometry
Test.export(Geometry.area(width: 2, height: 3), label: "area")
Test.export(Geometry.scale(Geometry.sides), label: "scaled")
`)
	require.NoError(t, err)
	assert.Equal(t, "6", rec.Exports["area"])
	assert.Equal(t, "40", rec.Exports["scaled"])

	_, err = r.Run(t, "import Geometry\nvar n: Int\nvar x = Geometry.scale(n)\n")
	kind, _ := hop.KindOf(err)
	assert.Equal(t, hop.NativeFunctionCallParameterError, kind)
}

func TestBuiltinClosureCopiesPrototype(t *testing.T) {
	b := hoputil.Function("f", hoputil.Args(hoputil.Arg("x", hop.TypeAny)), hop.TypeVoid, nil)
	c := b.Closure(hop.NewScope(nil, "test"))
	c.Prototype.Args[0].Name = "y"
	assert.Equal(t, "x", b.Prototype().Args[0].Name)
	assert.Equal(t, "f", b.Name())
	assert.Empty(t, b.Docstring())
}
