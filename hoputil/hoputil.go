// Copyright © 2018 The ELPS authors

// Package hoputil helps implement hop modules and classes in Go.
package hoputil

import (
	"fmt"

	"github.com/OMTS/Hop/hop"
)

// Function is a helper to construct builtins.
func Function(name string, args []hop.Argument, ret hop.Type, fn hop.NativeFunc) *Builtin {
	return &Builtin{
		proto: &hop.Prototype{Name: name, Args: args, Return: ret},
		fn:    fn,
	}
}

// FunctionDoc is like Function but attaches a documentation string.
func FunctionDoc(name string, args []hop.Argument, ret hop.Type, fn hop.NativeFunc, docs string) *Builtin {
	b := Function(name, args, ret, fn)
	b.docs = docs
	return b
}

// Args is a shorthand for a list of arguments.
func Args(args ...hop.Argument) []hop.Argument {
	return args
}

// Arg returns an anonymous argument, declared #name in hop source.
func Arg(name string, typ hop.Type) hop.Argument {
	return hop.Argument{Label: hop.AnonymousLabel, Name: name, Type: typ}
}

// Labeled returns an argument passed as name: value.
func Labeled(name string, typ hop.Type) hop.Argument {
	return hop.Argument{Label: name, Name: name, Type: typ}
}

// Builtin captures Go functions that are callable from hop.
type Builtin struct {
	proto *hop.Prototype
	fn    hop.NativeFunc
	docs  string
}

// Name returns the name of a function.
func (b *Builtin) Name() string {
	return b.proto.Name
}

// Prototype returns the signature of a function.
func (b *Builtin) Prototype() *hop.Prototype {
	return b.proto
}

// Docstring returns the documentation of a function.
func (b *Builtin) Docstring() string {
	return b.docs
}

// Closure returns a closure declared in scope calling the builtin.
func (b *Builtin) Closure(scope *hop.Scope) *hop.Closure {
	proto := *b.proto
	proto.Args = append([]hop.Argument(nil), b.proto.Args...)
	c := hop.NewNativeClosure(&proto, scope, b.fn)
	c.Doc = b.docs
	return c
}

// Package is a hop module implemented in Go.
type Package interface {
	PackageName() string
}

// PackageDocumented allows a package to provide a documentation string.
type PackageDocumented interface {
	Package
	PackageDoc() string
}

// PackageBuiltins retrieves the functions exposed by a package.
type PackageBuiltins interface {
	Package
	Builtins() []*Builtin
}

// PackageConstants retrieves the constants exposed by a package.
type PackageConstants interface {
	Package
	Constants() map[string]hop.Value
}

// PackageInit allows initialization of a package after its functions and
// constants are declared.
type PackageInit interface {
	Package
	PackageInit(mod *hop.Module) error
}

// NewModule builds the module p describes.
func NewModule(p Package) (*hop.Module, error) {
	mod := hop.NewModule(p.PackageName())
	if dp, ok := p.(PackageDocumented); ok {
		mod.Doc = dp.PackageDoc()
	}
	if cp, ok := p.(PackageConstants); ok {
		for name, v := range cp.Constants() {
			c := hop.NewVariable(hop.TypeOf(v), true, v)
			if err := mod.Scope.Declare(hop.NameID(name), name, c); err != nil {
				return nil, fmt.Errorf("%s: %w", mod.Name, err)
			}
		}
	}
	if bp, ok := p.(PackageBuiltins); ok {
		if err := DefineFunctions(mod, bp.Builtins()); err != nil {
			return nil, err
		}
	}
	if ip, ok := p.(PackageInit); ok {
		if err := ip.PackageInit(mod); err != nil {
			return nil, fmt.Errorf("%s: %w", mod.Name, err)
		}
	}
	return mod, nil
}

// DefineFunctions declares builtins as functions of mod.
func DefineFunctions(mod *hop.Module, builtins []*Builtin) error {
	for _, b := range builtins {
		fn := b.Closure(mod.Scope)
		fn.Owner = mod.Name
		err := mod.Scope.Declare(fn.ID(), fn.Prototype.Signature(), fn)
		if err != nil {
			return fmt.Errorf("%s: %w", mod.Name, err)
		}
	}
	return nil
}

// DefineMethods declares builtins as instance methods of cls.
func DefineMethods(cls *hop.Class, builtins []*Builtin) error {
	for _, b := range builtins {
		if err := cls.DefineMethod(b.Closure(cls.Scope)); err != nil {
			return err
		}
	}
	return nil
}

// PackageLoader returns a Config making the packages ps importable.
func PackageLoader(ps ...Package) hop.Config {
	return func(s *hop.Session) error {
		for _, p := range ps {
			mod, err := NewModule(p)
			if err != nil {
				return err
			}
			if err := hop.WithNativeModule(mod)(s); err != nil {
				return err
			}
		}
		return nil
	}
}
