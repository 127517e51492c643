// Copyright © 2018 The ELPS authors

package hop

import (
	"fmt"
	"strings"
)

// ArgDecl is a declared function argument as written in the source.
type ArgDecl struct {
	Name      string
	Anonymous bool
	Type      *TypeExpr
}

// Label returns the label call sites use for the argument.
func (a *ArgDecl) Label() string {
	if a.Anonymous {
		return AnonymousLabel
	}
	return a.Name
}

// FuncDecl declares a function, a static method or an instance method.
type FuncDecl struct {
	node
	Name   string
	Args   []*ArgDecl
	Return *TypeExpr
	Body   *Block
	Static bool
	Doc    string
}

func (d *FuncDecl) String() string {
	args := make([]string, len(d.Args))
	for i, arg := range d.Args {
		prefix := ""
		if arg.Anonymous {
			prefix = "#"
		}
		args[i] = fmt.Sprintf("%s%s: %v", prefix, arg.Name, arg.Type)
	}
	s := fmt.Sprintf("func %s(%s)", d.Name, strings.Join(args, ", "))
	if d.Return != nil {
		s += fmt.Sprintf(" -> %v", d.Return)
	}
	return s
}

// closure resolves the prototype of d in scope.
func (d *FuncDecl) closure(scope *Scope) (*Closure, error) {
	proto := &Prototype{Name: d.Name, Return: TypeVoid}
	for _, arg := range d.Args {
		typ, err := arg.Type.Resolve(scope)
		if err != nil {
			return nil, err
		}
		proto.Args = append(proto.Args, Argument{Label: arg.Label(), Name: arg.Name, Type: typ})
	}
	if d.Return != nil {
		typ, err := d.Return.Resolve(scope)
		if err != nil {
			return nil, err
		}
		proto.Return = typ
	}
	return &Closure{
		Prototype: proto,
		Body:      d.Body,
		Scope:     scope,
		Source:    d.Source,
		Doc:       d.Doc,
	}, nil
}

// Evaluate implements Node.  The function is bound under its signature so
// that functions differing only by argument labels may coexist.
func (d *FuncDecl) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	fn, err := d.closure(scope)
	if err != nil {
		return nil, err
	}
	err = scope.Declare(fn.ID(), fn.Prototype.Signature(), fn)
	if err != nil {
		return nil, locError(err, d.Source)
	}
	return nil, nil
}

// ClassDecl declares a class.  Members are property declarations, function
// declarations and inner class declarations.
type ClassDecl struct {
	node
	Name    string
	Super   *TypeExpr
	Members []Node
	Doc     string
}

func (d *ClassDecl) String() string {
	if d.Super != nil {
		return fmt.Sprintf("class %s: %v", d.Name, d.Super)
	}
	return "class " + d.Name
}

// Evaluate implements Node.
func (d *ClassDecl) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	var super *Class
	if d.Super != nil {
		cls, err := d.Super.ResolveClass(scope)
		if err != nil {
			return nil, err
		}
		super = cls
	}
	cls := newClass(d.Name, s.nextClassID(), super, scope)
	cls.Doc = d.Doc
	err := scope.Declare(NameID(d.Name), d.Name, cls)
	if err != nil {
		return nil, locError(err, d.Source)
	}
	s.registerClass(cls)
	for _, member := range d.Members {
		if err := d.declareMember(cls, member, s); err != nil {
			return nil, locError(err, member.Loc())
		}
	}
	return nil, nil
}

func (d *ClassDecl) declareMember(cls *Class, member Node, s *Session) error {
	switch m := member.(type) {
	case *VarDecl:
		if m.Static {
			return m.declare(cls.Scope, s)
		}
		if m.Constant && m.Value == nil {
			return Errorf(MissingConstantInitialization, m.Source, "%s", m.Name)
		}
		return cls.addProperty(m)
	case *FuncDecl:
		fn, err := m.closure(cls.Scope)
		if err != nil {
			return err
		}
		if m.Static {
			return cls.DefineStatic(fn)
		}
		return cls.DefineMethod(fn)
	case *ClassDecl:
		_, err := m.Evaluate(cls.Scope, s)
		return err
	default:
		return Errorf(ExpressionError, member.Loc(), "unexpected class member %v", member)
	}
}
