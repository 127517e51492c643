// Copyright © 2018 The ELPS authors

package hop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OMTS/Hop/parser/token"
)

// Node is an evaluable AST node.  Expressions evaluate to a Symbol, usually
// a *Variable.  Statements evaluate to nil.
type Node interface {
	Evaluate(scope *Scope, s *Session) (Symbol, error)
	Loc() *token.Location
}

// node carries the debug position of an AST node.  Source is nil unless the
// program was parsed in debug mode.
type node struct {
	Source *token.Location
}

// Loc implements Node.
func (n *node) Loc() *token.Location {
	return n.Source
}

// SetLoc records the debug position of n.
func (n *node) SetLoc(loc *token.Location) {
	n.Source = loc
}

// Locatable is implemented by every node.  Parsers use it to attach debug
// positions.
type Locatable interface {
	SetLoc(loc *token.Location)
}

// IntLiteral is an integer constant.
type IntLiteral struct {
	node
	Value int64
}

func (e *IntLiteral) String() string { return strconv.FormatInt(e.Value, 10) }

// Evaluate implements Node.
func (e *IntLiteral) Evaluate(*Scope, *Session) (Symbol, error) {
	return Literal(Int(e.Value)), nil
}

// RealLiteral is a real constant.
type RealLiteral struct {
	node
	Value float64
}

func (e *RealLiteral) String() string { return formatReal(e.Value) }

// Evaluate implements Node.
func (e *RealLiteral) Evaluate(*Scope, *Session) (Symbol, error) {
	return Literal(Real(e.Value)), nil
}

// BoolLiteral is true or false.
type BoolLiteral struct {
	node
	Value bool
}

func (e *BoolLiteral) String() string { return strconv.FormatBool(e.Value) }

// Evaluate implements Node.
func (e *BoolLiteral) Evaluate(*Scope, *Session) (Symbol, error) {
	return Literal(Bool(e.Value)), nil
}

// StringLiteral is a string constant with escapes already interpreted.
type StringLiteral struct {
	node
	Value string
}

func (e *StringLiteral) String() string { return strconv.Quote(e.Value) }

// Evaluate implements Node.
func (e *StringLiteral) Evaluate(*Scope, *Session) (Symbol, error) {
	return Literal(String(e.Value)), nil
}

// NilLiteral is the nil keyword.
type NilLiteral struct {
	node
}

func (e *NilLiteral) String() string { return "nil" }

// Evaluate implements Node.
func (e *NilLiteral) Evaluate(*Scope, *Session) (Symbol, error) {
	return NewVariable(TypeNil, true, nil), nil
}

// ArrayLiteral constructs an Array instance from its element expressions.
type ArrayLiteral struct {
	node
	Elems []Node
}

func (e *ArrayLiteral) String() string {
	elems := make([]string, len(e.Elems))
	for i, elem := range e.Elems {
		elems[i] = fmt.Sprint(elem)
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// Evaluate implements Node.
func (e *ArrayLiteral) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	cls := s.arrayClass
	if cls == nil {
		return nil, Errorf(UnresolvedIdentifier, e.Source, "Array")
	}
	inst, err := cls.construct(s)
	if err != nil {
		return nil, locError(err, e.Source)
	}
	arr := inst.ArrayStorage()
	if arr == nil {
		return nil, Errorf(ExpressionEvaluationError, e.Source, "array instance has no storage")
	}
	for _, elem := range e.Elems {
		v, err := evalVariable(elem, scope, s)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	return NewVariable(cls.Type(), true, inst), nil
}

// IdentifierExpr references a variable, class or module by name.
type IdentifierExpr struct {
	node
	Name string
}

func (e *IdentifierExpr) String() string { return e.Name }

// Evaluate implements Node.
func (e *IdentifierExpr) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	sym, ok := scope.Lookup(NameID(e.Name))
	if !ok {
		return nil, Errorf(UnresolvedIdentifier, e.Source, "%s", e.Name)
	}
	return sym, nil
}

// TypeExpr is a possibly qualified type name such as Int or Geometry.Point.
type TypeExpr struct {
	node
	Path []string
}

func (t *TypeExpr) String() string {
	return strings.Join(t.Path, ".")
}

// Resolve returns the type t denotes in scope.
func (t *TypeExpr) Resolve(scope *Scope) (Type, error) {
	if len(t.Path) == 1 {
		if typ, ok := BasicType(t.Path[0]); ok {
			return typ, nil
		}
	}
	cls, err := t.ResolveClass(scope)
	if err != nil {
		return Type{}, err
	}
	return cls.Type(), nil
}

// ResolveClass returns the class t denotes in scope.
func (t *TypeExpr) ResolveClass(scope *Scope) (*Class, error) {
	sym, ok := scope.Lookup(NameID(t.Path[0]))
	for _, name := range t.Path[1:] {
		if !ok {
			break
		}
		switch owner := sym.(type) {
		case *Module:
			sym, ok = owner.Scope.LookupLocal(NameID(name))
		case *Class:
			sym, ok = owner.LookupClassMember(NameID(name))
		default:
			ok = false
		}
	}
	if ok {
		if cls, isClass := sym.(*Class); isClass {
			return cls, nil
		}
	}
	return nil, Errorf(UndefinedType, t.Source, "%s", t)
}

// Block is a brace delimited statement list with its own scope.
type Block struct {
	node
	Stmts []Node
}

func (b *Block) String() string {
	return fmt.Sprintf("{ %d statements }", len(b.Stmts))
}

// Evaluate implements Node.
func (b *Block) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	return nil, b.run(scope, s)
}

// run executes the statements of b in a new child scope of parent.  Pending
// control flow signals stop the block and are propagated to parent.
func (b *Block) run(parent *Scope, s *Session) error {
	scope := NewScope(parent, "")
	defer scope.release()
	_, err := runStmts(b.Stmts, scope, s)
	scope.propagate()
	return err
}

// runStmts executes stmts in scope and returns the result of the last one.
func runStmts(stmts []Node, scope *Scope, s *Session) (Symbol, error) {
	var last Symbol
	for _, stmt := range stmts {
		sym, err := stmt.Evaluate(scope, s)
		if err != nil {
			return nil, locError(err, stmt.Loc())
		}
		last = sym
		if scope.Interrupted() {
			break
		}
	}
	return last, nil
}

// Program is a parsed script.
type Program struct {
	Name  string
	Stmts []Node
}

// Perform runs p in scope.  The value of the last statement is returned.
func (p *Program) Perform(scope *Scope, s *Session) (Symbol, error) {
	return runStmts(p.Stmts, scope, s)
}

// evalVariable evaluates n and requires a variable result.
func evalVariable(n Node, scope *Scope, s *Session) (*Variable, error) {
	sym, err := n.Evaluate(scope, s)
	if err != nil {
		return nil, err
	}
	v, ok := sym.(*Variable)
	if !ok {
		return nil, Errorf(ExpressionEvaluationError, n.Loc(), "%v is not a value", n)
	}
	return v, nil
}
