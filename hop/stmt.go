// Copyright © 2018 The ELPS authors

package hop

import (
	"fmt"
	"strings"
)

// VarDecl declares a variable or a constant.  Type and Value are optional
// but not both, and constants always have a Value.
type VarDecl struct {
	node
	Name     string
	Constant bool
	Static   bool
	Type     *TypeExpr
	Value    Node
}

func (d *VarDecl) String() string {
	var b strings.Builder
	if d.Static {
		b.WriteString("static ")
	}
	if d.Constant {
		b.WriteString("const ")
	} else {
		b.WriteString("var ")
	}
	b.WriteString(d.Name)
	if d.Type != nil {
		fmt.Fprintf(&b, ": %v", d.Type)
	}
	if d.Value != nil {
		fmt.Fprintf(&b, " = %v", d.Value)
	}
	return b.String()
}

// Evaluate implements Node.
func (d *VarDecl) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	return nil, d.declare(scope, s)
}

// declare evaluates the initial value and binds the new variable in scope.
// Without a type annotation the variable takes the type of its initial value.
func (d *VarDecl) declare(scope *Scope, s *Session) error {
	if d.Constant && d.Value == nil {
		return Errorf(MissingConstantInitialization, d.Source, "%s", d.Name)
	}
	var init *Variable
	if d.Value != nil {
		v, err := evalVariable(d.Value, scope, s)
		if err != nil {
			return err
		}
		init = v
	}
	var typ Type
	switch {
	case d.Type != nil:
		t, err := d.Type.Resolve(scope)
		if err != nil {
			return err
		}
		typ = t
		if init != nil && !Compatible(typ, init.Value()) {
			return Errorf(ExpressionTypeMismatch, d.Source, "cannot assign %v to %s of type %v", TypeOf(init.Value()), d.Name, typ)
		}
	case init == nil || init.Value() == nil:
		return Errorf(UndefinedType, d.Source, "cannot infer the type of %s", d.Name)
	default:
		typ = init.Type
		if typ.Kind == KindAny || typ.Kind == KindNil {
			typ = TypeOf(init.Value())
		}
	}
	v := NewVariable(typ, d.Constant, nil)
	if init != nil {
		v.SetValue(init.Value())
	}
	err := scope.Declare(NameID(d.Name), d.Name, v)
	if err != nil {
		v.SetValue(nil)
		return locError(err, d.Source)
	}
	return nil
}

// IfStmt runs Then when Cond holds, else Else which is either a *Block or a
// chained *IfStmt.
type IfStmt struct {
	node
	Cond Node
	Then *Block
	Else Node
}

func (stmt *IfStmt) String() string {
	return fmt.Sprintf("if %v %v", stmt.Cond, stmt.Then)
}

// Evaluate implements Node.
func (stmt *IfStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	ok, err := evalCondition(stmt.Cond, scope, s)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, stmt.Then.run(scope, s)
	}
	if stmt.Else != nil {
		return stmt.Else.Evaluate(scope, s)
	}
	return nil, nil
}

func evalCondition(n Node, scope *Scope, s *Session) (bool, error) {
	v, err := evalVariable(n, scope, s)
	if err != nil {
		return false, err
	}
	switch x := v.Value().(type) {
	case Bool:
		return bool(x), nil
	case nil:
		return false, Errorf(UndefinedVariable, n.Loc(), "condition %v is nil", n)
	default:
		return false, Errorf(ExpressionTypeMismatch, n.Loc(), "condition %v must be Bool, got %v", n, TypeOf(x))
	}
}

// ForStmt iterates Var over [Start, End) by Step, which defaults to 1.
type ForStmt struct {
	node
	Var   string
	Start Node
	End   Node
	Step  Node
	Body  *Block
}

func (stmt *ForStmt) String() string {
	if stmt.Step != nil {
		return fmt.Sprintf("for %s in %v to %v step %v", stmt.Var, stmt.Start, stmt.End, stmt.Step)
	}
	return fmt.Sprintf("for %s in %v to %v", stmt.Var, stmt.Start, stmt.End)
}

// Evaluate implements Node.  A step that is not positive is rejected before
// the first iteration.  Each iteration binds the index as a fresh constant in
// its own scope.
func (stmt *ForStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	start, err := stmt.bound(stmt.Start, scope, s)
	if err != nil {
		return nil, err
	}
	end, err := stmt.bound(stmt.End, scope, s)
	if err != nil {
		return nil, err
	}
	step := Int(1)
	if stmt.Step != nil {
		step, err = stmt.bound(stmt.Step, scope, s)
		if err != nil {
			return nil, err
		}
		if step <= 0 {
			return nil, Errorf(ExpressionEvaluationError, stmt.Step.Loc(), "for loop step must be positive, got %d", step)
		}
	}
	loop := NewScope(scope, "for")
	defer loop.propagate()
	i := start
	for n := iterations(start, end, step); n > 0; n-- {
		iter := NewScope(loop, "")
		iter.Put(NameID(stmt.Var), stmt.Var, Literal(i))
		err := stmt.Body.run(iter, s)
		iter.propagate()
		if err != nil {
			return nil, err
		}
		if loop.returnValue != nil {
			break
		}
		if loop.consumeLoopSignals() {
			break
		}
		if n > 1 {
			i += step
		}
	}
	return nil, nil
}

// iterations returns how many of start, start+step, ... are below end.  The
// count is computed unsigned so that bounds near the Int limits cannot wrap.
func iterations(start, end, step Int) uint64 {
	if start >= end {
		return 0
	}
	dist := uint64(end) - uint64(start)
	n := dist / uint64(step)
	if dist%uint64(step) != 0 {
		n++
	}
	return n
}

func (stmt *ForStmt) bound(n Node, scope *Scope, s *Session) (Int, error) {
	v, err := evalVariable(n, scope, s)
	if err != nil {
		return 0, err
	}
	switch x := v.Value().(type) {
	case Int:
		return x, nil
	case nil:
		return 0, Errorf(UndefinedVariable, n.Loc(), "for loop bound %v is nil", n)
	default:
		return 0, Errorf(ExpressionTypeMismatch, n.Loc(), "for loop bound must be Int, got %v", TypeOf(x))
	}
}

// WhileStmt runs Body as long as Cond holds.
type WhileStmt struct {
	node
	Cond Node
	Body *Block
}

func (stmt *WhileStmt) String() string {
	return fmt.Sprintf("while %v %v", stmt.Cond, stmt.Body)
}

// Evaluate implements Node.
func (stmt *WhileStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	loop := NewScope(scope, "while")
	defer loop.propagate()
	for {
		ok, err := evalCondition(stmt.Cond, loop, s)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if err := stmt.Body.run(loop, s); err != nil {
			return nil, err
		}
		if loop.returnValue != nil {
			return nil, nil
		}
		if loop.consumeLoopSignals() {
			return nil, nil
		}
	}
}

// ReturnStmt returns from the enclosing function, with or without a value.
type ReturnStmt struct {
	node
	Expr Node
}

func (stmt *ReturnStmt) String() string {
	if stmt.Expr == nil {
		return "return"
	}
	return fmt.Sprintf("return %v", stmt.Expr)
}

// Evaluate implements Node.
func (stmt *ReturnStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	if stmt.Expr == nil {
		scope.SetReturnValue(Void())
		return nil, nil
	}
	v, err := evalVariable(stmt.Expr, scope, s)
	if err != nil {
		return nil, err
	}
	scope.SetReturnValue(v.retained())
	return nil, nil
}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	node
}

func (stmt *BreakStmt) String() string { return "break" }

// Evaluate implements Node.
func (stmt *BreakStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	scope.RequestBreak()
	return nil, nil
}

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	node
}

func (stmt *ContinueStmt) String() string { return "continue" }

// Evaluate implements Node.
func (stmt *ContinueStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	scope.RequestContinue()
	return nil, nil
}

// ImportStmt makes a module available to the current scope under the last
// component of its dotted path.
type ImportStmt struct {
	node
	Path []string
}

func (stmt *ImportStmt) String() string {
	return "import " + strings.Join(stmt.Path, ".")
}

// Evaluate implements Node.
func (stmt *ImportStmt) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	mod, err := s.importModule(stmt.Path)
	if err != nil {
		return nil, locError(err, stmt.Source)
	}
	name := stmt.Path[len(stmt.Path)-1]
	id := NameID(name)
	if sym, ok := scope.LookupLocal(id); ok && sym != Symbol(mod) {
		return nil, Errorf(InvalidRedeclaration, stmt.Source, "%s", name)
	}
	scope.Put(id, name, mod)
	return nil, nil
}
