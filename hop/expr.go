// Copyright © 2018 The ELPS authors

package hop

import (
	"fmt"
	"strings"

	"github.com/OMTS/Hop/parser/token"
)

// UnaryExpr applies one of the prefix operators ~ ! + -.
type UnaryExpr struct {
	node
	Op      token.Type
	Operand Node
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%v)", opString(e.Op), e.Operand)
}

// Evaluate implements Node.
func (e *UnaryExpr) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	v, err := evalVariable(e.Operand, scope, s)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.TILDE:
		if x, ok := v.Value().(Int); ok {
			return Literal(^x), nil
		}
	case token.NOT:
		if x, ok := v.Value().(Bool); ok {
			return Literal(!x), nil
		}
	case token.PLUS:
		switch x := v.Value().(type) {
		case Int:
			return Literal(x), nil
		case Real:
			return Literal(x), nil
		}
	case token.MINUS:
		switch x := v.Value().(type) {
		case Int:
			return Literal(-x), nil
		case Real:
			return Literal(-x), nil
		}
	}
	if v.Value() == nil {
		return nil, Errorf(UndefinedVariable, e.Source, "operand of %s is nil", opString(e.Op))
	}
	return nil, Errorf(ExpressionEvaluationError, e.Source, "operator %s does not apply to %v", opString(e.Op), TypeOf(v.Value()))
}

// BinaryExpr applies an infix operator.  Assignment and member access are
// binary expressions too.
type BinaryExpr struct {
	node
	Op  token.Type
	LHS Node
	RHS Node
}

func (e *BinaryExpr) String() string {
	if e.Op == token.DOT {
		return fmt.Sprintf("%v.%v", e.LHS, e.RHS)
	}
	return fmt.Sprintf("(%v %s %v)", e.LHS, opString(e.Op), e.RHS)
}

// Evaluate implements Node.
func (e *BinaryExpr) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	switch e.Op {
	case token.DOT:
		return e.evalAccess(scope, s)
	case token.ASSIGN:
		return e.evalAssign(scope, s)
	case token.AND, token.OR:
		return e.evalLogical(scope, s)
	}
	lhs, err := evalVariable(e.LHS, scope, s)
	if err != nil {
		return nil, err
	}
	rhs, err := evalVariable(e.RHS, scope, s)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.EQ, token.NE:
		return e.evalEquality(lhs.Value(), rhs.Value())
	}
	a, b := lhs.Value(), rhs.Value()
	if a == nil || b == nil {
		return nil, Errorf(UndefinedVariable, e.Source, "operand of %s is nil", opString(e.Op))
	}
	if !TypeOf(a).Equal(TypeOf(b)) {
		return nil, Errorf(BinaryOperatorTypeMismatch, e.Source, "%v %s %v", TypeOf(a), opString(e.Op), TypeOf(b))
	}
	var ret Value
	switch x := a.(type) {
	case Int:
		ret, err = e.intOp(x, b.(Int))
	case Real:
		ret, err = e.realOp(x, b.(Real))
	case String:
		ret = e.stringOp(x, b.(String))
	}
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, Errorf(ExpressionEvaluationError, e.Source, "operator %s does not apply to %v", opString(e.Op), TypeOf(a))
	}
	return Literal(ret), nil
}

func (e *BinaryExpr) intOp(a, b Int) (Value, error) {
	switch e.Op {
	case token.PLUS:
		return a + b, nil
	case token.MINUS:
		return a - b, nil
	case token.STAR:
		return a * b, nil
	case token.SLASH, token.PERCENT:
		if b == 0 {
			return nil, Errorf(ZeroDivisionAttempt, e.Source, "%d %s 0", a, opString(e.Op))
		}
		if e.Op == token.SLASH {
			return a / b, nil
		}
		return a % b, nil
	case token.LT:
		return Bool(a < b), nil
	case token.GT:
		return Bool(a > b), nil
	case token.LE:
		return Bool(a <= b), nil
	case token.GE:
		return Bool(a >= b), nil
	}
	return nil, nil
}

func (e *BinaryExpr) realOp(a, b Real) (Value, error) {
	switch e.Op {
	case token.PLUS:
		return a + b, nil
	case token.MINUS:
		return a - b, nil
	case token.STAR:
		return a * b, nil
	case token.SLASH:
		if b == 0 {
			return nil, Errorf(ZeroDivisionAttempt, e.Source, "%s / 0.0", formatReal(float64(a)))
		}
		return a / b, nil
	case token.LT:
		return Bool(a < b), nil
	case token.GT:
		return Bool(a > b), nil
	case token.LE:
		return Bool(a <= b), nil
	case token.GE:
		return Bool(a >= b), nil
	}
	return nil, nil
}

func (e *BinaryExpr) stringOp(a, b String) Value {
	switch e.Op {
	case token.PLUS:
		return a + b
	case token.LT:
		return Bool(a < b)
	case token.GT:
		return Bool(a > b)
	case token.LE:
		return Bool(a <= b)
	case token.GE:
		return Bool(a >= b)
	}
	return nil
}

// evalEquality compares values of the same type.  nil compares equal only
// to nil and instances compare by identity.
func (e *BinaryExpr) evalEquality(a, b Value) (Symbol, error) {
	var eq bool
	switch {
	case a == nil || b == nil:
		eq = a == nil && b == nil
	case !TypeOf(a).Equal(TypeOf(b)):
		return nil, Errorf(ExpressionTypeMismatch, e.Source, "%v %s %v", TypeOf(a), opString(e.Op), TypeOf(b))
	default:
		eq = a == b
	}
	if e.Op == token.NE {
		eq = !eq
	}
	return Literal(Bool(eq)), nil
}

// evalLogical short circuits: the right operand is skipped when the left one
// decides the result.
func (e *BinaryExpr) evalLogical(scope *Scope, s *Session) (Symbol, error) {
	a, err := e.boolOperand(e.LHS, scope, s)
	if err != nil {
		return nil, err
	}
	if (e.Op == token.AND && !a) || (e.Op == token.OR && a) {
		return Literal(Bool(a)), nil
	}
	b, err := e.boolOperand(e.RHS, scope, s)
	if err != nil {
		return nil, err
	}
	return Literal(Bool(b)), nil
}

func (e *BinaryExpr) boolOperand(n Node, scope *Scope, s *Session) (Bool, error) {
	v, err := evalVariable(n, scope, s)
	if err != nil {
		return false, err
	}
	switch x := v.Value().(type) {
	case Bool:
		return x, nil
	case nil:
		return false, Errorf(UndefinedVariable, e.Source, "operand of %s is nil", opString(e.Op))
	default:
		return false, Errorf(BinaryOperatorTypeMismatch, e.Source, "operator %s expects Bool, got %v", opString(e.Op), TypeOf(x))
	}
}

// evalAssign stores the right operand in the variable denoted by the left
// one and evaluates to that variable, so assignments chain right to left.
func (e *BinaryExpr) evalAssign(scope *Scope, s *Session) (Symbol, error) {
	target, err := evalVariable(e.LHS, scope, s)
	if err != nil {
		return nil, err
	}
	v, err := evalVariable(e.RHS, scope, s)
	if err != nil {
		return nil, err
	}
	if target.IsConstant {
		return nil, Errorf(ForbiddenAssignment, e.Source, "%v is a constant", e.LHS)
	}
	if err := assign(target, v, e.Source); err != nil {
		return nil, err
	}
	return target, nil
}

// assign stores the value of v in target after checking type compatibility.
// Type widening targets take the type of the assigned value instead.
func assign(target, v *Variable, loc *token.Location) error {
	if target.AllowTypeWidening {
		target.SetValue(v.Value())
		target.Type = v.Type
		return nil
	}
	if !Compatible(target.Type, v.Value()) {
		return Errorf(ExpressionTypeMismatch, loc, "cannot assign %v to %v", TypeOf(v.Value()), target.Type)
	}
	target.SetValue(v.Value())
	return nil
}

// CallArg is one call argument.  Label is AnonymousLabel for positional
// arguments.
type CallArg struct {
	Label string
	Value Node
}

// CallExpr calls a function, a method (as the right operand of a member
// access) or constructs a class instance.
type CallExpr struct {
	node
	Name string
	Args []CallArg
}

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		if arg.Label == AnonymousLabel {
			args[i] = fmt.Sprint(arg.Value)
		} else {
			args[i] = fmt.Sprintf("%s: %v", arg.Label, arg.Value)
		}
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

// Labels returns the labels of the call arguments in order.
func (e *CallExpr) Labels() []string {
	labels := make([]string, len(e.Args))
	for i, arg := range e.Args {
		labels[i] = arg.Label
	}
	return labels
}

// FunctionID returns the identity of the function called by e.
func (e *CallExpr) FunctionID() ID {
	return FunctionID(e.Name, e.Labels())
}

// MethodID returns the identity of the instance method called by e.
func (e *CallExpr) MethodID() ID {
	return MethodID(e.Name, e.Labels())
}

// Evaluate implements Node.  The function is resolved by signature through
// the scope chain.  A class named like the call is constructed.  Inside a
// method an unqualified call may also name a method of self.
func (e *CallExpr) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	if sym, ok := scope.Lookup(e.FunctionID()); ok {
		if fn, ok := sym.(*Closure); ok {
			return e.call(fn, nil, scope, s)
		}
	}
	if self, ok := scope.LookupVariable(SelfName); ok {
		if inst, ok := self.Value().(*Instance); ok {
			if fn := inst.Class.LookupMethod(e.MethodID()); fn != nil {
				return e.call(fn, inst, scope, s)
			}
		}
	}
	if sym, ok := scope.Lookup(NameID(e.Name)); ok {
		if cls, ok := sym.(*Class); ok {
			return e.construct(cls, s)
		}
	}
	return nil, Errorf(UnresolvedIdentifier, e.Source, "%s", Signature(e.Name, e.Labels()))
}

// construct invokes the implicit initializer of cls.
func (e *CallExpr) construct(cls *Class, s *Session) (Symbol, error) {
	if len(e.Args) > 0 {
		return nil, Errorf(UnresolvedIdentifier, e.Source, "%s has no initializer %s", cls.Name, Signature(e.Name, e.Labels()))
	}
	inst, err := cls.construct(s)
	if err != nil {
		return nil, locError(err, e.Source)
	}
	return NewVariable(cls.Type(), true, inst), nil
}

// call evaluates the arguments of e in the caller's scope and invokes fn.
func (e *CallExpr) call(fn *Closure, self *Instance, scope *Scope, s *Session) (Symbol, error) {
	args := make([]*Variable, len(e.Args))
	for i, arg := range e.Args {
		v, err := evalVariable(arg.Value, scope, s)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn.Invoke(s, e.Source, self, args)
}

// SuperExpr is the super keyword.  Alone it evaluates to self viewed as an
// instance of the superclass, or to the superclass in a static method.
type SuperExpr struct {
	node
}

func (e *SuperExpr) String() string { return "super" }

// Evaluate implements Node.
func (e *SuperExpr) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	cls, static, err := e.context(scope)
	if err != nil {
		return nil, err
	}
	if static {
		return cls.Super, nil
	}
	inst, err := e.self(scope)
	if err != nil {
		return nil, err
	}
	return NewVariable(cls.Super.Type(), true, inst), nil
}

// context returns the class declaring the method being executed.
func (e *SuperExpr) context(scope *Scope) (*Class, bool, error) {
	for sc := scope; sc != nil; sc = sc.parent {
		if sc.class == nil {
			continue
		}
		if sc.class.Super == nil {
			return nil, false, Errorf(UseOfSuperInRootClassMember, e.Source, "%s has no superclass", sc.class.Name)
		}
		return sc.class, sc.static, nil
	}
	return nil, false, NewError(UseOfSuperOutsideAClassMember, e.Source)
}

func (e *SuperExpr) self(scope *Scope) (*Instance, error) {
	v, ok := scope.LookupVariable(SelfName)
	if ok {
		if inst, ok := v.Value().(*Instance); ok {
			return inst, nil
		}
	}
	return nil, NewError(UseOfSuperOutsideAClassMember, e.Source)
}

func opString(op token.Type) string {
	switch op {
	case token.ASSIGN:
		return "="
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LE:
		return "<="
	case token.GE:
		return ">="
	case token.EQ:
		return "=="
	case token.NE:
		return "!="
	case token.AND:
		return "&&"
	case token.OR:
		return "||"
	case token.NOT:
		return "!"
	case token.TILDE:
		return "~"
	case token.DOT:
		return "."
	}
	return op.String()
}
