// Copyright © 2018 The ELPS authors

package hop

import (
	"github.com/OMTS/Hop/parser/token"
)

// NativeFunc is the host implementation of a closure body.  args holds the
// bound arguments in prototype order.  A nil result is a void result.
type NativeFunc func(ctx *CallContext, args []*Variable) (*Variable, error)

// CallContext is passed to a NativeFunc.  Self is the receiver of native
// instance methods.
type CallContext struct {
	Session *Session
	Scope   *Scope
	Self    *Instance
	Source  *token.Location
	Closure *Closure
}

// Errorf returns an error located at the native call.
func (ctx *CallContext) Errorf(kind ErrorKind, format string, v ...interface{}) *Error {
	return Errorf(kind, ctx.Source, format, v...)
}

// NewNativeClosure returns a closure whose body is the single statement
// `return <native call>` deferring to fn.
func NewNativeClosure(proto *Prototype, scope *Scope, fn NativeFunc) *Closure {
	c := &Closure{
		Prototype: proto,
		Scope:     scope,
		native:    fn,
	}
	call := &NativeCallExpr{Closure: c}
	c.Body = &Block{Stmts: []Node{&ReturnStmt{Expr: call}}}
	return c
}

// NativeCallExpr is the AST leaf deferring to a host function.  It reads the
// arguments of its closure from the invocation scope.
type NativeCallExpr struct {
	node
	Closure *Closure
}

func (e *NativeCallExpr) String() string {
	return "<native " + e.Closure.Prototype.Signature() + ">"
}

// Evaluate implements Node.
func (e *NativeCallExpr) Evaluate(scope *Scope, s *Session) (Symbol, error) {
	proto := e.Closure.Prototype
	args := make([]*Variable, len(proto.Args))
	for i, arg := range proto.Args {
		v, ok := scope.LookupVariable(arg.Name)
		if !ok {
			return nil, Errorf(NativeFunctionCallParameterError, e.Source, "missing argument %s", arg.Name)
		}
		args[i] = v
	}
	ctx := &CallContext{
		Session: s,
		Scope:   scope,
		Closure: e.Closure,
	}
	if top := s.Stack.Top(); top != nil {
		ctx.Source = top.Source
	}
	if v, ok := scope.LookupVariable(SelfName); ok && !e.Closure.Static && e.Closure.Class != nil {
		ctx.Self, _ = v.Value().(*Instance)
	}
	ret, err := e.Closure.native(ctx, args)
	if err != nil {
		return nil, locError(err, ctx.Source)
	}
	if ret == nil {
		return Void(), nil
	}
	return ret, nil
}
