// Copyright © 2018 The ELPS authors

package hop

import (
	"github.com/OMTS/Hop/parser/token"
)

// Argument is one declared function argument.  Label is AnonymousLabel for
// arguments declared with a leading '#', which call sites pass without a
// label.
type Argument struct {
	Label string
	Name  string
	Type  Type
}

// Prototype is the signature of a function: name, ordered arguments and the
// returned type.
type Prototype struct {
	Name   string
	Args   []Argument
	Return Type
}

// Labels returns the argument labels of p in order.
func (p *Prototype) Labels() []string {
	labels := make([]string, len(p.Args))
	for i, arg := range p.Args {
		labels[i] = arg.Label
	}
	return labels
}

// Signature renders p as name(label:...).
func (p *Prototype) Signature() string {
	return Signature(p.Name, p.Labels())
}

// Closure is a callable: a prototype, a body and the scope it was declared
// in.  Invocations bind their arguments in a child of that scope, not of the
// caller's scope.
type Closure struct {
	Prototype *Prototype
	Body      *Block
	Scope     *Scope
	Source    *token.Location
	Doc       string

	// Class is the class declaring a method, nil for plain functions.
	Class *Class
	// Static is set on static methods.
	Static bool
	// Owner is the name of the module of a module function.
	Owner string

	native NativeFunc
}

// ID returns the overload identity of the closure as a function.
func (c *Closure) ID() ID {
	return FunctionID(c.Prototype.Name, c.Prototype.Labels())
}

// MethodID returns the overload identity of the closure as an instance
// method.
func (c *Closure) MethodID() ID {
	return MethodID(c.Prototype.Name, c.Prototype.Labels())
}

// IsNative reports whether the body of c is implemented by the host.
func (c *Closure) IsNative() bool {
	return c.native != nil
}

// QualifiedName returns the signature of c prefixed with its class or module.
func (c *Closure) QualifiedName() string {
	frame := CallFrame{Name: c.Prototype.Signature(), Owner: c.owner()}
	return frame.QualifiedName()
}

func (c *Closure) owner() string {
	if c.Class != nil {
		return c.Class.Name
	}
	return c.Owner
}

// Invoke calls c with argument values already evaluated in the caller's
// scope.  self is the receiver of instance methods and nil otherwise.
func (c *Closure) Invoke(s *Session, loc *token.Location, self *Instance, args []*Variable) (*Variable, error) {
	proto := c.Prototype
	if len(args) != len(proto.Args) {
		return nil, Errorf(ExpressionEvaluationError, loc, "%s expects %d arguments, got %d", proto.Signature(), len(proto.Args), len(args))
	}
	err := s.Stack.Push(CallFrame{Source: loc, Name: proto.Signature(), Owner: c.owner()})
	if err != nil {
		return nil, err
	}
	defer s.Stack.Pop()
	if s.Profiler != nil && s.Profiler.IsEnabled() {
		defer s.Profiler.Start(c)()
	}
	if s.Logger.V(2).Enabled() {
		s.Logger.V(2).Info("invoke", "function", c.QualifiedName(), "depth", len(s.Stack.Frames))
	}

	ret, err := c.invoke(s, loc, self, args)
	if err != nil {
		if herr, ok := err.(*Error); ok && herr.Stack == nil {
			herr.Stack = s.Stack.Copy()
		}
		return nil, err
	}
	return ret, nil
}

func (c *Closure) invoke(s *Session, loc *token.Location, self *Instance, args []*Variable) (*Variable, error) {
	proto := c.Prototype
	parent := c.Scope
	if self != nil {
		// properties of self first, then the declaring class and its
		// declaration site, whatever the runtime class of self
		parent = self.Scope.withParent(c.Scope)
	}
	params := NewScope(parent, proto.Name)
	params.class = c.Class
	params.static = c.Static
	if self != nil {
		selfVar := NewVariable(self.Class.Type(), true, nil)
		selfVar.SetValue(self)
		params.Put(NameID(SelfName), SelfName, selfVar)
	}
	for i, arg := range proto.Args {
		v := args[i]
		if !Compatible(arg.Type, v.Value()) {
			params.release()
			return nil, Errorf(ExpressionTypeMismatch, loc, "argument %s of %s expects %v, got %v", arg.Name, proto.Signature(), arg.Type, TypeOf(v.Value()))
		}
		typ := arg.Type
		if typ.Kind == KindAny && v.Value() != nil {
			typ = v.Type
		}
		err := params.Declare(NameID(arg.Name), arg.Name, v.Bind(typ, true))
		if err != nil {
			params.release()
			return nil, locError(err, loc)
		}
	}

	if c.Body != nil {
		if err := c.Body.run(params, s); err != nil {
			params.release()
			params.dropReturn()
			return nil, err
		}
	}
	ret := params.returnValue
	params.release()

	if proto.Return.Kind == KindVoid {
		if ret != nil && ret.Type.Kind != KindVoid {
			params.dropReturn()
			return nil, Errorf(ShouldReturnNothing, loc, "%s", proto.Signature())
		}
		return Void(), nil
	}
	if ret == nil || ret.Type.Kind == KindVoid {
		return nil, Errorf(MissingReturnedExpression, loc, "%s must return %v", proto.Signature(), proto.Return)
	}
	if !Compatible(proto.Return, ret.Value()) {
		params.dropReturn()
		return nil, Errorf(WrongFunctionCallReturnedType, loc, "%s must return %v, got %v", proto.Signature(), proto.Return, TypeOf(ret.Value()))
	}
	typ := proto.Return
	if typ.Kind == KindAny {
		typ = ret.Type
	}
	result := NewVariable(typ, true, ret.Value())
	ret.handOver()
	return result, nil
}
