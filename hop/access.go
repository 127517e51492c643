// Copyright © 2018 The ELPS authors

package hop

// evalAccess evaluates lhs.rhs.  The right operand is an identifier or a
// call and is resolved according to the kind of symbol the left operand
// evaluates to.
func (e *BinaryExpr) evalAccess(scope *Scope, s *Session) (Symbol, error) {
	if sup, ok := e.LHS.(*SuperExpr); ok {
		return e.accessSuper(sup, scope, s)
	}
	owner, err := e.LHS.Evaluate(scope, s)
	if err != nil {
		return nil, err
	}
	switch owner := owner.(type) {
	case *Module:
		return e.accessModule(owner, scope, s)
	case *Class:
		return e.accessClass(owner, scope, s)
	case *Variable:
		switch v := owner.Value().(type) {
		case *Instance:
			return e.accessInstance(owner.Type, v, v.Class, scope, s)
		case nil:
			return nil, Errorf(UndefinedVariable, e.Source, "%v is nil", e.LHS)
		default:
			return nil, Errorf(AccessorOwnerError, e.Source, "%v has no members", TypeOf(v))
		}
	default:
		return nil, Errorf(AccessorOwnerError, e.Source, "%v has no members", e.LHS)
	}
}

func (e *BinaryExpr) accessModule(mod *Module, scope *Scope, s *Session) (Symbol, error) {
	switch rhs := e.RHS.(type) {
	case *IdentifierExpr:
		sym, ok := mod.Scope.LookupLocal(NameID(rhs.Name))
		if !ok {
			return nil, Errorf(UnresolvedIdentifier, e.Source, "%s.%s", mod.Name, rhs.Name)
		}
		return sym, nil
	case *CallExpr:
		if sym, ok := mod.Scope.LookupLocal(rhs.FunctionID()); ok {
			if fn, ok := sym.(*Closure); ok {
				return rhs.call(fn, nil, scope, s)
			}
		}
		if sym, ok := mod.Scope.LookupLocal(NameID(rhs.Name)); ok {
			if cls, ok := sym.(*Class); ok {
				return rhs.construct(cls, s)
			}
		}
		return nil, Errorf(UnresolvedIdentifier, rhs.Source, "%s.%s", mod.Name, Signature(rhs.Name, rhs.Labels()))
	default:
		return nil, Errorf(AccessorMemberError, e.Source, "%v", e.RHS)
	}
}

// accessClass resolves static members.  Identifiers must denote a static
// property or an inner class, calls a static method or an inner class
// initializer.
func (e *BinaryExpr) accessClass(cls *Class, scope *Scope, s *Session) (Symbol, error) {
	switch rhs := e.RHS.(type) {
	case *IdentifierExpr:
		sym, ok := cls.LookupClassMember(NameID(rhs.Name))
		if ok {
			switch sym.(type) {
			case *Variable, *Class:
				return sym, nil
			}
		}
		return nil, Errorf(UnresolvedIdentifier, e.Source, "%s.%s", cls.Name, rhs.Name)
	case *CallExpr:
		if sym, ok := cls.LookupClassMember(rhs.FunctionID()); ok {
			if fn, ok := sym.(*Closure); ok {
				return rhs.call(fn, nil, scope, s)
			}
		}
		if sym, ok := cls.LookupClassMember(NameID(rhs.Name)); ok {
			if inner, ok := sym.(*Class); ok {
				return rhs.construct(inner, s)
			}
		}
		return nil, Errorf(UnresolvedIdentifier, rhs.Source, "%s.%s", cls.Name, Signature(rhs.Name, rhs.Labels()))
	default:
		return nil, Errorf(AccessorMemberError, e.Source, "%v", e.RHS)
	}
}

// accessInstance resolves members of inst.  When the reference is declared
// with a superclass type, only the members that class declares are visible
// even though methods still dispatch on the runtime class.  dispatch is the
// class method lookup starts from.
func (e *BinaryExpr) accessInstance(declared Type, inst *Instance, dispatch *Class, scope *Scope, s *Session) (Symbol, error) {
	var restrict *Class
	if declared.Kind != KindAny && !declared.Equal(inst.Class.Type()) {
		restrict = inst.Class.Ancestor(declared)
		if restrict == nil {
			return nil, Errorf(ExpressionEvaluationError, e.Source, "%v is not an instance of %v", inst.Class.Name, declared)
		}
	}
	switch rhs := e.RHS.(type) {
	case *IdentifierExpr:
		id := NameID(rhs.Name)
		if restrict != nil && !restrict.declaresProperty(id) {
			return nil, Errorf(ClassMemberNotDeclared, e.Source, "%s.%s", restrict.Name, rhs.Name)
		}
		if sym, ok := inst.Scope.LookupLocal(id); ok {
			if _, ok := sym.(*Variable); ok {
				return sym, nil
			}
		}
		if sym, ok := inst.Class.LookupClassMember(id); ok {
			if _, ok := sym.(*Variable); ok {
				return sym, nil
			}
		}
		return nil, Errorf(AccessorMemberError, e.Source, "%s has no property %s", inst.Class.Name, rhs.Name)
	case *CallExpr:
		id := rhs.MethodID()
		if restrict != nil && restrict.LookupMethod(id) == nil {
			return nil, Errorf(ClassMemberNotDeclared, e.Source, "%s.%s", restrict.Name, Signature(rhs.Name, rhs.Labels()))
		}
		fn := dispatch.LookupMethod(id)
		if fn == nil {
			return nil, Errorf(AccessorMemberError, rhs.Source, "%s has no method %s", dispatch.Name, Signature(rhs.Name, rhs.Labels()))
		}
		return rhs.call(fn, inst, scope, s)
	default:
		return nil, Errorf(AccessorMemberError, e.Source, "%v", e.RHS)
	}
}

// accessSuper resolves super.rhs.  In instance methods the lookup starts at
// the superclass of the class declaring the method, in static methods super
// is the superclass itself.
func (e *BinaryExpr) accessSuper(sup *SuperExpr, scope *Scope, s *Session) (Symbol, error) {
	cls, static, err := sup.context(scope)
	if err != nil {
		return nil, err
	}
	if static {
		return e.accessClass(cls.Super, scope, s)
	}
	inst, err := sup.self(scope)
	if err != nil {
		return nil, err
	}
	return e.accessInstance(cls.Super.Type(), inst, cls.Super, scope, s)
}
