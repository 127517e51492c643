// Copyright © 2018 The ELPS authors

package hop

import "fmt"

// Symbol is anything that can be bound to an identifier in a Scope.  The set
// of symbols is closed: *Variable, *Class, *Module and *Closure.
type Symbol interface {
	symbol()
}

func (*Variable) symbol() {}
func (*Class) symbol()    {}
func (*Module) symbol()   {}
func (*Closure) symbol()  {}

// Variable is a typed value container.  Type is the declared type of the
// variable, which may differ from the runtime type of its value (Any, nil
// values, superclass references).
type Variable struct {
	Type       Type
	IsConstant bool
	// AllowTypeWidening lets assignments replace Type with the type of the
	// assigned value.  Container elements use it.
	AllowTypeWidening bool

	value Value
}

// NewVariable returns an unbound variable holding v.  Unbound variables are
// expression results and do not own a reference to an instance value.
func NewVariable(typ Type, constant bool, v Value) *Variable {
	return &Variable{
		Type:       typ,
		IsConstant: constant,
		value:      v,
	}
}

// Literal returns a constant unbound variable typed after v.
func Literal(v Value) *Variable {
	return NewVariable(TypeOf(v), true, v)
}

// Void returns the result of an expression that produces nothing.
func Void() *Variable {
	return NewVariable(TypeVoid, true, nil)
}

// Value returns the value stored in v.
func (v *Variable) Value() Value {
	return v.value
}

// SetValue stores val in v.  A replaced instance value is released, which
// clears its properties once no variable references it, and a stored instance
// value is retained.
func (v *Variable) SetValue(val Value) {
	old := v.value
	if inst, ok := val.(*Instance); ok {
		inst.Retain()
	}
	v.value = val
	if inst, ok := old.(*Instance); ok {
		inst.Release()
	}
}

// IsNil reports whether v holds the hop nil.
func (v *Variable) IsNil() bool {
	return v.value == nil
}

// Bind returns a new variable owning a reference to the value of v.
func (v *Variable) Bind(typ Type, constant bool) *Variable {
	b := NewVariable(typ, constant, nil)
	b.SetValue(v.value)
	return b
}

// retained returns a constant copy of v owning a reference to its instance
// value.  Return statements use it so that the returned instance outlives the
// scopes released while the function unwinds.
func (v *Variable) retained() *Variable {
	cp := v.Copy()
	if inst, ok := cp.value.(*Instance); ok {
		inst.Retain()
	}
	return cp
}

// handOver drops the reference taken by retained without clearing the
// instance.  The receiver of the value binds it again.
func (v *Variable) handOver() {
	if inst, ok := v.value.(*Instance); ok {
		inst.refCount--
	}
}

// Copy returns an unbound constant copy of v.
func (v *Variable) Copy() *Variable {
	return NewVariable(v.Type, true, v.value)
}

func (v *Variable) String() string {
	var prefix string
	if v.IsConstant {
		prefix = "const "
	}
	return fmt.Sprintf("%svariable<%v> %s", prefix, v.Type, FormatValue(v.value))
}

// Module is a named flat table of symbols, either provided by the host or
// loaded from another script.
type Module struct {
	Name  string
	Scope *Scope
	Doc   string
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:  name,
		Scope: NewScope(nil, name),
	}
}
