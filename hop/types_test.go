// Copyright © 2018 The ELPS authors

package hop

import (
	"errors"
	"fmt"
	"testing"

	"github.com/OMTS/Hop/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeIdentity(t *testing.T) {
	a := ClassType("A", 1)
	other := ClassType("A", 2)
	assert.True(t, a.Equal(ClassType("B", 1)))
	assert.False(t, a.Equal(other))
	assert.False(t, TypeInteger.Equal(TypeReal))
	assert.Equal(t, "A", a.String())
	assert.Equal(t, "class#3", Type{Kind: KindClass, ClassID: 3}.String())

	typ, ok := BasicType("Integer")
	assert.True(t, ok)
	assert.Equal(t, TypeInteger, typ)
	_, ok = BasicType("Point")
	assert.False(t, ok)
}

func TestCompatible(t *testing.T) {
	base := newClass("Base", 1, nil, nil)
	derived := newClass("Derived", 2, base, nil)
	inst := &Instance{Class: derived, Scope: NewScope(nil, "")}

	assert.True(t, Compatible(TypeInteger, Int(1)))
	assert.True(t, Compatible(TypeInteger, nil))
	assert.True(t, Compatible(TypeAny, String("s")))
	assert.False(t, Compatible(TypeInteger, Real(1)))
	assert.True(t, Compatible(base.Type(), inst))
	assert.True(t, Compatible(derived.Type(), inst))
	assert.False(t, Compatible(derived.Type(), &Instance{Class: base}))
	assert.Same(t, base, derived.Ancestor(base.Type()))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{nil, "nil"},
		{Int(-3), "-3"},
		{Real(3), "3.0"},
		{Real(0.5), "0.5"},
		{Real(1e20), "1e+20"},
		{Bool(true), "true"},
		{String("a b"), "a b"},
		{&Array{Elements: []*Variable{Literal(Int(1)), Literal(String("x"))}}, `[1, "x"]`},
		{&Instance{Class: newClass("P", 1, nil, nil), Scope: NewScope(nil, "")}, "<P instance>"},
	}
	for i, test := range tests {
		assert.Equal(t, test.want, FormatValue(test.v), "test %d", i)
	}
}

func TestVariableRetain(t *testing.T) {
	inst := &Instance{Class: newClass("P", 1, nil, nil), Scope: NewScope(nil, "")}
	unbound := NewVariable(inst.Class.Type(), true, inst)
	assert.EqualValues(t, 0, inst.RefCount())

	a := unbound.Bind(inst.Class.Type(), false)
	b := a.Bind(TypeAny, false)
	assert.EqualValues(t, 2, inst.RefCount())

	a.SetValue(inst)
	assert.EqualValues(t, 2, inst.RefCount())
	assert.False(t, inst.Cleared())

	a.SetValue(nil)
	b.SetValue(Int(1))
	assert.True(t, inst.Cleared())
	assert.True(t, a.IsNil())
}

func TestScopeDeclare(t *testing.T) {
	parent := NewScope(nil, "parent")
	child := NewScope(parent, "child")
	require.NoError(t, parent.Declare(NameID("x"), "x", Literal(Int(1))))
	require.NoError(t, child.Declare(NameID("x"), "x", Literal(Int(2))))
	err := child.Declare(NameID("x"), "x", Literal(Int(3)))
	assert.True(t, errors.Is(err, NewError(InvalidRedeclaration, nil)))

	v, ok := child.LookupVariable("x")
	require.True(t, ok)
	assert.Equal(t, Int(2), v.Value())
	_, ok = child.LookupLocal(NameID("y"))
	assert.False(t, ok)

	require.NoError(t, child.Declare(NameID("b"), "b", Literal(Int(0))))
	var names []string
	child.Each(func(name string, sym Symbol) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"b", "x"}, names)
	assert.Equal(t, names, child.Names())
	assert.Same(t, parent, child.Parent())
}

func TestSignatures(t *testing.T) {
	assert.Equal(t, "insert(_:at:)", Signature("insert", []string{AnonymousLabel, "at"}))
	assert.Equal(t, "f()", Signature("f", nil))
	assert.NotEqual(t, FunctionID("f", []string{"_"}), FunctionID("f", []string{"x"}))
	assert.Equal(t, FunctionID("f", []string{SelfName, "_"}), MethodID("f", []string{"_"}))
}

func TestScopeSignals(t *testing.T) {
	loop := NewScope(nil, "loop")
	body := NewScope(loop, "")
	body.RequestBreak()
	assert.True(t, body.Interrupted())
	body.propagate()
	assert.True(t, loop.consumeLoopSignals())
	assert.False(t, loop.Interrupted())

	body = NewScope(loop, "")
	body.SetReturnValue(Literal(Int(1)))
	body.propagate()
	assert.Equal(t, Int(1), loop.ReturnValue().Value())
}

func TestErrorFormatting(t *testing.T) {
	loc := &token.Location{File: "main.hop", Line: 4, Col: 2}
	err := Errorf(ZeroDivisionAttempt, loc, "%d / 0", 1)
	assert.Equal(t, 4, err.Line())
	assert.Contains(t, err.Error(), "zero division attempt: 1 / 0")
	assert.Equal(t, "zero division attempt: 1 / 0", err.Message())

	wrapped := fmt.Errorf("module M: %w", err)
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ZeroDivisionAttempt, kind)
	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, LexFamily, IllegalContent.Family())
	assert.Equal(t, ParseFamily, PrototypeError.Family())
	assert.Equal(t, InterpreterFamily, StackOverflow.Family())
	assert.Equal(t, ImporterFamily, ModuleNotFound.Family())
	assert.Equal(t, "error(999)", ErrorKind(999).String())

	located := locError(NewError(UndefinedType, nil), loc)
	assert.Equal(t, 4, located.(*Error).Line())
}
