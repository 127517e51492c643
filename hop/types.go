// Copyright © 2018 The ELPS authors

package hop

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TypeKind is the tag of a Type.
type TypeKind uint8

const (
	KindNil TypeKind = iota
	KindVoid
	KindAny
	KindInteger
	KindReal
	KindBoolean
	KindString
	KindArray
	KindClass
)

// Type is an identity type.  Basic types are identified by their kind alone
// while class types also carry the unique id of the declaring class.
type Type struct {
	Kind    TypeKind
	ClassID int64
	name    string
}

var (
	TypeNil     = Type{Kind: KindNil}
	TypeVoid    = Type{Kind: KindVoid}
	TypeAny     = Type{Kind: KindAny}
	TypeInteger = Type{Kind: KindInteger}
	TypeReal    = Type{Kind: KindReal}
	TypeBoolean = Type{Kind: KindBoolean}
	TypeString  = Type{Kind: KindString}
	TypeArray   = Type{Kind: KindArray}
)

var basicTypeNames = map[string]Type{
	"Int":     TypeInteger,
	"Integer": TypeInteger,
	"Real":    TypeReal,
	"Bool":    TypeBoolean,
	"Boolean": TypeBoolean,
	"String":  TypeString,
	"Any":     TypeAny,
	"Array":   TypeArray,
	"Void":    TypeVoid,
}

// BasicType returns the basic type named name.
func BasicType(name string) (Type, bool) {
	typ, ok := basicTypeNames[name]
	return typ, ok
}

// ClassType returns the type of instances of the class with the given id.
func ClassType(name string, id int64) Type {
	return Type{Kind: KindClass, ClassID: id, name: name}
}

// Equal reports whether t and other denote the same type.
func (t Type) Equal(other Type) bool {
	return t.Kind == other.Kind && t.ClassID == other.ClassID
}

func (t Type) String() string {
	switch t.Kind {
	case KindNil:
		return "Nil"
	case KindVoid:
		return "Void"
	case KindAny:
		return "Any"
	case KindInteger:
		return "Int"
	case KindReal:
		return "Real"
	case KindBoolean:
		return "Bool"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	default:
		if t.name != "" {
			return t.name
		}
		return fmt.Sprintf("class#%d", t.ClassID)
	}
}

// Value is a hop runtime value.  A nil Value is the hop nil.
type Value interface {
	hopValue()
}

type (
	Int    int64
	Real   float64
	Bool   bool
	String string
)

func (Int) hopValue()    {}
func (Real) hopValue()   {}
func (Bool) hopValue()   {}
func (String) hopValue() {}

// Array is the host storage backing instances of the Array class.  Elements
// are bound variables and participate in instance reference counting.
type Array struct {
	Elements []*Variable
}

func (*Array) hopValue() {}

// Append binds a copy of v at the end of arr.
func (arr *Array) Append(v *Variable) {
	arr.Elements = append(arr.Elements, bindElement(v))
}

// Insert binds a copy of v at index i, shifting following elements.
func (arr *Array) Insert(i int, v *Variable) {
	arr.Elements = append(arr.Elements, nil)
	copy(arr.Elements[i+1:], arr.Elements[i:])
	arr.Elements[i] = bindElement(v)
}

// Remove releases and removes the element at index i.
func (arr *Array) Remove(i int) {
	arr.Elements[i].SetValue(nil)
	copy(arr.Elements[i:], arr.Elements[i+1:])
	arr.Elements[len(arr.Elements)-1] = nil
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
}

// Set replaces the value at index i.  Elements accept values of any type.
func (arr *Array) Set(i int, v *Variable) {
	elem := arr.Elements[i]
	elem.SetValue(v.Value())
	elem.Type = v.Type
}

// Clear releases every element.
func (arr *Array) Clear() {
	for _, elem := range arr.Elements {
		elem.SetValue(nil)
	}
	arr.Elements = nil
}

func bindElement(v *Variable) *Variable {
	elem := NewVariable(v.Type, false, nil)
	elem.AllowTypeWidening = true
	elem.SetValue(v.Value())
	return elem
}

// TypeOf returns the runtime type of v.
func TypeOf(v Value) Type {
	switch v := v.(type) {
	case nil:
		return TypeNil
	case Int:
		return TypeInteger
	case Real:
		return TypeReal
	case Bool:
		return TypeBoolean
	case String:
		return TypeString
	case *Instance:
		return v.Class.Type()
	case *Array:
		return TypeAny
	default:
		return TypeAny
	}
}

// Compatible reports whether a value may be stored where declared is
// expected.  Any accepts everything, nil is accepted by every type and an
// instance is accepted by the types of its class and its superclasses.
func Compatible(declared Type, v Value) bool {
	if declared.Kind == KindAny || v == nil {
		return true
	}
	if inst, ok := v.(*Instance); ok {
		return inst.IsInstance(declared)
	}
	return TypeOf(v).Equal(declared)
}

// FormatValue renders v the way Sys.string does.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Real:
		return formatReal(float64(v))
	case Bool:
		return strconv.FormatBool(bool(v))
	case String:
		return string(v)
	case *Instance:
		if arr := v.ArrayStorage(); arr != nil {
			return formatArray(arr)
		}
		return fmt.Sprintf("<%s instance>", v.Class.Name)
	case *Array:
		return formatArray(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatArray(arr *Array) string {
	var b strings.Builder
	b.WriteString("[")
	for i, elem := range arr.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		if s, ok := elem.Value().(String); ok {
			b.WriteString(strconv.Quote(string(s)))
			continue
		}
		b.WriteString(FormatValue(elem.Value()))
	}
	b.WriteString("]")
	return b.String()
}

// formatReal always shows a fractional part so that reals stay reals when
// printed, 3.0 rather than 3.
func formatReal(f float64) string {
	format := byte('g')
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
