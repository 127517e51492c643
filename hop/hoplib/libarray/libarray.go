// Copyright © 2018 The ELPS authors

// Package libarray implements the native Array class.
package libarray

import (
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hoputil"
)

// ClassName is the name the Array class is declared under.
const ClassName = "Array"

// NewClass returns the Array class.  Its instances keep their elements in a
// hidden hop.Array property set up by the implicit initializer.
func NewClass() (*hop.Class, error) {
	cls := hop.NewNativeClass(ClassName, hop.TypeArray)
	cls.Doc = `Ordered collection of values of any type.  Array literals such
		as [1, 2] construct Array instances.`
	cls.OnInit(func(inst *hop.Instance) {
		storage := hop.NewVariable(hop.TypeAny, true, &hop.Array{})
		inst.Scope.Put(hop.NameID(hop.ArrayStorageName), hop.ArrayStorageName, storage)
	})
	if err := hoputil.DefineMethods(cls, builtins); err != nil {
		return nil, err
	}
	return cls, nil
}

// LoadClass returns a Config declaring the Array class in a session.
func LoadClass() hop.Config {
	return func(s *hop.Session) error {
		cls, err := NewClass()
		if err != nil {
			return err
		}
		return s.DeclareClass(cls)
	}
}

var builtins = []*hoputil.Builtin{
	hoputil.FunctionDoc("append", hoputil.Args(hoputil.Arg("element", hop.TypeAny)), hop.TypeVoid, builtinAppend,
		`Adds element at the end of the array.`),
	hoputil.FunctionDoc("append", hoputil.Args(hoputil.Labeled("contentOf", hop.TypeArray)), hop.TypeVoid, builtinAppendContent,
		`Adds every element of another array at the end of the array.`),
	hoputil.FunctionDoc("setElement", hoputil.Args(hoputil.Arg("element", hop.TypeAny), hoputil.Labeled("at", hop.TypeInteger)), hop.TypeVoid, builtinSetElement,
		`Replaces the element at index at.`),
	hoputil.FunctionDoc("remove", hoputil.Args(hoputil.Labeled("at", hop.TypeInteger)), hop.TypeVoid, builtinRemove,
		`Removes the element at index at.`),
	hoputil.FunctionDoc("insert", hoputil.Args(hoputil.Arg("element", hop.TypeAny), hoputil.Labeled("at", hop.TypeInteger)), hop.TypeVoid, builtinInsert,
		`Inserts element before index at.  An index equal to the count
		appends.`),
	hoputil.FunctionDoc("first", nil, hop.TypeAny, builtinFirst,
		`Returns the first element, nil when the array is empty.`),
	hoputil.FunctionDoc("last", nil, hop.TypeAny, builtinLast,
		`Returns the last element, nil when the array is empty.`),
	hoputil.FunctionDoc("element", hoputil.Args(hoputil.Labeled("at", hop.TypeInteger)), hop.TypeAny, builtinElement,
		`Returns the element at index at.`),
	hoputil.FunctionDoc("isEmpty", nil, hop.TypeBoolean, builtinIsEmpty,
		`Returns true when the array has no element.`),
	hoputil.FunctionDoc("count", nil, hop.TypeInteger, builtinCount,
		`Returns the number of elements.`),
}

// storage returns the elements of the receiver.
func storage(ctx *hop.CallContext) (*hop.Array, error) {
	if ctx.Self == nil {
		return nil, ctx.Errorf(hop.NativeFunctionCallParameterError, "%s called without a receiver", ctx.Closure.QualifiedName())
	}
	arr := ctx.Self.ArrayStorage()
	if arr == nil {
		return nil, ctx.Errorf(hop.ExpressionEvaluationError, "%s instance has no array storage", ctx.Self.Class.Name)
	}
	return arr, nil
}

func index(ctx *hop.CallContext, v *hop.Variable, n int) (int, error) {
	i, ok := v.Value().(hop.Int)
	if !ok {
		return 0, ctx.Errorf(hop.NativeFunctionCallParameterError, "index must be Int")
	}
	if i < 0 || int(i) >= n {
		return 0, ctx.Errorf(hop.SubscriptIndexOutOfRange, "index %d out of range [0, %d)", i, n)
	}
	return int(i), nil
}

func builtinAppend(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	arr.Append(args[0])
	return nil, nil
}

func builtinAppendContent(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	other, ok := args[0].Value().(*hop.Instance)
	if !ok || other.ArrayStorage() == nil {
		return nil, ctx.Errorf(hop.NativeFunctionCallParameterError, "contentOf must be an Array")
	}
	// the source may be the receiver itself
	elems := append([]*hop.Variable(nil), other.ArrayStorage().Elements...)
	for _, elem := range elems {
		arr.Append(elem)
	}
	return nil, nil
}

func builtinSetElement(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	i, err := index(ctx, args[1], len(arr.Elements))
	if err != nil {
		return nil, err
	}
	arr.Set(i, args[0])
	return nil, nil
}

func builtinRemove(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	i, err := index(ctx, args[0], len(arr.Elements))
	if err != nil {
		return nil, err
	}
	arr.Remove(i)
	return nil, nil
}

func builtinInsert(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	i, err := index(ctx, args[1], len(arr.Elements)+1)
	if err != nil {
		return nil, err
	}
	arr.Insert(i, args[0])
	return nil, nil
}

func builtinFirst(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	if len(arr.Elements) == 0 {
		return hop.NewVariable(hop.TypeNil, true, nil), nil
	}
	return arr.Elements[0].Copy(), nil
}

func builtinLast(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	if len(arr.Elements) == 0 {
		return hop.NewVariable(hop.TypeNil, true, nil), nil
	}
	return arr.Elements[len(arr.Elements)-1].Copy(), nil
}

func builtinElement(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	i, err := index(ctx, args[0], len(arr.Elements))
	if err != nil {
		return nil, err
	}
	return arr.Elements[i].Copy(), nil
}

func builtinIsEmpty(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	return hop.Literal(hop.Bool(len(arr.Elements) == 0)), nil
}

func builtinCount(ctx *hop.CallContext, args []*hop.Variable) (*hop.Variable, error) {
	arr, err := storage(ctx)
	if err != nil {
		return nil, err
	}
	return hop.Literal(hop.Int(len(arr.Elements))), nil
}
