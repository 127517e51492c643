// Copyright © 2018 The ELPS authors

package hop

import "fmt"

// ArrayStorageName is the hidden instance property holding the host storage
// of Array instances.
const ArrayStorageName = "__array__"

// Class is a user defined or native object type.  Static properties, static
// methods and inner classes live in Scope.  Instance methods are stored on
// the class and dispatched by signature.
type Class struct {
	Name  string
	ID    int64
	Super *Class
	Scope *Scope
	Doc   string

	typ        Type
	properties []*VarDecl
	propNames  map[ID]bool
	methods    map[ID]*Closure
	natives    []func(inst *Instance)
}

// NewNativeClass returns a class implemented by the host.  A zero typ gives
// the class its own class type when it is registered with a Session.  The
// Array class uses TypeArray so that the Array type name denotes it.
func NewNativeClass(name string, typ Type) *Class {
	return &Class{
		Name:      name,
		typ:       typ,
		Scope:     NewScope(nil, name),
		propNames: make(map[ID]bool),
		methods:   make(map[ID]*Closure),
	}
}

func newClass(name string, id int64, super *Class, parent *Scope) *Class {
	return &Class{
		Name:      name,
		ID:        id,
		Super:     super,
		Scope:     NewScope(parent, name),
		typ:       ClassType(name, id),
		propNames: make(map[ID]bool),
		methods:   make(map[ID]*Closure),
	}
}

// Type returns the type of the instances of c.
func (c *Class) Type() Type {
	return c.typ
}

func (c *Class) String() string {
	return fmt.Sprintf("class %s", c.Name)
}

// IsSubclass reports whether c is typ's class or one of its subclasses.
func (c *Class) IsSubclass(typ Type) bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls.typ.Equal(typ) {
			return true
		}
	}
	return false
}

// Ancestor returns the class of typ in the superclass chain of c.
func (c *Class) Ancestor(typ Type) *Class {
	for cls := c; cls != nil; cls = cls.Super {
		if cls.typ.Equal(typ) {
			return cls
		}
	}
	return nil
}

// chain returns the classes from the root of the hierarchy down to c.
func (c *Class) chain() []*Class {
	var classes []*Class
	for cls := c; cls != nil; cls = cls.Super {
		classes = append([]*Class{cls}, classes...)
	}
	return classes
}

// DefineMethod adds an instance method to c.
func (c *Class) DefineMethod(fn *Closure) error {
	id := fn.MethodID()
	if _, ok := c.methods[id]; ok {
		return Errorf(InvalidRedeclaration, fn.Source, "%s.%s", c.Name, fn.Prototype.Signature())
	}
	fn.Class = c
	c.methods[id] = fn
	return nil
}

// DefineStatic adds a static method to c.
func (c *Class) DefineStatic(fn *Closure) error {
	fn.Class = c
	fn.Static = true
	return c.Scope.Declare(fn.ID(), fn.Prototype.Signature(), fn)
}

// OnInit registers a host initializer run on every new instance of c after
// the instance properties are declared.
func (c *Class) OnInit(fn func(inst *Instance)) {
	c.natives = append(c.natives, fn)
}

func (c *Class) addProperty(decl *VarDecl) error {
	id := NameID(decl.Name)
	for cls := c; cls != nil; cls = cls.Super {
		if cls.propNames[id] {
			return Errorf(InvalidRedeclaration, decl.Source, "%s.%s", c.Name, decl.Name)
		}
	}
	c.propNames[id] = true
	c.properties = append(c.properties, decl)
	return nil
}

// LookupMethod resolves an instance method by its MethodID, starting at c
// and walking up the superclass chain.
func (c *Class) LookupMethod(id ID) *Closure {
	for cls := c; cls != nil; cls = cls.Super {
		if fn, ok := cls.methods[id]; ok {
			return fn
		}
	}
	return nil
}

// Methods returns the instance methods declared on c itself.
func (c *Class) Methods() []*Closure {
	fns := make([]*Closure, 0, len(c.methods))
	for _, fn := range c.methods {
		fns = append(fns, fn)
	}
	return fns
}

// LookupClassMember resolves a static member of c or of its superclasses.
func (c *Class) LookupClassMember(id ID) (Symbol, bool) {
	for cls := c; cls != nil; cls = cls.Super {
		if sym, ok := cls.Scope.LookupLocal(id); ok {
			return sym, true
		}
	}
	return nil, false
}

// declaresProperty reports whether name is an instance or static property of
// c or of one of its superclasses.
func (c *Class) declaresProperty(id ID) bool {
	for cls := c; cls != nil; cls = cls.Super {
		if cls.propNames[id] {
			return true
		}
		if sym, ok := cls.Scope.LookupLocal(id); ok {
			if _, ok := sym.(*Variable); ok {
				return true
			}
		}
	}
	return false
}

// construct creates an instance of c.  Property declarations are evaluated
// from the root class down to c, inside the instance scope, followed by host
// initializers in the same order.
func (c *Class) construct(s *Session) (*Instance, error) {
	inst := &Instance{
		Class: c,
		Scope: NewScope(c.Scope, c.Name),
	}
	chain := c.chain()
	for _, cls := range chain {
		for _, decl := range cls.properties {
			if err := decl.declare(inst.Scope, s); err != nil {
				return nil, err
			}
		}
	}
	for _, cls := range chain {
		for _, fn := range cls.natives {
			fn(inst)
		}
	}
	return inst, nil
}

// Instance is an object of a Class.  Its property variables live in Scope.
type Instance struct {
	Class *Class
	Scope *Scope

	refCount int64
	cleared  bool
}

func (*Instance) hopValue() {}

// RefCount returns the number of bound variables referencing inst.
func (inst *Instance) RefCount() int64 {
	return inst.refCount
}

// Cleared reports whether the properties of inst were released.
func (inst *Instance) Cleared() bool {
	return inst.cleared
}

// Retain records a new bound reference to inst.
func (inst *Instance) Retain() {
	inst.refCount++
}

// Release drops a bound reference to inst.  When no reference is left the
// property scope is cleared, which releases the instances it references in
// turn and breaks reference cycles.
func (inst *Instance) Release() {
	inst.refCount--
	if inst.refCount > 0 || inst.cleared {
		return
	}
	inst.cleared = true
	inst.Scope.clear()
}

// IsInstance reports whether inst is an instance of typ, directly or through
// inheritance.
func (inst *Instance) IsInstance(typ Type) bool {
	return inst.Class.IsSubclass(typ)
}

// Property returns the property variable name of inst.
func (inst *Instance) Property(name string) (*Variable, bool) {
	sym, ok := inst.Scope.LookupLocal(NameID(name))
	if !ok {
		return nil, false
	}
	v, ok := sym.(*Variable)
	return v, ok
}

// Snapshot returns a detached copy of v.  Instances and arrays are copied
// deeply, so the copy keeps its properties when the original is later
// assigned or cleared.  Copies own no references and are never released.
func Snapshot(v Value) Value {
	return snapshot(v, make(map[*Instance]*Instance))
}

func snapshot(v Value, seen map[*Instance]*Instance) Value {
	switch v := v.(type) {
	case *Instance:
		if cp, ok := seen[v]; ok {
			return cp
		}
		cp := &Instance{Class: v.Class, Scope: NewScope(v.Scope.parent, v.Scope.Name), cleared: v.cleared}
		seen[v] = cp
		for id, sym := range v.Scope.symbols {
			if prop, ok := sym.(*Variable); ok {
				sym = detach(prop, seen)
			}
			cp.Scope.Put(id, v.Scope.names[id], sym)
		}
		return cp
	case *Array:
		cp := &Array{Elements: make([]*Variable, len(v.Elements))}
		for i, elem := range v.Elements {
			cp.Elements[i] = detach(elem, seen)
		}
		return cp
	default:
		return v
	}
}

func detach(v *Variable, seen map[*Instance]*Instance) *Variable {
	return &Variable{
		Type:              v.Type,
		IsConstant:        v.IsConstant,
		AllowTypeWidening: v.AllowTypeWidening,
		value:             snapshot(v.value, seen),
	}
}

// ArrayStorage returns the host storage of an Array instance, nil for other
// instances.
func (inst *Instance) ArrayStorage() *Array {
	v, ok := inst.Property(ArrayStorageName)
	if !ok {
		return nil
	}
	arr, _ := v.Value().(*Array)
	return arr
}
