// Copyright © 2018 The ELPS authors

package hop

import (
	"hash/fnv"
	"sort"
	"strings"
)

// ID identifies a symbol inside a Scope.  Variables, classes and modules use
// the hash of their name, functions the hash of their signature.
type ID uint64

// NameID returns the id of a plain identifier.
func NameID(name string) ID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return ID(h.Sum64())
}

// AnonymousLabel is the label of an argument declared with a leading '#'.
const AnonymousLabel = "_"

// Signature renders a function signature, the name followed by the ordered
// argument labels, e.g. append(_:) or insert(_:at:).
func Signature(name string, labels []string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("(")
	for _, label := range labels {
		b.WriteString(label)
		b.WriteString(":")
	}
	b.WriteString(")")
	return b.String()
}

// FunctionID returns the overload identity of a function.  Argument types do
// not participate, only labels.
func FunctionID(name string, labels []string) ID {
	return NameID(Signature(name, labels))
}

// MethodID returns the identity of an instance method, whose signature starts
// with the implicit self argument.
func MethodID(name string, labels []string) ID {
	return FunctionID(name, append([]string{SelfName}, labels...))
}

// SelfName is the implicit first argument of instance methods.
const SelfName = "self"

// Scope is a chained symbol table for one block, loop body, invocation,
// class body or module.  It also carries the control flow signals of the
// block being executed.
type Scope struct {
	Name    string
	parent  *Scope
	symbols map[ID]Symbol
	names   map[ID]string

	// class and static are set on the parameter scope of methods and tell
	// super expressions which class body they belong to
	class  *Class
	static bool

	returnValue       *Variable
	breakRequested    bool
	continueRequested bool
}

// NewScope returns an empty scope whose lookups fall back to parent.
func NewScope(parent *Scope, name string) *Scope {
	return &Scope{
		Name:    name,
		parent:  parent,
		symbols: make(map[ID]Symbol),
		names:   make(map[ID]string),
	}
}

// Parent returns the enclosing scope, nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Lookup resolves id in s and its ancestors.
func (s *Scope) Lookup(id ID) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[id]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal resolves id in s only.
func (s *Scope) LookupLocal(id ID) (Symbol, bool) {
	sym, ok := s.symbols[id]
	return sym, ok
}

// LookupVariable resolves name to a variable in s and its ancestors.
func (s *Scope) LookupVariable(name string) (*Variable, bool) {
	sym, ok := s.Lookup(NameID(name))
	if !ok {
		return nil, false
	}
	v, ok := sym.(*Variable)
	return v, ok
}

// Declare binds sym to name in s.  Declaring a name already bound in s itself
// is an InvalidRedeclaration error.  Shadowing a name bound in an ancestor is
// allowed.
func (s *Scope) Declare(id ID, name string, sym Symbol) error {
	if _, ok := s.symbols[id]; ok {
		return Errorf(InvalidRedeclaration, nil, "%s", name)
	}
	s.Put(id, name, sym)
	return nil
}

// Put binds sym to id in s, replacing any existing binding.
func (s *Scope) Put(id ID, name string, sym Symbol) {
	s.symbols[id] = sym
	s.names[id] = name
}

// Len returns the number of symbols bound in s itself.
func (s *Scope) Len() int {
	return len(s.symbols)
}

// Names returns the sorted names bound in s itself.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.names))
	for _, name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every symbol bound in s itself in name order.
func (s *Scope) Each(fn func(name string, sym Symbol)) {
	ids := make([]ID, 0, len(s.symbols))
	for id := range s.symbols {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return s.names[ids[i]] < s.names[ids[j]] })
	for _, id := range ids {
		fn(s.names[id], s.symbols[id])
	}
}

// ReturnValue returns the value of a return statement executed in s.
func (s *Scope) ReturnValue() *Variable {
	return s.returnValue
}

// SetReturnValue signals that a return statement was executed in s.
func (s *Scope) SetReturnValue(v *Variable) {
	s.returnValue = v
}

// RequestBreak signals that a break statement was executed in s.
func (s *Scope) RequestBreak() {
	s.breakRequested = true
}

// RequestContinue signals that a continue statement was executed in s.
func (s *Scope) RequestContinue() {
	s.continueRequested = true
}

// Interrupted reports whether a return, break or continue is pending in s.
func (s *Scope) Interrupted() bool {
	return s.returnValue != nil || s.breakRequested || s.continueRequested
}

// propagate moves pending control flow signals of s to its parent.
func (s *Scope) propagate() {
	p := s.parent
	if p == nil {
		return
	}
	if s.returnValue != nil {
		p.returnValue = s.returnValue
	}
	p.breakRequested = p.breakRequested || s.breakRequested
	p.continueRequested = p.continueRequested || s.continueRequested
}

// consumeLoopSignals clears break and continue and reports whether a break
// was requested.
func (s *Scope) consumeLoopSignals() bool {
	brk := s.breakRequested
	s.breakRequested = false
	s.continueRequested = false
	return brk
}

// withParent returns a scope sharing the symbol table of s whose lookups
// fall back to parent instead of the parent of s.
func (s *Scope) withParent(parent *Scope) *Scope {
	return &Scope{
		Name:    s.Name,
		parent:  parent,
		symbols: s.symbols,
		names:   s.names,
	}
}

// release drops the references held by the variables of s when s goes out of
// scope.
func (s *Scope) release() {
	for _, sym := range s.symbols {
		v, ok := sym.(*Variable)
		if !ok {
			continue
		}
		if inst, ok := v.value.(*Instance); ok {
			inst.Release()
		}
	}
}

// dropReturn releases a pending return value nobody receives.
func (s *Scope) dropReturn() {
	if s.returnValue == nil {
		return
	}
	if inst, ok := s.returnValue.value.(*Instance); ok {
		inst.Release()
	}
	s.returnValue = nil
}

// clear sets every variable of s to nil.
func (s *Scope) clear() {
	for _, sym := range s.symbols {
		if v, ok := sym.(*Variable); ok {
			if arr, ok := v.value.(*Array); ok {
				arr.Clear()
			}
			v.SetValue(nil)
		}
	}
}
