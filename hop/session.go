// Copyright © 2018 The ELPS authors

package hop

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OMTS/Hop/messenger"
	"github.com/go-logr/logr"
)

// Session is the top level run context of hop scripts.  Its global scope
// holds native classes and imported modules and is shared by every script
// the session runs.  A Session must not be used by concurrent goroutines;
// independent sessions share no state.
type Session struct {
	Debug     bool
	Messenger messenger.Poster
	Reader    Reader
	Resolver  ModuleResolver
	Profiler  Profiler
	Logger    logr.Logger
	Stdout    io.Writer
	Stack     *CallStack

	global     *Scope
	top        *Scope
	modules    map[string]*Module
	natives    map[string]*Module
	classes    map[int64]*Class
	arrayClass *Class
	numClass   int64
}

// NewSession returns a Session configured by configs, applied in order.
func NewSession(configs ...Config) (*Session, error) {
	s := &Session{
		Logger:  logr.Discard(),
		Stdout:  os.Stdout,
		Stack:   &CallStack{MaxHeight: DefaultMaxCallDepth},
		global:  NewScope(nil, "global"),
		modules: make(map[string]*Module),
		natives: make(map[string]*Module),
		classes: make(map[int64]*Class),
	}
	for _, config := range configs {
		if err := config(s); err != nil {
			return nil, err
		}
	}
	s.Logger.V(1).Info("session created", "debug", s.Debug, "native_modules", len(s.natives))
	return s, nil
}

// Global returns the global scope of s.
func (s *Session) Global() *Scope {
	return s.global
}

// Post sends a message to the messenger of s, if any.
func (s *Session) Post(topic messenger.Topic, id string, data interface{}) {
	if s.Messenger == nil {
		return
	}
	s.Messenger.Post(messenger.Message{Topic: topic, Identifier: id, Data: data})
}

// DeclareClass declares the native class cls in the global scope.
func (s *Session) DeclareClass(cls *Class) error {
	if cls.typ.Kind == KindNil {
		cls.ID = s.nextClassID()
		cls.typ = ClassType(cls.Name, cls.ID)
	}
	err := s.global.Declare(NameID(cls.Name), cls.Name, cls)
	if err != nil {
		return err
	}
	s.registerClass(cls)
	if cls.typ.Equal(TypeArray) {
		s.arrayClass = cls
	}
	return nil
}

// Class returns the class defining typ.
func (s *Session) Class(typ Type) (*Class, bool) {
	if typ.Equal(TypeArray) && s.arrayClass != nil {
		return s.arrayClass, true
	}
	cls, ok := s.classes[typ.ClassID]
	return cls, ok && typ.Kind == KindClass
}

func (s *Session) nextClassID() int64 {
	s.numClass++
	return s.numClass
}

func (s *Session) registerClass(cls *Class) {
	if cls.typ.Kind == KindClass {
		s.classes[cls.ID] = cls
	}
}

// NativeModules returns the importable native modules sorted by name.
func (s *Session) NativeModules() []*Module {
	mods := make([]*Module, 0, len(s.natives))
	for _, mod := range s.natives {
		mods = append(mods, mod)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods
}

// Parse parses script using the Reader of s.
func (s *Session) Parse(name string, script string) (*Program, error) {
	return s.read(name, strings.NewReader(script))
}

func (s *Session) read(name string, r io.Reader) (*Program, error) {
	if s.Reader == nil {
		return nil, errors.New("session has no reader")
	}
	return s.Reader.Read(name, r, s.Debug)
}

// Run parses and executes script in a new top level scope.
func (s *Session) Run(script string) error {
	prog, err := s.Parse("", script)
	if err != nil {
		return err
	}
	return s.Execute(prog)
}

// RunFile executes the script at path.  Imports that are not native modules
// resolve relative to the directory of path unless s has a Resolver.
func (s *Session) RunFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if s.Resolver == nil {
		s.Resolver = &FileSystemResolver{Root: filepath.Dir(path)}
	}
	prog, err := s.read(path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	return s.Execute(prog)
}

// Execute runs prog in a new top level scope whose parent is the global
// scope.
func (s *Session) Execute(prog *Program) error {
	scope := NewScope(s.global, "main")
	defer scope.release()
	s.Logger.V(1).Info("run program", "name", prog.Name, "statements", len(prog.Stmts))
	_, err := prog.Perform(scope, s)
	scope.dropReturn()
	return s.reset(err)
}

// Eval executes script in a top level scope that persists across calls and
// returns the value of its last statement, nil when the last statement is
// not an expression.
func (s *Session) Eval(script string) (*Variable, error) {
	prog, err := s.Parse("", script)
	if err != nil {
		return nil, err
	}
	if s.top == nil {
		s.top = NewScope(s.global, "main")
	}
	sym, err := prog.Perform(s.top, s)
	s.top.dropReturn()
	s.top.consumeLoopSignals()
	if err := s.reset(err); err != nil {
		return nil, err
	}
	v, _ := sym.(*Variable)
	return v, nil
}

// Top returns the persistent scope used by Eval.
func (s *Session) Top() *Scope {
	if s.top == nil {
		s.top = NewScope(s.global, "main")
	}
	return s.top
}

// reset clears the call stack after a failed run.
func (s *Session) reset(err error) error {
	s.Stack.Frames = s.Stack.Frames[:0]
	return err
}

// importModule returns the module at path, loading it the first time.
// Native modules take precedence over script modules.  Loaded modules are
// bound in the global scope under the last component of their path.
func (s *Session) importModule(path []string) (*Module, error) {
	key := strings.Join(path, ".")
	if mod, ok := s.modules[key]; ok {
		return mod, nil
	}
	mod, ok := s.natives[key]
	if !ok {
		var err error
		mod, err = s.loadModule(path, key)
		if err != nil {
			return nil, err
		}
	}
	s.modules[key] = mod
	name := path[len(path)-1]
	s.global.Put(NameID(name), name, mod)
	s.Logger.V(1).Info("imported module", "module", key, "native", ok)
	return mod, nil
}

func (s *Session) loadModule(path []string, key string) (*Module, error) {
	if s.Resolver == nil {
		return nil, Errorf(ModuleNotFound, nil, "%s", key)
	}
	loc, r, err := s.Resolver.Resolve(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Errorf(ModuleNotFound, nil, "%s", key)
	}
	if err != nil {
		return nil, &Error{Kind: ModuleNotFound, Msg: key, Err: err}
	}
	defer r.Close()
	prog, err := s.read(loc, r)
	if err != nil {
		return nil, err
	}
	mod := &Module{
		Name:  path[len(path)-1],
		Scope: NewScope(s.global, key),
	}
	// registered before running so that cyclic imports terminate
	s.modules[key] = mod
	_, err = prog.Perform(mod.Scope, s)
	mod.Scope.dropReturn()
	if err != nil {
		delete(s.modules, key)
		return nil, fmt.Errorf("module %s: %w", key, err)
	}
	return mod, nil
}
