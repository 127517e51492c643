// Copyright © 2018 The ELPS authors

package hop

import (
	"io"

	"github.com/OMTS/Hop/messenger"
	"github.com/go-logr/logr"
)

// Config is a function that configures a Session.
type Config func(s *Session) error

// DefaultMaxCallDepth is the call depth at which a Session fails with a
// StackOverflow error unless configured otherwise.
const DefaultMaxCallDepth = 10000

// WithDebug returns a Config that makes a Session attach source positions to
// parsed nodes and to the errors it returns.
func WithDebug(debug bool) Config {
	return func(s *Session) error {
		s.Debug = debug
		return nil
	}
}

// WithMessenger returns a Config that makes a Session post its stdout and
// export messages to p.
func WithMessenger(p messenger.Poster) Config {
	return func(s *Session) error {
		s.Messenger = p
		return nil
	}
}

// WithReader returns a Config that makes a Session use r to parse scripts.
// There is no default Reader for a Session.
func WithReader(r Reader) Config {
	return func(s *Session) error {
		s.Reader = r
		return nil
	}
}

// WithModuleResolver returns a Config that makes a Session load the script
// modules it cannot find among its native modules through r.
func WithModuleResolver(r ModuleResolver) Config {
	return func(s *Session) error {
		s.Resolver = r
		return nil
	}
}

// WithNativeModule returns a Config that makes mod importable by its name.
func WithNativeModule(mod *Module) Config {
	return func(s *Session) error {
		s.natives[mod.Name] = mod
		return nil
	}
}

// WithNativeClass returns a Config that declares cls in the global scope.
func WithNativeClass(cls *Class) Config {
	return func(s *Session) error {
		return s.DeclareClass(cls)
	}
}

// WithProfiler returns a Config that reports closure invocations to p.
func WithProfiler(p Profiler) Config {
	return func(s *Session) error {
		s.Profiler = p
		return nil
	}
}

// WithLogger returns a Config that makes a Session log its lifecycle to
// logger.  Sessions discard their logs by default.
func WithLogger(logger logr.Logger) Config {
	return func(s *Session) error {
		s.Logger = logger
		return nil
	}
}

// WithStdout returns a Config that makes a Session write printed lines to w
// instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(s *Session) error {
		s.Stdout = w
		return nil
	}
}

// WithConstant returns a Config that declares a global constant.
func WithConstant(name string, v Value) Config {
	return func(s *Session) error {
		return s.global.Declare(NameID(name), name, Literal(v).Bind(TypeOf(v), true))
	}
}

// WithDefinition returns a Config that evaluates expr in the global scope and
// declares its value as the global constant name.
func WithDefinition(name string, expr Node) Config {
	return func(s *Session) error {
		sym, err := expr.Evaluate(s.global, s)
		if err != nil {
			return err
		}
		v, ok := sym.(*Variable)
		if !ok || v.Value() == nil {
			return Errorf(UndefinedType, expr.Loc(), "cannot infer the type of %s", name)
		}
		typ := v.Type
		if typ.Kind == KindAny {
			typ = TypeOf(v.Value())
		}
		return s.global.Declare(NameID(name), name, v.Bind(typ, true))
	}
}

// WithMaxCallDepth returns a Config that makes a Session fail with a
// StackOverflow error when more than n calls are nested.
func WithMaxCallDepth(n int) Config {
	return func(s *Session) error {
		s.Stack.MaxHeight = n
		return nil
	}
}

// WithConfigs combines configs into one Config applied in order.
func WithConfigs(configs ...Config) Config {
	return func(s *Session) error {
		for _, config := range configs {
			if err := config(s); err != nil {
				return err
			}
		}
		return nil
	}
}
