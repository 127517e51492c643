// Copyright © 2018 The ELPS authors

package hop

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/OMTS/Hop/parser/token"
)

// ErrorKind identifies the cause of a failed run.
type ErrorKind int

// Lexer errors.
const (
	UnknownError ErrorKind = iota
	IllegalContent
)

// Parser errors.
const (
	ExpressionError ErrorKind = iota + 100
	PrototypeError
)

// Interpreter errors.
const (
	UnresolvedIdentifier ErrorKind = iota + 200
	InvalidRedeclaration
	UndefinedType
	UndefinedVariable
	ExpressionEvaluationError
	ExpressionTypeMismatch
	BinaryOperatorTypeMismatch
	ZeroDivisionAttempt
	ForbiddenAssignment
	MissingConstantInitialization
	SubscriptIndexOutOfRange
	AccessorMemberError
	AccessorOwnerError
	ClassMemberNotDeclared
	UseOfSuperOutsideAClassMember
	UseOfSuperInRootClassMember
	ShouldReturnNothing
	MissingReturnedExpression
	WrongFunctionCallReturnedType
	NativeFunctionCallParameterError
	StackOverflow
)

// Importer errors.
const (
	ModuleNotFound ErrorKind = iota + 300
)

var errorKindStrings = map[ErrorKind]string{
	UnknownError:                     "unknown lexing error",
	IllegalContent:                   "illegal content",
	ExpressionError:                  "expression error",
	PrototypeError:                   "prototype error",
	UnresolvedIdentifier:             "unresolved identifier",
	InvalidRedeclaration:             "invalid redeclaration",
	UndefinedType:                    "undefined type",
	UndefinedVariable:                "undefined variable",
	ExpressionEvaluationError:        "expression evaluation error",
	ExpressionTypeMismatch:           "expression type mismatch",
	BinaryOperatorTypeMismatch:       "binary operator type mismatch",
	ZeroDivisionAttempt:              "zero division attempt",
	ForbiddenAssignment:              "forbidden assignment",
	MissingConstantInitialization:    "missing constant initialization",
	SubscriptIndexOutOfRange:         "subscript index out of range",
	AccessorMemberError:              "accessor member error",
	AccessorOwnerError:               "accessor owner error",
	ClassMemberNotDeclared:           "class member not declared",
	UseOfSuperOutsideAClassMember:    "use of super outside a class member",
	UseOfSuperInRootClassMember:      "use of super in root class member",
	ShouldReturnNothing:              "should return nothing",
	MissingReturnedExpression:        "missing returned expression",
	WrongFunctionCallReturnedType:    "wrong function call returned type",
	NativeFunctionCallParameterError: "native function call parameter error",
	StackOverflow:                    "stack overflow",
	ModuleNotFound:                   "module not found",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// ErrorFamily groups error kinds by the stage that reports them.
type ErrorFamily int

const (
	LexFamily ErrorFamily = iota
	ParseFamily
	InterpreterFamily
	ImporterFamily
)

func (f ErrorFamily) String() string {
	switch f {
	case LexFamily:
		return "lex"
	case ParseFamily:
		return "parse"
	case ImporterFamily:
		return "import"
	default:
		return "runtime"
	}
}

// Family returns the stage that reports errors of kind k.
func (k ErrorKind) Family() ErrorFamily {
	switch {
	case k < ExpressionError:
		return LexFamily
	case k < UnresolvedIdentifier:
		return ParseFamily
	case k < ModuleNotFound:
		return InterpreterFamily
	default:
		return ImporterFamily
	}
}

// Error is the single error type returned by a Session.  Source is only
// populated when the session runs in debug mode.  Stack holds the hop call
// stack at the point of failure when the failure happened inside a function.
type Error struct {
	Kind   ErrorKind
	Source *token.Location
	Msg    string
	Err    error
	Stack  *CallStack
}

// Errorf returns an error of the given kind with a formatted detail message.
func Errorf(kind ErrorKind, loc *token.Location, format string, v ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Source: loc,
		Msg:    fmt.Sprintf(format, v...),
	}
}

// NewError returns an error of the given kind without a detail message.
func NewError(kind ErrorKind, loc *token.Location) *Error {
	return &Error{Kind: kind, Source: loc}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Message())
	}
	return e.Message()
}

// Message returns the error text without the source location.
func (e *Error) Message() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Line returns the 1-based line of the failure or 0 when unknown.
func (e *Error) Line() int {
	if e.Source == nil {
		return 0
	}
	return e.Source.Line
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, hop.NewError(hop.ZeroDivisionAttempt, nil)) holds for any
// zero division failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// WriteTrace writes the error and a stack trace to w
func (e *Error) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	n, err := bw.WriteString(e.Error() + "\n")
	if err != nil {
		return n, err
	}
	if e.Stack != nil {
		m, err := e.Stack.DebugPrint(bw)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// KindOf returns the kind of err if it wraps an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Kind, true
	}
	return 0, false
}

// locError attaches loc to err when err is an *Error without a location.
func locError(err error, loc *token.Location) error {
	var herr *Error
	if loc != nil && errors.As(err, &herr) && herr.Source == nil {
		herr.Source = loc
	}
	return err
}
