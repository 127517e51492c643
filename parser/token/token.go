// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Token is a single lexical element of a hop script.  For string literals
// Text holds the literal contents without the enclosing quotes and with escape
// sequences preserved verbatim.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	switch tok.Type {
	case IDENT, INT, REAL, BOOL:
		return fmt.Sprintf("%v(%s)", tok.Type, tok.Text)
	case STRING, COMMENT:
		return fmt.Sprintf("%v(%q)", tok.Type, tok.Text)
	default:
		return tok.Type.String()
	}
}

type Type uint

// Type constants used by the hop lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF
	LF
	COMMENT

	// Literals
	IDENT
	INT
	REAL
	BOOL
	STRING

	// Punctuation
	HASH
	COLON
	COMMA
	DOT
	BRACE_L
	BRACE_R
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R

	// Operators
	ASSIGN
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	LT
	GT
	LE
	GE
	EQ
	NE
	AND
	OR
	NOT
	TILDE
	ARROW

	keywordBeg
	IMPORT
	FUNC
	RETURN
	BREAK
	CONTINUE
	IF
	ELSE
	FOR
	IN
	TO
	STEP
	WHILE
	VAR
	CONST
	CLASS
	STATIC
	SUPER
	NIL
	keywordEnd

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:    "invalid",
	ERROR:      "error",
	EOF:        "EOF",
	LF:         "LF",
	COMMENT:    "comment",
	IDENT:      "identifier",
	INT:        "integer",
	REAL:       "real",
	BOOL:       "boolean",
	STRING:     "string",
	HASH:       "#",
	COLON:      ":",
	COMMA:      ",",
	DOT:        ".",
	BRACE_L:    "{",
	BRACE_R:    "}",
	PAREN_L:    "(",
	PAREN_R:    ")",
	BRACKET_L:  "[",
	BRACKET_R:  "]",
	ASSIGN:     "=",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
	LT:         "<",
	GT:         ">",
	LE:         "<=",
	GE:         ">=",
	EQ:         "==",
	NE:         "!=",
	AND:        "&&",
	OR:         "||",
	NOT:        "!",
	TILDE:      "~",
	ARROW:      "->",
	keywordBeg: "keyword-begin",
	IMPORT:     "import",
	FUNC:       "func",
	RETURN:     "return",
	BREAK:      "break",
	CONTINUE:   "continue",
	IF:         "if",
	ELSE:       "else",
	FOR:        "for",
	IN:         "in",
	TO:         "to",
	STEP:       "step",
	WHILE:      "while",
	VAR:        "var",
	CONST:      "const",
	CLASS:      "class",
	STATIC:     "static",
	SUPER:      "super",
	NIL:        "nil",
	keywordEnd: "keyword-end",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsKeyword reports whether typ is a reserved word.
func (typ Type) IsKeyword() bool {
	return keywordBeg < typ && typ < keywordEnd
}

var keywords map[string]Type

func init() {
	keywords = make(map[string]Type, keywordEnd-keywordBeg)
	for typ := keywordBeg + 1; typ < keywordEnd; typ++ {
		keywords[typeStrings[typ]] = typ
	}
}

// Lookup classifies an identifier.  Reserved words map to their keyword type,
// the words true and false map to BOOL and everything else is an IDENT.
func Lookup(ident string) Type {
	if typ, ok := keywords[ident]; ok {
		return typ
	}
	if ident == "true" || ident == "false" {
		return BOOL
	}
	return IDENT
}

// Binary operator precedences.  Higher binds tighter.
const (
	PrecedenceAssign   = 10
	PrecedenceLogical  = 20
	PrecedenceEquality = 30
	PrecedenceCompare  = 40
	PrecedenceAdditive = 50
	PrecedenceMultiply = 60
	PrecedenceDot      = 70
)

// Precedence returns the binding power of typ as a binary operator, or -1
// when typ is not a binary operator.
func Precedence(typ Type) int {
	switch typ {
	case ASSIGN:
		return PrecedenceAssign
	case AND, OR:
		return PrecedenceLogical
	case EQ, NE:
		return PrecedenceEquality
	case LT, GT, LE, GE:
		return PrecedenceCompare
	case PLUS, MINUS:
		return PrecedenceAdditive
	case STAR, SLASH, PERCENT:
		return PrecedenceMultiply
	case DOT:
		return PrecedenceDot
	default:
		return -1
	}
}

// RightAssociative reports whether a chain of typ operators groups to the
// right.
func RightAssociative(typ Type) bool {
	return typ == ASSIGN
}

type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int    // byte offset of the token start
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc == nil:
		return "<unknown>"
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
