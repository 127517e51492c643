// Copyright © 2018 The ELPS authors

package rdparser

import (
	"errors"
	"io"
	"strconv"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/lexer"
	"github.com/OMTS/Hop/parser/token"
)

type reader struct {
}

// NewReader returns a hop.Reader to use in a hop.Session.
func NewReader() hop.Reader {
	return &reader{}
}

// Read implements hop.Reader.
func (*reader) Read(name string, r io.Reader, debug bool) (*hop.Program, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := token.NewScanner(name, string(b))
	p := New(lexer.New(s, debug))
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	prog.Name = name
	return prog, nil
}

// Parser is a hop parser.  Statements are parsed by recursive descent and
// expressions by precedence climbing.  The first error aborts parsing.
type Parser struct {
	lex       *lexer.Lexer
	tok       *token.Token
	loopDepth int
	doc       string // comments above the declaration being parsed
}

// New initializes and returns a new Parser that reads tokens from lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// ParseProgram parses a sequence of line feed terminated statements up to
// the end of the source.
func (p *Parser) ParseProgram() (*hop.Program, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	prog := &hop.Program{}
	for {
		if err := p.skipLF(); err != nil {
			return nil, err
		}
		if p.tok.Type == token.EOF {
			return prog, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
}

// next reads the following token from the lexer.
func (p *Parser) next() error {
	tok, err := p.lex.ReadToken()
	if err != nil {
		var lerr *lexer.Error
		if errors.As(err, &lerr) {
			kind := hop.UnknownError
			if lerr.Kind == lexer.IllegalContent {
				kind = hop.IllegalContent
			}
			return &hop.Error{Kind: kind, Source: lerr.Source, Msg: strconv.Quote(lerr.Text)}
		}
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) skipLF() error {
	for p.tok.Type == token.LF {
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

// accept consumes the current token when it has type typ.
func (p *Parser) accept(typ token.Type) (bool, error) {
	if p.tok.Type != typ {
		return false, nil
	}
	return true, p.next()
}

// expect consumes and returns the current token, which must have type typ.
func (p *Parser) expect(kind hop.ErrorKind, typ token.Type) (*token.Token, error) {
	tok := p.tok
	if tok.Type != typ {
		return nil, p.errorf(kind, "expected %v, found %v", typ, tok)
	}
	return tok, p.next()
}

func (p *Parser) errorf(kind hop.ErrorKind, format string, v ...interface{}) error {
	return hop.Errorf(kind, p.tok.Source, format, v...)
}

// endStatement checks that a statement is followed by a line feed, which is
// consumed, or by the end of the enclosing block or source.
func (p *Parser) endStatement() error {
	switch p.tok.Type {
	case token.LF:
		return p.next()
	case token.EOF, token.BRACE_R:
		return nil
	default:
		return p.errorf(hop.ExpressionError, "expected end of statement, found %v", p.tok)
	}
}

func (p *Parser) parseStatement() (hop.Node, error) {
	p.doc = p.lex.Doc()
	switch p.tok.Type {
	case token.IMPORT:
		return p.parseImport()
	case token.FUNC:
		return p.parseFuncDecl(false)
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK, token.CONTINUE:
		return p.parseLoopControl()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.VAR, token.CONST:
		return p.parseVarDecl(false)
	case token.CLASS:
		return p.parseClassDecl()
	case token.STATIC:
		return nil, p.errorf(hop.ExpressionError, "static declaration outside of a class")
	default:
		return p.parseExpression()
	}
}

func (p *Parser) parseImport() (hop.Node, error) {
	stmt := &hop.ImportStmt{}
	stmt.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	for {
		name, err := p.expect(hop.ExpressionError, token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.Path = append(stmt.Path, name.Text)
		ok, err := p.accept(token.DOT)
		if err != nil {
			return nil, err
		}
		if !ok {
			return stmt, nil
		}
	}
}

func (p *Parser) parseReturn() (hop.Node, error) {
	stmt := &hop.ReturnStmt{}
	stmt.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	switch p.tok.Type {
	case token.LF, token.EOF, token.BRACE_R:
		return stmt, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Expr = expr
	return stmt, nil
}

func (p *Parser) parseLoopControl() (hop.Node, error) {
	tok := p.tok
	if p.loopDepth == 0 {
		return nil, p.errorf(hop.ExpressionError, "%v outside of a loop", tok.Type)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if tok.Type == token.BREAK {
		stmt := &hop.BreakStmt{}
		stmt.SetLoc(tok.Source)
		return stmt, nil
	}
	stmt := &hop.ContinueStmt{}
	stmt.SetLoc(tok.Source)
	return stmt, nil
}

func (p *Parser) parseIf() (hop.Node, error) {
	stmt := &hop.IfStmt{}
	stmt.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond
	stmt.Then, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	ok, err := p.accept(token.ELSE)
	if err != nil || !ok {
		return stmt, err
	}
	if p.tok.Type == token.IF {
		stmt.Else, err = p.parseIf()
	} else {
		stmt.Else, err = p.parseBlock()
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseFor() (hop.Node, error) {
	stmt := &hop.ForStmt{}
	stmt.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expect(hop.ExpressionError, token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Var = name.Text
	if _, err := p.expect(hop.ExpressionError, token.IN); err != nil {
		return nil, err
	}
	if stmt.Start, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(hop.ExpressionError, token.TO); err != nil {
		return nil, err
	}
	if stmt.End, err = p.parseExpression(); err != nil {
		return nil, err
	}
	ok, err := p.accept(token.STEP)
	if err != nil {
		return nil, err
	}
	if ok {
		if stmt.Step, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if stmt.Body, err = p.parseLoopBody(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (hop.Node, error) {
	stmt := &hop.WhileStmt{}
	stmt.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond
	if stmt.Body, err = p.parseLoopBody(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseLoopBody() (*hop.Block, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseBlock()
}

// parseBlock parses `{ <stmt>* }`.
func (p *Parser) parseBlock() (*hop.Block, error) {
	block := &hop.Block{}
	block.SetLoc(p.tok.Source)
	if _, err := p.expect(hop.ExpressionError, token.BRACE_L); err != nil {
		return nil, err
	}
	for {
		if err := p.skipLF(); err != nil {
			return nil, err
		}
		switch p.tok.Type {
		case token.BRACE_R:
			return block, p.next()
		case token.EOF:
			return nil, p.errorf(hop.ExpressionError, "expected %v, found %v", token.BRACE_R, p.tok)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
}

// parseVarDecl parses `var|const <id> [: <type>] [= <expr>]`.
func (p *Parser) parseVarDecl(static bool) (*hop.VarDecl, error) {
	decl := &hop.VarDecl{
		Constant: p.tok.Type == token.CONST,
		Static:   static,
	}
	decl.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expect(hop.ExpressionError, token.IDENT)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text
	ok, err := p.accept(token.COLON)
	if err != nil {
		return nil, err
	}
	if ok {
		if decl.Type, err = p.parseType(hop.ExpressionError); err != nil {
			return nil, err
		}
	}
	ok, err = p.accept(token.ASSIGN)
	if err != nil {
		return nil, err
	}
	if ok {
		if decl.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if decl.Constant && decl.Value == nil {
		return nil, hop.Errorf(hop.MissingConstantInitialization, decl.Source, "%s", decl.Name)
	}
	if decl.Type == nil && decl.Value == nil {
		return nil, hop.Errorf(hop.ExpressionError, decl.Source, "%s needs a type or an initial value", decl.Name)
	}
	return decl, nil
}

// parseType parses a dotted type name.
func (p *Parser) parseType(kind hop.ErrorKind) (*hop.TypeExpr, error) {
	typ := &hop.TypeExpr{}
	typ.SetLoc(p.tok.Source)
	for {
		name, err := p.expect(kind, token.IDENT)
		if err != nil {
			return nil, err
		}
		typ.Path = append(typ.Path, name.Text)
		ok, err := p.accept(token.DOT)
		if err != nil {
			return nil, err
		}
		if !ok {
			return typ, nil
		}
	}
}

// parseFuncDecl parses `func <id>(<arg>, ...) [-> <type>] { <stmt>* }`.
func (p *Parser) parseFuncDecl(static bool) (*hop.FuncDecl, error) {
	decl := &hop.FuncDecl{Static: static, Doc: p.doc}
	decl.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expect(hop.PrototypeError, token.IDENT)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text
	if _, err := p.expect(hop.PrototypeError, token.PAREN_L); err != nil {
		return nil, err
	}
	for p.tok.Type != token.PAREN_R {
		if len(decl.Args) > 0 {
			if _, err := p.expect(hop.PrototypeError, token.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseArgDecl()
		if err != nil {
			return nil, err
		}
		decl.Args = append(decl.Args, arg)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	ok, err := p.accept(token.ARROW)
	if err != nil {
		return nil, err
	}
	if ok {
		if decl.Return, err = p.parseType(hop.PrototypeError); err != nil {
			return nil, err
		}
	}
	depth := p.loopDepth
	p.loopDepth = 0
	decl.Body, err = p.parseBlock()
	p.loopDepth = depth
	if err != nil {
		return nil, err
	}
	return decl, nil
}

// parseArgDecl parses `[#]<id>: <type>`.
func (p *Parser) parseArgDecl() (*hop.ArgDecl, error) {
	arg := &hop.ArgDecl{}
	ok, err := p.accept(token.HASH)
	if err != nil {
		return nil, err
	}
	arg.Anonymous = ok
	name, err := p.expect(hop.PrototypeError, token.IDENT)
	if err != nil {
		return nil, err
	}
	arg.Name = name.Text
	if _, err := p.expect(hop.PrototypeError, token.COLON); err != nil {
		return nil, err
	}
	if arg.Type, err = p.parseType(hop.PrototypeError); err != nil {
		return nil, err
	}
	return arg, nil
}

// parseClassDecl parses `class <id> [: <type>] { <member>* }`.
func (p *Parser) parseClassDecl() (*hop.ClassDecl, error) {
	decl := &hop.ClassDecl{Doc: p.doc}
	decl.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	name, err := p.expect(hop.ExpressionError, token.IDENT)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text
	ok, err := p.accept(token.COLON)
	if err != nil {
		return nil, err
	}
	if ok {
		if decl.Super, err = p.parseType(hop.ExpressionError); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(hop.ExpressionError, token.BRACE_L); err != nil {
		return nil, err
	}
	for {
		if err := p.skipLF(); err != nil {
			return nil, err
		}
		if p.tok.Type == token.BRACE_R {
			return decl, p.next()
		}
		member, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, member)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseMember() (hop.Node, error) {
	p.doc = p.lex.Doc()
	static, err := p.accept(token.STATIC)
	if err != nil {
		return nil, err
	}
	switch p.tok.Type {
	case token.VAR, token.CONST:
		return p.parseVarDecl(static)
	case token.FUNC:
		return p.parseFuncDecl(static)
	case token.CLASS:
		if !static {
			return p.parseClassDecl()
		}
	}
	return nil, p.errorf(hop.ExpressionError, "expected class member declaration, found %v", p.tok)
}
