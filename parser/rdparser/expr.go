// Copyright © 2018 The ELPS authors

package rdparser

import (
	"strconv"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/token"
)

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() (hop.Node, error) {
	if p.tok == nil {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	return p.parseExpression()
}

func (p *Parser) parseExpression() (hop.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRHS(0, lhs)
}

// parseBinaryRHS climbs the operator precedence table.  Operators binding at
// least as tight as minPrec are folded into lhs.  Assignment groups to the
// right, every other operator to the left.
func (p *Parser) parseBinaryRHS(minPrec int, lhs hop.Node) (hop.Node, error) {
	for {
		op := p.tok
		prec := token.Precedence(op.Type)
		if prec < 0 || prec < minPrec {
			return lhs, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		var rhs hop.Node
		var err error
		if op.Type == token.DOT {
			rhs, err = p.parseMemberName()
		} else {
			rhs, err = p.parseUnary()
		}
		if err != nil {
			return nil, err
		}
		for {
			nextPrec := token.Precedence(p.tok.Type)
			if nextPrec < 0 {
				break
			}
			if nextPrec > prec {
				rhs, err = p.parseBinaryRHS(prec+1, rhs)
			} else if nextPrec == prec && token.RightAssociative(op.Type) {
				rhs, err = p.parseBinaryRHS(prec, rhs)
			} else {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		expr := &hop.BinaryExpr{Op: op.Type, LHS: lhs, RHS: rhs}
		expr.SetLoc(op.Source)
		lhs = expr
	}
}

// parseMemberName parses the right operand of a member access, an
// identifier or a call.
func (p *Parser) parseMemberName() (hop.Node, error) {
	if p.tok.Type != token.IDENT {
		return nil, p.errorf(hop.ExpressionError, "expected member name, found %v", p.tok)
	}
	return p.parseIdentifier()
}

// parseUnary parses a prefix operator application or a primary.  The
// operand of a prefix operator extends over member accesses, so -a.b is
// -(a.b).
func (p *Parser) parseUnary() (hop.Node, error) {
	switch p.tok.Type {
	case token.TILDE, token.NOT, token.PLUS, token.MINUS:
	default:
		return p.parsePrimary()
	}
	expr := &hop.UnaryExpr{Op: p.tok.Type}
	expr.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if expr.Operand, err = p.parseBinaryRHS(token.PrecedenceDot, operand); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (hop.Node, error) {
	tok := p.tok
	switch tok.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.INT:
		x, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf(hop.ExpressionError, "invalid integer %s", tok.Text)
		}
		return p.literal(&hop.IntLiteral{Value: x})
	case token.REAL:
		x, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(hop.ExpressionError, "invalid real %s", tok.Text)
		}
		return p.literal(&hop.RealLiteral{Value: x})
	case token.BOOL:
		return p.literal(&hop.BoolLiteral{Value: tok.Text == "true"})
	case token.STRING:
		return p.literal(&hop.StringLiteral{Value: unescape(tok.Text)})
	case token.NIL:
		return p.literal(&hop.NilLiteral{})
	case token.SUPER:
		return p.literal(&hop.SuperExpr{})
	case token.PAREN_L:
		if err := p.next(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(hop.ExpressionError, token.PAREN_R); err != nil {
			return nil, err
		}
		return expr, nil
	case token.BRACKET_L:
		return p.parseArray()
	default:
		return nil, p.errorf(hop.ExpressionError, "unexpected %v", tok)
	}
}

// literal attaches the position of the current token to n and consumes it.
func (p *Parser) literal(n hop.Node) (hop.Node, error) {
	if loc, ok := n.(hop.Locatable); ok {
		loc.SetLoc(p.tok.Source)
	}
	return n, p.next()
}

// parseIdentifier parses an identifier reference or, when followed by an
// opening parenthesis, a call.
func (p *Parser) parseIdentifier() (hop.Node, error) {
	tok := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok.Type != token.PAREN_L {
		expr := &hop.IdentifierExpr{Name: tok.Text}
		expr.SetLoc(tok.Source)
		return expr, nil
	}
	call := &hop.CallExpr{Name: tok.Text}
	call.SetLoc(tok.Source)
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	call.Args = args
	return call, nil
}

// parseCallArgs parses `( [[<label>:] <expr>, ...] )`.  Line feeds are
// allowed between arguments.
func (p *Parser) parseCallArgs() ([]hop.CallArg, error) {
	var args []hop.CallArg
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.skipLF(); err != nil {
		return nil, err
	}
	if ok, err := p.accept(token.PAREN_R); ok || err != nil {
		return args, err
	}
	for {
		arg, err := p.parseCallArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if err := p.skipLF(); err != nil {
			return nil, err
		}
		switch p.tok.Type {
		case token.PAREN_R:
			return args, p.next()
		case token.COMMA:
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.skipLF(); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf(hop.ExpressionError, "expected %v or %v, found %v", token.COMMA, token.PAREN_R, p.tok)
		}
	}
}

// parseCallArg parses one argument.  An identifier followed by a colon is
// the label of the expression that follows.
func (p *Parser) parseCallArg() (hop.CallArg, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return hop.CallArg{}, err
	}
	ident, isIdent := expr.(*hop.IdentifierExpr)
	if !isIdent || p.tok.Type != token.COLON {
		return hop.CallArg{Label: hop.AnonymousLabel, Value: expr}, nil
	}
	if err := p.next(); err != nil {
		return hop.CallArg{}, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return hop.CallArg{}, err
	}
	return hop.CallArg{Label: ident.Name, Value: value}, nil
}

// parseArray parses `[ <expr>, ... ]`.
func (p *Parser) parseArray() (hop.Node, error) {
	arr := &hop.ArrayLiteral{}
	arr.SetLoc(p.tok.Source)
	if err := p.next(); err != nil {
		return nil, err
	}
	for {
		if err := p.skipLF(); err != nil {
			return nil, err
		}
		if p.tok.Type == token.BRACKET_R {
			return arr, p.next()
		}
		if len(arr.Elems) > 0 {
			if _, err := p.expect(hop.ExpressionError, token.COMMA); err != nil {
				return nil, err
			}
			if err := p.skipLF(); err != nil {
				return nil, err
			}
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, elem)
	}
}

// unescape interprets the escape sequences of a string literal.  Text that is
// not a valid quoted string body is kept verbatim.
func unescape(text string) string {
	s, err := strconv.Unquote(`"` + text + `"`)
	if err != nil {
		return text
	}
	return s
}
