// Copyright © 2018 The ELPS authors

/*
Package literal parses hop literal values outside of a script, such as
constants defined on the command line.

	value  := <nil> | <bool> | <real> | <int> | <string> | <array>
	array  := '[' (<value> (',' <value>)*)? ']'
	real   := /[+-]?[0-9]+[.][0-9]+([eE][+-]?[0-9]+)?/
	int    := /[+-]?[0-9]+/
*/
package literal

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/OMTS/Hop/hop"
	parsec "github.com/prataprc/goparsec"
)

// Parse parses text as a single literal value and returns the AST node that
// evaluates to it.
func Parse(text string) (hop.Node, error) {
	s := parsec.NewScanner([]byte(text))
	root, s := newParsecParser()(s)
	if root == nil {
		return nil, fmt.Errorf("invalid literal: %q", text)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		return nil, fmt.Errorf("offset %d: unexpected text after literal: %s", s.GetCursor(), b)
	}
	nodes, err := collect(root)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, fmt.Errorf("invalid literal: %q", text)
	}
	return nodes[0], nil
}

// Define returns a Config declaring the global constant name with the value
// of the literal text.  The Array class must be declared by an earlier
// Config when text is an array.
func Define(name string, text string) hop.Config {
	expr, err := Parse(text)
	if err != nil {
		return func(*hop.Session) error {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return hop.WithDefinition(name, expr)
}

func newParsecParser() parsec.Parser {
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	comma := parsec.Atom(",", "COMMA")
	null := parsec.Token(`nil\b`, "NIL")
	boolean := parsec.Token(`(?:true|false)\b`, "BOOL")
	decimal := parsec.Token(`[+-]?[0-9]+[.][0-9]+(?:[eE][+-]?[0-9]+)?`, "REAL")
	integer := parsec.Token(`[+-]?[0-9]+`, "INT")
	term := parsec.OrdChoice(termNode,
		null,
		boolean,
		decimal, // before integer which matches its prefix
		integer,
		parsec.String(),
	)
	var value parsec.Parser
	items := parsec.Kleene(nil, &value, comma)
	array := parsec.And(arrayNode, openB, items, closeB)
	value = parsec.OrdChoice(nil, term, array)
	return value
}

func termNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) != 1 {
		return errors.New("invalid literal term")
	}
	switch term := nodes[0].(type) {
	case string:
		// goparsec.String() unescapes its match but keeps the quotes
		return &hop.StringLiteral{Value: term[1 : len(term)-1]}
	case *parsec.Terminal:
		switch term.Name {
		case "NIL":
			return &hop.NilLiteral{}
		case "BOOL":
			return &hop.BoolLiteral{Value: term.Value == "true"}
		case "REAL":
			f, err := strconv.ParseFloat(term.Value, 64)
			if err != nil {
				return fmt.Errorf("bad number: %w (%s)", err, term.Value)
			}
			return &hop.RealLiteral{Value: f}
		case "INT":
			x, err := strconv.ParseInt(term.Value, 10, 64)
			if err != nil {
				return fmt.Errorf("bad number: %w (%s)", err, term.Value)
			}
			return &hop.IntLiteral{Value: x}
		}
	}
	return fmt.Errorf("unexpected literal term %v", nodes[0])
}

func arrayNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	elems, err := collect(nodes)
	if err != nil {
		return err
	}
	return &hop.ArrayLiteral{Elems: elems}
}

// collect returns the hop nodes found in n, skipping punctuation terminals.
// The first error node found is returned as the error.
func collect(n parsec.ParsecNode) ([]hop.Node, error) {
	switch n := n.(type) {
	case hop.Node:
		return []hop.Node{n}, nil
	case error:
		return nil, n
	case []parsec.ParsecNode:
		var nodes []hop.Node
		for _, c := range n {
			cs, err := collect(c)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, cs...)
		}
		return nodes, nil
	default:
		return nil, nil
	}
}
