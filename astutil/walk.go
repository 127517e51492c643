// Copyright © 2018 The ELPS authors

// Package astutil provides shared AST walking utilities for parsed hop
// programs.  The lint package uses them to traverse statements and
// expressions.
package astutil

import (
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/token"
)

// Walk calls fn for every node in the tree, depth-first.
// parent is nil for top-level statements.
func Walk(stmts []hop.Node, fn func(node hop.Node, parent hop.Node, depth int)) {
	for _, stmt := range stmts {
		walkNode(stmt, nil, 0, fn)
	}
}

func walkNode(node hop.Node, parent hop.Node, depth int, fn func(hop.Node, hop.Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// Children returns the nodes directly nested in n, in source order.
func Children(n hop.Node) []hop.Node {
	var out []hop.Node
	add := func(nodes ...hop.Node) {
		for _, n := range nodes {
			if n != nil {
				out = append(out, n)
			}
		}
	}
	switch n := n.(type) {
	case *hop.ArrayLiteral:
		add(n.Elems...)
	case *hop.Block:
		add(n.Stmts...)
	case *hop.VarDecl:
		add(n.Value)
	case *hop.IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *hop.ForStmt:
		add(n.Start, n.End, n.Step, n.Body)
	case *hop.WhileStmt:
		add(n.Cond, n.Body)
	case *hop.ReturnStmt:
		add(n.Expr)
	case *hop.UnaryExpr:
		add(n.Operand)
	case *hop.BinaryExpr:
		add(n.LHS, n.RHS)
	case *hop.CallExpr:
		for _, arg := range n.Args {
			add(arg.Value)
		}
	case *hop.FuncDecl:
		add(n.Body)
	case *hop.ClassDecl:
		add(n.Members...)
	}
	return out
}

// WalkCalls calls fn for every call expression in the tree.
func WalkCalls(stmts []hop.Node, fn func(call *hop.CallExpr, depth int)) {
	Walk(stmts, func(node hop.Node, _ hop.Node, depth int) {
		if call, ok := node.(*hop.CallExpr); ok {
			fn(call, depth)
		}
	})
}

// StatementLists calls fn for the top-level statements and for the
// statements of every block in the tree.
func StatementLists(stmts []hop.Node, fn func(stmts []hop.Node)) {
	fn(stmts)
	Walk(stmts, func(node hop.Node, _ hop.Node, _ int) {
		if b, ok := node.(*hop.Block); ok {
			fn(b.Stmts)
		}
	})
}

// TypeRefs returns the type expressions written in the declaration n.
func TypeRefs(n hop.Node) []*hop.TypeExpr {
	var out []*hop.TypeExpr
	add := func(t *hop.TypeExpr) {
		if t != nil {
			out = append(out, t)
		}
	}
	switch n := n.(type) {
	case *hop.VarDecl:
		add(n.Type)
	case *hop.FuncDecl:
		for _, arg := range n.Args {
			add(arg.Type)
		}
		add(n.Return)
	case *hop.ClassDecl:
		add(n.Super)
	}
	return out
}

// Referenced returns the set of identifiers read or assigned in the tree,
// including the first element of qualified type names.  Member names on the
// right of a '.' are not identifiers and are excluded.
func Referenced(stmts []hop.Node) map[string]bool {
	refs := make(map[string]bool)
	Walk(stmts, func(node hop.Node, parent hop.Node, _ int) {
		if access, ok := parent.(*hop.BinaryExpr); ok && access.Op == token.DOT && access.RHS == node {
			return
		}
		switch n := node.(type) {
		case *hop.IdentifierExpr:
			refs[n.Name] = true
		case *hop.CallExpr:
			refs[n.Name] = true
		}
		for _, t := range TypeRefs(node) {
			refs[t.Path[0]] = true
		}
	})
	return refs
}

// Declared returns the names declared anywhere in the tree: functions,
// classes, variables, constants, arguments and loop variables.
func Declared(stmts []hop.Node) map[string]bool {
	defs := make(map[string]bool)
	Walk(stmts, func(node hop.Node, _ hop.Node, _ int) {
		switch n := node.(type) {
		case *hop.FuncDecl:
			defs[n.Name] = true
			for _, arg := range n.Args {
				defs[arg.Name] = true
			}
		case *hop.ClassDecl:
			defs[n.Name] = true
		case *hop.VarDecl:
			defs[n.Name] = true
		case *hop.ForStmt:
			defs[n.Var] = true
		}
	})
	return defs
}

// Terminates reports whether n unconditionally leaves the enclosing
// statement list.
func Terminates(n hop.Node) bool {
	switch n.(type) {
	case *hop.ReturnStmt, *hop.BreakStmt, *hop.ContinueStmt:
		return true
	}
	return false
}

// SourceOf returns the best source location for a node.
// Prefers the node's own location, falls back to the first located child.
func SourceOf(n hop.Node) *token.Location {
	if n == nil {
		return nil
	}
	if loc := n.Loc(); loc != nil && loc.Line > 0 {
		return loc
	}
	for _, child := range Children(n) {
		if loc := SourceOf(child); loc != nil {
			return loc
		}
	}
	return nil
}
