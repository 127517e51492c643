// Copyright © 2018 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OMTS/Hop/astutil"
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/token"
)

// AnalyzerUnreachableCode warns about statements that follow a return,
// break or continue in the same block.
var AnalyzerUnreachableCode = &Analyzer{
	Name:     "unreachable-code",
	Doc:      "Warn about statements that can never run.\n\nA statement following return, break or continue in the same block is never executed.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.StatementLists(pass.Program.Stmts, func(stmts []hop.Node) {
			for i, stmt := range stmts[:max(len(stmts)-1, 0)] {
				if astutil.Terminates(stmt) {
					pass.Reportf(astutil.SourceOf(stmts[i+1]), "unreachable code after %s", keyword(stmt))
					return
				}
			}
		})
		return nil
	},
}

func keyword(stmt hop.Node) string {
	switch stmt.(type) {
	case *hop.ReturnStmt:
		return token.RETURN.String()
	case *hop.BreakStmt:
		return token.BREAK.String()
	default:
		return token.CONTINUE.String()
	}
}

// AnalyzerSelfAssignment warns about assignments of a variable to itself.
var AnalyzerSelfAssignment = &Analyzer{
	Name:     "self-assignment",
	Doc:      "Warn when a variable or property is assigned to itself.\n\n`x = x` has no effect and usually hides a typo in one of the operands.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Program.Stmts, func(node hop.Node, _ hop.Node, _ int) {
			e, ok := node.(*hop.BinaryExpr)
			if !ok || e.Op != token.ASSIGN || !sameOperand(e.LHS, e.RHS) {
				return
			}
			pass.Reportf(e.Loc(), "self-assignment of %v", e.LHS)
		})
		return nil
	},
}

// AnalyzerSelfComparison warns about comparisons whose operands are the same
// variable.
var AnalyzerSelfComparison = &Analyzer{
	Name:     "self-comparison",
	Doc:      "Warn when a variable is compared with itself.\n\nThe result of such a comparison does not depend on the value of the variable.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Program.Stmts, func(node hop.Node, _ hop.Node, _ int) {
			e, ok := node.(*hop.BinaryExpr)
			if !ok || !sameOperand(e.LHS, e.RHS) {
				return
			}
			switch e.Op {
			case token.EQ, token.LE, token.GE:
				pass.Reportf(e.Loc(), "comparison of %v with itself is always true", e.LHS)
			case token.NE, token.LT, token.GT:
				pass.Reportf(e.Loc(), "comparison of %v with itself is always false", e.LHS)
			}
		})
		return nil
	},
}

// sameOperand reports whether a and b denote the same variable or property
// without evaluating a call.
func sameOperand(a, b hop.Node) bool {
	return isPlainOperand(a) && isPlainOperand(b) && fmt.Sprint(a) == fmt.Sprint(b)
}

func isPlainOperand(n hop.Node) bool {
	switch n := n.(type) {
	case *hop.IdentifierExpr:
		return true
	case *hop.BinaryExpr:
		if n.Op != token.DOT {
			return false
		}
		_, ident := n.RHS.(*hop.IdentifierExpr)
		_, super := n.LHS.(*hop.SuperExpr)
		return ident && (super || isPlainOperand(n.LHS))
	}
	return false
}

// AnalyzerConstantCondition warns about branches decided by a boolean
// literal.
var AnalyzerConstantCondition = &Analyzer{
	Name:     "constant-condition",
	Doc:      "Warn when an if or while condition is a boolean literal.\n\n`if true` always takes the same branch and `while false` never runs its body. `while true` is accepted as an explicit infinite loop.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Program.Stmts, func(node hop.Node, _ hop.Node, _ int) {
			switch stmt := node.(type) {
			case *hop.IfStmt:
				if lit, ok := stmt.Cond.(*hop.BoolLiteral); ok {
					pass.Reportf(astutil.SourceOf(stmt.Cond), "if condition is always %t", lit.Value)
				}
			case *hop.WhileStmt:
				if lit, ok := stmt.Cond.(*hop.BoolLiteral); ok && !lit.Value {
					pass.Reportf(astutil.SourceOf(stmt.Cond), "while loop body never runs")
				}
			}
		})
		return nil
	},
}

// AnalyzerZeroDivision reports integer division and remainder by a literal
// zero, which always fail at run time.
var AnalyzerZeroDivision = &Analyzer{
	Name:     "zero-division",
	Doc:      "Report division or remainder by a literal integer zero.\n\nThe operation always fails with a zero division attempt when it runs.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Program.Stmts, func(node hop.Node, _ hop.Node, _ int) {
			e, ok := node.(*hop.BinaryExpr)
			if !ok || (e.Op != token.SLASH && e.Op != token.PERCENT) {
				return
			}
			if lit, ok := e.RHS.(*hop.IntLiteral); ok && lit.Value == 0 {
				pass.Reportf(e.Loc(), "%v by zero", map[token.Type]string{token.SLASH: "division", token.PERCENT: "remainder"}[e.Op])
			}
		})
		return nil
	},
}

// AnalyzerDuplicateImport warns when a module is imported twice at the top
// level.
var AnalyzerDuplicateImport = &Analyzer{
	Name:     "duplicate-import",
	Doc:      "Warn when the same module is imported more than once.\n\nLater imports of a module are no-ops.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		first := make(map[string]*hop.ImportStmt)
		for _, stmt := range pass.Program.Stmts {
			imp, ok := stmt.(*hop.ImportStmt)
			if !ok {
				continue
			}
			path := strings.Join(imp.Path, ".")
			prev, seen := first[path]
			if !seen {
				first[path] = imp
				continue
			}
			d := Diagnostic{Pos: positionOf(imp.Loc()), Message: fmt.Sprintf("%s imported more than once", path)}
			if loc := prev.Loc(); loc != nil {
				pass.ReportWithNotes(d, fmt.Sprintf("first imported at line %d", loc.Line))
			} else {
				pass.Report(d)
			}
		}
		return nil
	},
}

// AnalyzerUnusedImport warns about top-level imports whose module name is
// never referenced.
var AnalyzerUnusedImport = &Analyzer{
	Name:     "unused-import",
	Doc:      "Warn when an imported module is never referenced.\n\nA module is referenced by its name, the last element of the import path.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		refs := astutil.Referenced(pass.Program.Stmts)
		reported := make(map[string]bool)
		for _, stmt := range pass.Program.Stmts {
			imp, ok := stmt.(*hop.ImportStmt)
			if !ok {
				continue
			}
			name := imp.Path[len(imp.Path)-1]
			if refs[name] || reported[name] {
				continue
			}
			reported[name] = true
			pass.Reportf(imp.Loc(), "module %s imported and not used", name)
		}
		return nil
	},
}

// AnalyzerUnusedVariable warns about function local variables that are
// never referenced in the function.
var AnalyzerUnusedVariable = &Analyzer{
	Name:     "unused-variable",
	Doc:      "Warn when a variable declared in a function body is never used.\n\nTop-level variables and class properties are not checked. A variable referenced by a nested function counts as used.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		checked := make(map[*hop.VarDecl]bool)
		astutil.Walk(pass.Program.Stmts, func(node hop.Node, _ hop.Node, _ int) {
			fn, ok := node.(*hop.FuncDecl)
			if !ok {
				return
			}
			refs := astutil.Referenced(fn.Body.Stmts)
			astutil.Walk(fn.Body.Stmts, func(node hop.Node, parent hop.Node, _ int) {
				decl, ok := node.(*hop.VarDecl)
				if !ok || checked[decl] {
					return
				}
				checked[decl] = true
				if _, member := parent.(*hop.ClassDecl); member || refs[decl.Name] {
					return
				}
				pass.Reportf(decl.Loc(), "%s declared and not used", decl.Name)
			})
		})
		return nil
	},
}

// AnalyzerEmptyBlock notes conditionals and loops without statements.
var AnalyzerEmptyBlock = &Analyzer{
	Name:     "empty-block",
	Doc:      "Note if statements and loops with an empty body.\n\nAn if without else and with nothing to do, or a loop that does nothing, is usually unfinished code.",
	Severity: SeverityInfo,
	Run: func(pass *Pass) error {
		astutil.Walk(pass.Program.Stmts, func(node hop.Node, _ hop.Node, _ int) {
			switch stmt := node.(type) {
			case *hop.IfStmt:
				if len(stmt.Then.Stmts) == 0 && stmt.Else == nil {
					pass.Reportf(stmt.Loc(), "empty if body")
				}
			case *hop.ForStmt:
				if len(stmt.Body.Stmts) == 0 {
					pass.Reportf(stmt.Loc(), "empty loop body")
				}
			case *hop.WhileStmt:
				if len(stmt.Body.Stmts) == 0 {
					pass.Reportf(stmt.Loc(), "empty loop body")
				}
			}
		})
		return nil
	},
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
