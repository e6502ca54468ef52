package interpreter

import (
	"fmt"
	"strings"

	"tree_lox/ast"
)

// PrintExpr renders e as a parenthesized Lisp-like form, used by the
// LOX_DEBUG_AST dev-tooling switch (SPEC_FULL.md §10.3) to inspect the
// parser's output independent of evaluation.
func PrintExpr(e ast.Expr) string {
	switch e := e.(type) {
	case ast.Literal:
		if e.Value == nil {
			return "nil"
		}
		return fmt.Sprintf("%v", e.Value)
	case ast.Grouping:
		return parens("group", PrintExpr(e.Expr))
	case ast.Unary:
		return parens(e.Operator.Lexeme, PrintExpr(e.Right))
	case ast.Binary:
		return parens(e.Operator.Lexeme, PrintExpr(e.Left), PrintExpr(e.Right))
	case ast.Logical:
		return parens(e.Operator.Lexeme, PrintExpr(e.Left), PrintExpr(e.Right))
	case ast.Ternary:
		return parens("?:", PrintExpr(e.Condition), PrintExpr(e.Then), PrintExpr(e.Else))
	case ast.Variable:
		return "var:" + e.Name.Lexeme
	case ast.Assign:
		return parens("=", e.Name.Lexeme, PrintExpr(e.Value))
	case ast.Call:
		args := make([]string, 0, len(e.Arguments)+1)
		args = append(args, "call", PrintExpr(e.Callee))
		for _, a := range e.Arguments {
			args = append(args, PrintExpr(a))
		}
		return parens(args...)
	case ast.Get:
		return parens("get", PrintExpr(e.Object), e.Name.Lexeme)
	case ast.Set:
		return parens("set", PrintExpr(e.Object), e.Name.Lexeme, PrintExpr(e.Value))
	case ast.This:
		return "this"
	case ast.Super:
		return "super." + e.Method.Lexeme
	default:
		return fmt.Sprintf("<unknown %T>", e)
	}
}

// PrintStmt renders s the same way, recursing into nested statements and
// expressions; each statement of a block is indented one level. Function
// and class declarations print only their name, not their bodies.
func PrintStmt(s ast.Stmt) string {
	switch s := s.(type) {
	case *ast.Block:
		lines := make([]string, len(s.Statements))
		for i, st := range s.Statements {
			lines[i] = "  " + PrintStmt(st)
		}
		return "(block\n" + strings.Join(lines, "\n") + ")"
	case *ast.Expression:
		return PrintExpr(s.Expression)
	case *ast.Print:
		return parens("print", PrintExpr(s.Expression))
	case *ast.Assert:
		return parens("assert", PrintExpr(s.Expression))
	case *ast.Break:
		return "break"
	case *ast.Continue:
		return "continue"
	case *ast.Return:
		if s.Value == nil {
			return "(return)"
		}
		return parens("return", PrintExpr(s.Value))
	case *ast.If:
		if s.ElseBranch == nil {
			return parens("if", PrintExpr(s.Condition), PrintStmt(s.ThenBranch))
		}
		return parens("if", PrintExpr(s.Condition), PrintStmt(s.ThenBranch), PrintStmt(s.ElseBranch))
	case *ast.Loop:
		if s.Update == nil {
			return parens("while", PrintExpr(s.Condition), PrintStmt(s.Body))
		}
		return parens("for", PrintExpr(s.Condition), PrintStmt(s.Body), PrintExpr(s.Update))
	case *ast.Var:
		return parens("var", s.Name.Lexeme, PrintExpr(s.Initializer))
	case *ast.Function:
		return parens("fun", s.Name.Lexeme)
	case *ast.Class:
		return parens("class", s.Name.Lexeme)
	default:
		return fmt.Sprintf("<unknown %T>", s)
	}
}

func parens(frags ...string) string {
	return "(" + strings.Join(frags, " ") + ")"
}
