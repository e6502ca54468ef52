// Package ast defines the Lox abstract syntax tree.
//
// Per §9's design notes, the teacher's visitor/double-dispatch scaffolding
// (Expr.Accept(Visitor)) is dropped in favor of plain Go type switches in
// the resolver and evaluator: the AST here is just a closed set of structs
// implementing two marker interfaces.
package ast

// NodeID is a stable identity for an expression node, independent of its
// field values, used as the resolver's side-table key (§9: "A stable
// identifier assigned at construction (monotonic integer) is preferable
// to pointer identity").
type NodeID int64

var nextID NodeID

func newID() NodeID {
	nextID++
	return nextID
}

// Expr is the sealed set of expression AST nodes.
type Expr interface{ exprNode() }

// Stmt is the sealed set of statement AST nodes.
type Stmt interface{ stmtNode() }
