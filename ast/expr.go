package ast

import "tree_lox/token"

// Literal is one of {nil, bool, number, string} (§3).
type Literal struct {
	Value any
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Expr Expr
}

// Unary is `!`/`-` applied to one operand.
type Unary struct {
	Operator token.Token
	Right    Expr
}

// Binary is an arithmetic/comparison/equality expression.
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Logical is `and`/`or`, evaluated with short-circuiting (§4.4).
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

// Ternary is the supplemented `cond ? then : else` conditional (§12 of
// SPEC_FULL.md). Right-associative on the false branch.
type Ternary struct {
	Condition Expr
	Then      Expr
	Else      Expr
}

// Variable is a read of Name, resolved to a lexical depth by the resolver
// and looked up through ID in the resolution side-table.
type Variable struct {
	ID   NodeID
	Name token.Token
}

// Assign stores Value into Name, resolved the same way as Variable.
type Assign struct {
	ID    NodeID
	Name  token.Token
	Value Expr
}

// Call invokes Callee with Arguments; Paren is the closing ')' used for
// error line reporting.
type Call struct {
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

// Get reads property Name off Object.
type Get struct {
	Object Expr
	Name   token.Token
}

// Set stores Value into property Name on Object.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// This is a reference to the receiver inside a method body.
type This struct {
	ID      NodeID
	Keyword token.Token
}

// Super is a `super.method` reference inside a subclass method body.
type Super struct {
	ID      NodeID
	Keyword token.Token
	Method  token.Token
}

// NewVariable, NewAssign, NewThis and NewSuper assign the NodeID the
// resolver's side-table keys on; every other constructor site for these
// four node kinds must go through one of these.
func NewVariable(name token.Token) Variable { return Variable{ID: newID(), Name: name} }
func NewAssign(name token.Token, value Expr) Assign {
	return Assign{ID: newID(), Name: name, Value: value}
}
func NewThis(keyword token.Token) This { return This{ID: newID(), Keyword: keyword} }
func NewSuper(keyword, method token.Token) Super {
	return Super{ID: newID(), Keyword: keyword, Method: method}
}

func (Literal) exprNode()  {}
func (Grouping) exprNode() {}
func (Unary) exprNode()    {}
func (Binary) exprNode()   {}
func (Logical) exprNode()  {}
func (Ternary) exprNode()  {}
func (Variable) exprNode() {}
func (Assign) exprNode()   {}
func (Call) exprNode()     {}
func (Get) exprNode()      {}
func (Set) exprNode()      {}
func (This) exprNode()     {}
func (Super) exprNode()    {}
