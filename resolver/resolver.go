// Package resolver performs the static-analysis pass between parsing and
// evaluation (§4.3): a single depth-first walk over the statement list
// that populates a side-table mapping each Variable/Assign/This/Super
// node to its lexical depth, and reports every static-analysis error the
// grammar itself cannot catch (self-reference in an initializer,
// redeclaration, this/super outside a class, return outside a function,
// and the supplemented break/continue outside a loop).
//
// The teacher folds this pass into the parser, tracking scope depth and
// slot indices while it builds the tree. Here it is a separate stage, as
// §2's architecture table requires, keyed by the AST's stable NodeIDs
// (§9) rather than slot positions: each Environment frame is still a
// plain name->value map (object.Environment), so the resolver only needs
// to hand the evaluator a depth, never a slot.
package resolver

import (
	"tree_lox/ast"
	"tree_lox/errs"
	"tree_lox/token"
)

type functionType int

const (
	noFunction functionType = iota
	function
	method
	initializer
)

type classType int

const (
	noClass classType = iota
	inClass
	inSubclass
)

// scope maps a name to whether its declaration has finished (defined).
type scope map[string]bool

// Resolver walks a statement list and produces a NodeID -> depth table.
type Resolver struct {
	sink  *errs.Sink
	table map[ast.NodeID]int

	scopes []scope

	currentFunction functionType
	currentClass    classType
	loopDepth       int
}

// New creates a Resolver reporting through sink.
func New(sink *errs.Sink) *Resolver {
	return &Resolver{sink: sink, table: make(map[ast.NodeID]int)}
}

// Resolve walks stmts and returns the populated side-table. Check
// sink.HadError after calling to see whether any static error occurred.
func Resolve(stmts []ast.Stmt, sink *errs.Sink) map[ast.NodeID]int {
	r := New(sink)
	r.resolveStmts(stmts)
	return r.table
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.Var:
		r.declare(s.Name)
		r.resolveExpr(s.Initializer)
		r.define(s.Name)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, function)

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Expression:
		r.resolveExpr(s.Expression)

	case *ast.Print:
		r.resolveExpr(s.Expression)

	case *ast.Assert:
		r.resolveExpr(s.Expression)

	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *ast.Loop:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		if s.Update != nil {
			r.resolveExpr(s.Update)
		}

	case *ast.Break:
		if r.loopDepth == 0 {
			r.errorAt(s.Keyword, "Can't use 'break' outside of a loop.")
		}

	case *ast.Continue:
		if r.loopDepth == 0 {
			r.errorAt(s.Keyword, "Can't use 'continue' outside of a loop.")
		}

	case *ast.Return:
		if r.currentFunction == noFunction {
			r.errorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == initializer {
				r.errorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = inClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = inSubclass
		r.resolveLocal(s.Superclass.ID, s.Superclass.Name.Lexeme)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.endScope()

	for name, m := range s.Methods {
		kind := method
		if name == "init" {
			kind = initializer
		}
		r.resolveFunction(m, kind)
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	enclosingLoop := r.loopDepth
	r.loopDepth = 0
	defer func() {
		r.currentFunction = enclosingFunction
		r.loopDepth = enclosingLoop
	}()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case ast.Literal:
		// no subexpressions

	case ast.Grouping:
		r.resolveExpr(e.Expr)

	case ast.Unary:
		r.resolveExpr(e.Right)

	case ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case ast.Ternary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)

	case ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.errorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID, e.Name.Lexeme)

	case ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID, e.Name.Lexeme)

	case ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Arguments {
			r.resolveExpr(a)
		}

	case ast.Get:
		r.resolveExpr(e.Object)

	case ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case ast.This:
		if r.currentClass == noClass {
			r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.ID, e.Keyword.Lexeme)

	case ast.Super:
		switch r.currentClass {
		case noClass:
			r.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case inClass:
			r.errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e.ID, e.Keyword.Lexeme)

	default:
		panic("resolver: unhandled expression type")
	}
}

// resolveLocal walks the scope stack from innermost outward and, if name
// is found, records its depth in the side-table (§4.3). A miss leaves no
// entry: the evaluator treats that as a global lookup.
func (r *Resolver) resolveLocal(id ast.NodeID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.table[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc[name.Lexeme]; ok {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) errorAt(tok token.Token, format string, args ...any) {
	r.sink.StaticError(errs.ErrResolve, tok.Line, " at '"+tok.Lexeme+"'", format, args...)
}
