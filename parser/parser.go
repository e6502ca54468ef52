// Package parser implements a recursive-descent predictive parser over
// the scanner's token stream (§4.2). It produces a bare AST only: scope
// resolution and the context-dependent semantic errors (this/super
// outside a class, return outside a function, and so on) belong to the
// resolver stage, not here.
package parser

import (
	"tree_lox/ast"
	"tree_lox/errs"
	"tree_lox/scanner"
	"tree_lox/token"
)

// MaxArgs is the parameter/argument count limit (§4.2).
const MaxArgs = 255

// syntaxError unwinds the current declaration after a parse error has
// already been reported; caught by Parse's per-declaration recover.
type syntaxError struct{}

// Parser consumes a token stream and produces statements.
type Parser struct {
	tokens  []token.Token
	current int
	sink    *errs.Sink
}

// New scans source completely up front and returns a Parser over its
// tokens. Scanning happens eagerly so that a lexical error surfaces (and
// sets sink.HadError) before any parsing is attempted, matching the
// strict data flow of §2.
func New(source string, sink *errs.Sink) *Parser {
	return &Parser{tokens: scanner.ScanTokens(source, sink), sink: sink}
}

// Parse runs `program -> declaration* EOF` (§4.2), returning the parsed
// statements, or nil if any static error occurred anywhere in the run
// (lexical, from New, or syntactic, from this call).
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt

	for !p.check(token.EOF) {
		if s, ok := p.declarationSafe(); ok {
			stmts = append(stmts, s)
		}
	}

	if p.sink.HadError {
		return nil
	}
	return stmts
}

// ParseREPL runs the same grammar, but if the token stream is exactly one
// expression with no trailing semicolon, returns it wrapped as a bare
// Expression statement (§4.2's REPL affordance) instead of erroring on
// the missing ';'.
func (p *Parser) ParseREPL() []ast.Stmt {
	if p.looksLikeBareExpression() {
		if stmts, ok := p.tryBareExpression(); ok {
			return stmts
		}
	}
	return p.Parse()
}

func (p *Parser) tryBareExpression() (stmts []ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(syntaxError); !isSyntax {
				panic(r)
			}
			ok = false
		}
	}()

	// A lexical error from New must survive to Parse, which then returns
	// nil; only the flags raised by this attempt are cleared below.
	if p.sink.HadError {
		return nil, false
	}

	save := p.current
	p.sink.ResetStatic()

	expr := p.expression()
	if p.check(token.EOF) && !p.sink.HadError {
		return []ast.Stmt{&ast.Expression{Expression: expr}}, true
	}

	// Not actually a bare trailing expression; reset for a normal parse.
	p.current = save
	p.sink.ResetStatic()
	return nil, false
}

// looksLikeBareExpression is a cheap lookahead: only try the bare-expression
// path for inputs that don't start with a declaration keyword, since those
// always require normal statement parsing.
func (p *Parser) looksLikeBareExpression() bool {
	switch p.peek().Kind {
	case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
		token.WHILE, token.PRINT, token.RETURN, token.LEFT_BRACE,
		token.ASSERT, token.BREAK, token.CONTINUE:
		return false
	default:
		return true
	}
}

func (p *Parser) declarationSafe() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(syntaxError); !isSyntax {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()

	return p.declaration(), true
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	// Self-inheritance ("class A < A") is syntactically well formed; the
	// resolver rejects it (§4.3).
	var superclass *ast.Variable
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		v := ast.NewVariable(sname)
		superclass = &v
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	methods := make(map[string]*ast.Function)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		m := p.function("method")
		methods[m.Name.Lexeme] = m
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= MaxArgs {
				p.errorAt(p.peek(), "Can't have more than %d parameters.", MaxArgs)
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect a variable name.")

	var init ast.Expr = ast.Literal{Value: nil}
	if p.match(token.EQUAL) {
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.ASSERT):
		return p.assertStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.BREAK):
		kw := p.previous()
		p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
		return &ast.Break{Keyword: kw}
	case p.match(token.CONTINUE):
		kw := p.previous()
		p.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
		return &ast.Continue{Keyword: kw}
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) assertStatement() ast.Stmt {
	kw := p.previous()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Assert{Keyword: kw, Expression: expr}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: kw, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.If{Condition: cond, ThenBranch: then, ElseBranch: els}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.Loop{Condition: cond, Body: body}
}

// forStatement desugars `for (init; cond; update) body` into
// `{ init; <loop cond body update> }` (§4.2). The loop keeps its update
// expression as a distinct field rather than folding it into the body,
// so that `continue` (§12 of SPEC_FULL.md) still runs it.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr = ast.Literal{Value: true}
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var update ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		update = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()
	loop := &ast.Loop{Condition: cond, Body: body, Update: update}

	if init == nil {
		return loop
	}
	return ast.NewBlock(init, loop)
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		stmts = append(stmts, p.declaration())
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Expression{Expression: expr}
}

// Expression grammar, precedence ascending per §4.2.
// --------------------------------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case ast.Variable:
			return ast.NewAssign(target.Name, value)
		case ast.Get:
			return ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			// Syntax is still well formed; continue with the original expr.
		}
	}

	return expr
}

// ternary is the supplemented `cond ? then : else` (§12), binding looser
// than `or` and right-associative on the else branch.
func (p *Parser) ternary() ast.Expr {
	expr := p.logicOr()

	if p.match(token.QUESTION) {
		then := p.expression()
		p.consume(token.COLON, "Expect ':' in ternary expression.")
		els := p.ternary()
		return ast.Ternary{Condition: expr, Then: then, Else: els}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr  { return p.leftAssocLogical(p.logicAnd, token.OR) }
func (p *Parser) logicAnd() ast.Expr { return p.leftAssocLogical(p.equality, token.AND) }

func (p *Parser) leftAssocLogical(next func() ast.Expr, kinds ...token.Kind) ast.Expr {
	expr := next()
	for p.matchAny(kinds...) {
		op := p.previous()
		expr = ast.Logical{Left: expr, Operator: op, Right: next()}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.leftAssocBinary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return p.leftAssocBinary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return p.leftAssocBinary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.Expr {
	return p.leftAssocBinary(p.unary, token.SLASH, token.STAR)
}

func (p *Parser) leftAssocBinary(next func() ast.Expr, kinds ...token.Kind) ast.Expr {
	expr := next()
	for p.matchAny(kinds...) {
		op := p.previous()
		expr = ast.Binary{Left: expr, Operator: op, Right: next()}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(token.BANG, token.MINUS) {
		op := p.previous()
		return ast.Unary{Operator: op, Right: p.unary()}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= MaxArgs {
				p.errorAt(p.peek(), "Can't have more than %d arguments.", MaxArgs)
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return ast.Literal{Value: false}
	case p.match(token.TRUE):
		return ast.Literal{Value: true}
	case p.match(token.NIL):
		return ast.Literal{Value: nil}
	case p.matchAny(token.NUMBER, token.STRING):
		return ast.Literal{Value: p.previous().Literal}
	case p.match(token.SUPER):
		return p.superExpr()
	case p.match(token.THIS):
		return ast.NewThis(p.previous())
	case p.match(token.IDENTIFIER):
		return ast.NewVariable(p.previous())
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return ast.Grouping{Expr: expr}
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(syntaxError{})
}

func (p *Parser) superExpr() ast.Expr {
	keyword := p.previous()
	p.consume(token.DOT, "Expect '.' after 'super'.")
	method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
	return ast.NewSuper(keyword, method)
}

// Token stream helpers.
// --------------------------------------------------------

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.current++
	return true
}

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.match(k) {
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		tok := p.peek()
		p.current++
		return tok
	}
	p.errorAt(p.peek(), "%s", message)
	panic(syntaxError{})
}

// errorAt reports a parse error at tok, in the exact wire format of §6.
func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	where := " at end"
	if tok.Kind != token.EOF {
		where = " at '" + tok.Lexeme + "'"
	}
	p.sink.StaticError(errs.ErrParse, tok.Line, where, format, args...)
}

// synchronize discards tokens until the next ';' or the start of a likely
// statement, so that parsing can resume and surface further errors in one
// run (§4.2, §7).
func (p *Parser) synchronize() {
	p.current++

	for !p.check(token.EOF) {
		if p.tokens[p.current-1].Kind == token.SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.ASSERT:
			return
		}

		p.current++
	}
}
