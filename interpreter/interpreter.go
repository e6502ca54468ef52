// Package interpreter implements the tree-walking evaluator (§4.4): it
// walks the AST the parser built, consulting the resolver's side-table
// for variable/this/super lookups, and produces the program's only
// observable effects (prints, REPL echoes, runtime diagnostics).
package interpreter

import (
	"fmt"
	"io"
	"os"

	"tree_lox/ast"
	"tree_lox/errs"
	"tree_lox/object"
	"tree_lox/token"
	"tree_lox/value"
)

// Non-local control signals. None of these are errors; they are caught by
// the frame that owns the construct they unwind to (§9: "must not be
// visible to user code and must not bypass environment restoration").
type (
	returnSignal   struct{ value value.Value }
	breakSignal    struct{}
	continueSignal struct{}
)

// runtimeErr is the one kind of panic the interpreter itself raises for
// program errors; it is always caught at the top-level statement loop.
type runtimeErr struct {
	token   token.Token
	message string
}

func (e runtimeErr) Error() string { return e.message }

// Interpreter walks statements, owning the globals environment, the
// current environment pointer, and the resolver's side-table (§4.4).
type Interpreter struct {
	globals *object.Environment
	env     *object.Environment
	table   map[ast.NodeID]int
	sink    *errs.Sink

	// Stdout is where `print` and REPL echo write (§6); defaults to
	// os.Stdout but is overridden by tests.
	Stdout io.Writer
}

// New creates an Interpreter with every native function pre-bound into a
// fresh globals environment (§4.4's "Built-ins").
func New(sink *errs.Sink) *Interpreter {
	globals := object.NewEnvironment(nil)
	for _, fn := range object.NativeFunctionsList {
		globals.Define(fn.Name, fn)
	}
	return &Interpreter{globals: globals, env: globals, sink: sink, Stdout: os.Stdout}
}

// Run executes stmts as a complete top-level program (file mode, or one
// REPL line that contains no trailing bare expression). A runtime error
// unwinds to this call, is reported through the sink, and stops the
// remaining top-level statements from running (§7).
func (i *Interpreter) Run(stmts []ast.Stmt, table map[ast.NodeID]int) {
	i.runTopLevel(stmts, table, false)
}

// RunREPL is Run, except that if the last statement is a bare Expression
// statement its value is printed instead of discarded (§4.4's REPL
// rule), matching the affordance parser.ParseREPL provides for input
// typed without a trailing ';'.
func (i *Interpreter) RunREPL(stmts []ast.Stmt, table map[ast.NodeID]int) {
	i.runTopLevel(stmts, table, true)
}

func (i *Interpreter) runTopLevel(stmts []ast.Stmt, table map[ast.NodeID]int, replEcho bool) {
	i.table = table

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(runtimeErr); ok {
				i.sink.RuntimeError(rerr.token.Line, "%s", rerr.message)
				return
			}
			panic(r)
		}
	}()

	for idx, stmt := range stmts {
		if replEcho && idx == len(stmts)-1 {
			if exprStmt, ok := stmt.(*ast.Expression); ok {
				v := i.evaluate(exprStmt.Expression)
				fmt.Fprintln(i.Stdout, v.String())
				return
			}
		}
		i.execute(stmt)
	}
}

// Statement execution.
// --------------------------------------------------------

func (i *Interpreter) execute(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		i.executeBlock(s.Statements, object.NewEnvironment(i.env))

	case *ast.Expression:
		i.evaluate(s.Expression)

	case *ast.Print:
		fmt.Fprintln(i.Stdout, i.evaluate(s.Expression).String())

	case *ast.Assert:
		if !bool(value.Truthiness(i.evaluate(s.Expression))) {
			panic(i.errorAt(s.Keyword, "Assertion failure."))
		}

	case *ast.Break:
		panic(breakSignal{})

	case *ast.Continue:
		panic(continueSignal{})

	case *ast.Return:
		var v value.Value = value.Nil{}
		if s.Value != nil {
			v = i.evaluate(s.Value)
		}
		panic(returnSignal{value: v})

	case *ast.If:
		if value.Truthiness(i.evaluate(s.Condition)) {
			i.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			i.execute(s.ElseBranch)
		}

	case *ast.Loop:
		i.executeLoop(s)

	case *ast.Var:
		i.env.Define(s.Name.Lexeme, i.evaluate(s.Initializer))

	case *ast.Function:
		i.env.Define(s.Name.Lexeme, object.NewFunction(s, i.env, false))

	case *ast.Class:
		i.executeClass(s)

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", s))
	}
}

func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *object.Environment) {
	prev := i.env
	i.env = env
	defer func() { i.env = prev }()

	for _, s := range stmts {
		i.execute(s)
	}
}

// executeLoop backs both `while` and `for` (§4.2, §4.4). Update, when
// present, runs after the body on every iteration regardless of whether
// the body finished normally or via `continue`.
func (i *Interpreter) executeLoop(s *ast.Loop) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(breakSignal); ok {
				return
			}
			panic(r)
		}
	}()

	for value.Truthiness(i.evaluate(s.Condition)) {
		i.runLoopBody(s.Body)
		if s.Update != nil {
			i.evaluate(s.Update)
		}
	}
}

func (i *Interpreter) runLoopBody(body ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(continueSignal); ok {
				return
			}
			panic(r)
		}
	}()
	i.execute(body)
}

func (i *Interpreter) executeClass(s *ast.Class) {
	var superclass *object.Class
	if s.Superclass != nil {
		v := i.evaluate(*s.Superclass)
		sc, ok := v.(*object.Class)
		if !ok {
			panic(i.errorAt(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	i.env.Define(s.Name.Lexeme, value.Nil{})

	methodsEnv := i.env
	if superclass != nil {
		methodsEnv = object.NewEnvironment(i.env)
		methodsEnv.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for name, decl := range s.Methods {
		methods[name] = object.NewFunction(decl, methodsEnv, name == "init")
	}

	class := object.NewClass(s.Name.Lexeme, methods, superclass)
	i.env.Define(s.Name.Lexeme, class)
}

// Expression evaluation.
// --------------------------------------------------------

func (i *Interpreter) evaluate(e ast.Expr) value.Value {
	switch e := e.(type) {
	case ast.Literal:
		return literalValue(e.Value)

	case ast.Grouping:
		return i.evaluate(e.Expr)

	case ast.Unary:
		return i.evalUnary(e)

	case ast.Binary:
		return i.evalBinary(e)

	case ast.Logical:
		return i.evalLogical(e)

	case ast.Ternary:
		if value.Truthiness(i.evaluate(e.Condition)) {
			return i.evaluate(e.Then)
		}
		return i.evaluate(e.Else)

	case ast.Variable:
		return i.lookupVariable(e.ID, e.Name)

	case ast.Assign:
		return i.evalAssign(e)

	case ast.Call:
		return i.evalCall(e)

	case ast.Get:
		return i.evalGet(e)

	case ast.Set:
		return i.evalSet(e)

	case ast.This:
		return i.lookupVariable(e.ID, e.Keyword)

	case ast.Super:
		return i.evalSuper(e)

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", e))
	}
}

func literalValue(v any) value.Value {
	switch v := v.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Boolean(v)
	case float64:
		return value.Number(v)
	case string:
		return value.String(v)
	default:
		panic(fmt.Sprintf("interpreter: literal of unexpected Go type %T", v))
	}
}

func (i *Interpreter) evalUnary(e ast.Unary) value.Value {
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.BANG:
		return !value.Truthiness(right)
	case token.MINUS:
		i.checkNumber(e.Operator, right)
		return value.Neg(right)
	default:
		panic("interpreter: invalid unary operator " + e.Operator.Kind.String())
	}
}

func (i *Interpreter) evalBinary(e ast.Binary) value.Value {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.PLUS:
		if !isAddable(left, right) {
			panic(i.errorAt(e.Operator, "Operands must be two numbers or two strings."))
		}
		return value.Add(left, right)
	case token.MINUS:
		i.checkNumbers(e.Operator, left, right)
		return value.Sub(left, right)
	case token.STAR:
		i.checkNumbers(e.Operator, left, right)
		return value.Mul(left, right)
	case token.SLASH:
		i.checkNumbers(e.Operator, left, right)
		return value.Div(left, right)

	case token.GREATER:
		i.checkNumbers(e.Operator, left, right)
		return value.GreaterThan(left, right)
	case token.GREATER_EQUAL:
		i.checkNumbers(e.Operator, left, right)
		return value.GreaterThan(left, right) || value.EqualTo(left, right)
	case token.LESS:
		i.checkNumbers(e.Operator, left, right)
		return value.LessThan(left, right)
	case token.LESS_EQUAL:
		i.checkNumbers(e.Operator, left, right)
		return value.LessThan(left, right) || value.EqualTo(left, right)

	case token.EQUAL_EQUAL:
		return value.EqualTo(left, right)
	case token.BANG_EQUAL:
		return !value.EqualTo(left, right)

	default:
		panic("interpreter: invalid binary operator " + e.Operator.Kind.String())
	}
}

func isAddable(left, right value.Value) bool {
	switch left.(type) {
	case value.Number:
		_, ok := right.(value.Number)
		return ok
	case value.String:
		_, ok := right.(value.String)
		return ok
	default:
		return false
	}
}

func (i *Interpreter) evalLogical(e ast.Logical) value.Value {
	left := i.evaluate(e.Left)

	switch e.Operator.Kind {
	case token.OR:
		if value.Truthiness(left) {
			return left
		}
	case token.AND:
		if !value.Truthiness(left) {
			return left
		}
	default:
		panic("interpreter: invalid logical operator " + e.Operator.Kind.String())
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) lookupVariable(id ast.NodeID, name token.Token) value.Value {
	if depth, ok := i.table[id]; ok {
		return i.env.GetAt(depth, name.Lexeme)
	}
	if v, ok := i.globals.Get(name.Lexeme); ok {
		return v
	}
	panic(i.errorAt(name, "Undefined variable '%s'.", name.Lexeme))
}

func (i *Interpreter) evalAssign(e ast.Assign) value.Value {
	v := i.evaluate(e.Value)

	if depth, ok := i.table[e.ID]; ok {
		i.env.AssignAt(depth, e.Name.Lexeme, v)
		return v
	}
	if !i.globals.AssignGlobal(e.Name.Lexeme, v) {
		panic(i.errorAt(e.Name, "Undefined variable '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) evalCall(e ast.Call) value.Value {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, len(e.Arguments))
	for idx, a := range e.Arguments {
		args[idx] = i.evaluate(a)
	}

	switch c := callee.(type) {
	case *object.Function:
		i.checkArity(e.Paren, c.Arity(), len(args))
		return i.callFunction(c, args)

	case *object.NativeFunction:
		i.checkArity(e.Paren, c.Arity(), len(args))
		return c.Call(args)

	case *object.Class:
		i.checkArity(e.Paren, c.Arity(), len(args))
		instance := object.NewInstance(c)
		if init := c.Get("init"); init != nil {
			i.callFunction(init.Bind(instance), args)
		}
		return instance

	default:
		panic(i.errorAt(e.Paren, "Can only call functions and classes."))
	}
}

func (i *Interpreter) checkArity(paren token.Token, arity, got int) {
	if arity != got {
		panic(i.errorAt(paren, "Expected %d arguments but got %d.", arity, got))
	}
}

// callFunction runs a user function or bound method body in a fresh
// frame parented on its closure (§4.4). An initializer always returns
// `this`, taken from its own closure (the frame Bind created), whether
// it returns explicitly or falls off the end.
func (i *Interpreter) callFunction(fn *object.Function, args []value.Value) value.Value {
	env := object.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	result := i.runCallBody(fn, env)

	if fn.IsInit {
		this, _ := fn.Closure.Get("this")
		return this
	}
	return result
}

func (i *Interpreter) runCallBody(fn *object.Function, env *object.Environment) (result value.Value) {
	result = value.Nil{}
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				return
			}
			panic(r)
		}
	}()
	i.executeBlock(fn.Declaration.Body, env)
	return result
}

func (i *Interpreter) evalGet(e ast.Get) value.Value {
	obj := i.evaluate(e.Object)
	inst, ok := obj.(*object.Instance)
	if !ok {
		panic(i.errorAt(e.Name, "Only instances have properties."))
	}
	v, ok := inst.Get(e.Name.Lexeme)
	if !ok {
		panic(i.errorAt(e.Name, "Undefined property '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) evalSet(e ast.Set) value.Value {
	obj := i.evaluate(e.Object)
	inst, ok := obj.(*object.Instance)
	if !ok {
		panic(i.errorAt(e.Name, "Only instances have fields."))
	}
	v := i.evaluate(e.Value)
	inst.Set(e.Name.Lexeme, v)
	return v
}

func (i *Interpreter) evalSuper(e ast.Super) value.Value {
	depth := i.table[e.ID]
	superclass := i.env.GetAt(depth, "super").(*object.Class)
	this := i.env.GetAt(depth-1, "this").(*object.Instance)

	method := superclass.Get(e.Method.Lexeme)
	if method == nil {
		panic(i.errorAt(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(this)
}

// Operand checks.
// --------------------------------------------------------

func (i *Interpreter) checkNumber(op token.Token, v value.Value) {
	if _, ok := v.(value.Number); !ok {
		panic(i.errorAt(op, "Operand must be a number."))
	}
}

func (i *Interpreter) checkNumbers(op token.Token, a, b value.Value) {
	_, aOk := a.(value.Number)
	_, bOk := b.(value.Number)
	if !aOk || !bOk {
		panic(i.errorAt(op, "Operands must be numbers."))
	}
}

func (i *Interpreter) errorAt(tok token.Token, format string, args ...any) runtimeErr {
	return runtimeErr{token: tok, message: fmt.Sprintf(format, args...)}
}
