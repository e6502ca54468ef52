package object

import (
	"fmt"
	"tree_lox/ast"
)

// Function is a user-defined Lox function or method value (§3):
// (declaration_ref, closure_env, is_initializer_flag).
type Function struct {
	Declaration *ast.Function
	Closure     *Environment
	IsInit      bool
}

func NewFunction(decl *ast.Function, closure *Environment, isInit bool) *Function {
	return &Function{Declaration: decl, Closure: closure, IsInit: isInit}
}

func (*Function) LoxValue() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Bind produces a new function value identical to f except that its
// closure is a fresh environment, chained onto f's own closure, binding
// `this` to instance; is_initializer_flag is copied (§3's glossary entry
// for "Binding (a method)").
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInit: f.IsInit}
}
