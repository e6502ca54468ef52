package object

import (
	"time"
	"tree_lox/value"
)

// NativeFunction is a built-in callable bound once into globals (§4.4).
type NativeFunction struct {
	Name       string
	ParamCount int
	Function   func(args []value.Value) value.Value
}

func (*NativeFunction) LoxValue() {}

// String stringifies every native function identically, regardless of
// name (§4.4's stringification rule: callable -> "<fn NAME>", "<native
// fn>", or the class's name).
func (n *NativeFunction) String() string { return "<native fn>" }

func (n *NativeFunction) Arity() int { return n.ParamCount }

func (n *NativeFunction) Call(args []value.Value) value.Value {
	// Arity is verified by the interpreter before this is ever reached.
	if len(args) != n.Arity() {
		panic("native function called with the wrong number of arguments")
	}
	return n.Function(args)
}

// NativeFunctionsList is the full set of globals pre-bound before any
// user code runs. `clock` is required by §4.4; `str` and `type` are the
// supplemented natives of §12 in SPEC_FULL.md.
var NativeFunctionsList = []*NativeFunction{
	{Name: "clock", ParamCount: 0, Function: clock},
	{Name: "str", ParamCount: 1, Function: str},
	{Name: "type", ParamCount: 1, Function: typeOf},
}

func clock(args []value.Value) value.Value {
	return value.Number(float64(time.Now().UnixMilli()) / 1000.0)
}

func str(args []value.Value) value.Value {
	return value.String(args[0].String())
}

func typeOf(args []value.Value) value.Value {
	switch args[0].(type) {
	case value.Nil:
		return value.String("nil")
	case value.Boolean:
		return value.String("boolean")
	case value.Number:
		return value.String("number")
	case value.String:
		return value.String("string")
	case *Function, *NativeFunction:
		return value.String("function")
	case *Class:
		return value.String("class")
	case *Instance:
		return value.String("instance")
	default:
		return value.String("unknown")
	}
}
