// Package value defines Lox's runtime value representation and the
// primitive operations over it (§3, §4.4).
package value

import "strconv"

// Value is the tagged variant every Lox runtime value implements. The
// primitive kinds (Nil, Boolean, Number, String) are Go primitive types
// stored by value; object kinds (function, class, instance, see
// tree_lox/object) are pointers so that reference/identity semantics
// (§4.4's "two distinct instances are unequal") fall out of ordinary Go
// interface comparison.
type Value interface {
	String() string
	LoxValue()
}

// TypeError is panicked by the operators below on a mismatched operand
// pair. Every call site in the interpreter type-checks its operands
// first and reports a proper runtime error (§4.4's exact wording) before
// calling these, so in practice this should never surface — it exists
// as a defensive invariant, not a reachable error path.
type TypeError struct{}

func (TypeError) Error() string { return "invalid operand type" }

type (
	Nil     struct{}
	Boolean bool
	Number  float64
	String  string
)

func (Nil) LoxValue()     {}
func (Boolean) LoxValue() {}
func (Number) LoxValue()  {}
func (String) LoxValue()  {}

func (Nil) String() string { return "nil" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String formats n with the shortest decimal representation that, for a
// mathematical integer, has no trailing ".0" (§4.4, §8).
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s String) String() string { return string(s) }

// Truthiness: only nil and false are falsey (§4.4).
func Truthiness(v Value) Boolean {
	switch v := v.(type) {
	case Nil:
		return false
	case Boolean:
		return Boolean(v)
	default:
		return true
	}
}

// LessThan and GreaterThan implement the comparison operators, which
// accept only numbers (§4.4).
func LessThan(a, b Value) Boolean {
	if u, ok := a.(Number); ok {
		if v, ok := b.(Number); ok {
			return u < v
		}
	}
	panic(TypeError{})
}

func GreaterThan(a, b Value) Boolean {
	if u, ok := a.(Number); ok {
		if v, ok := b.(Number); ok {
			return u > v
		}
	}
	panic(TypeError{})
}

// EqualTo implements `==`/`!=`: nil equals only nil, and otherwise values
// compare equal within a type (§4.4). Go's built-in `==` over the Value
// interface gives exactly this: same dynamic type and same value (or,
// for object pointers, same identity).
func EqualTo(a, b Value) Boolean {
	return a == b
}

// Neg is unary `-`.
func Neg(v Value) Value {
	if n, ok := v.(Number); ok {
		return -n
	}
	panic(TypeError{})
}

// Add is binary `+`: two numbers sum, two strings concatenate (§4.4).
func Add(a, b Value) Value {
	switch u := a.(type) {
	case Number:
		if v, ok := b.(Number); ok {
			return u + v
		}
	case String:
		if v, ok := b.(String); ok {
			return u + v
		}
	}
	panic(TypeError{})
}

func Sub(a, b Value) Value {
	if u, ok := a.(Number); ok {
		if v, ok := b.(Number); ok {
			return u - v
		}
	}
	panic(TypeError{})
}

func Mul(a, b Value) Value {
	if u, ok := a.(Number); ok {
		if v, ok := b.(Number); ok {
			return u * v
		}
	}
	panic(TypeError{})
}

func Div(a, b Value) Value {
	if u, ok := a.(Number); ok {
		if v, ok := b.(Number); ok {
			return u / v
		}
	}
	panic(TypeError{})
}
