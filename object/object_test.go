package object

import (
	"testing"

	"tree_lox/ast"
	"tree_lox/token"
	"tree_lox/value"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", value.Number(1))

	v, ok := env.Get("x")
	if !ok || v != value.Number(1) {
		t.Fatalf("Get(x) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := env.Get("y"); ok {
		t.Fatalf("Get(y) should miss in an empty frame")
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("x", value.Number(1))
	inner := NewEnvironment(outer)
	inner.Define("x", value.Number(2))

	if v, _ := inner.Get("x"); v != value.Number(2) {
		t.Errorf("inner Get(x) = %v, want 2", v)
	}
	if v, _ := outer.Get("x"); v != value.Number(1) {
		t.Errorf("outer Get(x) = %v, want 1 (shadowing must not mutate the enclosing frame)", v)
	}
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", value.Number(1))
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	if got := inner.GetAt(2, "x"); got != value.Number(1) {
		t.Fatalf("GetAt(2, x) = %v, want 1", got)
	}

	inner.AssignAt(2, "x", value.Number(9))
	if got, _ := global.Get("x"); got != value.Number(9) {
		t.Errorf("after AssignAt(2, ...), global x = %v, want 9", got)
	}
}

func TestEnvironmentGetGlobalAndAssignGlobal(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("x", value.Number(1))
	inner := NewEnvironment(outer)

	v, ok := inner.GetGlobal("x")
	if !ok || v != value.Number(1) {
		t.Fatalf("GetGlobal(x) = %v, %v, want 1, true", v, ok)
	}

	if !inner.AssignGlobal("x", value.Number(5)) {
		t.Fatalf("AssignGlobal(x) should find the outer binding")
	}
	if got, _ := outer.Get("x"); got != value.Number(5) {
		t.Errorf("outer x after AssignGlobal = %v, want 5", got)
	}
	if inner.AssignGlobal("never_declared", value.Number(1)) {
		t.Errorf("AssignGlobal on an undeclared name should report false")
	}
}

func newTestFunction(name string, params ...string) *ast.Function {
	paramToks := make([]token.Token, len(params))
	for i, p := range params {
		paramToks[i] = token.Token{Kind: token.IDENTIFIER, Lexeme: p}
	}
	return &ast.Function{
		Name:   token.Token{Kind: token.IDENTIFIER, Lexeme: name},
		Params: paramToks,
	}
}

func TestFunctionStringAndArity(t *testing.T) {
	decl := newTestFunction("greet", "a", "b")
	fn := NewFunction(decl, NewEnvironment(nil), false)

	if got := fn.String(); got != "<fn greet>" {
		t.Errorf("String() = %q, want %q", got, "<fn greet>")
	}
	if got := fn.Arity(); got != 2 {
		t.Errorf("Arity() = %d, want 2", got)
	}
}

func TestFunctionBindCopiesIsInitAndChainsClosure(t *testing.T) {
	decl := newTestFunction("init")
	closure := NewEnvironment(nil)
	fn := NewFunction(decl, closure, true)

	class := NewClass("Foo", map[string]*Function{"init": fn}, nil)
	inst := NewInstance(class)

	bound := fn.Bind(inst)
	if !bound.IsInit {
		t.Errorf("Bind must preserve IsInit")
	}
	if bound.Closure.Enclosing() != closure {
		t.Errorf("bound closure should chain onto the original closure")
	}
	this, ok := bound.Closure.Get("this")
	if !ok || this != value.Value(inst) {
		t.Errorf("bound closure must define this = instance")
	}
}

func TestClassGetWalksSuperclassChain(t *testing.T) {
	baseInit := NewFunction(newTestFunction("speak"), NewEnvironment(nil), false)
	base := NewClass("Animal", map[string]*Function{"speak": baseInit}, nil)
	derived := NewClass("Dog", map[string]*Function{}, base)

	if got := derived.Get("speak"); got != baseInit {
		t.Errorf("Get(speak) should find the inherited method")
	}
	if got := derived.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestClassArityFromInit(t *testing.T) {
	initFn := NewFunction(newTestFunction("init", "a", "b", "c"), NewEnvironment(nil), true)
	withInit := NewClass("Point", map[string]*Function{"init": initFn}, nil)
	if got := withInit.Arity(); got != 3 {
		t.Errorf("Arity() = %d, want 3", got)
	}

	withoutInit := NewClass("Empty", map[string]*Function{}, nil)
	if got := withoutInit.Arity(); got != 0 {
		t.Errorf("Arity() = %d, want 0", got)
	}
}

func TestClassAndInstanceString(t *testing.T) {
	class := NewClass("Bagel", nil, nil)
	if got := class.String(); got != "Bagel" {
		t.Errorf("Class.String() = %q, want %q", got, "Bagel")
	}

	inst := NewInstance(class)
	if got := inst.String(); got != "Bagel instance" {
		t.Errorf("Instance.String() = %q, want %q", got, "Bagel instance")
	}
}

func TestInstanceGetAndSet(t *testing.T) {
	method := NewFunction(newTestFunction("eat"), NewEnvironment(nil), false)
	class := NewClass("Bagel", map[string]*Function{"eat": method}, nil)
	inst := NewInstance(class)

	inst.Set("flavor", value.String("plain"))
	v, ok := inst.Get("flavor")
	if !ok || v != value.String("plain") {
		t.Fatalf("Get(flavor) = %v, %v, want plain, true", v, ok)
	}

	bound, ok := inst.Get("eat")
	if !ok {
		t.Fatalf("Get(eat) should find the class's method")
	}
	fn, ok := bound.(*Function)
	if !ok {
		t.Fatalf("Get(eat) = %T, want *Function", bound)
	}
	if this, _ := fn.Closure.Get("this"); this != value.Value(inst) {
		t.Errorf("method returned by Get must already be bound to the instance")
	}

	if _, ok := inst.Get("nope"); ok {
		t.Errorf("Get(nope) should miss")
	}
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	method := NewFunction(newTestFunction("eat"), NewEnvironment(nil), false)
	class := NewClass("Bagel", map[string]*Function{"eat": method}, nil)
	inst := NewInstance(class)
	inst.Set("eat", value.String("shadowed"))

	v, _ := inst.Get("eat")
	if v != value.String("shadowed") {
		t.Errorf("a field must shadow a method of the same name, got %v", v)
	}
}

func TestNativeFunctionString(t *testing.T) {
	for _, fn := range NativeFunctionsList {
		if got := fn.String(); got != "<native fn>" {
			t.Errorf("%s.String() = %q, want %q (no name interpolated)", fn.Name, got, "<native fn>")
		}
	}
}

func TestNativeFunctionClock(t *testing.T) {
	var clockFn *NativeFunction
	for _, fn := range NativeFunctionsList {
		if fn.Name == "clock" {
			clockFn = fn
		}
	}
	if clockFn == nil {
		t.Fatalf("clock must be registered in NativeFunctionsList")
	}
	v := clockFn.Call(nil)
	if _, ok := v.(value.Number); !ok {
		t.Errorf("clock() = %T, want value.Number", v)
	}
}

func TestNativeFunctionStrAndType(t *testing.T) {
	var strFn, typeFn *NativeFunction
	for _, fn := range NativeFunctionsList {
		switch fn.Name {
		case "str":
			strFn = fn
		case "type":
			typeFn = fn
		}
	}

	if got := strFn.Call([]value.Value{value.Number(3)}); got != value.String("3") {
		t.Errorf("str(3) = %v, want \"3\"", got)
	}

	tests := []struct {
		v    value.Value
		want value.Value
	}{
		{value.Nil{}, value.String("nil")},
		{value.Boolean(true), value.String("boolean")},
		{value.Number(1), value.String("number")},
		{value.String("s"), value.String("string")},
	}
	for _, tt := range tests {
		if got := typeFn.Call([]value.Value{tt.v}); got != tt.want {
			t.Errorf("type(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}

	class := NewClass("C", nil, nil)
	if got := typeFn.Call([]value.Value{class}); got != value.String("class") {
		t.Errorf("type(class) = %v, want \"class\"", got)
	}
	inst := NewInstance(class)
	if got := typeFn.Call([]value.Value{inst}); got != value.String("instance") {
		t.Errorf("type(instance) = %v, want \"instance\"", got)
	}
}
