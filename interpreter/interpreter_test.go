package interpreter

import (
	"strings"
	"testing"

	"tree_lox/errs"
	"tree_lox/parser"
	"tree_lox/resolver"
)

// run parses, resolves and runs source as a complete top-level program,
// returning everything it printed to stdout and the sink it reported
// diagnostics through.
func run(t *testing.T, source string) (string, *errs.Sink) {
	t.Helper()
	var diag strings.Builder
	sink := &errs.Sink{Out: &diag}

	stmts := parser.New(source, sink).Parse()
	if sink.HadError {
		t.Fatalf("unexpected parse error for %q: %s", source, diag.String())
	}

	table := resolver.Resolve(stmts, sink)
	if sink.HadError {
		t.Fatalf("unexpected resolve error for %q: %s", source, diag.String())
	}

	var out strings.Builder
	interp := New(sink)
	interp.Stdout = &out
	interp.Run(stmts, table)

	return out.String(), sink
}

func TestArithmeticPrecedence(t *testing.T) {
	out, sink := run(t, "print 1 + 2 * 3;")
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "7\n" {
		t.Errorf("output = %q, want %q", out, "7\n")
	}
}

func TestClosureCapturesByReference(t *testing.T) {
	src := `
var counter = 0;
fun increment() { counter = counter + 1; }
increment();
increment();
print counter;
`
	out, sink := run(t, src)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "2\n" {
		t.Errorf("output = %q, want %q", out, "2\n")
	}
}

func TestClosureBindsToDeclarationTimeScope(t *testing.T) {
	// A function resolved before a same-named local is declared in the
	// same block must still see the outer binding when called, even
	// though the local shadows it afterward (§8 scenario 2).
	src := `
var a = "global";
{
  fun f() { print a; }
  var a = "local";
  f();
}
`
	out, sink := run(t, src)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "global\n" {
		t.Errorf("output = %q, want %q", out, "global\n")
	}
}

func TestMakeCounterClosure(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    print i;
  }
  return count;
}
var counter = makeCounter();
counter();
counter();
`
	out, sink := run(t, src)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "1\n2\n" {
		t.Errorf("output = %q, want %q", out, "1\n2\n")
	}
}

func TestClassesAndInheritanceWithSuper(t *testing.T) {
	src := `
class A {
  method() { print "A method"; }
}
class B < A {
  method() {
    super.method();
    print "B method";
  }
}
B().method();
`
	out, sink := run(t, src)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	want := "A method\nB method\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestBagelEatExample(t *testing.T) {
	src := `
class Bagel {
  eat() { print "Crunch crunch crunch!"; }
}
Bagel().eat();
`
	out, sink := run(t, src)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "Crunch crunch crunch!\n" {
		t.Errorf("output = %q, want %q", out, "Crunch crunch crunch!\n")
	}
}

func TestStringPlusNumberRuntimeError(t *testing.T) {
	out, sink := run(t, `print "a" + 1;`)
	if out != "" {
		t.Errorf("output = %q, want no output after a runtime error", out)
	}
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Operands must be two numbers or two strings.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestWhileLoop(t *testing.T) {
	out, _ := run(t, `
var i = 0;
while (i < 3) {
  print i;
  i = i + 1;
}
`)
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}
}

func TestForLoop(t *testing.T) {
	out, _ := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}
}

func TestBreakExitsNearestLoopOnly(t *testing.T) {
	out, _ := run(t, `
for (var i = 0; i < 3; i = i + 1) {
  if (i == 1) break;
  print i;
}
print "done";
`)
	if out != "0\ndone\n" {
		t.Errorf("output = %q, want %q", out, "0\ndone\n")
	}
}

func TestContinueStillRunsForLoopIncrement(t *testing.T) {
	out, _ := run(t, `
for (var i = 0; i < 4; i = i + 1) {
  if (i == 2) continue;
  print i;
}
`)
	if out != "0\n1\n3\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n3\n")
	}
}

func TestTernary(t *testing.T) {
	out, _ := run(t, `print true ? "yes" : "no";`)
	if out != "yes\n" {
		t.Errorf("output = %q, want %q", out, "yes\n")
	}
}

func TestAssertPassesSilently(t *testing.T) {
	out, sink := run(t, `assert 1 + 1 == 2;`)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "" {
		t.Errorf("output = %q, want no output from a passing assert", out)
	}
}

func TestAssertFailureRuntimeError(t *testing.T) {
	_, sink := run(t, `assert 1 == 2;`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Assertion failure.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestLogicalOperatorsShortCircuitAndReturnOperand(t *testing.T) {
	out, _ := run(t, `
print nil or "default";
print false and "unreached";
`)
	if out != "default\nfalse\n" {
		t.Errorf("output = %q, want %q", out, "default\nfalse\n")
	}
}

func TestNativeClockIsCallable(t *testing.T) {
	out, sink := run(t, `print type(clock());`)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "number\n" {
		t.Errorf("output = %q, want %q", out, "number\n")
	}
}

func TestNativeStrAndType(t *testing.T) {
	out, _ := run(t, `
print str(1);
print type("s");
print type(nil);
`)
	if out != "1\nstring\nnil\n" {
		t.Errorf("output = %q, want %q", out, "1\nstring\nnil\n")
	}
}

func TestUndefinedVariableRuntimeError(t *testing.T) {
	_, sink := run(t, `print missing;`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Undefined variable 'missing'.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestCallingNonCallableRuntimeError(t *testing.T) {
	_, sink := run(t, `
var x = 1;
x();
`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Can only call functions and classes.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestWrongArityRuntimeError(t *testing.T) {
	_, sink := run(t, `
fun f(a, b) { return a + b; }
f(1);
`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Expected 2 arguments but got 1.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestGetOnNonInstanceRuntimeError(t *testing.T) {
	_, sink := run(t, `
var x = 1;
print x.field;
`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Only instances have properties.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestUndefinedPropertyRuntimeError(t *testing.T) {
	_, sink := run(t, `
class A {}
print A().missing;
`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if !strings.Contains(sink.LastError().Error(), "Undefined property 'missing'.") {
		t.Errorf("LastError = %v", sink.LastError())
	}
}

func TestInitializerAlwaysReturnsThis(t *testing.T) {
	src := `
class Point {
  init(x, y) {
    this.x = x;
    this.y = y;
  }
}
var p = Point(3, 4);
print p.x;
print p.y;
`
	out, sink := run(t, src)
	if sink.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "3\n4\n" {
		t.Errorf("output = %q, want %q", out, "3\n4\n")
	}
}

func TestNumberStringificationHasNoTrailingZero(t *testing.T) {
	out, _ := run(t, `
print 10;
print 10.40;
print 3.14159;
`)
	if out != "10\n10.4\n3.14159\n" {
		t.Errorf("output = %q, want %q", out, "10\n10.4\n3.14159\n")
	}
}

func TestFunctionAndClassStringification(t *testing.T) {
	src := `
fun f() {}
class C {}
print f;
print C;
print clock;
`
	out, _ := run(t, src)
	if out != "<fn f>\nC\n<native fn>\n" {
		t.Errorf("output = %q, want %q", out, "<fn f>\nC\n<native fn>\n")
	}
}

func TestInstanceStringification(t *testing.T) {
	out, _ := run(t, `
class Bagel {}
print Bagel();
`)
	if out != "Bagel instance\n" {
		t.Errorf("output = %q, want %q", out, "Bagel instance\n")
	}
}

func TestRuntimeErrorStopsRemainingTopLevelStatements(t *testing.T) {
	out, sink := run(t, `
print "before";
print 1 + "oops";
print "after";
`)
	if !sink.HadRuntimeError {
		t.Fatalf("expected a runtime error")
	}
	if out != "before\n" {
		t.Errorf("output = %q, want only the statement before the error to run", out)
	}
}

func TestREPLEchoesTrailingBareExpression(t *testing.T) {
	var diag strings.Builder
	sink := &errs.Sink{Out: &diag}
	stmts := parser.New("1 + 2", sink).ParseREPL()
	if sink.HadError {
		t.Fatalf("unexpected parse error: %s", diag.String())
	}
	table := resolver.Resolve(stmts, sink)
	if sink.HadError {
		t.Fatalf("unexpected resolve error: %s", diag.String())
	}

	var out strings.Builder
	interp := New(sink)
	interp.Stdout = &out
	interp.RunREPL(stmts, table)

	if out.String() != "3\n" {
		t.Errorf("REPL echo = %q, want %q", out.String(), "3\n")
	}
}

func TestPrintExprAndPrintStmt(t *testing.T) {
	var diag strings.Builder
	sink := &errs.Sink{Out: &diag}
	stmts := parser.New(`print 1 + 2 * 3;`, sink).Parse()
	if sink.HadError {
		t.Fatalf("unexpected parse error: %s", diag.String())
	}
	got := PrintStmt(stmts[0])
	want := "(print (+ 1 (* 2 3)))"
	if got != want {
		t.Errorf("PrintStmt = %q, want %q", got, want)
	}
}
