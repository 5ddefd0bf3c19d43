package interp

import (
	"bytes"
	"testing"

	"github.com/lomda-lang/lomda/internal/config"
	"github.com/lomda-lang/lomda/internal/parser"
	"github.com/lomda-lang/lomda/internal/runtime"
)

func eval(t *testing.T, src string) runtime.Value {
	t.Helper()
	root, p := parser.ParseProgram(src, false)
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %s", errs[0].Message)
	}
	var out bytes.Buffer
	ip := New(config.Default(), &out, bytes.NewReader(nil))
	env := NewRootEnv()
	defer runtime.ReleaseEnv(env)
	result, err := ip.Eval(root, env)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return result
}

func TestEvalArithmetic(t *testing.T) {
	if got := eval(t, "2 + 3 * 4").String(); got != "14" {
		t.Fatalf("2 + 3*4 = %s, want 14", got)
	}
}

func TestEvalLetAndLambdaApplication(t *testing.T) {
	got := eval(t, "let add = lambda(a, b) a + b; add(3, 4)").String()
	if got != "7" {
		t.Fatalf("let/lambda application = %s, want 7", got)
	}
}

func TestEvalRecursion(t *testing.T) {
	got := eval(t, `let fact = lambda(n) if n == 0 then 1 else n * fact(n - 1); fact(5)`).String()
	if got != "120" {
		t.Fatalf("fact(5) = %s, want 120", got)
	}
}

func TestEvalNumericDerivative(t *testing.T) {
	got := eval(t, "let x = 3; d/dx (x * x)").String()
	if got != "6" {
		t.Fatalf("d/dx(x*x) at x=3 = %s, want 6", got)
	}
}

func TestEvalStdlibMathViaDictAccess(t *testing.T) {
	got := eval(t, "math.sqrt(9.0)").String()
	if got != "3" {
		t.Fatalf("math.sqrt(9.0) = %s, want 3", got)
	}
}

func TestEvalADTSwitch(t *testing.T) {
	src := `type Shape = Circle(r) | Square(s);
let area = lambda(s) switch s { case Circle(r) => 3 * r; case Square(s) => s * s };
area(Square(4))`
	got := eval(t, src).String()
	if got != "16" {
		t.Fatalf("area(Square(4)) = %s, want 16", got)
	}
}

func TestEvalUndefinedVariableIsRuntimeError(t *testing.T) {
	root, p := parser.ParseProgram("y", false)
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse error: %s", errs[0].Message)
	}
	var out bytes.Buffer
	ip := New(config.Default(), &out, bytes.NewReader(nil))
	env := NewRootEnv()
	defer runtime.ReleaseEnv(env)
	if _, err := ip.Eval(root, env); err == nil {
		t.Fatal("expected an error evaluating an unbound variable")
	}
}
