package calculus

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/token"
)

var zero token.Position

func TestDerivativeOfVariable(t *testing.T) {
	d, err := Derivative(ast.NewVariable(zero, "x"), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lit, ok := d.(*ast.IntLitNode)
	if !ok || lit.Value != 1 {
		t.Fatalf("d(x)/dx = %#v, want IntLit(1)", d)
	}
}

func TestDerivativeOfUnrelatedVariable(t *testing.T) {
	d, err := Derivative(ast.NewVariable(zero, "y"), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.(*ast.DerivativeNode); !ok {
		t.Fatalf("d(y)/dx = %#v, want a deferred DerivativeNode", d)
	}
}

func TestDerivativeSumRule(t *testing.T) {
	// d(x + 3)/dx = d(x)/dx + d(3)/dx
	node := ast.NewBinaryOp(zero, "+", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 3))
	d, err := Derivative(node, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := d.(*ast.BinaryOpNode)
	if !ok || bin.Op != "+" {
		t.Fatalf("sum rule produced %#v, want a '+' BinaryOpNode", d)
	}
	left, ok := bin.Left.(*ast.IntLitNode)
	if !ok || left.Value != 1 {
		t.Fatalf("left term = %#v, want IntLit(1)", bin.Left)
	}
	right, ok := bin.Right.(*ast.IntLitNode)
	if !ok || right.Value != 0 {
		t.Fatalf("right term = %#v, want IntLit(0)", bin.Right)
	}
}

func TestDerivativePowerRuleShape(t *testing.T) {
	// d(x^2)/dx = x^(2-1) * (2*1 + x*log(x)*0)
	node := ast.NewBinaryOp(zero, "^", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 2))
	d, err := Derivative(node, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := d.(*ast.BinaryOpNode)
	if !ok || outer.Op != "*" {
		t.Fatalf("power rule top-level op = %#v, want '*'", d)
	}
	base, ok := outer.Left.(*ast.BinaryOpNode)
	if !ok || base.Op != "^" {
		t.Fatalf("base term = %#v, want a '^' BinaryOpNode", outer.Left)
	}
	exp, ok := base.Right.(*ast.BinaryOpNode)
	if !ok || exp.Op != "-" {
		t.Fatalf("exponent term = %#v, want 'p - 1'", base.Right)
	}
}

func TestDerivativeChainRuleSin(t *testing.T) {
	// d(sin(x))/dx = cos(x) * d(x)/dx
	arg := ast.NewVariable(zero, "x")
	call := ast.NewApply(zero, ast.NewVariable(zero, "sin"), []ast.Node{arg})
	d, err := Derivative(call, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := d.(*ast.BinaryOpNode)
	if !ok || bin.Op != "*" {
		t.Fatalf("chain rule produced %#v, want a '*' BinaryOpNode", d)
	}
	cosCall, ok := bin.Left.(*ast.ApplyNode)
	if !ok {
		t.Fatalf("left factor = %#v, want an Apply node", bin.Left)
	}
	fnVar, ok := cosCall.Fn.(*ast.VariableNode)
	if !ok || fnVar.Name != "cos" {
		t.Fatalf("chain rule called %#v, want cos", cosCall.Fn)
	}
}

func TestDerivativeOfUnknownCallDefersToNumericPass(t *testing.T) {
	call := ast.NewApply(zero, ast.NewVariable(zero, "f"), []ast.Node{ast.NewVariable(zero, "x")})
	d, err := Derivative(call, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.(*ast.DerivativeNode); !ok {
		t.Fatalf("d(f(x))/dx = %#v, want a deferred DerivativeNode", d)
	}
}

func TestDerivativeOfBooleanIsAnError(t *testing.T) {
	if _, err := Derivative(ast.NewBoolLit(zero, true), "x"); err == nil {
		t.Fatal("expected an error differentiating a boolean literal")
	}
}

// TestDerivativeTreeSnapshots dumps the symbolic derivative of a handful of
// representative expressions as S-expressions and matches them with
// go-snaps, which records a snapshot on its first run and compares later
// runs against it, the way fixture_test.go snapshots
// DWScript evaluator output.
func TestDerivativeTreeSnapshots(t *testing.T) {
	cases := []struct {
		name string
		node ast.Node
	}{
		{
			name: "sum_rule",
			node: ast.NewBinaryOp(zero, "+", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 3)),
		},
		{
			name: "power_rule",
			node: ast.NewBinaryOp(zero, "^", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 2)),
		},
		{
			name: "chain_rule_sin",
			node: ast.NewApply(zero, ast.NewVariable(zero, "sin"), []ast.Node{ast.NewVariable(zero, "x")}),
		},
	}
	for _, c := range cases {
		d, err := Derivative(c.node, "x")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		snaps.MatchSnapshot(t, c.name, ast.Dump(d))
	}
}

func TestDerivativeNestedDerivativeComposes(t *testing.T) {
	inner := ast.NewDerivative(zero, "y", ast.NewVariable(zero, "x"))
	d, err := Derivative(inner, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := d.(*ast.DerivativeNode)
	if !ok || outer.Var != "y" {
		t.Fatalf("nested derivative = %#v, want an outer DerivativeNode over y", d)
	}
}
