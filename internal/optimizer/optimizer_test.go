package optimizer

import (
	"testing"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/token"
)

var zero token.Position

func TestOptimizeFoldsIntegerArithmetic(t *testing.T) {
	// 2 + 3 * 4 -> 14
	node := ast.NewBinaryOp(zero, "+",
		ast.NewIntLit(zero, 2),
		ast.NewBinaryOp(zero, "*", ast.NewIntLit(zero, 3), ast.NewIntLit(zero, 4)))
	out := Optimize(node)
	lit, ok := out.(*ast.IntLitNode)
	if !ok || lit.Value != 14 {
		t.Fatalf("Optimize(2 + 3*4) = %#v, want IntLit(14)", out)
	}
}

func TestOptimizeFoldsComparison(t *testing.T) {
	node := ast.NewCompare(zero, "<", ast.NewIntLit(zero, 1), ast.NewIntLit(zero, 2))
	out := Optimize(node)
	lit, ok := out.(*ast.BoolLitNode)
	if !ok || !lit.Value {
		t.Fatalf("Optimize(1 < 2) = %#v, want BoolLit(true)", out)
	}
}

func TestOptimizeCollapsesConstantIf(t *testing.T) {
	node := ast.NewIf(zero, ast.NewBoolLit(zero, false), ast.NewIntLit(zero, 1), ast.NewIntLit(zero, 2))
	out := Optimize(node)
	lit, ok := out.(*ast.IntLitNode)
	if !ok || lit.Value != 2 {
		t.Fatalf("Optimize(if false then 1 else 2) = %#v, want IntLit(2)", out)
	}
}

func TestOptimizeSimplifiesAdditiveIdentity(t *testing.T) {
	node := ast.NewBinaryOp(zero, "+", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 0))
	out := Optimize(node)
	v, ok := out.(*ast.VariableNode)
	if !ok || v.Name != "x" {
		t.Fatalf("Optimize(x + 0) = %#v, want Variable(x)", out)
	}
}

func TestOptimizeSimplifiesMultiplicativeZero(t *testing.T) {
	node := ast.NewBinaryOp(zero, "*", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 0))
	out := Optimize(node)
	lit, ok := out.(*ast.IntLitNode)
	if !ok || lit.Value != 0 {
		t.Fatalf("Optimize(x * 0) = %#v, want IntLit(0)", out)
	}
}

func TestOptimizeCollapsesDoubleNegation(t *testing.T) {
	node := ast.NewUnaryNeg(zero, ast.NewUnaryNeg(zero, ast.NewVariable(zero, "x")))
	out := Optimize(node)
	v, ok := out.(*ast.VariableNode)
	if !ok || v.Name != "x" {
		t.Fatalf("Optimize(--x) = %#v, want Variable(x)", out)
	}
}

// TestOptimizeNeverDescendsIntoDerivativeBody guards the one hard
// invariant this package must never violate: folding inside an
// undifferentiated derivative body would corrupt the symbolic pass.
func TestOptimizeNeverDescendsIntoDerivativeBody(t *testing.T) {
	body := ast.NewBinaryOp(zero, "+", ast.NewVariable(zero, "x"), ast.NewIntLit(zero, 0))
	node := ast.NewDerivative(zero, "x", body)
	out := Optimize(node)

	deriv, ok := out.(*ast.DerivativeNode)
	if !ok {
		t.Fatalf("Optimize(d/dx body) = %#v, want a DerivativeNode", out)
	}
	bin, ok := deriv.Body.(*ast.BinaryOpNode)
	if !ok || bin.Op != "+" {
		t.Fatalf("derivative body was rewritten to %#v, want the original '+' node untouched", deriv.Body)
	}
	if _, ok := bin.Right.(*ast.IntLitNode); !ok {
		t.Fatalf("derivative body's right operand = %#v, want the original IntLit(0)", bin.Right)
	}
}
