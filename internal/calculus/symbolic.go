// Package calculus implements the symbolic-differentiation half of
// spec.md §4.5: a pure AST-to-AST rewrite producing the tree that
// computes ∂e/∂x, used by internal/interp to build the body of a
// differentiated lambda (§4.4's Apply and Lambda rules).
//
// Per §9's design note ("keep them as two distinct operations... symbolic
// may be called from numeric, but numeric must not be called from
// symbolic; they are stratified"), this package imports only internal/ast,
// internal/diagnostics and internal/token — never internal/interp or
// internal/runtime.
package calculus

import (
	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/diagnostics"
	"github.com/lomda-lang/lomda/internal/token"
)

// elemental is the closed-form derivative of a standard math function
// named by a bare Variable call target (sin, cos, log, sqrt, exp, ...),
// grounded on the table-driven elemental-derivative registry pattern
// zeta1999-infergo's internal/ad/elementals.go uses for automatic
// differentiation of math-package calls, generalized here from Go
// closures over float64 to AST-rewrite closures over a single argument
// expression.
type elemental func(pos token.Position, arg ast.Node) ast.Node

var elementals = map[string]elemental{
	"sin": func(pos token.Position, arg ast.Node) ast.Node {
		return callOf(pos, "cos", arg)
	},
	"cos": func(pos token.Position, arg ast.Node) ast.Node {
		return ast.NewUnaryNeg(pos, callOf(pos, "sin", arg))
	},
	"tan": func(pos token.Position, arg ast.Node) ast.Node {
		sec2 := ast.NewBinaryOp(pos, "+", ast.NewIntLit(pos, 1),
			ast.NewBinaryOp(pos, "*", callOf(pos, "tan", arg), callOf(pos, "tan", arg)))
		return sec2
	},
	"exp": func(pos token.Position, arg ast.Node) ast.Node {
		return callOf(pos, "exp", arg)
	},
	"log": func(pos token.Position, arg ast.Node) ast.Node {
		return ast.NewBinaryOp(pos, "/", ast.NewIntLit(pos, 1), arg)
	},
	"ln": func(pos token.Position, arg ast.Node) ast.Node {
		return ast.NewBinaryOp(pos, "/", ast.NewIntLit(pos, 1), arg)
	},
	"sqrt": func(pos token.Position, arg ast.Node) ast.Node {
		return ast.NewBinaryOp(pos, "/", ast.NewIntLit(pos, 1),
			ast.NewBinaryOp(pos, "*", ast.NewIntLit(pos, 2), callOf(pos, "sqrt", arg)))
	},
}

func callOf(pos token.Position, name string, arg ast.Node) ast.Node {
	return ast.NewApply(pos, ast.NewVariable(pos, name), []ast.Node{arg})
}

func mul(pos token.Position, a, b ast.Node) ast.Node { return ast.NewBinaryOp(pos, "*", a, b) }
func add(pos token.Position, a, b ast.Node) ast.Node { return ast.NewBinaryOp(pos, "+", a, b) }
func sub(pos token.Position, a, b ast.Node) ast.Node { return ast.NewBinaryOp(pos, "-", a, b) }

// Derivative rewrites node into the AST computing ∂node/∂x, per the
// per-variant table in §4.5. Any construct the table does not reduce to a
// closed form is left as a `DerivativeNode` wrapper so internal/interp's
// numeric pass can finish the job once a concrete point (env) is
// available — §4.5's "Otherwise: leave a DerivativeExp wrapper".
func Derivative(node ast.Node, x string) (ast.Node, error) {
	pos := node.Pos()
	switch n := node.(type) {
	case *ast.IntLitNode:
		return ast.NewIntLit(pos, 0), nil
	case *ast.RealLitNode:
		return ast.NewRealLit(pos, 0), nil
	case *ast.BoolLitNode, *ast.StringLitNode:
		return nil, diagnostics.New(diagnostics.Calculus, pos, "cannot differentiate a boolean or string literal")
	case *ast.VoidLitNode:
		return ast.NewVoidLit(pos), nil

	case *ast.VariableNode:
		if n.Name == x {
			return ast.NewIntLit(pos, 1), nil
		}
		// The derivative of an unrelated bound name depends on its seed
		// at evaluation time; defer to the numeric pass.
		return ast.NewDerivative(pos, x, n), nil

	case *ast.BinaryOpNode:
		return derivBinary(n, x)
	case *ast.UnaryNegNode:
		d, err := Derivative(n.Operand, x)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryNeg(pos, d), nil

	case *ast.CompareNode, *ast.BoolOpNode, *ast.NotNode, *ast.CastNode, *ast.IsaNode, *ast.PrintNode, *ast.InputNode:
		return nil, diagnostics.New(diagnostics.Calculus, pos, "non-differentiable expression")

	case *ast.IfNode:
		thenD, err := Derivative(n.Then, x)
		if err != nil {
			return nil, err
		}
		elseD, err := Derivative(n.Else, x)
		if err != nil {
			return nil, err
		}
		return ast.NewIf(pos, n.Cond, thenD, elseD), nil

	case *ast.WhileNode:
		bodyD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewWhile(pos, n.Cond, bodyD), nil
	case *ast.DoWhileNode:
		bodyD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewDoWhile(pos, bodyD, n.Cond), nil
	case *ast.ForInNode:
		bodyD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewForIn(pos, n.Name, n.Source, bodyD), nil

	case *ast.LetNode:
		binders := make([]ast.Binder, len(n.Binders))
		for i, b := range n.Binders {
			vd, err := Derivative(b.Value, x)
			if err != nil {
				return nil, err
			}
			binders[i] = ast.Binder{Name: b.Name, Value: vd}
		}
		bodyD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewLet(pos, binders, bodyD), nil

	case *ast.SeqNode:
		exprs := make([]ast.Node, len(n.Exprs))
		for i, e := range n.Exprs {
			d, err := Derivative(e, x)
			if err != nil {
				return nil, err
			}
			exprs[i] = d
		}
		return ast.NewSeq(pos, exprs), nil

	case *ast.ListLitNode:
		elems := make([]ast.Node, len(n.Elements))
		for i, e := range n.Elements {
			d, err := Derivative(e, x)
			if err != nil {
				return nil, err
			}
			elems[i] = d
		}
		return ast.NewListLit(pos, elems), nil

	case *ast.TupleLitNode:
		l, err := Derivative(n.Left, x)
		if err != nil {
			return nil, err
		}
		r, err := Derivative(n.Right, x)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleLit(pos, l, r), nil

	case *ast.DictLitNode:
		entries := make([]ast.DictEntry, len(n.Entries))
		for i, e := range n.Entries {
			d, err := Derivative(e.Value, x)
			if err != nil {
				return nil, err
			}
			entries[i] = ast.DictEntry{Key: e.Key, Value: d}
		}
		return ast.NewDictLit(pos, entries), nil

	case *ast.ListAccessNode:
		d, err := Derivative(n.List, x)
		if err != nil {
			return nil, err
		}
		return ast.NewListAccess(pos, d, n.Index), nil

	case *ast.TupleLeftNode:
		d, err := Derivative(n.Tuple, x)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleLeft(pos, d), nil
	case *ast.TupleRightNode:
		d, err := Derivative(n.Tuple, x)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleRight(pos, d), nil

	case *ast.ApplyNode:
		return derivApply(n, x)

	case *ast.LambdaLitNode:
		bodyD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewLambdaLit(pos, n.Params, bodyD), nil

	case *ast.ThunkLitNode:
		bodyD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewThunkLit(pos, bodyD), nil

	case *ast.DerivativeNode:
		// Nested derivatives compose: differentiate the inner body once
		// more, keeping the outer wrapper so the numeric pass still sees
		// a Derivative node for its own seeded variable.
		innerD, err := Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return ast.NewDerivative(pos, n.Var, innerD), nil

	default:
		return ast.NewDerivative(pos, x, node), nil
	}
}

func derivBinary(n *ast.BinaryOpNode, x string) (ast.Node, error) {
	pos := n.Pos()
	dl, err := Derivative(n.Left, x)
	if err != nil {
		return nil, err
	}
	dr, err := Derivative(n.Right, x)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "+":
		return add(pos, dl, dr), nil
	case "-":
		return sub(pos, dl, dr), nil
	case "*":
		// L * d(R) + R * d(L)
		return add(pos, mul(pos, n.Left, dr), mul(pos, n.Right, dl)), nil
	case "/":
		// (R*d(L) - L*d(R)) / (R*R)
		num := sub(pos, mul(pos, n.Right, dl), mul(pos, n.Left, dr))
		den := mul(pos, n.Right, n.Right)
		return ast.NewBinaryOp(pos, "/", num, den), nil
	case "^":
		// d(b^p) = b^(p-1) * (p*b' + b*ln(b)*p')
		pMinus1 := ast.NewBinaryOp(pos, "-", n.Right, ast.NewIntLit(pos, 1))
		bToPMinus1 := ast.NewBinaryOp(pos, "^", n.Left, pMinus1)
		term1 := mul(pos, n.Right, dl)
		term2 := mul(pos, mul(pos, n.Left, callOf(pos, "log", n.Left)), dr)
		return mul(pos, bToPMinus1, add(pos, term1, term2)), nil
	}
	return nil, diagnostics.New(diagnostics.Calculus, pos, "unknown binary operator %q", n.Op)
}

// derivApply recognizes calls to a known elemental math function by bare
// name (sin/cos/tan/exp/log/ln/sqrt) and applies the chain rule; any
// other application (a user lambda, a stdlib function not in the table)
// is left as a Derivative wrapper, since symbolic differentiation alone
// cannot know the callee's derivative without evaluating it (§4.4's Apply
// rule needs the closure body, which only the numeric pass has access
// to via env).
func derivApply(n *ast.ApplyNode, x string) (ast.Node, error) {
	pos := n.Pos()
	if v, ok := n.Fn.(*ast.VariableNode); ok && len(n.Args) == 1 {
		if fn, known := elementals[v.Name]; known {
			dArg, err := Derivative(n.Args[0], x)
			if err != nil {
				return nil, err
			}
			return mul(pos, fn(pos, n.Args[0]), dArg), nil
		}
	}
	return ast.NewDerivative(pos, x, n), nil
}
