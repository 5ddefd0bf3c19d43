// Package optimizer rewrites a parsed program before evaluation, folding
// literal arithmetic and simplifying algebraic identities the way the
// teacher's internal/bytecode.chunkOptimizer folds constants and
// eliminates dead code in the compiled chunk — except here the rewrite
// runs at the AST level, since Lomda has no bytecode stage, and the
// passes are tree transforms (Node -> Node) rather than instruction-list
// passes over a flat []Instruction.
//
// Gated by -O/--optimize (internal/config.Options.Optimize); run after
// parsing and before type inference or evaluation.
package optimizer

import (
	"math"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/token"
)

// pass is one Node -> Node rewrite, mirroring the teacher's
// optimizerPass{id, run} pairing; Optimize applies every pass, bottom-up,
// until none of them change the tree (a fixed point), the AST analogue
// of the teacher's chunkOptimizer.run() looping its enabled passes.
type pass func(ast.Node) (ast.Node, bool)

var passes = []pass{
	foldConstants,
	simplifyAlgebra,
}

// Optimize rewrites node to a semantically equivalent but simpler tree.
// A DerivativeNode's Body is never descended into: §4.4/§4.5's symbolic
// pass must see the original expression, not a pre-folded one, so
// folding an undifferentiated derivative subtree is actively wrong, not
// just unnecessary.
func Optimize(node ast.Node) ast.Node {
	node = descend(node)
	for {
		changed := false
		for _, p := range passes {
			if out, ok := p(node); ok {
				node = out
				changed = true
			}
		}
		if !changed {
			return node
		}
		node = descend(node)
	}
}

// descend rewrites every child of node via Optimize, then returns node
// with its children replaced. DerivativeNode is the one case that does
// not recurse into its Body.
func descend(node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.BinaryOpNode:
		return ast.NewBinaryOp(n.Pos(), n.Op, Optimize(n.Left), Optimize(n.Right))
	case *ast.UnaryNegNode:
		return ast.NewUnaryNeg(n.Pos(), Optimize(n.Operand))
	case *ast.CompareNode:
		return ast.NewCompare(n.Pos(), n.Op, Optimize(n.Left), Optimize(n.Right))
	case *ast.BoolOpNode:
		return ast.NewBoolOp(n.Pos(), n.Op, Optimize(n.Left), Optimize(n.Right))
	case *ast.NotNode:
		return ast.NewNot(n.Pos(), Optimize(n.Operand))
	case *ast.IfNode:
		return ast.NewIf(n.Pos(), Optimize(n.Cond), Optimize(n.Then), Optimize(n.Else))
	case *ast.WhileNode:
		return ast.NewWhile(n.Pos(), Optimize(n.Cond), Optimize(n.Body))
	case *ast.DoWhileNode:
		return ast.NewDoWhile(n.Pos(), Optimize(n.Body), Optimize(n.Cond))
	case *ast.ForInNode:
		return ast.NewForIn(n.Pos(), n.Name, Optimize(n.Source), Optimize(n.Body))
	case *ast.LetNode:
		binders := make([]ast.Binder, len(n.Binders))
		for i, b := range n.Binders {
			binders[i] = ast.Binder{Name: b.Name, Value: Optimize(b.Value)}
		}
		return ast.NewLet(n.Pos(), binders, Optimize(n.Body))
	case *ast.SeqNode:
		exprs := make([]ast.Node, len(n.Exprs))
		for i, e := range n.Exprs {
			exprs[i] = Optimize(e)
		}
		return ast.NewSeq(n.Pos(), exprs)
	case *ast.SetNode:
		return ast.NewSet(n.Pos(), Optimize(n.Target), Optimize(n.Value))
	case *ast.ListLitNode:
		elems := make([]ast.Node, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = Optimize(e)
		}
		return ast.NewListLit(n.Pos(), elems)
	case *ast.DictLitNode:
		entries := make([]ast.DictEntry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = ast.DictEntry{Key: e.Key, Value: Optimize(e.Value)}
		}
		return ast.NewDictLit(n.Pos(), entries)
	case *ast.TupleLitNode:
		return ast.NewTupleLit(n.Pos(), Optimize(n.Left), Optimize(n.Right))
	case *ast.ListAccessNode:
		return ast.NewListAccess(n.Pos(), Optimize(n.List), Optimize(n.Index))
	case *ast.DictAccessNode:
		return ast.NewDictAccess(n.Pos(), Optimize(n.Dict), n.Key)
	case *ast.TupleLeftNode:
		return ast.NewTupleLeft(n.Pos(), Optimize(n.Tuple))
	case *ast.TupleRightNode:
		return ast.NewTupleRight(n.Pos(), Optimize(n.Tuple))
	case *ast.ListSliceNode:
		low, high := n.Low, n.High
		if low != nil {
			low = Optimize(low)
		}
		if high != nil {
			high = Optimize(high)
		}
		return ast.NewListSlice(n.Pos(), Optimize(n.List), low, high)
	case *ast.ListAddNode:
		return ast.NewListAdd(n.Pos(), Optimize(n.List), Optimize(n.Index), Optimize(n.Value))
	case *ast.ListRemoveNode:
		return ast.NewListRemove(n.Pos(), Optimize(n.List), Optimize(n.Index))
	case *ast.ApplyNode:
		args := make([]ast.Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Optimize(a)
		}
		return ast.NewApply(n.Pos(), Optimize(n.Fn), args)
	case *ast.LambdaLitNode:
		return ast.NewLambdaLit(n.Pos(), n.Params, Optimize(n.Body))
	case *ast.ThunkLitNode:
		return ast.NewThunkLit(n.Pos(), Optimize(n.Body))
	case *ast.MagnitudeNode:
		return ast.NewMagnitude(n.Pos(), Optimize(n.Operand))
	case *ast.NormNode:
		return ast.NewNorm(n.Pos(), Optimize(n.Operand))
	case *ast.PrintNode:
		args := make([]ast.Node, len(n.Args))
		for i, a := range n.Args {
			args[i] = Optimize(a)
		}
		return ast.NewPrint(n.Pos(), args)
	case *ast.CastNode:
		return ast.NewCast(n.Pos(), n.Target, Optimize(n.Operand))
	case *ast.IsaNode:
		return ast.NewIsa(n.Pos(), n.Target, Optimize(n.Operand))
	case *ast.FoldNode:
		return ast.NewFold(n.Pos(), Optimize(n.List), Optimize(n.Init), Optimize(n.Fn))
	case *ast.MapNode:
		return ast.NewMap(n.Pos(), Optimize(n.List), Optimize(n.Fn))
	case *ast.SwitchNode:
		arms := make([]ast.SwitchArm, len(n.Arms))
		for i, a := range n.Arms {
			arms[i] = ast.SwitchArm{Constructor: a.Constructor, Fields: a.Fields, Body: Optimize(a.Body)}
		}
		return ast.NewSwitch(n.Pos(), Optimize(n.Scrutinee), arms)
	case *ast.DerivativeNode:
		// Body is intentionally left unoptimized — see the package doc.
		return n
	default:
		return n
	}
}

func intLit(pos token.Position, v int64) *ast.IntLitNode   { return ast.NewIntLit(pos, v) }
func realLit(pos token.Position, v float64) *ast.RealLitNode { return ast.NewRealLit(pos, v) }
func boolLit(pos token.Position, v bool) *ast.BoolLitNode   { return ast.NewBoolLit(pos, v) }

func asIntLit(n ast.Node) (int64, bool) {
	if v, ok := n.(*ast.IntLitNode); ok {
		return v.Value, true
	}
	return 0, false
}

func asRealLit(n ast.Node) (float64, bool) {
	switch v := n.(type) {
	case *ast.RealLitNode:
		return v.Value, true
	case *ast.IntLitNode:
		return float64(v.Value), true
	}
	return 0, false
}

func isNumericLit(n ast.Node) bool {
	switch n.(type) {
	case *ast.IntLitNode, *ast.RealLitNode:
		return true
	}
	return false
}

func isIntLit(n ast.Node) bool {
	_, ok := n.(*ast.IntLitNode)
	return ok
}

// foldConstants mirrors foldIntegerOp/foldFloatOp: when both operands of
// an arithmetic or comparison node are literals, compute the result at
// optimize time instead of at every evaluation.
func foldConstants(node ast.Node) (ast.Node, bool) {
	switch n := node.(type) {
	case *ast.BinaryOpNode:
		if !isNumericLit(n.Left) || !isNumericLit(n.Right) {
			return node, false
		}
		if isIntLit(n.Left) && isIntLit(n.Right) && n.Op != "/" {
			l, _ := asIntLit(n.Left)
			r, _ := asIntLit(n.Right)
			switch n.Op {
			case "+":
				return intLit(n.Pos(), l+r), true
			case "-":
				return intLit(n.Pos(), l-r), true
			case "*":
				return intLit(n.Pos(), l*r), true
			case "^":
				if r >= 0 {
					return intLit(n.Pos(), intPow(l, r)), true
				}
			}
			return node, false
		}
		l, _ := asRealLit(n.Left)
		r, _ := asRealLit(n.Right)
		switch n.Op {
		case "+":
			return realLit(n.Pos(), l+r), true
		case "-":
			return realLit(n.Pos(), l-r), true
		case "*":
			return realLit(n.Pos(), l*r), true
		case "/":
			if r != 0 {
				return realLit(n.Pos(), l/r), true
			}
		case "^":
			return realLit(n.Pos(), math.Pow(l, r)), true
		}
		return node, false

	case *ast.UnaryNegNode:
		switch v := n.Operand.(type) {
		case *ast.IntLitNode:
			return intLit(n.Pos(), -v.Value), true
		case *ast.RealLitNode:
			return realLit(n.Pos(), -v.Value), true
		}
		return node, false

	case *ast.CompareNode:
		if !isNumericLit(n.Left) || !isNumericLit(n.Right) {
			return node, false
		}
		l, _ := asRealLit(n.Left)
		r, _ := asRealLit(n.Right)
		switch n.Op {
		case "==":
			return boolLit(n.Pos(), l == r), true
		case "!=":
			return boolLit(n.Pos(), l != r), true
		case "<":
			return boolLit(n.Pos(), l < r), true
		case ">":
			return boolLit(n.Pos(), l > r), true
		case "<=":
			return boolLit(n.Pos(), l <= r), true
		case ">=":
			return boolLit(n.Pos(), l >= r), true
		}
		return node, false

	case *ast.BoolOpNode:
		lb, lok := n.Left.(*ast.BoolLitNode)
		rb, rok := n.Right.(*ast.BoolLitNode)
		if !lok || !rok {
			return node, false
		}
		switch n.Op {
		case "and":
			return boolLit(n.Pos(), lb.Value && rb.Value), true
		case "or":
			return boolLit(n.Pos(), lb.Value || rb.Value), true
		}
		return node, false

	case *ast.NotNode:
		if b, ok := n.Operand.(*ast.BoolLitNode); ok {
			return boolLit(n.Pos(), !b.Value), true
		}
		return node, false

	case *ast.IfNode:
		if b, ok := n.Cond.(*ast.BoolLitNode); ok {
			if b.Value {
				return n.Then, true
			}
			return n.Else, true
		}
		return node, false
	}
	return node, false
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// simplifyAlgebra applies the identities a hand-written program most
// often leaves on the table: x+0, x*1, x*0, and double negation.
func simplifyAlgebra(node ast.Node) (ast.Node, bool) {
	bin, ok := node.(*ast.BinaryOpNode)
	if ok {
		switch bin.Op {
		case "+":
			if isZero(bin.Right) {
				return bin.Left, true
			}
			if isZero(bin.Left) {
				return bin.Right, true
			}
		case "-":
			if isZero(bin.Right) {
				return bin.Left, true
			}
		case "*":
			if isZero(bin.Left) || isZero(bin.Right) {
				return intLit(bin.Pos(), 0), true
			}
			if isOne(bin.Right) {
				return bin.Left, true
			}
			if isOne(bin.Left) {
				return bin.Right, true
			}
		}
		return node, false
	}
	if neg, ok := node.(*ast.UnaryNegNode); ok {
		if inner, ok := neg.Operand.(*ast.UnaryNegNode); ok {
			return inner.Operand, true
		}
	}
	return node, false
}

func isZero(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.IntLitNode:
		return v.Value == 0
	case *ast.RealLitNode:
		return v.Value == 0
	}
	return false
}

func isOne(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.IntLitNode:
		return v.Value == 1
	case *ast.RealLitNode:
		return v.Value == 1
	}
	return false
}
