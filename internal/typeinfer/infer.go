package typeinfer

import (
	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/diagnostics"
)

// Infer walks node under env, returning its inferred type. Failures are
// returned as errors (unification failures as plain errors, others as
// type-category diagnostics) even though typing is advisory
// (§1 Non-goals) — cmd/lomda decides whether to surface or ignore them.
func Infer(node ast.Node, env *Env) (Type, error) {
	switch n := node.(type) {
	case *ast.IntLitNode:
		return Int, nil
	case *ast.RealLitNode:
		return Real, nil
	case *ast.BoolLitNode:
		return Bool, nil
	case *ast.StringLitNode:
		return String, nil
	case *ast.VoidLitNode:
		return Void, nil

	case *ast.VariableNode:
		if t, ok := env.Lookup(n.Name); ok {
			return t, nil
		}
		fresh := FreshVar()
		env.Declare(n.Name, fresh)
		return fresh, nil

	case *ast.BinaryOpNode:
		return inferArith(n, env)
	case *ast.UnaryNegNode:
		return Infer(n.Operand, env)

	case *ast.CompareNode:
		if _, err := Infer(n.Left, env); err != nil {
			return nil, err
		}
		if _, err := Infer(n.Right, env); err != nil {
			return nil, err
		}
		return Bool, nil

	case *ast.BoolOpNode:
		if err := unifyExpr(n.Left, Bool, env); err != nil {
			return nil, err
		}
		if err := unifyExpr(n.Right, Bool, env); err != nil {
			return nil, err
		}
		return Bool, nil
	case *ast.NotNode:
		if err := unifyExpr(n.Operand, Bool, env); err != nil {
			return nil, err
		}
		return Bool, nil

	case *ast.IfNode:
		if err := unifyExpr(n.Cond, Bool, env); err != nil {
			return nil, err
		}
		thenT, err := Infer(n.Then, env)
		if err != nil {
			return nil, err
		}
		elseT, err := Infer(n.Else, env)
		if err != nil {
			return nil, err
		}
		return Unify(thenT, elseT, env.Substitution())

	case *ast.WhileNode:
		if err := unifyExpr(n.Cond, Bool, env); err != nil {
			return nil, err
		}
		return Infer(n.Body, env)
	case *ast.DoWhileNode:
		bodyT, err := Infer(n.Body, env)
		if err != nil {
			return nil, err
		}
		if err := unifyExpr(n.Cond, Bool, env); err != nil {
			return nil, err
		}
		return bodyT, nil
	case *ast.ForInNode:
		srcT, err := Infer(n.Source, env)
		if err != nil {
			return nil, err
		}
		lt, err := Unify(srcT, ListType{Elem: FreshVar()}, env.Substitution())
		if err != nil {
			return nil, err
		}
		elem := lt.(ListType).Elem
		child := env.Extend(n.Name, elem)
		return Infer(n.Body, child)

	case *ast.LetNode:
		cur := env
		for _, b := range n.Binders {
			bt, err := Infer(b.Value, cur)
			if err != nil {
				return nil, err
			}
			cur = cur.Extend(b.Name, bt)
		}
		return Infer(n.Body, cur)

	case *ast.SeqNode:
		var last Type = Void
		for _, e := range n.Exprs {
			t, err := Infer(e, env)
			if err != nil {
				return nil, err
			}
			last = t
		}
		return last, nil

	case *ast.SetNode:
		vt, err := Infer(n.Value, env)
		if err != nil {
			return nil, err
		}
		tt, err := Infer(n.Target, env)
		if err != nil {
			return nil, err
		}
		if _, err := Unify(tt, vt, env.Substitution()); err != nil {
			return nil, err
		}
		return Void, nil

	case *ast.ListLitNode:
		if len(n.Elements) == 0 {
			return ListType{Elem: FreshVar()}, nil
		}
		elem, err := Infer(n.Elements[0], env)
		if err != nil {
			return nil, err
		}
		for _, e := range n.Elements[1:] {
			t, err := Infer(e, env)
			if err != nil {
				return nil, err
			}
			elem, err = Unify(elem, t, env.Substitution())
			if err != nil {
				return nil, err
			}
		}
		return ListType{Elem: elem}, nil

	case *ast.DictLitNode:
		fields := make(map[string]Type, len(n.Entries))
		for _, e := range n.Entries {
			t, err := Infer(e.Value, env)
			if err != nil {
				return nil, err
			}
			fields[e.Key] = t
		}
		return DictType{Fields: fields}, nil

	case *ast.TupleLitNode:
		l, err := Infer(n.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := Infer(n.Right, env)
		if err != nil {
			return nil, err
		}
		return TupleType{Left: l, Right: r}, nil

	case *ast.ListAccessNode:
		lt, err := Infer(n.List, env)
		if err != nil {
			return nil, err
		}
		if err := unifyExpr(n.Index, Int, env); err != nil {
			return nil, err
		}
		ut, err := Unify(lt, ListType{Elem: FreshVar()}, env.Substitution())
		if err != nil {
			return nil, err
		}
		return ut.(ListType).Elem, nil

	case *ast.DictAccessNode:
		dt, err := Infer(n.Dict, env)
		if err != nil {
			return nil, err
		}
		if dict, ok := dt.(DictType); ok {
			if ft, ok := dict.Fields[n.Key]; ok {
				return ft, nil
			}
		}
		return FreshVar(), nil

	case *ast.TupleLeftNode:
		tt, err := Infer(n.Tuple, env)
		if err != nil {
			return nil, err
		}
		ut, err := Unify(tt, TupleType{Left: FreshVar(), Right: FreshVar()}, env.Substitution())
		if err != nil {
			return nil, err
		}
		return ut.(TupleType).Left, nil
	case *ast.TupleRightNode:
		tt, err := Infer(n.Tuple, env)
		if err != nil {
			return nil, err
		}
		ut, err := Unify(tt, TupleType{Left: FreshVar(), Right: FreshVar()}, env.Substitution())
		if err != nil {
			return nil, err
		}
		return ut.(TupleType).Right, nil

	case *ast.ListSliceNode:
		lt, err := Infer(n.List, env)
		if err != nil {
			return nil, err
		}
		if n.Low != nil {
			if err := unifyExpr(n.Low, Int, env); err != nil {
				return nil, err
			}
		}
		if n.High != nil {
			if err := unifyExpr(n.High, Int, env); err != nil {
				return nil, err
			}
		}
		return Unify(lt, ListType{Elem: FreshVar()}, env.Substitution())

	case *ast.ListAddNode:
		if _, err := Infer(n.List, env); err != nil {
			return nil, err
		}
		if err := unifyExpr(n.Index, Int, env); err != nil {
			return nil, err
		}
		if _, err := Infer(n.Value, env); err != nil {
			return nil, err
		}
		return Void, nil
	case *ast.ListRemoveNode:
		if _, err := Infer(n.List, env); err != nil {
			return nil, err
		}
		if err := unifyExpr(n.Index, Int, env); err != nil {
			return nil, err
		}
		return Void, nil

	case *ast.ApplyNode:
		return inferApply(n, env)

	case *ast.LambdaLitNode:
		return inferLambda(n, env)

	case *ast.ThunkLitNode:
		return Infer(n.Body, env)

	case *ast.DerivativeNode:
		// Differentiation preserves shape (§4.4): the derivative of e has
		// the same numeric-or-container type as e itself.
		return Infer(n.Body, env)

	case *ast.MagnitudeNode, *ast.NormNode:
		return Real, nil

	case *ast.PrintNode:
		for _, a := range n.Args {
			if _, err := Infer(a, env); err != nil {
				return nil, err
			}
		}
		return Void, nil
	case *ast.InputNode:
		return String, nil

	case *ast.CastNode:
		if _, err := Infer(n.Operand, env); err != nil {
			return nil, err
		}
		return targetType(n.Target), nil
	case *ast.IsaNode:
		if _, err := Infer(n.Operand, env); err != nil {
			return nil, err
		}
		return Bool, nil

	case *ast.FoldNode:
		if _, err := Infer(n.List, env); err != nil {
			return nil, err
		}
		initT, err := Infer(n.Init, env)
		if err != nil {
			return nil, err
		}
		if _, err := Infer(n.Fn, env); err != nil {
			return nil, err
		}
		return initT, nil
	case *ast.MapNode:
		lt, err := Infer(n.List, env)
		if err != nil {
			return nil, err
		}
		if _, err := Infer(n.Fn, env); err != nil {
			return nil, err
		}
		if _, ok := lt.(ListType); ok {
			return ListType{Elem: FreshVar()}, nil
		}
		return ListType{Elem: FreshVar()}, nil

	case *ast.ImportNode, *ast.FromImportNode:
		// Module shapes are not known statically without evaluating the
		// module (§4.1); inference treats them opaquely.
		return FreshVar(), nil

	case *ast.ADTDeclNode:
		for _, ctor := range n.Constructors {
			fieldTypes := make([]Type, len(ctor.Fields))
			for i := range ctor.Fields {
				fieldTypes[i] = FreshVar()
			}
			var fn Type = ADTType{Name: n.Name}
			for i := len(fieldTypes) - 1; i >= 0; i-- {
				fn = LambdaType{Param: fieldTypes[i], Result: fn}
			}
			env.Declare(ctor.Name, fn)
		}
		return Void, nil

	case *ast.SwitchNode:
		if _, err := Infer(n.Scrutinee, env); err != nil {
			return nil, err
		}
		var result Type
		for _, arm := range n.Arms {
			child := env
			for _, f := range arm.Fields {
				child = child.Extend(f, FreshVar())
			}
			t, err := Infer(arm.Body, child)
			if err != nil {
				return nil, err
			}
			if result == nil {
				result = t
			} else {
				result, err = Unify(result, t, env.Substitution())
				if err != nil {
					return nil, err
				}
			}
		}
		if result == nil {
			return Void, nil
		}
		return result, nil
	}

	return nil, diagnostics.New(diagnostics.Type, node.Pos(), "cannot infer type of node kind %d", node.Kind())
}

func unifyExpr(node ast.Node, want Type, env *Env) error {
	t, err := Infer(node, env)
	if err != nil {
		return err
	}
	_, err = Unify(t, want, env.Substitution())
	return err
}

// inferArith types +, -, *, /, ^ per §4.6: direct unification when both
// operand types are already constant, else a deferred Sum/Mult
// constraint solved later.
func inferArith(n *ast.BinaryOpNode, env *Env) (Type, error) {
	lt, err := Infer(n.Left, env)
	if err != nil {
		return nil, err
	}
	rt, err := Infer(n.Right, env)
	if err != nil {
		return nil, err
	}
	s := env.Substitution()
	lr, rr := s.Resolve(lt), s.Resolve(rt)

	isAdditive := n.Op == "+" || n.Op == "-"
	if isConstant(s, lr) && isConstant(s, rr) {
		return Unify(lr, rr, s)
	}
	if isAdditive {
		return reduceSum(s, lr, rr), nil
	}
	return reduceMult(s, lr, rr), nil
}

// inferApply types `f(u1, ..., un)` by iterating argument positions,
// unifying the operator's type with `arg_i -> fresh` at each step, per
// §4.6.
func inferApply(n *ast.ApplyNode, env *Env) (Type, error) {
	fnType, err := Infer(n.Fn, env)
	if err != nil {
		return nil, err
	}
	cur := fnType
	for _, arg := range n.Args {
		argT, err := Infer(arg, env)
		if err != nil {
			return nil, err
		}
		resultVar := FreshVar()
		unified, err := Unify(cur, LambdaType{Param: argT, Result: resultVar}, env.Substitution())
		if err != nil {
			return nil, err
		}
		cur = unified.(LambdaType).Result
	}
	return cur, nil
}

func inferLambda(n *ast.LambdaLitNode, env *Env) (Type, error) {
	child := env
	params := make([]Type, len(n.Params))
	for i, p := range n.Params {
		fresh := FreshVar()
		params[i] = fresh
		child = child.Extend(p, fresh)
	}
	bodyT, err := Infer(n.Body, child)
	if err != nil {
		return nil, err
	}
	result := bodyT
	for i := len(params) - 1; i >= 0; i-- {
		result = LambdaType{Param: params[i], Result: result, Captured: child}
	}
	return result, nil
}

func targetType(name string) Type {
	switch name {
	case "int":
		return Int
	case "real":
		return Real
	case "bool":
		return Bool
	case "string":
		return String
	default:
		return FreshVar()
	}
}
