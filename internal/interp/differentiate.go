package interp

import (
	"math"
	"os"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/calculus"
	"github.com/lomda-lang/lomda/internal/diagnostics"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// evalDerivative implements §4.1's Derivative rule: build a seeded
// derivative environment mirroring env, then compute the numeric
// derivative of the body under (env, derivEnv).
func (ip *Interpreter) evalDerivative(n *ast.DerivativeNode, env *runtime.Environment) (runtime.Value, error) {
	derivEnv, err := ip.buildDerivEnv(n.Var, env)
	if err != nil {
		return nil, err
	}
	result, err := ip.Differentiate(n.Body, n.Var, env, derivEnv)
	runtime.ReleaseEnv(derivEnv)
	if err != nil {
		return nil, err
	}
	return ip.Force(result)
}

// buildDerivEnv mirrors env frame-for-frame (§4.1): every lambda binding
// becomes a new lambda over the symbolic derivative of its body; every
// other binding becomes a seed value, 1-shaped if its name is x else
// 0-shaped, matching the point value's container structure (seedFor).
func (ip *Interpreter) buildDerivEnv(x string, env *runtime.Environment) (*runtime.Environment, error) {
	if env == nil {
		return nil, nil
	}
	parent, err := ip.buildDerivEnv(x, env.Subenvironment())
	if err != nil {
		return nil, err
	}
	var frame *runtime.Environment
	if parent == nil {
		frame = runtime.NewEnvironment()
	} else {
		frame = parent.ExtendEmpty()
		runtime.ReleaseEnv(parent)
	}
	for _, name := range env.Names() {
		v, _ := env.Lookup(name)
		var dv runtime.Value
		if lam, ok := v.(*runtime.LambdaVal); ok {
			bodyD, err := calculus.Derivative(lam.Body, x)
			if err != nil {
				runtime.ReleaseEnv(frame)
				return nil, err
			}
			dv = runtime.NewLambda(lam.Params, bodyD, lam.Env)
		} else {
			dv = seedFor(v, name == x)
		}
		frame.Declare(name, dv)
	}
	return frame, nil
}

func seedFor(v runtime.Value, isX bool) runtime.Value {
	if isX {
		return oneSeed(v)
	}
	return zeroSeed(v)
}

// zeroSeed fills a structure matching v's shape with 0 at every leaf.
func zeroSeed(v runtime.Value) runtime.Value {
	switch c := v.(type) {
	case *runtime.ListVal:
		out := make([]runtime.Value, c.Len())
		for i, e := range c.Elements {
			out[i] = zeroSeed(e)
		}
		return runtime.NewList(out)
	case *runtime.DictVal:
		d := runtime.NewDict()
		for _, k := range c.Keys {
			el, _ := c.Get(k)
			d.Set(k, zeroSeed(el))
		}
		return d
	case *runtime.TupleVal:
		return runtime.NewTuple(zeroSeed(c.Left), zeroSeed(c.Right))
	}
	return &runtime.RealVal{Value: 0}
}

// oneSeed produces the "identity" seed §4.4's closing invariant describes:
// for a matrix-shaped value, the identity matrix (1 on the diagonal, 0
// elsewhere); for every other shape, a structure filled with 1 at every
// leaf.
func oneSeed(v runtime.Value) runtime.Value {
	if lv, ok := v.(*runtime.ListVal); ok && runtime.IsMatrix(lv) {
		rows := make([]runtime.Value, lv.Len())
		for i := range lv.Elements {
			rowLen := lv.Elements[i].(*runtime.ListVal).Len()
			cells := make([]runtime.Value, rowLen)
			for j := range cells {
				if i == j {
					cells[j] = &runtime.IntVal{Value: 1}
				} else {
					cells[j] = &runtime.IntVal{Value: 0}
				}
			}
			rows[i] = runtime.NewList(cells)
		}
		return runtime.NewList(rows)
	}
	switch c := v.(type) {
	case *runtime.ListVal:
		out := make([]runtime.Value, c.Len())
		for i, e := range c.Elements {
			out[i] = oneSeed(e)
		}
		return runtime.NewList(out)
	case *runtime.DictVal:
		d := runtime.NewDict()
		for _, k := range c.Keys {
			el, _ := c.Get(k)
			d.Set(k, oneSeed(el))
		}
		return d
	case *runtime.TupleVal:
		return runtime.NewTuple(oneSeed(c.Left), oneSeed(c.Right))
	}
	return &runtime.RealVal{Value: 1}
}

// Differentiate computes ∂node/∂x at the point described by env, using
// derivEnv's seeds for leaf variables — §4.4's numeric differentiation
// pass. Unlike internal/calculus.Derivative, several rules here need a
// concrete value (the `b` in a product rule, the arguments to an Apply)
// and call back into ip.Eval; per §9's stratification note, that is why
// this lives in internal/interp rather than internal/calculus.
func (ip *Interpreter) Differentiate(node ast.Node, x string, env, derivEnv *runtime.Environment) (runtime.Value, error) {
	pos := node.Pos()
	if ip.Config.Verbose {
		diagnostics.Debug(os.Stderr, "d/d%s: %T at %d:%d", x, node, pos.Line, pos.Column)
	}
	switch n := node.(type) {
	case *ast.IntLitNode:
		return &runtime.IntVal{Value: 0}, nil
	case *ast.RealLitNode:
		return &runtime.RealVal{Value: 0}, nil
	case *ast.VoidLitNode:
		return &runtime.VoidVal{}, nil
	case *ast.BoolLitNode, *ast.StringLitNode:
		return nil, calcErr(pos, "cannot differentiate a boolean or string literal")

	case *ast.VariableNode:
		dv, ok := derivEnv.Lookup(n.Name)
		if !ok {
			return nil, calcErr(pos, "no derivative seed for %q", n.Name)
		}
		return ip.Force(dv)

	case *ast.BinaryOpNode:
		return ip.diffBinary(n, x, env, derivEnv)
	case *ast.UnaryNegNode:
		d, err := ip.Differentiate(n.Operand, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		return negValue(pos, d)

	case *ast.CompareNode, *ast.BoolOpNode, *ast.NotNode, *ast.CastNode, *ast.IsaNode, *ast.PrintNode, *ast.InputNode:
		return nil, calcErr(pos, "non-differentiable expression")

	case *ast.IfNode:
		cond, err := ip.evalForced(n.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*runtime.BoolVal)
		if !ok {
			return nil, typeErr(pos, "if condition must be Bool, got %s", cond.Type())
		}
		if b.Value {
			return ip.Differentiate(n.Then, x, env, derivEnv)
		}
		return ip.Differentiate(n.Else, x, env, derivEnv)

	case *ast.WhileNode:
		var last runtime.Value = &runtime.VoidVal{}
		for {
			cond, err := ip.evalForced(n.Cond, env)
			if err != nil {
				return nil, err
			}
			b, ok := cond.(*runtime.BoolVal)
			if !ok {
				return nil, typeErr(pos, "while condition must be Bool, got %s", cond.Type())
			}
			if !b.Value {
				break
			}
			v, err := ip.Differentiate(n.Body, x, env, derivEnv)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case *ast.DoWhileNode:
		var last runtime.Value = &runtime.VoidVal{}
		for {
			v, err := ip.Differentiate(n.Body, x, env, derivEnv)
			if err != nil {
				return nil, err
			}
			last = v
			cond, err := ip.evalForced(n.Cond, env)
			if err != nil {
				return nil, err
			}
			b, ok := cond.(*runtime.BoolVal)
			if !ok {
				return nil, typeErr(pos, "do-while condition must be Bool, got %s", cond.Type())
			}
			if !b.Value {
				break
			}
		}
		return last, nil

	case *ast.ForInNode:
		srcVal, err := ip.evalForced(n.Source, env)
		if err != nil {
			return nil, err
		}
		list, ok := srcVal.(*runtime.ListVal)
		if !ok {
			return nil, typeErr(pos, "for-in source must be a List, got %s", srcVal.Type())
		}
		srcD, err := ip.Differentiate(n.Source, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		listD, ok := srcD.(*runtime.ListVal)
		if !ok || listD.Len() != list.Len() {
			return nil, calcErr(pos, "for-in derivative source must match element count")
		}
		var last runtime.Value = &runtime.VoidVal{}
		for i, el := range list.Elements {
			valFrame := env.Extend(n.Name, el)
			derivFrame := derivEnv.Extend(n.Name, listD.Elements[i])
			v, err := ip.Differentiate(n.Body, x, valFrame, derivFrame)
			runtime.ReleaseEnv(valFrame)
			runtime.ReleaseEnv(derivFrame)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case *ast.LetNode:
		return ip.diffLet(n, x, env, derivEnv)

	case *ast.SeqNode:
		var last runtime.Value = &runtime.VoidVal{}
		for _, e := range n.Exprs {
			v, err := ip.Differentiate(e, x, env, derivEnv)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case *ast.ListLitNode:
		out := make([]runtime.Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := ip.Differentiate(e, x, env, derivEnv)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return runtime.NewList(out), nil

	case *ast.DictLitNode:
		d := runtime.NewDict()
		for _, e := range n.Entries {
			v, err := ip.Differentiate(e.Value, x, env, derivEnv)
			if err != nil {
				return nil, err
			}
			d.Set(e.Key, v)
		}
		return d, nil

	case *ast.TupleLitNode:
		l, err := ip.Differentiate(n.Left, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		r, err := ip.Differentiate(n.Right, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		return runtime.NewTuple(l, r), nil

	case *ast.ListAccessNode:
		dl, err := ip.Differentiate(n.List, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		list, ok := dl.(*runtime.ListVal)
		if !ok {
			return nil, typeErr(pos, "index target derivative must be a List, got %s", dl.Type())
		}
		iv, err := ip.evalForced(n.Index, env)
		if err != nil {
			return nil, err
		}
		idx, ok := iv.(*runtime.IntVal)
		if !ok {
			return nil, typeErr(pos, "list index must be Int, got %s", iv.Type())
		}
		el, ok := list.Get(int(idx.Value))
		if !ok {
			return nil, rtErr(pos, "list index %d out of bounds (length %d)", idx.Value, list.Len())
		}
		return ip.Force(el)

	case *ast.DictAccessNode:
		dd, err := ip.Differentiate(n.Dict, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		dict, ok := dd.(*runtime.DictVal)
		if !ok {
			return nil, typeErr(pos, "field access derivative must be a Dict, got %s", dd.Type())
		}
		v, ok := dict.Get(n.Key)
		if !ok {
			return nil, rtErr(pos, "dict has no field %q", n.Key)
		}
		return ip.Force(v)

	case *ast.TupleLeftNode:
		dt, err := ip.Differentiate(n.Tuple, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		t, ok := dt.(*runtime.TupleVal)
		if !ok {
			return nil, typeErr(pos, "left of non-tuple derivative %s", dt.Type())
		}
		return ip.Force(t.Left)
	case *ast.TupleRightNode:
		dt, err := ip.Differentiate(n.Tuple, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		t, ok := dt.(*runtime.TupleVal)
		if !ok {
			return nil, typeErr(pos, "right of non-tuple derivative %s", dt.Type())
		}
		return ip.Force(t.Right)

	case *ast.ListSliceNode:
		dl, err := ip.Differentiate(n.List, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
		list, ok := dl.(*runtime.ListVal)
		if !ok {
			return nil, typeErr(pos, "slice target derivative must be a List, got %s", dl.Type())
		}
		low, high := 0, list.Len()
		if n.Low != nil {
			lv, err := ip.evalForced(n.Low, env)
			if err != nil {
				return nil, err
			}
			li, ok := lv.(*runtime.IntVal)
			if !ok {
				return nil, typeErr(pos, "slice bound must be Int, got %s", lv.Type())
			}
			low = int(li.Value)
		}
		if n.High != nil {
			hv, err := ip.evalForced(n.High, env)
			if err != nil {
				return nil, err
			}
			hi, ok := hv.(*runtime.IntVal)
			if !ok {
				return nil, typeErr(pos, "slice bound must be Int, got %s", hv.Type())
			}
			high = int(hi.Value)
		}
		out, ok := list.Slice(low, high)
		if !ok {
			return nil, rtErr(pos, "invalid slice bounds [%d:%d)", low, high)
		}
		return out, nil

	case *ast.ApplyNode:
		return ip.diffApply(n, x, env, derivEnv)

	case *ast.FoldNode:
		return ip.diffFold(n, x, env, derivEnv)
	case *ast.MapNode:
		return ip.diffMap(n, x, env, derivEnv)

	case *ast.LambdaLitNode:
		bodyD, err := calculus.Derivative(n.Body, x)
		if err != nil {
			return nil, err
		}
		return runtime.NewLambda(n.Params, bodyD, env.Clone()), nil

	case *ast.ThunkLitNode:
		return ip.Differentiate(n.Body, x, env, derivEnv)

	case *ast.DerivativeNode:
		// Nested derivatives compose (§4.5): differentiate the inner body
		// symbolically once more with respect to its own variable, then
		// continue the numeric pass on the resulting expression.
		innerSymbolic, err := calculus.Derivative(n.Body, n.Var)
		if err != nil {
			return nil, err
		}
		return ip.Differentiate(innerSymbolic, x, env, derivEnv)
	}

	return nil, calcErr(pos, "non-differentiable expression")
}

func (ip *Interpreter) diffBinary(n *ast.BinaryOpNode, x string, env, derivEnv *runtime.Environment) (runtime.Value, error) {
	pos := n.Pos()
	dl, err := ip.Differentiate(n.Left, x, env, derivEnv)
	if err != nil {
		return nil, err
	}
	dr, err := ip.Differentiate(n.Right, x, env, derivEnv)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "+":
		return applyArith(pos, "+", dl, dr)
	case "-":
		return applyArith(pos, "-", dl, dr)
	case "*":
		a, err := ip.evalForced(n.Left, env)
		if err != nil {
			return nil, err
		}
		b, err := ip.evalForced(n.Right, env)
		if err != nil {
			return nil, err
		}
		t1, err := mulValues(pos, a, dr)
		if err != nil {
			return nil, err
		}
		t2, err := mulValues(pos, b, dl)
		if err != nil {
			return nil, err
		}
		return addOrSub(pos, t1, t2, false)
	case "/":
		a, err := ip.evalForced(n.Left, env)
		if err != nil {
			return nil, err
		}
		b, err := ip.evalForced(n.Right, env)
		if err != nil {
			return nil, err
		}
		t1, err := mulValues(pos, b, dl)
		if err != nil {
			return nil, err
		}
		t2, err := mulValues(pos, a, dr)
		if err != nil {
			return nil, err
		}
		num, err := addOrSub(pos, t1, t2, true)
		if err != nil {
			return nil, err
		}
		den, err := mulValues(pos, b, b)
		if err != nil {
			return nil, err
		}
		return divValues(pos, num, den)
	case "^":
		return ip.diffPow(n, dl, dr, env)
	}
	return nil, calcErr(pos, "unknown binary operator %q", n.Op)
}

// diffPow implements §4.1's scalar power rule:
// d(b^p) = b^(p-1) · (p·b' + b·ln(b)·p').
func (ip *Interpreter) diffPow(n *ast.BinaryOpNode, db, dp runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	pos := n.Pos()
	b, err := ip.evalForced(n.Left, env)
	if err != nil {
		return nil, err
	}
	p, err := ip.evalForced(n.Right, env)
	if err != nil {
		return nil, err
	}
	if !runtime.IsNumeric(b) || !runtime.IsNumeric(p) {
		return nil, calcErr(pos, "exponent differentiation requires a scalar numeric base and exponent")
	}
	bf, pf := runtime.AsFloat(b), runtime.AsFloat(p)
	bToPMinus1 := &runtime.RealVal{Value: math.Pow(bf, pf-1)}
	term1, err := mulValues(pos, p, db)
	if err != nil {
		return nil, err
	}
	lnB := &runtime.RealVal{Value: math.Log(bf)}
	bLnB, err := mulValues(pos, b, lnB)
	if err != nil {
		return nil, err
	}
	term2, err := mulValues(pos, bLnB, dp)
	if err != nil {
		return nil, err
	}
	sum, err := addOrSub(pos, term1, term2, false)
	if err != nil {
		return nil, err
	}
	return mulValues(pos, bToPMinus1, sum)
}

// diffApply implements §4.4's Apply rule:
// Σᵢ (∂f/∂paramᵢ evaluated at u₁…uₙ) · d(uᵢ).
func (ip *Interpreter) diffApply(n *ast.ApplyNode, x string, env, derivEnv *runtime.Environment) (runtime.Value, error) {
	pos := n.Pos()
	fnVal, err := ip.evalForced(n.Fn, env)
	if err != nil {
		return nil, err
	}
	lam, ok := fnVal.(*runtime.LambdaVal)
	if !ok {
		return nil, typeErr(pos, "cannot differentiate application of a value of type %s", fnVal.Type())
	}
	if len(n.Args) != len(lam.Params) {
		return nil, rtErr(pos, "wrong number of arguments: expected %d, got %d", len(lam.Params), len(n.Args))
	}
	args := make([]runtime.Value, len(n.Args))
	dArgs := make([]runtime.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ip.evalForced(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
		dArgs[i], err = ip.Differentiate(a, x, env, derivEnv)
		if err != nil {
			return nil, err
		}
	}
	return ip.diffApplyAt(pos, lam, args, dArgs)
}

// diffApplyAt implements the Apply rule's Σᵢ (∂f/∂paramᵢ at args) · dArgs[i]
// sum directly from already-evaluated arguments and their derivatives,
// factored out of diffApply so diffFold/diffMap can apply the same chain
// rule once per combinator step without needing literal AST argument
// nodes for each list element.
func (ip *Interpreter) diffApplyAt(pos token.Position, lam *runtime.LambdaVal, args, dArgs []runtime.Value) (runtime.Value, error) {
	var total runtime.Value
	for i, param := range lam.Params {
		partialBody, err := calculus.Derivative(lam.Body, param)
		if err != nil {
			return nil, err
		}
		partial := runtime.NewLambda(lam.Params, partialBody, lam.Env)
		partialAtU, err := ip.applyLambda(pos, partial, args)
		if err != nil {
			return nil, err
		}
		term, err := mulValues(pos, partialAtU, dArgs[i])
		if err != nil {
			return nil, err
		}
		if total == nil {
			total = term
		} else {
			total, err = addOrSub(pos, total, term, false)
			if err != nil {
				return nil, err
			}
		}
	}
	if total == nil {
		return &runtime.RealVal{Value: 0}, nil
	}
	return total, nil
}

// diffFold implements the chain rule for `fold(list, init, fn)` (§4.1,
// §4.4): fn is applied left to right exactly as evalFold does, but each
// step also carries the accumulator's derivative forward, combining the
// partials with respect to both of fn's parameters (acc and the current
// element) the way diffApplyAt does for a single Apply.
func (ip *Interpreter) diffFold(n *ast.FoldNode, x string, env, derivEnv *runtime.Environment) (runtime.Value, error) {
	pos := n.Pos()
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(pos, "fold requires a List, got %s", lv.Type())
	}
	listD, err := ip.Differentiate(n.List, x, env, derivEnv)
	if err != nil {
		return nil, err
	}
	listDVal, ok := listD.(*runtime.ListVal)
	if !ok || listDVal.Len() != list.Len() {
		return nil, calcErr(pos, "fold derivative source must match element count")
	}
	fnVal, err := ip.evalForced(n.Fn, env)
	if err != nil {
		return nil, err
	}
	lam, ok := fnVal.(*runtime.LambdaVal)
	if !ok || len(lam.Params) != 2 {
		return nil, typeErr(pos, "fold requires a two-argument lambda, got %s", fnVal.Type())
	}
	acc, err := ip.evalForced(n.Init, env)
	if err != nil {
		return nil, err
	}
	dAcc, err := ip.Differentiate(n.Init, x, env, derivEnv)
	if err != nil {
		return nil, err
	}
	for i, el := range list.Elements {
		dEl := listDVal.Elements[i]
		dAccNext, err := ip.diffApplyAt(pos, lam, []runtime.Value{acc, el}, []runtime.Value{dAcc, dEl})
		if err != nil {
			return nil, err
		}
		accNext, err := ip.applyLambda(pos, fnVal, []runtime.Value{acc, el})
		if err != nil {
			return nil, err
		}
		acc, dAcc = accNext, dAccNext
	}
	return dAcc, nil
}

// diffMap implements the chain rule for `map(list, fn)`: each output
// element's derivative is fn's single-parameter partial evaluated at the
// corresponding input element, times that element's own derivative.
func (ip *Interpreter) diffMap(n *ast.MapNode, x string, env, derivEnv *runtime.Environment) (runtime.Value, error) {
	pos := n.Pos()
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(pos, "map requires a List, got %s", lv.Type())
	}
	listD, err := ip.Differentiate(n.List, x, env, derivEnv)
	if err != nil {
		return nil, err
	}
	listDVal, ok := listD.(*runtime.ListVal)
	if !ok || listDVal.Len() != list.Len() {
		return nil, calcErr(pos, "map derivative source must match element count")
	}
	fnVal, err := ip.evalForced(n.Fn, env)
	if err != nil {
		return nil, err
	}
	lam, ok := fnVal.(*runtime.LambdaVal)
	if !ok || len(lam.Params) != 1 {
		return nil, typeErr(pos, "map requires a one-argument lambda, got %s", fnVal.Type())
	}
	out := make([]runtime.Value, list.Len())
	for i, el := range list.Elements {
		d, err := ip.diffApplyAt(pos, lam, []runtime.Value{el}, []runtime.Value{listDVal.Elements[i]})
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return runtime.NewList(out), nil
}

// diffLet implements §4.4's Let rule: extend both env and derivEnv with
// each binder's value and derivative (computed in the current
// environments), recursing into the body; recursive lambdas are rewired
// to the final frame exactly as in normal let (evalLet).
func (ip *Interpreter) diffLet(n *ast.LetNode, x string, env, derivEnv *runtime.Environment) (runtime.Value, error) {
	valFrame := env.ExtendEmpty()
	derivFrame := derivEnv.ExtendEmpty()
	var lambdaNames []string
	for _, b := range n.Binders {
		v, err := ip.Eval(b.Value, valFrame)
		if err != nil {
			runtime.ReleaseEnv(valFrame)
			runtime.ReleaseEnv(derivFrame)
			return nil, err
		}
		dv, err := ip.Differentiate(b.Value, x, valFrame, derivFrame)
		if err != nil {
			runtime.ReleaseEnv(valFrame)
			runtime.ReleaseEnv(derivFrame)
			return nil, err
		}
		valFrame.Declare(b.Name, v)
		derivFrame.Declare(b.Name, dv)
		if _, ok := v.(*runtime.LambdaVal); ok {
			lambdaNames = append(lambdaNames, b.Name)
		}
	}
	for _, name := range lambdaNames {
		if v, ok := valFrame.Lookup(name); ok {
			if lam, ok := v.(*runtime.LambdaVal); ok {
				lam.Rebind(valFrame)
			}
		}
	}
	result, err := ip.Differentiate(n.Body, x, valFrame, derivFrame)
	runtime.ReleaseEnv(valFrame)
	runtime.ReleaseEnv(derivFrame)
	return result, err
}
