package interp

import (
	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// evalApply implements §4.3's application procedure: evaluate the
// operator, evaluate every argument left to right, then hand both to
// applyLambda for the arity check and frame setup.
func (ip *Interpreter) evalApply(n *ast.ApplyNode, env *runtime.Environment) (runtime.Value, error) {
	fnVal, err := ip.evalForced(n.Fn, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ip.evalForced(a, env)
		if err != nil {
			for _, already := range args[:i] {
				runtime.Release(already)
			}
			return nil, err
		}
		args[i] = v
	}
	return ip.applyLambda(n.Pos(), fnVal, args)
}

// applyLambda implements §4.3 steps 3-5: check arity, clone the closure's
// captured environment, extend it with parameter-to-argument bindings in
// order, evaluate the body, and release the extended environment. An
// ADTCtorVal (the callable an ADTDecl binds its constructor names to,
// §4.1) is applied the same way arity-wise but builds an ADTVal directly
// rather than evaluating a body.
func (ip *Interpreter) applyLambda(pos token.Position, fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if ctor, ok := fn.(*runtime.ADTCtorVal); ok {
		if len(args) != ctor.Arity {
			return nil, rtErr(pos, "wrong number of arguments to %s: expected %d, got %d", ctor.Name, ctor.Arity, len(args))
		}
		return runtime.NewADT(ctor.TypeName, ctor.Name, args), nil
	}
	if native, ok := fn.(*runtime.NativeFuncVal); ok {
		if len(args) != native.Arity {
			return nil, rtErr(pos, "wrong number of arguments to %s: expected %d, got %d", native.Name, native.Arity, len(args))
		}
		return native.Fn(pos, args)
	}
	lam, ok := fn.(*runtime.LambdaVal)
	if !ok {
		return nil, typeErr(pos, "cannot apply a value of type %s", fn.Type())
	}
	if len(args) != len(lam.Params) {
		return nil, rtErr(pos, "wrong number of arguments: expected %d, got %d", len(lam.Params), len(args))
	}
	frame := lam.Env.Clone()
	for i, p := range lam.Params {
		frame.Declare(p, args[i])
	}
	result, err := ip.Eval(lam.Body, frame)
	runtime.ReleaseEnv(frame)
	if err != nil {
		return nil, err
	}
	return ip.Force(result)
}

// evalFold implements `fold(list, init, fn)` (§4.1): fn, a two-argument
// lambda taking the running accumulator and the current element, applied
// left to right over the list.
func (ip *Interpreter) evalFold(n *ast.FoldNode, env *runtime.Environment) (runtime.Value, error) {
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(n.Pos(), "fold requires a List, got %s", lv.Type())
	}
	fnVal, err := ip.evalForced(n.Fn, env)
	if err != nil {
		return nil, err
	}
	acc, err := ip.evalForced(n.Init, env)
	if err != nil {
		return nil, err
	}
	for _, el := range list.Elements {
		acc, err = ip.applyLambda(n.Pos(), fnVal, []runtime.Value{acc, el})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// evalMap implements `map(list, fn)`: fn, a one-argument lambda, applied
// to each element, producing a list of the same length.
func (ip *Interpreter) evalMap(n *ast.MapNode, env *runtime.Environment) (runtime.Value, error) {
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(n.Pos(), "map requires a List, got %s", lv.Type())
	}
	fnVal, err := ip.evalForced(n.Fn, env)
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, list.Len())
	for i, el := range list.Elements {
		v, err := ip.applyLambda(n.Pos(), fnVal, []runtime.Value{el})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return runtime.NewList(out), nil
}
