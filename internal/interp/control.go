package interp

import (
	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/runtime"
)

// evalWhile, evalDoWhile, and evalForIn implement §4.1's looping forms.
// Every iteration runs in the same frame passed in (for while/do-while) or
// a fresh per-element frame (for for-in); the value of the loop as a whole
// is its last iteration's body value, or Void if the loop body never ran.

func (ip *Interpreter) evalWhile(n *ast.WhileNode, env *runtime.Environment) (runtime.Value, error) {
	var last runtime.Value = &runtime.VoidVal{}
	for {
		cond, err := ip.evalForced(n.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*runtime.BoolVal)
		if !ok {
			return nil, typeErr(n.Pos(), "while condition must be Bool, got %s", cond.Type())
		}
		if !b.Value {
			break
		}
		v, err := ip.Eval(n.Body, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (ip *Interpreter) evalDoWhile(n *ast.DoWhileNode, env *runtime.Environment) (runtime.Value, error) {
	var last runtime.Value = &runtime.VoidVal{}
	for {
		v, err := ip.Eval(n.Body, env)
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
			return nil, typeErr(n.Pos(), "do-while condition must be Bool, got %s", cond.Type())
		}
		if !b.Value {
			break
		}
	}
	return last, nil
}

func (ip *Interpreter) evalForIn(n *ast.ForInNode, env *runtime.Environment) (runtime.Value, error) {
	sv, err := ip.evalForced(n.Source, env)
	if err != nil {
		return nil, err
	}
	list, ok := sv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(n.Pos(), "for-in source must be a List, got %s", sv.Type())
	}
	var last runtime.Value = &runtime.VoidVal{}
	for _, el := range list.Elements {
		frame := env.Extend(n.Name, el)
		v, err := ip.Eval(n.Body, frame)
		runtime.ReleaseEnv(frame)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// evalLet implements §4.1's binding form: binders are declared one at a
// time into a single new frame, each seeing every binder declared before
// it, so `let x = 1, y = x + 1; ...` resolves left to right. After every
// binder has been evaluated, any binder whose value turned out to be a
// LambdaVal is rebound (ast.Binder's doc comment, spec.md §9's
// weak-back-reference note) to close over this same frame rather than the
// partial frame it originally captured — this is what makes self- and
// mutual recursion between let-bound names work without a separate
// `letrec` syntax.
func (ip *Interpreter) evalLet(n *ast.LetNode, env *runtime.Environment) (runtime.Value, error) {
	frame := env.ExtendEmpty()
	var lambdaNames []string
	for _, b := range n.Binders {
		v, err := ip.Eval(b.Value, frame)
		if err != nil {
			runtime.ReleaseEnv(frame)
			return nil, err
		}
		frame.Declare(b.Name, v)
		if _, ok := v.(*runtime.LambdaVal); ok {
			lambdaNames = append(lambdaNames, b.Name)
		}
	}
	for _, name := range lambdaNames {
		if v, ok := frame.Lookup(name); ok {
			if lam, ok := v.(*runtime.LambdaVal); ok {
				lam.Rebind(frame)
			}
		}
	}
	result, err := ip.Eval(n.Body, frame)
	runtime.ReleaseEnv(frame)
	return result, err
}

// evalSet implements §4.1's assignment form over the three valid
// l-value shapes: a bare variable, a list index, or a dict field.
func (ip *Interpreter) evalSet(n *ast.SetNode, env *runtime.Environment) (runtime.Value, error) {
	val, err := ip.evalForced(n.Value, env)
	if err != nil {
		return nil, err
	}
	pos := n.Pos()
	switch t := n.Target.(type) {
	case *ast.VariableNode:
		old, ok := env.Lookup(t.Name)
		if !ok {
			return nil, rtErr(pos, "unbound variable %q", t.Name)
		}
		old, err = ip.Force(old)
		if err != nil {
			return nil, err
		}
		if old.Type() != val.Type() {
			return nil, typeErr(pos, "cannot set %q of type %s to a value of type %s", t.Name, old.Type(), val.Type())
		}
		env.Set(t.Name, val)
	case *ast.ListAccessNode:
		lv, err := ip.evalForced(t.List, env)
		if err != nil {
			return nil, err
		}
		list, ok := lv.(*runtime.ListVal)
		if !ok {
			return nil, typeErr(pos, "assignment target must be a List, got %s", lv.Type())
		}
		iv, err := ip.evalForced(t.Index, env)
		if err != nil {
			return nil, err
		}
		idx, ok := iv.(*runtime.IntVal)
		if !ok {
			return nil, typeErr(pos, "list index must be Int, got %s", iv.Type())
		}
		if !list.SetAt(int(idx.Value), val) {
			return nil, rtErr(pos, "list index %d out of bounds (length %d)", idx.Value, list.Len())
		}
	case *ast.DictAccessNode:
		dv, err := ip.evalForced(t.Dict, env)
		if err != nil {
			return nil, err
		}
		dict, ok := dv.(*runtime.DictVal)
		if !ok {
			return nil, typeErr(pos, "assignment target must be a Dict, got %s", dv.Type())
		}
		dict.Set(t.Key, val)
	default:
		return nil, rtErr(pos, "invalid assignment target")
	}
	return &runtime.VoidVal{}, nil
}

func (ip *Interpreter) evalSlice(n *ast.ListSliceNode, env *runtime.Environment) (runtime.Value, error) {
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(n.Pos(), "slice target must be a List, got %s", lv.Type())
	}
	low := 0
	if n.Low != nil {
		lowV, err := ip.evalForced(n.Low, env)
		if err != nil {
			return nil, err
		}
		li, ok := lowV.(*runtime.IntVal)
		if !ok {
			return nil, typeErr(n.Pos(), "slice bound must be Int, got %s", lowV.Type())
		}
		low = int(li.Value)
	}
	high := list.Len()
	if n.High != nil {
		highV, err := ip.evalForced(n.High, env)
		if err != nil {
			return nil, err
		}
		hi, ok := highV.(*runtime.IntVal)
		if !ok {
			return nil, typeErr(n.Pos(), "slice bound must be Int, got %s", highV.Type())
		}
		high = int(hi.Value)
	}
	out, ok := list.Slice(low, high)
	if !ok {
		return nil, rtErr(n.Pos(), "invalid slice bounds [%d:%d)", low, high)
	}
	return out, nil
}

func (ip *Interpreter) evalListAdd(n *ast.ListAddNode, env *runtime.Environment) (runtime.Value, error) {
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(n.Pos(), "insert target must be a List, got %s", lv.Type())
	}
	iv, err := ip.evalForced(n.Index, env)
	if err != nil {
		return nil, err
	}
	idx, ok := iv.(*runtime.IntVal)
	if !ok {
		return nil, typeErr(n.Pos(), "insert index must be Int, got %s", iv.Type())
	}
	val, err := ip.evalForced(n.Value, env)
	if err != nil {
		return nil, err
	}
	if !list.Add(int(idx.Value), val) {
		return nil, rtErr(n.Pos(), "insert index %d out of bounds (length %d)", idx.Value, list.Len())
	}
	return list, nil
}

func (ip *Interpreter) evalListRemove(n *ast.ListRemoveNode, env *runtime.Environment) (runtime.Value, error) {
	lv, err := ip.evalForced(n.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := lv.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(n.Pos(), "remove target must be a List, got %s", lv.Type())
	}
	iv, err := ip.evalForced(n.Index, env)
	if err != nil {
		return nil, err
	}
	idx, ok := iv.(*runtime.IntVal)
	if !ok {
		return nil, typeErr(n.Pos(), "remove index must be Int, got %s", iv.Type())
	}
	if !list.Remove(int(idx.Value)) {
		return nil, rtErr(n.Pos(), "remove index %d out of bounds (length %d)", idx.Value, list.Len())
	}
	return list, nil
}
