package interp

import (
	"math"
	"strconv"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// evalBinary implements +, -, *, /, ^ over two evaluated operands
// (§4.1): integer/real promotion, pointwise extension to equal-length
// lists, and matrix semantics (matrix*matrix, matrix*vector, dot
// product) layered on top via internal/runtime/matrix.go.
func (ip *Interpreter) evalBinary(n *ast.BinaryOpNode, env *runtime.Environment) (runtime.Value, error) {
	l, err := ip.evalForced(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := ip.evalForced(n.Right, env)
	if err != nil {
		return nil, err
	}
	return applyArith(n.Pos(), n.Op, l, r)
}

func applyArith(pos token.Position, op string, l, r runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return addOrSub(pos, l, r, false)
	case "-":
		return addOrSub(pos, l, r, true)
	case "*":
		return mulValues(pos, l, r)
	case "/":
		return divValues(pos, l, r)
	case "^":
		return powValues(pos, l, r)
	}
	return nil, rtErr(pos, "unknown operator %q", op)
}

func addOrSub(pos token.Position, l, r runtime.Value, sub bool) (runtime.Value, error) {
	if runtime.IsNumeric(l) && runtime.IsNumeric(r) {
		return numericAddSub(l, r, sub), nil
	}
	ll, lok := l.(*runtime.ListVal)
	rl, rok := r.(*runtime.ListVal)
	if lok && rok {
		if ll.Len() != rl.Len() {
			return nil, rtErr(pos, "list operands must have equal length (%d vs %d)", ll.Len(), rl.Len())
		}
		out := make([]runtime.Value, ll.Len())
		for i := range ll.Elements {
			v, err := addOrSub(pos, ll.Elements[i], rl.Elements[i], sub)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return runtime.NewList(out), nil
	}
	return nil, typeErr(pos, "cannot add/subtract %s and %s", l.Type(), r.Type())
}

func numericAddSub(l, r runtime.Value, sub bool) runtime.Value {
	li, liok := l.(*runtime.IntVal)
	ri, riok := r.(*runtime.IntVal)
	if liok && riok {
		if sub {
			return &runtime.IntVal{Value: li.Value - ri.Value}
		}
		return &runtime.IntVal{Value: li.Value + ri.Value}
	}
	lf, rf := runtime.AsFloat(l), runtime.AsFloat(r)
	if sub {
		return &runtime.RealVal{Value: lf - rf}
	}
	return &runtime.RealVal{Value: lf + rf}
}

// mulValues implements `*`, distinguishing scalar*scalar, matrix*matrix,
// matrix*vector, and vector.vector (dot product). Per §1's Non-goal "no
// automatic promotion of integers to matrices for arithmetic on mixed
// shapes", a scalar combined with a list is a type error rather than a
// broadcast.
func mulValues(pos token.Position, l, r runtime.Value) (runtime.Value, error) {
	if runtime.IsNumeric(l) && runtime.IsNumeric(r) {
		return numericMul(l, r), nil
	}
	ll, lok := l.(*runtime.ListVal)
	rl, rok := r.(*runtime.ListVal)
	if !lok || !rok {
		return nil, typeErr(pos, "cannot multiply %s and %s", l.Type(), r.Type())
	}
	if runtime.IsMatrix(ll) && runtime.IsMatrix(rl) {
		lm, _ := runtime.ToMatrix(ll)
		rm, _ := runtime.ToMatrix(rl)
		out, ok := runtime.MatMul(lm, rm)
		if !ok {
			return nil, rtErr(pos, "incompatible matrix shapes for multiplication")
		}
		return runtime.FromMatrix(out), nil
	}
	if runtime.IsMatrix(ll) {
		lm, _ := runtime.ToMatrix(ll)
		vec, ok := runtime.ToVector(rl)
		if !ok {
			return nil, typeErr(pos, "matrix*vector requires a numeric vector")
		}
		out, ok := runtime.MatVec(lm, vec)
		if !ok {
			return nil, rtErr(pos, "incompatible matrix/vector shapes")
		}
		return runtime.FromVector(out), nil
	}
	// Two plain numeric vectors: dot product.
	lv, lvok := runtime.ToVector(ll)
	rv, rvok := runtime.ToVector(rl)
	if lvok && rvok {
		dot, ok := runtime.Dot(lv, rv)
		if !ok {
			return nil, rtErr(pos, "dot product requires equal-length vectors (%d vs %d)", len(lv), len(rv))
		}
		return &runtime.RealVal{Value: dot}, nil
	}
	return nil, typeErr(pos, "cannot multiply %s and %s", l.Type(), r.Type())
}

func numericMul(l, r runtime.Value) runtime.Value {
	li, liok := l.(*runtime.IntVal)
	ri, riok := r.(*runtime.IntVal)
	if liok && riok {
		return &runtime.IntVal{Value: li.Value * ri.Value}
	}
	return &runtime.RealVal{Value: runtime.AsFloat(l) * runtime.AsFloat(r)}
}

// divValues implements scalar division; division by zero surfaces as
// NaN/Inf rather than an error, per §7's runtime-category note.
func divValues(pos token.Position, l, r runtime.Value) (runtime.Value, error) {
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, typeErr(pos, "division requires numeric operands, got %s and %s", l.Type(), r.Type())
	}
	return &runtime.RealVal{Value: runtime.AsFloat(l) / runtime.AsFloat(r)}, nil
}

// powValues implements exponentiation: fast integer exponentiation for
// scalar^int (§4.1), exp(p*log(b)) for scalar^real, and matrix powers
// (int exponent via repeated squaring, real exponent via the truncated
// Taylor series in internal/runtime/matrix.go) for square matrices.
func powValues(pos token.Position, l, r runtime.Value) (runtime.Value, error) {
	if runtime.IsNumeric(l) && runtime.IsNumeric(r) {
		if ri, ok := r.(*runtime.IntVal); ok {
			if li, ok := l.(*runtime.IntVal); ok && ri.Value >= 0 {
				return &runtime.IntVal{Value: intPow(li.Value, ri.Value)}, nil
			}
			return &runtime.RealVal{Value: math.Pow(runtime.AsFloat(l), float64(ri.Value))}, nil
		}
		return &runtime.RealVal{Value: math.Exp(runtime.AsFloat(r) * math.Log(runtime.AsFloat(l)))}, nil
	}
	lm, ok := l.(*runtime.ListVal)
	if !ok || !runtime.IsMatrix(lm) {
		return nil, typeErr(pos, "exponent base must be numeric or a matrix, got %s", l.Type())
	}
	base, _ := runtime.ToMatrix(lm)
	if ri, ok := r.(*runtime.IntVal); ok {
		out, ok := runtime.MatPowInt(base, int(ri.Value))
		if !ok {
			return nil, rtErr(pos, "matrix power requires a square matrix")
		}
		return runtime.FromMatrix(out), nil
	}
	if !runtime.IsNumeric(r) {
		return nil, typeErr(pos, "matrix exponent must be numeric, got %s", r.Type())
	}
	logBase, ok := runtime.MatLog(base)
	if !ok {
		return nil, rtErr(pos, "matrix logarithm requires a square matrix")
	}
	scaled := runtime.MatScale(logBase, runtime.AsFloat(r))
	out, ok := runtime.MatExp(scaled)
	if !ok {
		return nil, rtErr(pos, "matrix exponential requires a square matrix")
	}
	return runtime.FromMatrix(out), nil
}

// intPow is fast exponentiation by repeated squaring. Per §9's open
// question, integer overflow and INT_MIN exponents are not specially
// guarded here, matching the source's documented unclear behavior.
func intPow(base, exp int64) int64 {
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func negValue(pos token.Position, v runtime.Value) (runtime.Value, error) {
	switch n := v.(type) {
	case *runtime.IntVal:
		return &runtime.IntVal{Value: -n.Value}, nil
	case *runtime.RealVal:
		return &runtime.RealVal{Value: -n.Value}, nil
	case *runtime.ListVal:
		out := make([]runtime.Value, n.Len())
		for i, e := range n.Elements {
			nv, err := negValue(pos, e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return runtime.NewList(out), nil
	}
	return nil, typeErr(pos, "cannot negate %s", v.Type())
}

// evalCompare implements ==, !=, <, >, <=, >= per §4.1: numeric-to-numeric
// comparison, boolean comparable to boolean, void equals void, strings
// and lists compare by content, and any other pair is unequal (== gives
// false, != gives true); ordering operators require both operands numeric.
func (ip *Interpreter) evalCompare(n *ast.CompareNode, env *runtime.Environment) (runtime.Value, error) {
	l, err := ip.evalForced(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := ip.evalForced(n.Right, env)
	if err != nil {
		return nil, err
	}
	pos := n.Pos()
	if n.Op == "==" || n.Op == "!=" {
		eq := valuesEqual(l, r)
		if n.Op == "!=" {
			eq = !eq
		}
		return &runtime.BoolVal{Value: eq}, nil
	}
	if !runtime.IsNumeric(l) || !runtime.IsNumeric(r) {
		return nil, typeErr(pos, "%s requires numeric operands, got %s and %s", n.Op, l.Type(), r.Type())
	}
	lf, rf := runtime.AsFloat(l), runtime.AsFloat(r)
	var result bool
	switch n.Op {
	case "<":
		result = lf < rf
	case ">":
		result = lf > rf
	case "<=":
		result = lf <= rf
	case ">=":
		result = lf >= rf
	default:
		return nil, rtErr(pos, "unknown comparison operator %q", n.Op)
	}
	return &runtime.BoolVal{Value: result}, nil
}

func valuesEqual(l, r runtime.Value) bool {
	if runtime.IsNumeric(l) && runtime.IsNumeric(r) {
		return runtime.AsFloat(l) == runtime.AsFloat(r)
	}
	switch lv := l.(type) {
	case *runtime.BoolVal:
		rv, ok := r.(*runtime.BoolVal)
		return ok && lv.Value == rv.Value
	case *runtime.StringVal:
		rv, ok := r.(*runtime.StringVal)
		return ok && lv.Value == rv.Value
	case *runtime.VoidVal:
		_, ok := r.(*runtime.VoidVal)
		return ok
	case *runtime.ListVal:
		rv, ok := r.(*runtime.ListVal)
		if !ok || lv.Len() != rv.Len() {
			return false
		}
		for i := range lv.Elements {
			if !valuesEqual(lv.Elements[i], rv.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// evalBoolOp implements `and`/`or`, strict: both operands are always
// evaluated (§4.1).
func (ip *Interpreter) evalBoolOp(n *ast.BoolOpNode, env *runtime.Environment) (runtime.Value, error) {
	l, err := ip.evalForced(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := ip.evalForced(n.Right, env)
	if err != nil {
		return nil, err
	}
	lb, ok1 := l.(*runtime.BoolVal)
	rb, ok2 := r.(*runtime.BoolVal)
	if !ok1 || !ok2 {
		return nil, typeErr(n.Pos(), "%s requires Bool operands, got %s and %s", n.Op, l.Type(), r.Type())
	}
	switch n.Op {
	case "and":
		return &runtime.BoolVal{Value: lb.Value && rb.Value}, nil
	case "or":
		return &runtime.BoolVal{Value: lb.Value || rb.Value}, nil
	}
	return nil, rtErr(n.Pos(), "unknown boolean operator %q", n.Op)
}

// magnitude implements `|e|`: absolute value for numbers, length for
// lists, determinant for matrices (§4.1).
func magnitude(pos token.Position, v runtime.Value) (runtime.Value, error) {
	switch n := v.(type) {
	case *runtime.IntVal:
		if n.Value < 0 {
			return &runtime.IntVal{Value: -n.Value}, nil
		}
		return n, nil
	case *runtime.RealVal:
		return &runtime.RealVal{Value: math.Abs(n.Value)}, nil
	case *runtime.ListVal:
		if runtime.IsMatrix(n) {
			m, _ := runtime.ToMatrix(n)
			det, ok := runtime.Determinant(m)
			if !ok {
				return nil, rtErr(pos, "determinant requires a square matrix")
			}
			return &runtime.RealVal{Value: det}, nil
		}
		return &runtime.IntVal{Value: int64(n.Len())}, nil
	}
	return nil, typeErr(pos, "cannot take magnitude of %s", v.Type())
}

// norm implements `||e||`, the second-order analogue of magnitude:
// Euclidean norm for vectors, Frobenius norm for matrices, absolute value
// for scalars.
func norm(pos token.Position, v runtime.Value) (runtime.Value, error) {
	switch n := v.(type) {
	case *runtime.IntVal, *runtime.RealVal:
		return magnitude(pos, v)
	case *runtime.ListVal:
		if runtime.IsMatrix(n) {
			m, _ := runtime.ToMatrix(n)
			var sum float64
			for _, row := range m {
				for _, c := range row {
					sum += c * c
				}
			}
			return &runtime.RealVal{Value: math.Sqrt(sum)}, nil
		}
		vec, ok := runtime.ToVector(n)
		if !ok {
			return nil, typeErr(pos, "norm requires a numeric list")
		}
		var sum float64
		for _, c := range vec {
			sum += c * c
		}
		return &runtime.RealVal{Value: math.Sqrt(sum)}, nil
	}
	return nil, typeErr(pos, "cannot take norm of %s", v.Type())
}

// castValue coerces between numeric, string, and boolean at the text
// level, per §4.1's Cast variant.
func castValue(pos token.Position, target string, v runtime.Value) (runtime.Value, error) {
	switch target {
	case "int":
		switch n := v.(type) {
		case *runtime.IntVal:
			return n, nil
		case *runtime.RealVal:
			return &runtime.IntVal{Value: int64(n.Value)}, nil
		case *runtime.StringVal:
			i, err := strconv.ParseInt(n.Value, 10, 64)
			if err != nil {
				return nil, rtErr(pos, "cannot cast %q to int", n.Value)
			}
			return &runtime.IntVal{Value: i}, nil
		case *runtime.BoolVal:
			if n.Value {
				return &runtime.IntVal{Value: 1}, nil
			}
			return &runtime.IntVal{Value: 0}, nil
		}
	case "real":
		switch n := v.(type) {
		case *runtime.IntVal:
			return &runtime.RealVal{Value: float64(n.Value)}, nil
		case *runtime.RealVal:
			return n, nil
		case *runtime.StringVal:
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return nil, rtErr(pos, "cannot cast %q to real", n.Value)
			}
			return &runtime.RealVal{Value: f}, nil
		}
	case "string":
		return &runtime.StringVal{Value: v.String()}, nil
	case "bool":
		switch n := v.(type) {
		case *runtime.BoolVal:
			return n, nil
		case *runtime.StringVal:
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return nil, rtErr(pos, "cannot cast %q to bool", n.Value)
			}
			return &runtime.BoolVal{Value: b}, nil
		}
	}
	return nil, typeErr(pos, "cannot cast %s to %s", v.Type(), target)
}

// isaValue tests whether v has the named shape (§4.1's Isa variant).
func isaValue(target string, v runtime.Value) bool {
	switch target {
	case "int":
		_, ok := v.(*runtime.IntVal)
		return ok
	case "real":
		_, ok := v.(*runtime.RealVal)
		return ok
	case "bool":
		_, ok := v.(*runtime.BoolVal)
		return ok
	case "string":
		_, ok := v.(*runtime.StringVal)
		return ok
	case "list":
		_, ok := v.(*runtime.ListVal)
		return ok
	case "dict":
		_, ok := v.(*runtime.DictVal)
		return ok
	case "tuple":
		_, ok := v.(*runtime.TupleVal)
		return ok
	case "lambda":
		_, ok := v.(*runtime.LambdaVal)
		return ok
	case "void":
		_, ok := v.(*runtime.VoidVal)
		return ok
	default:
		if adt, ok := v.(*runtime.ADTVal); ok {
			return adt.TypeName == target || adt.Constructor == target
		}
		return false
	}
}
