package stdlib

import (
	"math"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// linalgModule exposes internal/runtime/matrix.go's primitives (already
// exercised implicitly by §4.1's matrix arithmetic and §4.4's identity-
// seed differentiation) as callables, so a program can ask for a
// transpose, determinant, or identity matrix directly instead of only
// getting matrix results as a side effect of `*`/`^`.
func linalgModule() *runtime.DictVal {
	asMatrix := func(pos token.Position, fname string, v runtime.Value) ([][]float64, error) {
		m, ok := runtime.ToMatrix(v)
		if !ok {
			return nil, typeErr(pos, "%s expects a rectangular matrix (List of Lists of numbers), got %s", fname, v.Type())
		}
		return m, nil
	}

	return newModule(map[string]*runtime.NativeFuncVal{
		"transpose": fn("transpose", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			m, err := asMatrix(pos, "transpose", args[0])
			if err != nil {
				return nil, err
			}
			return runtime.FromMatrix(runtime.Transpose(m)), nil
		}),
		"determinant": fn("determinant", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			m, err := asMatrix(pos, "determinant", args[0])
			if err != nil {
				return nil, err
			}
			d, ok := runtime.Determinant(m)
			if !ok {
				return nil, rtErr(pos, "determinant requires a square matrix")
			}
			return &runtime.RealVal{Value: d}, nil
		}),
		"identity": fn("identity", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			n, err := asInt(pos, "identity", args[0])
			if err != nil {
				return nil, err
			}
			if n <= 0 {
				return nil, rtErr(pos, "identity requires a positive size, got %d", n)
			}
			return runtime.FromMatrix(runtime.Identity(int(n))), nil
		}),
		"dot": fn("dot", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			a, ok := runtime.ToVector(args[0])
			if !ok {
				return nil, typeErr(pos, "dot expects a List of numbers, got %s", args[0].Type())
			}
			b, ok := runtime.ToVector(args[1])
			if !ok {
				return nil, typeErr(pos, "dot expects a List of numbers, got %s", args[1].Type())
			}
			d, ok := runtime.Dot(a, b)
			if !ok {
				return nil, rtErr(pos, "dot requires vectors of equal length")
			}
			return &runtime.RealVal{Value: d}, nil
		}),
		"norm": fn("norm", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			v, ok := runtime.ToVector(args[0])
			if !ok {
				return nil, typeErr(pos, "norm expects a List of numbers, got %s", args[0].Type())
			}
			sum := 0.0
			for _, x := range v {
				sum += x * x
			}
			return &runtime.RealVal{Value: math.Sqrt(sum)}, nil
		}),
	})
}
