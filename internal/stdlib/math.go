package stdlib

import (
	"math"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// mathModule groups the transcendental functions §4.1's exponentiation
// rule and §4.4's matrix-log/exp derivation lean on, plus the everyday
// scalar helpers a calculus-native language needs at the REPL, grounded
// on the teacher's builtins/math_basic.go and math_trig.go.
func mathModule() *runtime.DictVal {
	unary := func(name string, f func(float64) float64) *runtime.NativeFuncVal {
		return fn(name, 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			x, err := asFloat(pos, name, args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.RealVal{Value: f(x)}, nil
		})
	}

	return newModule(map[string]*runtime.NativeFuncVal{
		"sqrt":  unary("sqrt", math.Sqrt),
		"exp":   unary("exp", math.Exp),
		"ln":    unary("ln", math.Log),
		"log2":  unary("log2", math.Log2),
		"log10": unary("log10", math.Log10),
		"sin":   unary("sin", math.Sin),
		"cos":   unary("cos", math.Cos),
		"tan":   unary("tan", math.Tan),
		"asin":  unary("asin", math.Asin),
		"acos":  unary("acos", math.Acos),
		"atan":  unary("atan", math.Atan),
		"sinh":  unary("sinh", math.Sinh),
		"cosh":  unary("cosh", math.Cosh),
		"tanh":  unary("tanh", math.Tanh),
		"ceil":  unary("ceil", math.Ceil),
		"floor": unary("floor", math.Floor),
		"round": unary("round", math.Round),

		"pi": fn("pi", 0, func(token.Position, []runtime.Value) (runtime.Value, error) {
			return &runtime.RealVal{Value: math.Pi}, nil
		}),
		"abs": fn("abs", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			switch v := args[0].(type) {
			case *runtime.IntVal:
				if v.Value < 0 {
					return &runtime.IntVal{Value: -v.Value}, nil
				}
				return v, nil
			case *runtime.RealVal:
				return &runtime.RealVal{Value: math.Abs(v.Value)}, nil
			default:
				return nil, typeErr(pos, "abs expects a numeric argument, got %s", v.Type())
			}
		}),
		"pow": fn("pow", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			b, err := asFloat(pos, "pow", args[0])
			if err != nil {
				return nil, err
			}
			p, err := asFloat(pos, "pow", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.RealVal{Value: math.Pow(b, p)}, nil
		}),
		"atan2": fn("atan2", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			y, err := asFloat(pos, "atan2", args[0])
			if err != nil {
				return nil, err
			}
			x, err := asFloat(pos, "atan2", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.RealVal{Value: math.Atan2(y, x)}, nil
		}),
		"hypot": fn("hypot", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			x, err := asFloat(pos, "hypot", args[0])
			if err != nil {
				return nil, err
			}
			y, err := asFloat(pos, "hypot", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.RealVal{Value: math.Hypot(x, y)}, nil
		}),
		"min": fn("min", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			a, err := asFloat(pos, "min", args[0])
			if err != nil {
				return nil, err
			}
			b, err := asFloat(pos, "min", args[1])
			if err != nil {
				return nil, err
			}
			if a < b {
				return args[0], nil
			}
			return args[1], nil
		}),
		"max": fn("max", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			a, err := asFloat(pos, "max", args[0])
			if err != nil {
				return nil, err
			}
			b, err := asFloat(pos, "max", args[1])
			if err != nil {
				return nil, err
			}
			if a > b {
				return args[0], nil
			}
			return args[1], nil
		}),
		"isnan": fn("isnan", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			x, err := asFloat(pos, "isnan", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.BoolVal{Value: math.IsNaN(x)}, nil
		}),
		"isinf": fn("isinf", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			x, err := asFloat(pos, "isinf", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.BoolVal{Value: math.IsInf(x, 0)}, nil
		}),
	})
}
