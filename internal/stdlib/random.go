package stdlib

import (
	"math/rand/v2"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// randomModule groups the PRNG functions the teacher's registry notes as
// "pending migration" (Random, RandomInt, Randomize) — built here on
// math/rand/v2 rather than the legacy math/rand the teacher's comment
// anticipated, since the module targets current Go.
func randomModule() *runtime.DictVal {
	state := rand.New(rand.NewPCG(0, 0))

	return newModule(map[string]*runtime.NativeFuncVal{
		"seed": fn("seed", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			seed, err := asInt(pos, "seed", args[0])
			if err != nil {
				return nil, err
			}
			state = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
			return &runtime.VoidVal{}, nil
		}),
		"real": fn("real", 0, func(token.Position, []runtime.Value) (runtime.Value, error) {
			return &runtime.RealVal{Value: state.Float64()}, nil
		}),
		"int": fn("int", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			lo, err := asInt(pos, "int", args[0])
			if err != nil {
				return nil, err
			}
			hi, err := asInt(pos, "int", args[1])
			if err != nil {
				return nil, err
			}
			if hi <= lo {
				return nil, rtErr(pos, "random.int requires hi > lo, got lo=%d hi=%d", lo, hi)
			}
			return &runtime.IntVal{Value: lo + state.Int64N(hi-lo)}, nil
		}),
		"gauss": fn("gauss", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			mean, err := asFloat(pos, "gauss", args[0])
			if err != nil {
				return nil, err
			}
			stddev, err := asFloat(pos, "gauss", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.RealVal{Value: mean + stddev*state.NormFloat64()}, nil
		}),
	})
}
