// Package stdlib assembles Lomda's standard library: the string, math,
// sort, random, linalg, and file-system bindings SPEC_FULL.md's DOMAIN
// STACK names, each as a Dict of NativeFuncVal callables bound directly
// in the root environment at interpreter construction, mirroring the
// teacher's internal/interp/builtins.Registry/RegisterAll pattern
// generalized from a flat name table to a per-category Dict namespace.
package stdlib

import (
	"github.com/lomda-lang/lomda/internal/diagnostics"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

func rtErr(pos token.Position, format string, args ...any) error {
	return diagnostics.New(diagnostics.Runtime, pos, format, args...)
}

func typeErr(pos token.Position, format string, args ...any) error {
	return diagnostics.New(diagnostics.Type, pos, format, args...)
}

func ioErr(pos token.Position, format string, args ...any) error {
	return diagnostics.New(diagnostics.IO, pos, format, args...)
}

func fn(name string, arity int, f runtime.NativeFn) *runtime.NativeFuncVal {
	return &runtime.NativeFuncVal{Name: name, Arity: arity, Fn: f}
}

// Register declares the six category namespaces (string, math, sort,
// random, linalg, fs) into env, each a Dict of callables. A program uses
// them as plain variables (e.g. `math.sqrt(2.0)`) with no import needed —
// the standard library lives in the root environment from the start,
// rather than on disk as an importable module.
func Register(env *runtime.Environment) {
	env.Declare("string", stringModule())
	env.Declare("math", mathModule())
	env.Declare("sort", sortModule())
	env.Declare("random", randomModule())
	env.Declare("linalg", linalgModule())
	env.Declare("fs", fsModule())
}

func newModule(entries map[string]*runtime.NativeFuncVal) *runtime.DictVal {
	d := runtime.NewDict()
	for name, f := range entries {
		d.Set(name, f)
	}
	return d
}

func asString(pos token.Position, fname string, v runtime.Value) (string, error) {
	s, ok := v.(*runtime.StringVal)
	if !ok {
		return "", typeErr(pos, "%s expects a String argument, got %s", fname, v.Type())
	}
	return s.Value, nil
}

func asInt(pos token.Position, fname string, v runtime.Value) (int64, error) {
	i, ok := v.(*runtime.IntVal)
	if !ok {
		return 0, typeErr(pos, "%s expects an Int argument, got %s", fname, v.Type())
	}
	return i.Value, nil
}

func asFloat(pos token.Position, fname string, v runtime.Value) (float64, error) {
	if !runtime.IsNumeric(v) {
		return 0, typeErr(pos, "%s expects a numeric argument, got %s", fname, v.Type())
	}
	return runtime.AsFloat(v), nil
}

func asList(pos token.Position, fname string, v runtime.Value) (*runtime.ListVal, error) {
	l, ok := v.(*runtime.ListVal)
	if !ok {
		return nil, typeErr(pos, "%s expects a List argument, got %s", fname, v.Type())
	}
	return l, nil
}
