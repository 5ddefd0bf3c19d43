package stdlib

import (
	"testing"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

var zero token.Position

func call(t *testing.T, module *runtime.DictVal, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	v, ok := module.Get(name)
	if !ok {
		t.Fatalf("module has no entry %q", name)
	}
	f, ok := v.(*runtime.NativeFuncVal)
	if !ok {
		t.Fatalf("entry %q is a %T, not a NativeFuncVal", name, v)
	}
	if len(args) != f.Arity {
		t.Fatalf("%s: wrong harness arg count: got %d, want %d", name, len(args), f.Arity)
	}
	result, err := f.Fn(zero, args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return result
}

func TestMathModule(t *testing.T) {
	m := mathModule()

	sqrt := call(t, m, "sqrt", &runtime.RealVal{Value: 9})
	if got := sqrt.(*runtime.RealVal).Value; got != 3 {
		t.Fatalf("sqrt(9) = %v, want 3", got)
	}

	abs := call(t, m, "abs", &runtime.IntVal{Value: -5})
	if got := abs.(*runtime.IntVal).Value; got != 5 {
		t.Fatalf("abs(-5) = %v, want 5", got)
	}

	mx := call(t, m, "max", &runtime.IntVal{Value: 3}, &runtime.IntVal{Value: 7})
	if got := mx.(*runtime.IntVal).Value; got != 7 {
		t.Fatalf("max(3, 7) = %v, want 7", got)
	}
}

func TestStringModule(t *testing.T) {
	s := stringModule()

	upper := call(t, s, "upper", &runtime.StringVal{Value: "abc"})
	if got := upper.(*runtime.StringVal).Value; got != "ABC" {
		t.Fatalf("upper(abc) = %q, want ABC", got)
	}

	contains := call(t, s, "contains", &runtime.StringVal{Value: "hello world"}, &runtime.StringVal{Value: "world"})
	if got := contains.(*runtime.BoolVal).Value; !got {
		t.Fatal("contains(\"hello world\", \"world\") = false, want true")
	}

	length := call(t, s, "length", &runtime.StringVal{Value: "hello"})
	if got := length.(*runtime.IntVal).Value; got != 5 {
		t.Fatalf("length(hello) = %v, want 5", got)
	}
}

func TestSortModule(t *testing.T) {
	s := sortModule()

	list := runtime.NewList([]runtime.Value{
		&runtime.IntVal{Value: 3},
		&runtime.IntVal{Value: 1},
		&runtime.IntVal{Value: 2},
	})
	sorted := call(t, s, "sort", list)
	sl, ok := sorted.(*runtime.ListVal)
	if !ok || sl.Len() != 3 {
		t.Fatalf("sort returned %#v", sorted)
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		e, _ := sl.Get(i)
		if got := e.(*runtime.IntVal).Value; got != w {
			t.Fatalf("sorted[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestRandomModuleSeedIsDeterministic(t *testing.T) {
	r := randomModule()
	call(t, r, "seed", &runtime.IntVal{Value: 42})
	a := call(t, r, "real").(*runtime.RealVal).Value
	call(t, r, "seed", &runtime.IntVal{Value: 42})
	b := call(t, r, "real").(*runtime.RealVal).Value
	if a != b {
		t.Fatalf("random.real() after re-seeding with the same seed diverged: %v != %v", a, b)
	}
}

func TestLinalgModule(t *testing.T) {
	l := linalgModule()

	ident := call(t, l, "identity", &runtime.IntVal{Value: 2})
	m, ok := ident.(*runtime.ListVal)
	if !ok || m.Len() != 2 {
		t.Fatalf("identity(2) = %#v", ident)
	}

	v1 := runtime.NewList([]runtime.Value{&runtime.RealVal{Value: 1}, &runtime.RealVal{Value: 2}})
	v2 := runtime.NewList([]runtime.Value{&runtime.RealVal{Value: 3}, &runtime.RealVal{Value: 4}})
	dot := call(t, l, "dot", v1, v2)
	if got := dot.(*runtime.RealVal).Value; got != 11 {
		t.Fatalf("dot([1,2],[3,4]) = %v, want 11", got)
	}
}
