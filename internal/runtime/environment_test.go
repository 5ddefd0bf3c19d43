package runtime

import "testing"

func TestEnvironmentLookupWalksParents(t *testing.T) {
	root := NewEnvironment()
	root.Declare("x", &IntVal{Value: 1})
	child := root.ExtendEmpty()
	child.Declare("y", &IntVal{Value: 2})

	v, ok := child.Lookup("x")
	if !ok || v.(*IntVal).Value != 1 {
		t.Fatalf("child.Lookup(x) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := root.Lookup("y"); ok {
		t.Fatal("root.Lookup(y) found a name only declared in child")
	}
}

func TestEnvironmentSetUpdatesExistingBinding(t *testing.T) {
	root := NewEnvironment()
	root.Declare("x", &IntVal{Value: 1})
	child := root.ExtendEmpty()

	if ok := child.Set("x", &IntVal{Value: 9}); !ok {
		t.Fatal("Set on a name bound in a parent frame should succeed")
	}
	v, _ := root.Lookup("x")
	if v.(*IntVal).Value != 9 {
		t.Fatalf("root's x = %v after child.Set, want 9", v.(*IntVal).Value)
	}

	if ok := child.Set("nope", &IntVal{Value: 0}); ok {
		t.Fatal("Set on an undeclared name should fail")
	}
}

func TestListValRefCounting(t *testing.T) {
	l := NewList([]Value{&IntVal{Value: 1}, &IntVal{Value: 2}})
	RetainEnv(nil) // no-op sanity check: must tolerate nil

	cloned := l.Clone()
	if cloned.Len() != l.Len() {
		t.Fatalf("clone length = %d, want %d", cloned.Len(), l.Len())
	}
	Release(l)
	Release(cloned)
}

func TestIsNumericAndAsFloat(t *testing.T) {
	if !IsNumeric(&IntVal{Value: 1}) || !IsNumeric(&RealVal{Value: 1.5}) {
		t.Fatal("IsNumeric should accept both Int and Real")
	}
	if IsNumeric(&BoolVal{Value: true}) {
		t.Fatal("IsNumeric should reject Bool")
	}
	if AsFloat(&IntVal{Value: 3}) != 3.0 {
		t.Fatal("AsFloat(IntVal{3}) should be 3.0")
	}
}
