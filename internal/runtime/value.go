// Package runtime defines the tagged value family that internal/interp
// evaluates expressions into and internal/calculus differentiates, plus the
// environment chain both thread through a Lomda program.
//
// Per the design note on tagged variants, there is no virtual-method
// dispatch here: every Value reports a Type() tag and the packages that
// operate on values (internal/interp, internal/calculus, internal/stdlib)
// switch on the concrete Go type via a type switch rather than calling
// polymorphic methods on Value itself. This mirrors the teacher's
// internal/interp.Value family (IntegerValue, FloatValue, StringValue, ...)
// one-for-one, generalized to Lomda's value set (lists, dicts, tuples,
// closures, thunks, ADT instances, and void).
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/token"
)

// Value is any first-class Lomda runtime value.
type Value interface {
	Type() string
	String() string
}

// ---- Scalars ----

// IntVal is a machine-width integer.
type IntVal struct{ Value int64 }

func (*IntVal) Type() string     { return "Int" }
func (v *IntVal) String() string { return strconv.FormatInt(v.Value, 10) }

// RealVal is a 64-bit float.
type RealVal struct{ Value float64 }

func (*RealVal) Type() string { return "Real" }
func (v *RealVal) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

// BoolVal is a boolean.
type BoolVal struct{ Value bool }

func (*BoolVal) Type() string { return "Bool" }
func (v *BoolVal) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// StringVal is an immutable string. Lomda strings are never mutated in
// place (cast/concatenation build new StringVals), so unlike the
// container values below a StringVal carries no refcount.
type StringVal struct{ Value string }

func (*StringVal) Type() string     { return "String" }
func (v *StringVal) String() string { return v.Value }

// VoidVal is the unit value. Per spec.md §9's open question, the source's
// VoidVal::set is incomplete; this reimplementation treats Set on a Void
// slot as a no-op that always succeeds (assigning void to void is the only
// sensible reading, since Void carries no payload to diverge on).
type VoidVal struct{}

func (*VoidVal) Type() string     { return "Void" }
func (*VoidVal) String() string   { return "void" }

// ---- Reference counting ----

// refCounted is embedded by every container-shaped value (List, Dict,
// Tuple, Lambda, ADT instance) per spec.md §3's refcount discipline:
// construction starts at 1, storing the value anywhere that outlives the
// current frame increments, and releasing a slot decrements — reaching
// zero releases the references the container itself was holding.
type refCounted struct{ count int }

// newRef starts a fresh reference count at 1, "owned by the creator".
func newRef() refCounted { return refCounted{count: 1} }

func (r *refCounted) IncRef() { r.count++ }

// DecRef drops the count and reports whether it reached zero.
func (r *refCounted) DecRef() bool {
	r.count--
	return r.count <= 0
}

func (r *refCounted) RefCount() int { return r.count }

// Retain increments v's refcount if v is a container value, then returns v
// unchanged, so call sites can write `env.Extend(name, Retain(v))`.
func Retain(v Value) Value {
	switch c := v.(type) {
	case *ListVal:
		c.IncRef()
	case *DictVal:
		c.IncRef()
	case *TupleVal:
		c.IncRef()
	case *LambdaVal:
		c.IncRef()
	case *ADTVal:
		c.IncRef()
	}
	return v
}

// Release drops v's refcount if it is a container value and, on reaching
// zero, transitively releases the references it held (its elements,
// fields, or captured environment).
func Release(v Value) {
	switch c := v.(type) {
	case *ListVal:
		if c.DecRef() {
			for _, e := range c.Elements {
				Release(e)
			}
		}
	case *DictVal:
		if c.DecRef() {
			for _, e := range c.Entries {
				Release(e)
			}
		}
	case *TupleVal:
		if c.DecRef() {
			Release(c.Left)
			Release(c.Right)
		}
	case *ADTVal:
		if c.DecRef() {
			for _, f := range c.Fields {
				Release(f)
			}
		}
	case *LambdaVal:
		if c.DecRef() && !c.WeakEnv {
			ReleaseEnv(c.Env)
		}
	}
}

// ---- Containers ----

// ListVal is an ordered, mutable, heterogeneous sequence.
type ListVal struct {
	refCounted
	Elements []Value
}

func NewList(elems []Value) *ListVal {
	return &ListVal{refCounted: newRef(), Elements: elems}
}

func (*ListVal) Type() string { return "List" }
func (v *ListVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Len reports the element count.
func (v *ListVal) Len() int { return len(v.Elements) }

// Get returns the element at i, erroring (via the bool) on out-of-bounds.
func (v *ListVal) Get(i int) (Value, bool) {
	if i < 0 || i >= len(v.Elements) {
		return nil, false
	}
	return v.Elements[i], true
}

// SetAt replaces the element at i in place, releasing the old value and
// retaining the new one — spec.md §3's container mutation discipline.
func (v *ListVal) SetAt(i int, val Value) bool {
	if i < 0 || i >= len(v.Elements) {
		return false
	}
	Release(v.Elements[i])
	v.Elements[i] = Retain(val)
	return true
}

// Add inserts val at index i, shifting subsequent elements right.
func (v *ListVal) Add(i int, val Value) bool {
	if i < 0 || i > len(v.Elements) {
		return false
	}
	v.Elements = append(v.Elements, nil)
	copy(v.Elements[i+1:], v.Elements[i:])
	v.Elements[i] = Retain(val)
	return true
}

// Remove deletes the element at index i, shifting subsequent elements left.
func (v *ListVal) Remove(i int) bool {
	if i < 0 || i >= len(v.Elements) {
		return false
	}
	Release(v.Elements[i])
	v.Elements = append(v.Elements[:i], v.Elements[i+1:]...)
	return true
}

// Slice returns the half-open range [low, high), clamped to bounds.
func (v *ListVal) Slice(low, high int) (*ListVal, bool) {
	if low < 0 {
		low = 0
	}
	if high > len(v.Elements) {
		high = len(v.Elements)
	}
	if low > high {
		return nil, false
	}
	out := make([]Value, high-low)
	for i, e := range v.Elements[low:high] {
		out[i] = Retain(e)
	}
	return NewList(out), true
}

// Clone returns a structural shallow copy: a new backing array whose
// elements share the same underlying values (each retained), satisfying
// the no-aliasing reading of spec.md §9's open question on container Set.
func (v *ListVal) Clone() *ListVal {
	out := make([]Value, len(v.Elements))
	for i, e := range v.Elements {
		out[i] = Retain(e)
	}
	return NewList(out)
}

// DictVal is an ordered string-keyed mapping, used both for user records
// and as the carrier of imported modules / standard-library bindings.
type DictVal struct {
	refCounted
	Keys    []string
	Entries map[string]Value
}

func NewDict() *DictVal {
	return &DictVal{refCounted: newRef(), Entries: map[string]Value{}}
}

func (*DictVal) Type() string { return "Dict" }
func (v *DictVal) String() string {
	parts := make([]string, 0, len(v.Keys))
	for _, k := range v.Keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.Entries[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (v *DictVal) Get(key string) (Value, bool) {
	val, ok := v.Entries[key]
	return val, ok
}

// Set assigns key to val, releasing any previous binding and appending key
// to the iteration order only the first time it is used.
func (v *DictVal) Set(key string, val Value) {
	if old, ok := v.Entries[key]; ok {
		Release(old)
	} else {
		v.Keys = append(v.Keys, key)
	}
	v.Entries[key] = Retain(val)
}

func (v *DictVal) Clone() *DictVal {
	out := NewDict()
	for _, k := range v.Keys {
		out.Set(k, v.Entries[k])
	}
	return out
}

// TupleVal is a binary ordered pair; n-tuples are right-nested pairs.
type TupleVal struct {
	refCounted
	Left, Right Value
}

func NewTuple(l, r Value) *TupleVal {
	return &TupleVal{refCounted: newRef(), Left: Retain(l), Right: Retain(r)}
}

func (*TupleVal) Type() string     { return "Tuple" }
func (v *TupleVal) String() string { return fmt.Sprintf("(%s, %s)", v.Left, v.Right) }

// LambdaVal is a closure: parameter names, an AST body, and the
// environment frozen at definition time.
//
// WeakEnv marks a closure installed by a recursive let rewrite (§4.1):
// such a closure's Env points back at the very frame that stores the
// closure itself (environment -> lambda -> environment), the one cycle
// spec.md §3 identifies as reachable through recursive let. Per the
// weak-back-reference strategy in §9's design notes, a WeakEnv lambda
// does not hold a counted reference to its own environment, so releasing
// the frame's one external reference reclaims the whole cycle instead of
// deadlocking at refcount 1.
type LambdaVal struct {
	refCounted
	Params  []string
	Body    ast.Node
	Env     *Environment
	WeakEnv bool
}

func NewLambda(params []string, body ast.Node, env *Environment) *LambdaVal {
	RetainEnv(env)
	return &LambdaVal{refCounted: newRef(), Params: params, Body: body, Env: env}
}

// Rebind repoints a closure at env without retaining it, per WeakEnv
// above. Used exclusively by the recursive-let rewrite in internal/interp
// once the body environment has been fully constructed.
func (v *LambdaVal) Rebind(env *Environment) {
	if !v.WeakEnv && v.Env != nil {
		ReleaseEnv(v.Env)
	}
	v.Env = env
	v.WeakEnv = true
}

func (*LambdaVal) Type() string { return "Lambda" }
func (v *LambdaVal) String() string {
	return fmt.Sprintf("lambda(%s)", strings.Join(v.Params, ", "))
}

// ThunkVal is a suspended computation: an expression plus the environment
// it closes over. Forcing evaluates it exactly once and caches the result
// (Forced/Result), per spec.md §3's "thunks are transparently forced"
// clause; internal/interp.Force implements the caching.
type ThunkVal struct {
	Body   ast.Node
	Env    *Environment
	Forced bool
	Result Value
}

func NewThunk(body ast.Node, env *Environment) *ThunkVal {
	RetainEnv(env)
	return &ThunkVal{Body: body, Env: env}
}

func (*ThunkVal) Type() string     { return "Thunk" }
func (v *ThunkVal) String() string { return "<thunk>" }

// NativeFn is a Go-implemented Lomda callable, the representation
// internal/stdlib uses for its builtins (string/math/sort/random/linalg/
// file-system) instead of an ast.Node body, mirroring the teacher's
// internal/interp/builtins.FunctionInfo.Function signature generalized
// from (ctx, args) to (pos, args) since Lomda has no separate builtin
// "context" type.
type NativeFn func(pos token.Position, args []Value) (Value, error)

// NativeFuncVal wraps a NativeFn as a first-class value so it can be
// bound in an environment and applied exactly like a LambdaVal or
// ADTCtorVal.
type NativeFuncVal struct {
	Name  string
	Arity int
	Fn    NativeFn
}

func (*NativeFuncVal) Type() string { return "Builtin" }
func (v *NativeFuncVal) String() string {
	return fmt.Sprintf("<builtin %s/%d>", v.Name, v.Arity)
}

// ADTCtorVal is the callable a type declaration binds its constructor
// names to (§4.1's ADTDecl): applying it to Arity arguments produces an
// ADTVal tagged with TypeName/Name. It carries no refcount of its own —
// like a StringVal, it is immutable and shared freely.
type ADTCtorVal struct {
	TypeName string
	Name     string
	Arity    int
}

func (*ADTCtorVal) Type() string { return "Constructor" }
func (v *ADTCtorVal) String() string {
	return fmt.Sprintf("<constructor %s.%s/%d>", v.TypeName, v.Name, v.Arity)
}

// ADTVal is an algebraic-data-type instance: a constructor tag plus its
// ordered field values.
type ADTVal struct {
	refCounted
	TypeName    string
	Constructor string
	Fields      []Value
}

func NewADT(typeName, ctor string, fields []Value) *ADTVal {
	retained := make([]Value, len(fields))
	for i, f := range fields {
		retained[i] = Retain(f)
	}
	return &ADTVal{refCounted: newRef(), TypeName: typeName, Constructor: ctor, Fields: retained}
}

func (v *ADTVal) Type() string { return v.TypeName }
func (v *ADTVal) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s(%s)", v.Constructor, strings.Join(parts, ", "))
}

// IsNumeric reports whether v is an Int or Real, the "numeric shape" that
// arithmetic, magnitude, and the differentiation rules in §4.4 gate on.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case *IntVal, *RealVal:
		return true
	}
	return false
}

// AsFloat widens an Int or Real to float64; panics are never raised here,
// callers must check IsNumeric first.
func AsFloat(v Value) float64 {
	switch n := v.(type) {
	case *IntVal:
		return float64(n.Value)
	case *RealVal:
		return n.Value
	}
	return 0
}

// IsMatrix reports whether v is a non-empty List of Lists of numbers whose
// rows are non-empty and of equal length — spec.md §3's rectangular-matrix
// invariant, checked by internal/interp before matrix arithmetic proceeds.
func IsMatrix(v Value) bool {
	l, ok := v.(*ListVal)
	if !ok || l.Len() == 0 {
		return false
	}
	width := -1
	for _, row := range l.Elements {
		rl, ok := row.(*ListVal)
		if !ok || rl.Len() == 0 || (width >= 0 && rl.Len() != width) {
			return false
		}
		width = rl.Len()
		for _, e := range rl.Elements {
			if !IsNumeric(e) {
				return false
			}
		}
	}
	return true
}
