package runtime

// Environment is a singly linked lexical frame: a name->value store plus a
// reference to the parent frame, mirroring the teacher's
// internal/interp/runtime.Environment but value-counted per spec.md §3
// instead of garbage-collected implicitly — every Environment is itself a
// refcounted resource so that a LambdaVal's captured frame survives exactly
// as long as something (the defining scope, or a live closure) needs it.
type Environment struct {
	refCounted
	vars   map[string]Value
	order  []string
	parent *Environment
}

// NewEnvironment creates a root frame with no parent, refcount 1.
func NewEnvironment() *Environment {
	return &Environment{refCounted: newRef(), vars: map[string]Value{}}
}

// Extend creates a new child frame with one binding already installed —
// the per-element frame of a for-in loop (spec.md §4.1–§4.3).
func (e *Environment) Extend(name string, v Value) *Environment {
	RetainEnv(e)
	child := &Environment{refCounted: newRef(), vars: map[string]Value{name: Retain(v)}, order: []string{name}, parent: e}
	return child
}

// ExtendEmpty creates a new child frame with no bindings, for constructs
// (let frames, switch arms, derivative environments) that need a fresh
// frame before declaring names.
func (e *Environment) ExtendEmpty() *Environment {
	RetainEnv(e)
	return &Environment{refCounted: newRef(), vars: map[string]Value{}, parent: e}
}

// Declare adds name to the current frame (not the parent chain), per
// spec.md §4.2's `let` semantics. A redeclaration in the same frame
// releases the previous binding.
func (e *Environment) Declare(name string, v Value) {
	if old, ok := e.vars[name]; ok {
		Release(old)
	} else {
		e.order = append(e.order, name)
	}
	e.vars[name] = Retain(v)
}

// Lookup walks outward from e and returns the first binding of name, or
// (nil, false) if unbound anywhere in the chain.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set mutates the nearest frame containing name in place (spec.md §4.2's
// `set`/assignment semantics) and reports whether name was found.
func (e *Environment) Set(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if old, ok := env.vars[name]; ok {
			Release(old)
			env.vars[name] = Retain(v)
			return true
		}
	}
	return false
}

// Subenvironment returns the parent frame, or nil at the root.
func (e *Environment) Subenvironment() *Environment { return e.parent }

// Clone produces a structural copy of the frame chain: every frame from e
// up to the root is duplicated, with each stored value's refcount bumped.
// This is what a LambdaLit evaluation (§4.1) uses to freeze "bindings
// visible at definition time" — later mutation of the original chain
// (via Declare in an outer frame) cannot reach the clone.
func (e *Environment) Clone() *Environment {
	if e == nil {
		return nil
	}
	out := &Environment{refCounted: newRef(), vars: make(map[string]Value, len(e.vars)), order: append([]string(nil), e.order...)}
	for k, v := range e.vars {
		out.vars[k] = Retain(v)
	}
	out.parent = e.parent.Clone()
	return out
}

// Names returns the bindings declared directly in e, in declaration
// order (not including parent frames) — used by the Derivative node's
// seed-environment construction (§4.1) to mirror every live binding.
func (e *Environment) Names() []string { return append([]string(nil), e.order...) }

// RetainEnv increments env's refcount, tolerating a nil env (the root's
// implicit "no parent").
func RetainEnv(env *Environment) {
	if env != nil {
		env.IncRef()
	}
}

// ReleaseEnv decrements env's refcount and, on reaching zero, releases
// every value it stores and recurses into its parent frame.
func ReleaseEnv(env *Environment) {
	if env == nil {
		return
	}
	if env.DecRef() {
		for _, v := range env.vars {
			Release(v)
		}
		ReleaseEnv(env.parent)
	}
}
