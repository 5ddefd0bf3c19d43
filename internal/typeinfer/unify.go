package typeinfer

import "fmt"

// Substitution is the MGU bindings map: type variable name -> its current
// resolved type. A fresh type variable starts unbound; Unify populates
// this map as constraints are discovered.
type Substitution struct {
	bindings map[string]Type
}

func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[string]Type{}}
}

func (s *Substitution) bind(name string, t Type) { s.bindings[name] = t }

func (s *Substitution) lookup(name string) (Type, bool) {
	t, ok := s.bindings[name]
	return t, ok
}

// Resolve walks t and replaces every type variable with its current MGU
// binding transitively — §4.6's "Substitution walks a type and replaces
// every type variable with its current MGU binding".
func (s *Substitution) Resolve(t Type) Type {
	switch v := t.(type) {
	case VarType:
		if bound, ok := s.lookup(v.Name); ok {
			return s.Resolve(bound)
		}
		return v
	case ListType:
		return ListType{Elem: s.Resolve(v.Elem)}
	case TupleType:
		return TupleType{Left: s.Resolve(v.Left), Right: s.Resolve(v.Right)}
	case LambdaType:
		return LambdaType{Param: s.Resolve(v.Param), Result: s.Resolve(v.Result), Captured: v.Captured}
	case DictType:
		out := make(map[string]Type, len(v.Fields))
		for k, f := range v.Fields {
			out[k] = s.Resolve(f)
		}
		return DictType{Fields: out}
	case SumType:
		return reduceSum(s, s.Resolve(v.L), s.Resolve(v.R))
	case MultType:
		return reduceMult(s, s.Resolve(v.L), s.Resolve(v.R))
	default:
		return t
	}
}

// isConstant reports whether t, after substitution, contains no free type
// variable — §4.6's trigger for resolving a deferred Sum/Mult constraint
// to a concrete type.
func isConstant(s *Substitution, t Type) bool {
	switch v := t.(type) {
	case VarType:
		_, ok := s.lookup(v.Name)
		return ok && isConstant(s, s.Resolve(v))
	case ListType:
		return isConstant(s, v.Elem)
	case TupleType:
		return isConstant(s, v.Left) && isConstant(s, v.Right)
	case SumType:
		return isConstant(s, v.L) && isConstant(s, v.R)
	case MultType:
		return isConstant(s, v.L) && isConstant(s, v.R)
	default:
		return true
	}
}

// occurs checks whether name appears free in t, after substitution —
// the occurs-check §3's invariants require before binding a variable.
func occurs(s *Substitution, name string, t Type) bool {
	switch v := t.(type) {
	case VarType:
		if v.Name == name {
			return true
		}
		if bound, ok := s.lookup(v.Name); ok {
			return occurs(s, name, bound)
		}
		return false
	case ListType:
		return occurs(s, name, v.Elem)
	case TupleType:
		return occurs(s, name, v.Left) || occurs(s, name, v.Right)
	case LambdaType:
		return occurs(s, name, v.Param) || occurs(s, name, v.Result)
	case SumType:
		return occurs(s, name, v.L) || occurs(s, name, v.R)
	case MultType:
		return occurs(s, name, v.L) || occurs(s, name, v.R)
	default:
		return false
	}
}

// Unify computes the most general unifier of a and b under s, mutating s
// in place and returning the unified type. Per property 7 in spec.md §8,
// Unify(A, B) succeeds iff Unify(B, A) succeeds with an MGU-equivalent
// result; every case below is written symmetrically (variable cases are
// tried on either side before falling through) to guarantee that.
func Unify(a, b Type, s *Substitution) (Type, error) {
	a = s.Resolve(a)
	b = s.Resolve(b)

	if av, ok := a.(VarType); ok {
		return bindVar(s, av, b)
	}
	if bv, ok := b.(VarType); ok {
		return bindVar(s, bv, a)
	}
	if sum, ok := b.(SumType); ok {
		return unifyConstraint(s, sum.L, sum.R, a, reduceSum, sum)
	}
	if mult, ok := b.(MultType); ok {
		return unifyConstraint(s, mult.L, mult.R, a, reduceMult, mult)
	}

	switch x := a.(type) {
	case baseType:
		return unifyBase(x, b)
	case ListType:
		y, ok := b.(ListType)
		if !ok {
			return nil, fmt.Errorf("cannot unify %s with %s", a, b)
		}
		elem, err := Unify(x.Elem, y.Elem, s)
		if err != nil {
			return nil, err
		}
		return ListType{Elem: elem}, nil
	case TupleType:
		y, ok := b.(TupleType)
		if !ok {
			return nil, fmt.Errorf("cannot unify %s with %s", a, b)
		}
		l, err := Unify(x.Left, y.Left, s)
		if err != nil {
			return nil, err
		}
		r, err := Unify(x.Right, y.Right, s)
		if err != nil {
			return nil, err
		}
		return TupleType{Left: l, Right: r}, nil
	case LambdaType:
		y, ok := b.(LambdaType)
		if !ok {
			return nil, fmt.Errorf("cannot unify %s with %s", a, b)
		}
		p, err := Unify(x.Param, y.Param, s)
		if err != nil {
			return nil, err
		}
		r, err := Unify(x.Result, y.Result, s)
		if err != nil {
			return nil, err
		}
		captured := x.Captured
		if captured == nil {
			captured = y.Captured
		}
		return LambdaType{Param: p, Result: r, Captured: captured}, nil
	case DictType:
		y, ok := b.(DictType)
		if !ok {
			return nil, fmt.Errorf("cannot unify %s with %s", a, b)
		}
		out := make(map[string]Type, len(x.Fields))
		for k, ft := range x.Fields {
			other, ok := y.Fields[k]
			if !ok {
				return nil, fmt.Errorf("field %q missing in %s", k, b)
			}
			ut, err := Unify(ft, other, s)
			if err != nil {
				return nil, err
			}
			out[k] = ut
		}
		return DictType{Fields: out}, nil
	case ADTType:
		y, ok := b.(ADTType)
		if !ok || y.Name != x.Name {
			return nil, fmt.Errorf("cannot unify %s with %s", a, b)
		}
		return x, nil
	case SumType:
		return unifyConstraint(s, x.L, x.R, b, reduceSum, SumType{x.L, x.R})
	case MultType:
		return unifyConstraint(s, x.L, x.R, b, reduceMult, MultType{x.L, x.R})
	}
	return nil, fmt.Errorf("cannot unify %s with %s", a, b)
}

func bindVar(s *Substitution, v VarType, t Type) (Type, error) {
	if tv, ok := t.(VarType); ok && tv.Name == v.Name {
		return v, nil
	}
	if occurs(s, v.Name, t) {
		return nil, fmt.Errorf("occurs check failed: %s occurs in %s", v.Name, t)
	}
	s.bind(v.Name, t)
	return t, nil
}

func unifyBase(x baseType, b Type) (Type, error) {
	y, ok := b.(baseType)
	if !ok {
		return nil, fmt.Errorf("cannot unify %s with %s", x, b)
	}
	if x.name == y.name {
		return x, nil
	}
	// Int widens to Real on either side, per spec.md §4.1's arithmetic
	// promotion rule reflected into the type system.
	if (x.name == "Int" && y.name == "Real") || (x.name == "Real" && y.name == "Int") {
		return Real, nil
	}
	return nil, fmt.Errorf("cannot unify %s with %s", x, b)
}

// unifyConstraint propagates unification of a deferred Sum/Mult
// constraint's operands against a concrete type `other`, per §4.6: "when
// target is numeric or a List shape, propagate unification to both
// sides". If either operand is still a variable after propagation, the
// deferred constraint is kept rather than discharged.
func unifyConstraint(s *Substitution, l, r Type, other Type, reduce func(*Substitution, Type, Type) Type, fallback Type) (Type, error) {
	if !isNumericOrListShape(s.Resolve(other)) {
		return nil, fmt.Errorf("cannot unify algebraic constraint with %s", other)
	}
	if _, err := Unify(l, other, s); err != nil {
		return nil, err
	}
	if _, err := Unify(r, other, s); err != nil {
		return nil, err
	}
	return reduce(s, s.Resolve(l), s.Resolve(r)), nil
}

func isNumericOrListShape(t Type) bool {
	switch v := t.(type) {
	case baseType:
		return v.name == "Int" || v.name == "Real"
	case ListType:
		return true
	case VarType:
		return true
	default:
		return false
	}
}

// reduceSum discharges a Sum(L, R) constraint to a concrete type once both
// sides resolve to the same constant type, or keeps the deferred
// constraint if either side is still a free variable — §9's "substitution
// reduces them whenever their components become constant".
func reduceSum(s *Substitution, l, r Type) Type {
	if isConstant(s, l) && isConstant(s, r) {
		if t, err := Unify(l, r, s); err == nil {
			return t
		}
	}
	return SumType{L: l, R: r}
}

func reduceMult(s *Substitution, l, r Type) Type {
	if isConstant(s, l) && isConstant(s, r) {
		if t, err := Unify(l, r, s); err == nil {
			return t
		}
	}
	return MultType{L: l, R: r}
}
