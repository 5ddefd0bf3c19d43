// Package typeinfer implements the Hindley-Milner-style inferencer spec.md
// §3 and §4.6 describe: a closed sum of types, explicit unification with
// occurs-check, fresh type variables, and the deferred algebraic
// constraint types (Sum, Mult) that capture "must unify later to a
// numeric-or-list shape" without committing prematurely.
//
// Typing is advisory (§1 Non-goals: "no separate type-checking mode that
// refuses execution unless warnings-as-errors is set") — internal/interp
// never consults this package to decide whether to run a program; only
// cmd/lomda's --use-types reporting and --werror promotion do.
package typeinfer

import (
	"fmt"
	"strings"
)

// Type is any member of the closed type sum.
type Type interface {
	String() string
	kindTag() string
}

type baseType struct{ name string }

func (b baseType) String() string  { return b.name }
func (b baseType) kindTag() string { return b.name }

var (
	Int    Type = baseType{"Int"}
	Real   Type = baseType{"Real"}
	Bool   Type = baseType{"Bool"}
	String Type = baseType{"String"}
	Void   Type = baseType{"Void"}
)

// ListType is the type of a homogeneous list.
type ListType struct{ Elem Type }

func (t ListType) String() string  { return fmt.Sprintf("List(%s)", t.Elem) }
func (ListType) kindTag() string   { return "List" }

// TupleType is the type of a binary pair.
type TupleType struct{ Left, Right Type }

func (t TupleType) String() string { return fmt.Sprintf("Tuple(%s, %s)", t.Left, t.Right) }
func (TupleType) kindTag() string  { return "Tuple" }

// LambdaType is a curried function type; Captured records the type
// environment in effect when the lambda's type was computed, per §3's
// "Lambda(L, R, captured-type-env)" — used when the closure is later
// applied from a different lexical context (e.g. imported and reused).
type LambdaType struct {
	Param, Result Type
	Captured      *Env
}

func (t LambdaType) String() string { return fmt.Sprintf("(%s -> %s)", t.Param, t.Result) }
func (LambdaType) kindTag() string  { return "Lambda" }

// DictType is a record type: field name -> field type.
type DictType struct{ Fields map[string]Type }

func (t DictType) String() string {
	parts := make([]string, 0, len(t.Fields))
	for k, v := range t.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (DictType) kindTag() string { return "Dict" }

// ADTType names a user-declared algebraic data type by its type name
// (spec.md §4.1's `type Name = K1(T…) | K2(T…) | …`).
type ADTType struct{ Name string }

func (t ADTType) String() string { return t.Name }
func (ADTType) kindTag() string  { return "ADT" }

// VarType is a type variable participating in unification.
type VarType struct{ Name string }

func (t VarType) String() string { return t.Name }
func (VarType) kindTag() string  { return "Var" }

// SumType is a deferred constraint: L and R must eventually unify to a
// common numeric-or-list-shaped carrier (the result type of `+`/`-` before
// either side is known to be constant).
type SumType struct{ L, R Type }

func (t SumType) String() string { return fmt.Sprintf("Sum(%s, %s)", t.L, t.R) }
func (SumType) kindTag() string  { return "Sum" }

// MultType is the analogous deferred constraint for `*`/`/`/`^`.
type MultType struct{ L, R Type }

func (t MultType) String() string { return fmt.Sprintf("Mult(%s, %s)", t.L, t.R) }
func (MultType) kindTag() string  { return "Mult" }

// freshCounter is the process-wide, monotonic type-variable counter
// spec.md §3 and §5 describe ("bumping a process-wide counter over
// base-26 alphabetic names").
var freshCounter int

// FreshVar allocates a new type variable named from a base-26 alphabetic
// sequence: a, b, ..., z, a1, b1, ..., matching the teacher corpus's
// convention of short synthetic identifiers over numeric suffixes alone.
func FreshVar() VarType {
	n := freshCounter
	freshCounter++
	letter := rune('a' + n%26)
	generation := n / 26
	if generation == 0 {
		return VarType{Name: string(letter)}
	}
	return VarType{Name: fmt.Sprintf("%c%d", letter, generation)}
}

// ResetFreshCounter rewinds the process-wide counter; used only by tests
// that need deterministic variable names across runs.
func ResetFreshCounter() { freshCounter = 0 }
