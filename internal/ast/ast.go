// Package ast defines the closed expression-variant family that the parser
// produces and that the evaluator, differentiator, and type inferencer all
// dispatch over.
//
// Per the design note on tagged variants, there is no virtual-method
// dispatch here: every Node carries a Kind tag and the packages that walk
// the tree (internal/interp, internal/calculus, internal/typeinfer) switch
// on that tag rather than calling methods defined on the node types
// themselves. This keeps the family closed and exhaustiveness-checkable at
// each call site instead of requiring every new operation to touch every
// node type.
package ast

import "github.com/lomda-lang/lomda/internal/token"

// Kind tags the variant of a Node.
type Kind int

const (
	IntLit Kind = iota
	RealLit
	BoolLit
	StringLit
	VoidLit

	Variable

	BinaryOp // + - * / ^
	UnaryNeg

	Compare  // == != < > <= >=
	BoolOp   // and or
	Not

	If
	While
	DoWhile
	ForIn

	Let
	Seq
	Set

	ListLit
	DictLit
	TupleLit

	ListAccess
	DictAccess
	TupleLeft
	TupleRight
	ListSlice
	ListAdd
	ListRemove

	Apply
	LambdaLit
	ThunkLit

	Derivative

	Magnitude
	Norm

	Print
	Input

	Cast
	Isa

	Fold
	Map

	Import
	FromImport

	ADTDecl
	Switch
)

// Node is any expression in the Lomda AST. Pos reports the token position
// the node started at, for diagnostics.
type Node interface {
	Kind() Kind
	Pos() token.Position
}

type base struct {
	pos token.Position
}

func (b base) Pos() token.Position { return b.pos }

// ---- Literals ----

type IntLitNode struct {
	base
	Value int64
}

func (*IntLitNode) Kind() Kind { return IntLit }

type RealLitNode struct {
	base
	Value float64
}

func (*RealLitNode) Kind() Kind { return RealLit }

type BoolLitNode struct {
	base
	Value bool
}

func (*BoolLitNode) Kind() Kind { return BoolLit }

type StringLitNode struct {
	base
	Value string
}

func (*StringLitNode) Kind() Kind { return StringLit }

type VoidLitNode struct{ base }

func (*VoidLitNode) Kind() Kind { return VoidLit }

// ---- Variable ----

type VariableNode struct {
	base
	Name string
}

func (*VariableNode) Kind() Kind { return Variable }

// ---- Arithmetic ----

// BinaryOpNode covers +, -, *, /, ^ over two operands.
type BinaryOpNode struct {
	base
	Op          string // "+", "-", "*", "/", "^"
	Left, Right Node
}

func (*BinaryOpNode) Kind() Kind { return BinaryOp }

type UnaryNegNode struct {
	base
	Operand Node
}

func (*UnaryNegNode) Kind() Kind { return UnaryNeg }

// ---- Comparison / boolean ----

type CompareNode struct {
	base
	Op          string // "==", "!=", "<", ">", "<=", ">="
	Left, Right Node
}

func (*CompareNode) Kind() Kind { return Compare }

type BoolOpNode struct {
	base
	Op          string // "and", "or"
	Left, Right Node
}

func (*BoolOpNode) Kind() Kind { return BoolOp }

type NotNode struct {
	base
	Operand Node
}

func (*NotNode) Kind() Kind { return Not }

// ---- Control flow ----

type IfNode struct {
	base
	Cond, Then, Else Node
}

func (*IfNode) Kind() Kind { return If }

type WhileNode struct {
	base
	Cond, Body Node
}

func (*WhileNode) Kind() Kind { return While }

type DoWhileNode struct {
	base
	Body, Cond Node
}

func (*DoWhileNode) Kind() Kind { return DoWhile }

type ForInNode struct {
	base
	Name   string
	Source Node
	Body   Node
}

func (*ForInNode) Kind() Kind { return ForIn }

// ---- Binding forms ----

// Binder is one name = expr pair in a Let. Every binder whose evaluated
// value turns out to be a lambda is made recursive automatically (per
// spec.md §4.1's "recursive let" rule): the evaluator tracks which slots
// bound a lambda and rewires their captured environment to the final
// let-extended frame after all binders are processed, so there is no
// separate syntax for recursive vs. non-recursive bindings.
type Binder struct {
	Name  string
	Value Node
}

type LetNode struct {
	base
	Binders []Binder
	Body    Node
}

func (*LetNode) Kind() Kind { return Let }

type SeqNode struct {
	base
	Exprs []Node
}

func (*SeqNode) Kind() Kind { return Seq }

type SetNode struct {
	base
	Target Node // Variable, ListAccess, or DictAccess
	Value  Node
}

func (*SetNode) Kind() Kind { return Set }

// ---- Literals of composite shape ----

type ListLitNode struct {
	base
	Elements []Node
}

func (*ListLitNode) Kind() Kind { return ListLit }

type DictEntry struct {
	Key   string
	Value Node
}

type DictLitNode struct {
	base
	Entries []DictEntry
}

func (*DictLitNode) Kind() Kind { return DictLit }

type TupleLitNode struct {
	base
	Left, Right Node
}

func (*TupleLitNode) Kind() Kind { return TupleLit }

// ---- Access ----

type ListAccessNode struct {
	base
	List, Index Node
}

func (*ListAccessNode) Kind() Kind { return ListAccess }

type DictAccessNode struct {
	base
	Dict Node
	Key  string
}

func (*DictAccessNode) Kind() Kind { return DictAccess }

type TupleLeftNode struct {
	base
	Tuple Node
}

func (*TupleLeftNode) Kind() Kind { return TupleLeft }

type TupleRightNode struct {
	base
	Tuple Node
}

func (*TupleRightNode) Kind() Kind { return TupleRight }

// ListSliceNode is a half-open slice [Low, High). Low/High are nil when
// omitted, defaulting to 0 and length respectively.
type ListSliceNode struct {
	base
	List     Node
	Low, High Node
}

func (*ListSliceNode) Kind() Kind { return ListSlice }

type ListAddNode struct {
	base
	List, Index, Value Node
}

func (*ListAddNode) Kind() Kind { return ListAdd }

type ListRemoveNode struct {
	base
	List, Index Node
}

func (*ListRemoveNode) Kind() Kind { return ListRemove }

// ---- Application / functions ----

type ApplyNode struct {
	base
	Fn   Node
	Args []Node
}

func (*ApplyNode) Kind() Kind { return Apply }

type LambdaLitNode struct {
	base
	Params []string
	Body   Node
}

func (*LambdaLitNode) Kind() Kind { return LambdaLit }

type ThunkLitNode struct {
	base
	Body Node
}

func (*ThunkLitNode) Kind() Kind { return ThunkLit }

// ---- Calculus ----

// DerivativeNode is "d/d<Var> Body".
type DerivativeNode struct {
	base
	Var  string
	Body Node
}

func (*DerivativeNode) Kind() Kind { return Derivative }

type MagnitudeNode struct {
	base
	Operand Node
}

func (*MagnitudeNode) Kind() Kind { return Magnitude }

type NormNode struct {
	base
	Operand Node
}

func (*NormNode) Kind() Kind { return Norm }

// ---- I/O ----

type PrintNode struct {
	base
	Args []Node
}

func (*PrintNode) Kind() Kind { return Print }

type InputNode struct{ base }

func (*InputNode) Kind() Kind { return Input }

// ---- Conversion ----

type CastNode struct {
	base
	Target  string
	Operand Node
}

func (*CastNode) Kind() Kind { return Cast }

type IsaNode struct {
	base
	Target  string
	Operand Node
}

func (*IsaNode) Kind() Kind { return Isa }

// ---- Higher-order list combinators ----

type FoldNode struct {
	base
	List, Init, Fn Node
}

func (*FoldNode) Kind() Kind { return Fold }

type MapNode struct {
	base
	List, Fn Node
}

func (*MapNode) Kind() Kind { return Map }

// ---- Modules ----

type ImportNode struct {
	base
	Module string
}

func (*ImportNode) Kind() Kind { return Import }

type FromImportNode struct {
	base
	Module string
	Names  []string
}

func (*FromImportNode) Kind() Kind { return FromImport }

// ---- Algebraic data types ----

type Constructor struct {
	Name   string
	Fields []string
}

type ADTDeclNode struct {
	base
	Name         string
	Constructors []Constructor
}

func (*ADTDeclNode) Kind() Kind { return ADTDecl }

type SwitchArm struct {
	Constructor string
	Fields      []string
	Body        Node
}

type SwitchNode struct {
	base
	Scrutinee Node
	Arms      []SwitchArm
}

func (*SwitchNode) Kind() Kind { return Switch }

// New<Kind> constructors stamp the position uniformly; the parser calls
// these rather than constructing nodes directly, since the position field
// embedded in every node is unexported (outside code has no business
// setting it to anything but where the token stream actually was).

func NewIntLit(pos token.Position, v int64) *IntLitNode       { return &IntLitNode{base{pos}, v} }
func NewRealLit(pos token.Position, v float64) *RealLitNode   { return &RealLitNode{base{pos}, v} }
func NewBoolLit(pos token.Position, v bool) *BoolLitNode      { return &BoolLitNode{base{pos}, v} }
func NewStringLit(pos token.Position, v string) *StringLitNode { return &StringLitNode{base{pos}, v} }
func NewVoidLit(pos token.Position) *VoidLitNode              { return &VoidLitNode{base{pos}} }
func NewVariable(pos token.Position, name string) *VariableNode { return &VariableNode{base{pos}, name} }

func NewBinaryOp(pos token.Position, op string, l, r Node) *BinaryOpNode {
	return &BinaryOpNode{base{pos}, op, l, r}
}
func NewUnaryNeg(pos token.Position, operand Node) *UnaryNegNode {
	return &UnaryNegNode{base{pos}, operand}
}
func NewCompare(pos token.Position, op string, l, r Node) *CompareNode {
	return &CompareNode{base{pos}, op, l, r}
}
func NewBoolOp(pos token.Position, op string, l, r Node) *BoolOpNode {
	return &BoolOpNode{base{pos}, op, l, r}
}
func NewNot(pos token.Position, operand Node) *NotNode { return &NotNode{base{pos}, operand} }

func NewIf(pos token.Position, cond, then, els Node) *IfNode {
	return &IfNode{base{pos}, cond, then, els}
}
func NewWhile(pos token.Position, cond, body Node) *WhileNode {
	return &WhileNode{base{pos}, cond, body}
}
func NewDoWhile(pos token.Position, body, cond Node) *DoWhileNode {
	return &DoWhileNode{base{pos}, body, cond}
}
func NewForIn(pos token.Position, name string, src, body Node) *ForInNode {
	return &ForInNode{base{pos}, name, src, body}
}

func NewLet(pos token.Position, binders []Binder, body Node) *LetNode {
	return &LetNode{base{pos}, binders, body}
}
func NewSeq(pos token.Position, exprs []Node) *SeqNode { return &SeqNode{base{pos}, exprs} }
func NewSet(pos token.Position, target, value Node) *SetNode {
	return &SetNode{base{pos}, target, value}
}

func NewListLit(pos token.Position, elems []Node) *ListLitNode {
	return &ListLitNode{base{pos}, elems}
}
func NewDictLit(pos token.Position, entries []DictEntry) *DictLitNode {
	return &DictLitNode{base{pos}, entries}
}
func NewTupleLit(pos token.Position, l, r Node) *TupleLitNode {
	return &TupleLitNode{base{pos}, l, r}
}

func NewListAccess(pos token.Position, list, index Node) *ListAccessNode {
	return &ListAccessNode{base{pos}, list, index}
}
func NewDictAccess(pos token.Position, dict Node, key string) *DictAccessNode {
	return &DictAccessNode{base{pos}, dict, key}
}
func NewTupleLeft(pos token.Position, tuple Node) *TupleLeftNode {
	return &TupleLeftNode{base{pos}, tuple}
}
func NewTupleRight(pos token.Position, tuple Node) *TupleRightNode {
	return &TupleRightNode{base{pos}, tuple}
}
func NewListSlice(pos token.Position, list, low, high Node) *ListSliceNode {
	return &ListSliceNode{base{pos}, list, low, high}
}
func NewListAdd(pos token.Position, list, index, value Node) *ListAddNode {
	return &ListAddNode{base{pos}, list, index, value}
}
func NewListRemove(pos token.Position, list, index Node) *ListRemoveNode {
	return &ListRemoveNode{base{pos}, list, index}
}

func NewApply(pos token.Position, fn Node, args []Node) *ApplyNode {
	return &ApplyNode{base{pos}, fn, args}
}
func NewLambdaLit(pos token.Position, params []string, body Node) *LambdaLitNode {
	return &LambdaLitNode{base{pos}, params, body}
}
func NewThunkLit(pos token.Position, body Node) *ThunkLitNode {
	return &ThunkLitNode{base{pos}, body}
}

func NewDerivative(pos token.Position, v string, body Node) *DerivativeNode {
	return &DerivativeNode{base{pos}, v, body}
}
func NewMagnitude(pos token.Position, operand Node) *MagnitudeNode {
	return &MagnitudeNode{base{pos}, operand}
}
func NewNorm(pos token.Position, operand Node) *NormNode { return &NormNode{base{pos}, operand} }

func NewPrint(pos token.Position, args []Node) *PrintNode { return &PrintNode{base{pos}, args} }
func NewInput(pos token.Position) *InputNode               { return &InputNode{base{pos}} }

func NewCast(pos token.Position, target string, operand Node) *CastNode {
	return &CastNode{base{pos}, target, operand}
}
func NewIsa(pos token.Position, target string, operand Node) *IsaNode {
	return &IsaNode{base{pos}, target, operand}
}

func NewFold(pos token.Position, list, init, fn Node) *FoldNode {
	return &FoldNode{base{pos}, list, init, fn}
}
func NewMap(pos token.Position, list, fn Node) *MapNode { return &MapNode{base{pos}, list, fn} }

func NewImport(pos token.Position, module string) *ImportNode {
	return &ImportNode{base{pos}, module}
}
func NewFromImport(pos token.Position, module string, names []string) *FromImportNode {
	return &FromImportNode{base{pos}, module, names}
}

func NewADTDecl(pos token.Position, name string, ctors []Constructor) *ADTDeclNode {
	return &ADTDeclNode{base{pos}, name, ctors}
}
func NewSwitch(pos token.Position, scrutinee Node, arms []SwitchArm) *SwitchNode {
	return &SwitchNode{base{pos}, scrutinee, arms}
}
