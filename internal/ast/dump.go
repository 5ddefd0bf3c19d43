package ast

import (
	"fmt"
	"strings"
)

// Dump renders node as a parenthesized S-expression, ignoring source
// positions, for use in snapshot tests of parser output and of symbolic
// differentiation results (§4.4). It is not a serialization format the
// interpreter itself reads back — only a deterministic, human-diffable
// view of a tree.
func Dump(node Node) string {
	var b strings.Builder
	dump(&b, node)
	return b.String()
}

func dump(b *strings.Builder, node Node) {
	if node == nil {
		b.WriteString("nil")
		return
	}
	switch n := node.(type) {
	case *IntLitNode:
		fmt.Fprintf(b, "%d", n.Value)
	case *RealLitNode:
		fmt.Fprintf(b, "%g", n.Value)
	case *BoolLitNode:
		fmt.Fprintf(b, "%t", n.Value)
	case *StringLitNode:
		fmt.Fprintf(b, "%q", n.Value)
	case *VoidLitNode:
		b.WriteString("void")
	case *VariableNode:
		b.WriteString(n.Name)
	case *BinaryOpNode:
		paren(b, n.Op, n.Left, n.Right)
	case *UnaryNegNode:
		paren(b, "neg", n.Operand)
	case *CompareNode:
		paren(b, n.Op, n.Left, n.Right)
	case *BoolOpNode:
		paren(b, n.Op, n.Left, n.Right)
	case *NotNode:
		paren(b, "not", n.Operand)
	case *IfNode:
		paren(b, "if", n.Cond, n.Then, n.Else)
	case *WhileNode:
		paren(b, "while", n.Cond, n.Body)
	case *DoWhileNode:
		paren(b, "do-while", n.Body, n.Cond)
	case *ForInNode:
		fmt.Fprintf(b, "(for-in %s ", n.Name)
		dump(b, n.Source)
		b.WriteString(" ")
		dump(b, n.Body)
		b.WriteString(")")
	case *LetNode:
		b.WriteString("(let (")
		for i, bind := range n.Binders {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(b, "(%s ", bind.Name)
			dump(b, bind.Value)
			b.WriteString(")")
		}
		b.WriteString(") ")
		dump(b, n.Body)
		b.WriteString(")")
	case *SeqNode:
		b.WriteString("(seq")
		for _, e := range n.Exprs {
			b.WriteString(" ")
			dump(b, e)
		}
		b.WriteString(")")
	case *SetNode:
		paren(b, "set", n.Target, n.Value)
	case *ListLitNode:
		b.WriteString("(list")
		for _, e := range n.Elements {
			b.WriteString(" ")
			dump(b, e)
		}
		b.WriteString(")")
	case *DictLitNode:
		b.WriteString("(dict")
		for _, e := range n.Entries {
			fmt.Fprintf(b, " (%s ", e.Key)
			dump(b, e.Value)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *TupleLitNode:
		paren(b, "tuple", n.Left, n.Right)
	case *ListAccessNode:
		paren(b, "list-access", n.List, n.Index)
	case *DictAccessNode:
		b.WriteString("(dict-access ")
		dump(b, n.Dict)
		fmt.Fprintf(b, " %s)", n.Key)
	case *TupleLeftNode:
		paren(b, "tuple-left", n.Tuple)
	case *TupleRightNode:
		paren(b, "tuple-right", n.Tuple)
	case *ListSliceNode:
		paren(b, "list-slice", n.List, n.Low, n.High)
	case *ListAddNode:
		paren(b, "list-add", n.List, n.Index, n.Value)
	case *ListRemoveNode:
		paren(b, "list-remove", n.List, n.Index)
	case *ApplyNode:
		b.WriteString("(apply ")
		dump(b, n.Fn)
		for _, a := range n.Args {
			b.WriteString(" ")
			dump(b, a)
		}
		b.WriteString(")")
	case *LambdaLitNode:
		fmt.Fprintf(b, "(lambda (%s) ", strings.Join(n.Params, " "))
		dump(b, n.Body)
		b.WriteString(")")
	case *ThunkLitNode:
		paren(b, "thunk", n.Body)
	case *DerivativeNode:
		fmt.Fprintf(b, "(d/d%s ", n.Var)
		dump(b, n.Body)
		b.WriteString(")")
	case *MagnitudeNode:
		paren(b, "magnitude", n.Operand)
	case *NormNode:
		paren(b, "norm", n.Operand)
	case *PrintNode:
		b.WriteString("(print")
		for _, a := range n.Args {
			b.WriteString(" ")
			dump(b, a)
		}
		b.WriteString(")")
	case *InputNode:
		b.WriteString("(input)")
	case *CastNode:
		fmt.Fprintf(b, "(cast %s ", n.Target)
		dump(b, n.Operand)
		b.WriteString(")")
	case *IsaNode:
		fmt.Fprintf(b, "(isa %s ", n.Target)
		dump(b, n.Operand)
		b.WriteString(")")
	case *FoldNode:
		b.WriteString("(fold ")
		dump(b, n.List)
		b.WriteString(" ")
		dump(b, n.Init)
		b.WriteString(" ")
		dump(b, n.Fn)
		b.WriteString(")")
	case *MapNode:
		b.WriteString("(map ")
		dump(b, n.List)
		b.WriteString(" ")
		dump(b, n.Fn)
		b.WriteString(")")
	case *ImportNode:
		fmt.Fprintf(b, "(import %s)", n.Module)
	case *FromImportNode:
		fmt.Fprintf(b, "(from-import %s (%s))", n.Module, strings.Join(n.Names, " "))
	case *ADTDeclNode:
		fmt.Fprintf(b, "(adt-decl %s)", n.Name)
	case *SwitchNode:
		b.WriteString("(switch ")
		dump(b, n.Scrutinee)
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "(unknown-kind %d)", node.Kind())
	}
}

func paren(b *strings.Builder, tag string, operands ...Node) {
	fmt.Fprintf(b, "(%s", tag)
	for _, o := range operands {
		b.WriteString(" ")
		dump(b, o)
	}
	b.WriteString(")")
}
