package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sandrolain/bindexpr/pkg/types"
)

var (
	headerFmt = color.New(color.FgBlue, color.Bold).SprintFunc()
	kindFmt   = color.New(color.FgCyan, color.Bold).SprintFunc()
	nameFmt   = color.New(color.FgGreen).SprintFunc()
	valueFmt  = color.New(color.FgYellow).SprintFunc()
	labelFmt  = color.New(color.FgMagenta).SprintFunc()
	errorFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnFmt   = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// writeTree prints n as an indented tree, one node per line.
func writeTree(w io.Writer, n types.Node, indent string) {
	if n == nil {
		fmt.Fprintf(w, "%s%s\n", indent, kindFmt("context"))
		return
	}

	child := indent + "  "
	switch x := n.(type) {
	case *types.Constant:
		fmt.Fprintf(w, "%s%s %s %s\n", indent, kindFmt(x.Kind()), valueFmt(types.FormatConstant(x)), labelFmt(x.Type))
	case *types.Member:
		fmt.Fprintf(w, "%s%s %s\n", indent, kindFmt(x.Kind()), nameFmt(x.Name))
		if x.Target != nil {
			writeTree(w, x.Target, child)
		}
	case *types.Index:
		fmt.Fprintf(w, "%s%s\n", indent, kindFmt(x.Kind()))
		writeTree(w, x.Target, child)
		writeChildren(w, "args", x.Arguments, child)
	case *types.MethodCall:
		fmt.Fprintf(w, "%s%s %s", indent, kindFmt(x.Kind()), nameFmt(x.Name))
		if len(x.TypeArguments) > 0 {
			fmt.Fprintf(w, " %s", labelFmt(x.TypeArguments))
		}
		fmt.Fprintln(w)
		if x.Target != nil {
			writeTree(w, x.Target, child)
		}
		writeChildren(w, "args", x.Arguments, child)
	case *types.Binary:
		fmt.Fprintf(w, "%s%s %s\n", indent, kindFmt(x.Kind()), valueFmt(x.Op))
		writeTree(w, x.Left, child)
		writeTree(w, x.Right, child)
	case *types.Unary:
		fmt.Fprintf(w, "%s%s %s\n", indent, kindFmt(x.Kind()), valueFmt(x.Op))
		writeTree(w, x.Operand, child)
	case *types.Condition:
		fmt.Fprintf(w, "%s%s\n", indent, kindFmt(x.Kind()))
		writeTree(w, x.Test, child)
		writeTree(w, x.IfTrue, child)
		writeTree(w, x.IfFalse, child)
	case *types.Lambda:
		fmt.Fprintf(w, "%s%s", indent, kindFmt(x.Kind()))
		for _, p := range x.Parameters {
			fmt.Fprintf(w, " %s", nameFmt(p.Name))
		}
		fmt.Fprintln(w)
		writeTree(w, x.Body, child)
	case *types.Parameter:
		fmt.Fprintf(w, "%s%s %s #%d\n", indent, kindFmt(x.Kind()), nameFmt(x.Name), x.Index)
	case *types.NullConditionalMember:
		fmt.Fprintf(w, "%s%s\n", indent, kindFmt(x.Kind()))
		writeTree(w, x.Target, child)
	}
}

func writeChildren(w io.Writer, label string, nodes []types.Node, indent string) {
	if len(nodes) == 0 {
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, labelFmt(label))
	for _, n := range nodes {
		writeTree(w, n, indent+"  ")
	}
}
