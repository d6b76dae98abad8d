package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders a node as binding-expression text.
//
// Constants of the literal types (bool, string, int32, int64, uint32,
// uint64, float32, float64, decimal.Decimal) are written in a canonical form
// that parses back to an equal value with the same declared type. Operands
// are parenthesized only where precedence requires it.
func Format(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// FormatConstant renders a constant value as a literal.
func FormatConstant(c *Constant) string {
	var b strings.Builder
	writeConstant(&b, c)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch x := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Constant:
		writeConstant(b, x)
	case *Member:
		if x.Target != nil {
			writeTarget(b, x.Target)
			b.WriteByte('.')
		}
		b.WriteString(x.Name)
	case *Index:
		if x.Target != nil {
			writeTarget(b, x.Target)
		}
		b.WriteByte('[')
		writeList(b, x.Arguments)
		b.WriteByte(']')
	case *MethodCall:
		if x.Target != nil {
			writeTarget(b, x.Target)
			b.WriteByte('.')
		}
		b.WriteString(x.Name)
		if len(x.TypeArguments) > 0 {
			b.WriteByte('<')
			b.WriteString(strings.Join(x.TypeArguments, ", "))
			b.WriteByte('>')
		}
		b.WriteByte('(')
		writeList(b, x.Arguments)
		b.WriteByte(')')
	case *Binary:
		writeOperand(b, x.Left, needsParens(x.Left, x.Op.Priority, false))
		b.WriteByte(' ')
		b.WriteString(x.Op.Value)
		b.WriteByte(' ')
		writeOperand(b, x.Right, needsParens(x.Right, x.Op.Priority, true))
	case *Unary:
		b.WriteString(x.Op.Value)
		writeOperand(b, x.Operand, isCompound(x.Operand))
	case *Condition:
		writeOperand(b, x.Test, needsParens(x.Test, ConditionPriority, false))
		b.WriteString(" ? ")
		writeOperand(b, x.IfTrue, isLambda(x.IfTrue))
		b.WriteString(" : ")
		writeOperand(b, x.IfFalse, isLambda(x.IfFalse))
	case *Lambda:
		b.WriteByte('(')
		for i, p := range x.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
		}
		b.WriteString(") => ")
		writeNode(b, x.Body)
	case *Parameter:
		b.WriteString(x.Name)
	case *NullConditionalMember:
		writeTarget(b, x.Target)
		b.WriteByte('?')
	default:
		fmt.Fprintf(b, "%v", n)
	}
}

// writeTarget writes the receiver of a postfix production.
func writeTarget(b *strings.Builder, n Node) {
	writeOperand(b, n, isCompound(n))
}

func writeOperand(b *strings.Builder, n Node, parens bool) {
	if parens {
		b.WriteByte('(')
		writeNode(b, n)
		b.WriteByte(')')
		return
	}
	writeNode(b, n)
}

func writeList(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, n)
	}
}

func isLambda(n Node) bool {
	_, ok := n.(*Lambda)
	return ok
}

func isCompound(n Node) bool {
	switch x := n.(type) {
	case *Binary, *Condition, *Lambda, *Unary:
		return true
	case *Constant:
		// Negative literals render with a sign and would otherwise bind
		// to a following member access as a unary expression.
		s := FormatConstant(x)
		return strings.HasPrefix(s, "-")
	}
	return false
}

func needsParens(n Node, parent int, right bool) bool {
	switch x := n.(type) {
	case *Condition, *Lambda:
		return true
	case *Binary:
		if right {
			return x.Op.Priority <= parent
		}
		return x.Op.Priority < parent
	}
	return false
}

func writeConstant(b *strings.Builder, c *Constant) {
	switch v := c.Value.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case string:
		writeQuoted(b, v)
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
		b.WriteByte('L')
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
		b.WriteByte('U')
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
		b.WriteString("UL")
	case float32:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		b.WriteByte('F')
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('D')
	case decimal.Decimal:
		b.WriteString(v.String())
		b.WriteByte('M')
	case reflect.Type:
		b.WriteString(v.String())
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

var quotedEscapes = map[rune]string{
	'\\': `\\`,
	0:    `\0`,
	'\a': `\a`,
	'\b': `\b`,
	'\f': `\f`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\v': `\v`,
	'"':  `""`,
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		if esc, ok := quotedEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
}
