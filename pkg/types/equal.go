package types

import (
	"reflect"

	"github.com/shopspring/decimal"
)

// Equal reports whether two nodes are structurally equal. Identity is never
// considered: two independently built trees with the same content are equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Constant:
		y := b.(*Constant)
		return x.Type == y.Type && constantValuesEqual(x.Value, y.Value)
	case *Member:
		y := b.(*Member)
		return x.Name == y.Name && Equal(x.Target, y.Target) && memberInfoEqual(x.Resolved, y.Resolved)
	case *Index:
		y := b.(*Index)
		return Equal(x.Target, y.Target) && nodesEqual(x.Arguments, y.Arguments)
	case *MethodCall:
		y := b.(*MethodCall)
		return x.Name == y.Name &&
			Equal(x.Target, y.Target) &&
			nodesEqual(x.Arguments, y.Arguments) &&
			stringsEqual(x.TypeArguments, y.TypeArguments) &&
			methodInfoEqual(x.Resolved, y.Resolved)
	case *Binary:
		y := b.(*Binary)
		return x.Op.Value == y.Op.Value && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Unary:
		y := b.(*Unary)
		return x.Op.Value == y.Op.Value && Equal(x.Operand, y.Operand)
	case *Condition:
		y := b.(*Condition)
		return Equal(x.Test, y.Test) && Equal(x.IfTrue, y.IfTrue) && Equal(x.IfFalse, y.IfFalse)
	case *Lambda:
		y := b.(*Lambda)
		if len(x.Parameters) != len(y.Parameters) {
			return false
		}
		for i := range x.Parameters {
			if !Equal(x.Parameters[i], y.Parameters[i]) {
				return false
			}
		}
		return Equal(x.Body, y.Body)
	case *Parameter:
		y := b.(*Parameter)
		return x.Name == y.Name && x.Index == y.Index
	case *NullConditionalMember:
		y := b.(*NullConditionalMember)
		return Equal(x.Target, y.Target)
	}
	return false
}

func nodesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func constantValuesEqual(a, b any) bool {
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func memberInfoEqual(a, b *MemberInfo) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Owner == b.Owner && a.Name == b.Name
}

func methodInfoEqual(a, b *MethodInfo) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Owner == b.Owner && a.Name == b.Name && len(a.In) == len(b.In)
}
