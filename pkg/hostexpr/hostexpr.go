// Package hostexpr models typed host expression trees: the form a
// strongly-typed binding declaration takes before it is converted to the
// binding AST.
//
// Every node carries its static reflect.Type. Trees are built with the
// constructors in this package, which compute result types the way a
// compiler would for the common cases and panic on programmer errors such
// as accessing a member that does not exist, mirroring reflect.
//
//	m := hostexpr.Param("m", reflect.TypeFor[*Model]())
//	lambda := hostexpr.NewLambda(
//	    hostexpr.Add(hostexpr.Field(m, "Count"), hostexpr.Const(1)),
//	    m,
//	)
package hostexpr

import (
	"fmt"
	"reflect"
	"slices"
)

// Kind identifies the shape of a host expression node.
type Kind int

// Node kinds.
const (
	KindConstant Kind = iota
	KindDefault
	KindParameter
	KindLambda
	KindMemberAccess
	KindCall
	KindIndex
	KindArrayIndex
	KindNewArrayInit
	KindConvert
	KindConvertChecked
	KindConditional

	// binary
	KindAdd
	KindSubtract
	KindMultiply
	KindDivide
	KindModulo
	KindLeftShift
	KindRightShift
	KindLessThan
	KindGreaterThan
	KindLessThanOrEqual
	KindGreaterThanOrEqual
	KindEqual
	KindNotEqual
	KindAnd
	KindExclusiveOr
	KindOr
	KindAndAlso
	KindOrElse
	KindCoalesce
	KindAssign

	// unary
	KindNegate
	KindUnaryPlus
	KindNot
	KindOnesComplement
)

var kindNames = map[Kind]string{
	KindConstant:           "Constant",
	KindDefault:            "Default",
	KindParameter:          "Parameter",
	KindLambda:             "Lambda",
	KindMemberAccess:       "MemberAccess",
	KindCall:               "Call",
	KindIndex:              "Index",
	KindArrayIndex:         "ArrayIndex",
	KindNewArrayInit:       "NewArrayInit",
	KindConvert:            "Convert",
	KindConvertChecked:     "ConvertChecked",
	KindConditional:        "Conditional",
	KindAdd:                "Add",
	KindSubtract:           "Subtract",
	KindMultiply:           "Multiply",
	KindDivide:             "Divide",
	KindModulo:             "Modulo",
	KindLeftShift:          "LeftShift",
	KindRightShift:         "RightShift",
	KindLessThan:           "LessThan",
	KindGreaterThan:        "GreaterThan",
	KindLessThanOrEqual:    "LessThanOrEqual",
	KindGreaterThanOrEqual: "GreaterThanOrEqual",
	KindEqual:              "Equal",
	KindNotEqual:           "NotEqual",
	KindAnd:                "And",
	KindExclusiveOr:        "ExclusiveOr",
	KindOr:                 "Or",
	KindAndAlso:            "AndAlso",
	KindOrElse:             "OrElse",
	KindCoalesce:           "Coalesce",
	KindAssign:             "Assign",
	KindNegate:             "Negate",
	KindUnaryPlus:          "UnaryPlus",
	KindNot:                "Not",
	KindOnesComplement:     "OnesComplement",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsBinary reports whether k is a binary operator kind.
func (k Kind) IsBinary() bool {
	return k >= KindAdd && k <= KindAssign
}

// IsUnary reports whether k is a unary operator kind.
func (k Kind) IsUnary() bool {
	return k >= KindNegate && k <= KindOnesComplement
}

// Expr is a host expression node.
type Expr interface {
	Kind() Kind
	Type() reflect.Type
}

var (
	boolType = reflect.TypeFor[bool]()
	anyType  = reflect.TypeFor[any]()
)

// ConstantExpr is a literal value.
type ConstantExpr struct {
	Value any
	typ   reflect.Type
}

// Const creates a constant whose type is the dynamic type of v. A nil v has
// type any.
func Const(v any) *ConstantExpr {
	if v == nil {
		return &ConstantExpr{typ: anyType}
	}
	return &ConstantExpr{Value: v, typ: reflect.TypeOf(v)}
}

// ConstOf creates a constant with an explicit declared type. The value is
// not checked against typ; the converter coerces it.
func ConstOf(v any, typ reflect.Type) *ConstantExpr {
	return &ConstantExpr{Value: v, typ: typ}
}

func (*ConstantExpr) Kind() Kind { return KindConstant }
func (c *ConstantExpr) Type() reflect.Type { return c.typ }

// DefaultExpr is the zero value of a type.
type DefaultExpr struct {
	typ reflect.Type
}

// Default creates the zero value of typ.
func Default(typ reflect.Type) *DefaultExpr {
	return &DefaultExpr{typ: typ}
}

func (*DefaultExpr) Kind() Kind { return KindDefault }
func (d *DefaultExpr) Type() reflect.Type { return d.typ }

// ParameterExpr is a lambda parameter. Parameters are compared by identity:
// two parameters with the same name are distinct.
type ParameterExpr struct {
	Name string
	typ  reflect.Type
}

// Param creates a parameter.
func Param(name string, typ reflect.Type) *ParameterExpr {
	return &ParameterExpr{Name: name, typ: typ}
}

func (*ParameterExpr) Kind() Kind { return KindParameter }
func (p *ParameterExpr) Type() reflect.Type { return p.typ }

// LambdaExpr is a function literal.
type LambdaExpr struct {
	Body       Expr
	Parameters []*ParameterExpr
}

// NewLambda creates a lambda.
func NewLambda(body Expr, params ...*ParameterExpr) *LambdaExpr {
	return &LambdaExpr{Body: body, Parameters: slices.Clone(params)}
}

func (*LambdaExpr) Kind() Kind { return KindLambda }

// Type returns the func type of the lambda.
func (l *LambdaExpr) Type() reflect.Type {
	in := make([]reflect.Type, len(l.Parameters))
	for i, p := range l.Parameters {
		in[i] = p.typ
	}
	var out []reflect.Type
	if l.Body != nil && l.Body.Type() != nil {
		out = []reflect.Type{l.Body.Type()}
	}
	return reflect.FuncOf(in, out, false)
}

// MemberExpr reads a field or property. Target is nil for a static member,
// in which case Owner names the declaring type.
type MemberExpr struct {
	Target Expr
	Owner  reflect.Type
	Name   string
	typ    reflect.Type
}

// Field accesses the field name of target. Pointer targets are
// dereferenced. It panics if the field does not exist.
func Field(target Expr, name string) *MemberExpr {
	owner := target.Type()
	sf, ok := indirect(owner).FieldByName(name)
	if !ok {
		panic(fmt.Sprintf("hostexpr: type %s has no field %s", owner, name))
	}
	return &MemberExpr{Target: target, Owner: owner, Name: name, typ: sf.Type}
}

// StaticMember accesses a static member of owner with the given type.
func StaticMember(owner reflect.Type, name string, typ reflect.Type) *MemberExpr {
	return &MemberExpr{Owner: owner, Name: name, typ: typ}
}

func (*MemberExpr) Kind() Kind { return KindMemberAccess }
func (m *MemberExpr) Type() reflect.Type { return m.typ }

// CallExpr calls a method. Target is nil for a static call on Owner.
type CallExpr struct {
	Target        Expr
	Owner         reflect.Type
	Method        string
	TypeArguments []reflect.Type
	Arguments     []Expr
	typ           reflect.Type
}

// Call calls the method name of target. The result type is the method's
// first result, or nil for a method without results. It panics if the
// method does not exist.
func Call(target Expr, name string, args ...Expr) *CallExpr {
	owner := target.Type()
	m, ok := owner.MethodByName(name)
	if !ok && owner.Kind() != reflect.Pointer {
		m, ok = reflect.PointerTo(owner).MethodByName(name)
	}
	if !ok {
		panic(fmt.Sprintf("hostexpr: type %s has no method %s", owner, name))
	}
	var out reflect.Type
	if m.Type.NumOut() > 0 {
		out = m.Type.Out(0)
	}
	return &CallExpr{Target: target, Owner: owner, Method: name, Arguments: slices.Clone(args), typ: out}
}

// StaticCall calls a static method of owner with the given result type.
func StaticCall(owner reflect.Type, name string, result reflect.Type, typeArgs []reflect.Type, args ...Expr) *CallExpr {
	return &CallExpr{
		Owner:         owner,
		Method:        name,
		TypeArguments: slices.Clone(typeArgs),
		Arguments:     slices.Clone(args),
		typ:           result,
	}
}

func (*CallExpr) Kind() Kind { return KindCall }
func (c *CallExpr) Type() reflect.Type { return c.typ }

// IndexExpr reads an indexer: a map key or a slice, array or string
// element addressed through the indexer property rather than as a plain
// array access.
type IndexExpr struct {
	Target    Expr
	Arguments []Expr
	typ       reflect.Type
}

// Index indexes target. The result type is the element type of target.
func Index(target Expr, args ...Expr) *IndexExpr {
	return &IndexExpr{Target: target, Arguments: slices.Clone(args), typ: elem(target.Type())}
}

func (*IndexExpr) Kind() Kind { return KindIndex }
func (i *IndexExpr) Type() reflect.Type { return i.typ }

// NewArrayExpr builds a slice from element expressions.
type NewArrayExpr struct {
	ElementType reflect.Type
	Elements    []Expr
}

// NewArray creates a slice of elemType.
func NewArray(elemType reflect.Type, elems ...Expr) *NewArrayExpr {
	return &NewArrayExpr{ElementType: elemType, Elements: slices.Clone(elems)}
}

func (*NewArrayExpr) Kind() Kind { return KindNewArrayInit }
func (a *NewArrayExpr) Type() reflect.Type { return reflect.SliceOf(a.ElementType) }

// UnaryExpr is a unary operation or conversion.
type UnaryExpr struct {
	Op      Kind
	Operand Expr
	typ     reflect.Type
}

// MakeUnary creates a unary node of kind op. The result has the operand
// type.
func MakeUnary(op Kind, operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, typ: operand.Type()}
}

// Convert converts operand to typ.
func Convert(operand Expr, typ reflect.Type) *UnaryExpr {
	return &UnaryExpr{Op: KindConvert, Operand: operand, typ: typ}
}

// ConvertChecked converts operand to typ with overflow checking.
func ConvertChecked(operand Expr, typ reflect.Type) *UnaryExpr {
	return &UnaryExpr{Op: KindConvertChecked, Operand: operand, typ: typ}
}

// Negate returns -operand.
func Negate(operand Expr) *UnaryExpr { return MakeUnary(KindNegate, operand) }

// Not returns !operand for booleans and ^operand otherwise.
func Not(operand Expr) *UnaryExpr { return MakeUnary(KindNot, operand) }

func (u *UnaryExpr) Kind() Kind { return u.Op }
func (u *UnaryExpr) Type() reflect.Type { return u.typ }

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Op          Kind
	Left, Right Expr
	typ         reflect.Type
}

// MakeBinary creates a binary node of kind op. Comparison and logical
// operators yield bool; the others yield the left operand type.
func MakeBinary(op Kind, left, right Expr) *BinaryExpr {
	typ := left.Type()
	switch op {
	case KindLessThan, KindGreaterThan, KindLessThanOrEqual, KindGreaterThanOrEqual,
		KindEqual, KindNotEqual, KindAndAlso, KindOrElse:
		typ = boolType
	}
	return &BinaryExpr{Op: op, Left: left, Right: right, typ: typ}
}

// Add returns left + right.
func Add(left, right Expr) *BinaryExpr { return MakeBinary(KindAdd, left, right) }

// Equal returns left == right.
func Equal(left, right Expr) *BinaryExpr { return MakeBinary(KindEqual, left, right) }

// AndAlso returns left && right.
func AndAlso(left, right Expr) *BinaryExpr { return MakeBinary(KindAndAlso, left, right) }

// ArrayIndex returns array[index].
func ArrayIndex(array, index Expr) *BinaryExpr {
	return &BinaryExpr{Op: KindArrayIndex, Left: array, Right: index, typ: elem(array.Type())}
}

// Assign returns left = right.
func Assign(left, right Expr) *BinaryExpr { return MakeBinary(KindAssign, left, right) }

func (b *BinaryExpr) Kind() Kind { return b.Op }
func (b *BinaryExpr) Type() reflect.Type { return b.typ }

// ConditionalExpr is test ? ifTrue : ifFalse.
type ConditionalExpr struct {
	Test, IfTrue, IfFalse Expr
}

// Condition creates a conditional.
func Condition(test, ifTrue, ifFalse Expr) *ConditionalExpr {
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (*ConditionalExpr) Kind() Kind { return KindConditional }
func (c *ConditionalExpr) Type() reflect.Type { return c.IfTrue.Type() }

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func elem(t reflect.Type) reflect.Type {
	if t == nil {
		return anyType
	}
	t = indirect(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem()
	case reflect.String:
		return reflect.TypeFor[byte]()
	}
	return anyType
}
