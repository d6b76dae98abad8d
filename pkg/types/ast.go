package types

import (
	"reflect"
	"slices"

	"github.com/shopspring/decimal"
)

// NodeKind identifies the kind of an AST node.
type NodeKind string

// AST node kinds.
const (
	NodeConstant              NodeKind = "constant"
	NodeMember                NodeKind = "member"
	NodeIndex                 NodeKind = "index"
	NodeMethodCall            NodeKind = "call"
	NodeBinary                NodeKind = "binary"
	NodeUnary                 NodeKind = "unary"
	NodeCondition             NodeKind = "condition"
	NodeLambda                NodeKind = "lambda"
	NodeParameter             NodeKind = "parameter"
	NodeNullConditionalMember NodeKind = "nullConditional"
)

// Node is an immutable binding-expression AST node.
//
// The set of implementations is closed: *Constant, *Member, *Index,
// *MethodCall, *Binary, *Unary, *Condition, *Lambda, *Parameter and
// *NullConditionalMember. Nodes are never mutated after construction, so a
// tree may be shared between goroutines and cached freely.
type Node interface {
	Kind() NodeKind
	String() string
	node()
}

// Well-known declared types.
var (
	BoolType    = reflect.TypeFor[bool]()
	StringType  = reflect.TypeFor[string]()
	Int32Type   = reflect.TypeFor[int32]()
	Int64Type   = reflect.TypeFor[int64]()
	UInt32Type  = reflect.TypeFor[uint32]()
	UInt64Type  = reflect.TypeFor[uint64]()
	Float32Type = reflect.TypeFor[float32]()
	Float64Type = reflect.TypeFor[float64]()
	DecimalType = reflect.TypeFor[decimal.Decimal]()
	// TypeType is the declared type of a constant holding a static type reference.
	TypeType = reflect.TypeFor[reflect.Type]()
	// AnyType is the declared type of the null constant.
	AnyType = reflect.TypeFor[any]()
)

// Constant is a literal value with its declared type.
type Constant struct {
	Value any
	Type  reflect.Type
}

// Shared constant singletons.
var (
	NullConstant        = &Constant{Value: nil, Type: AnyType}
	TrueConstant        = &Constant{Value: true, Type: BoolType}
	FalseConstant       = &Constant{Value: false, Type: BoolType}
	EmptyStringConstant = &Constant{Value: "", Type: StringType}
)

// NewConstant creates a constant. A nil typ is inferred from value.
func NewConstant(value any, typ reflect.Type) *Constant {
	if typ == nil {
		if value == nil {
			return NullConstant
		}
		typ = reflect.TypeOf(value)
	}
	return &Constant{Value: value, Type: typ}
}

// BoolConstant returns the shared true or false constant.
func BoolConstant(b bool) *Constant {
	if b {
		return TrueConstant
	}
	return FalseConstant
}

// StringConstant creates a string constant.
func StringConstant(s string) *Constant {
	if s == "" {
		return EmptyStringConstant
	}
	return &Constant{Value: s, Type: StringType}
}

// TypeConstant wraps a static type reference, used as the target of static
// member access and synthetic calls such as string formatting.
func TypeConstant(t reflect.Type) *Constant {
	return &Constant{Value: t, Type: TypeType}
}

// AsType reports whether n is a static type reference.
func AsType(n Node) (reflect.Type, bool) {
	c, ok := n.(*Constant)
	if !ok || c.Type != TypeType {
		return nil, false
	}
	t, ok := c.Value.(reflect.Type)
	return t, ok
}

func (*Constant) Kind() NodeKind { return NodeConstant }
func (c *Constant) String() string { return Format(c) }
func (*Constant) node() {}

// Member is a property or field access. A nil Target means the member is
// resolved against the implicit binding context.
type Member struct {
	Target   Node
	Name     string
	Resolved *MemberInfo
}

// NewMember creates a by-name member access.
func NewMember(target Node, name string) *Member {
	return &Member{Target: target, Name: name}
}

// NewResolvedMember creates a member access bound to a resolved member.
func NewResolvedMember(target Node, info *MemberInfo) *Member {
	return &Member{Target: target, Name: info.Name, Resolved: info}
}

func (*Member) Kind() NodeKind { return NodeMember }
func (m *Member) String() string { return Format(m) }
func (*Member) node() {}

// Index is an indexer access.
type Index struct {
	Target    Node
	Arguments []Node
}

// NewIndex creates an indexer access.
func NewIndex(target Node, args []Node) *Index {
	return &Index{Target: target, Arguments: slices.Clone(args)}
}

func (*Index) Kind() NodeKind { return NodeIndex }
func (i *Index) String() string { return Format(i) }
func (*Index) node() {}

// MethodCall is a method invocation, optionally with explicit type arguments.
type MethodCall struct {
	Target        Node
	Name          string
	Arguments     []Node
	TypeArguments []string
	Resolved      *MethodInfo
}

// NewMethodCall creates a by-name method call.
func NewMethodCall(target Node, name string, args []Node, typeArgs []string) *MethodCall {
	return &MethodCall{
		Target:        target,
		Name:          name,
		Arguments:     slices.Clone(args),
		TypeArguments: slices.Clone(typeArgs),
	}
}

// NewResolvedMethodCall creates a call bound to a resolved method.
func NewResolvedMethodCall(target Node, info *MethodInfo, args []Node, typeArgs []string) *MethodCall {
	call := NewMethodCall(target, info.Name, args, typeArgs)
	call.Resolved = info
	return call
}

func (*MethodCall) Kind() NodeKind { return NodeMethodCall }
func (m *MethodCall) String() string { return Format(m) }
func (*MethodCall) node() {}

// Binary is a binary operator application.
type Binary struct {
	Op    *BinaryTokenType
	Left  Node
	Right Node
}

// NewBinary creates a binary node.
func NewBinary(op *BinaryTokenType, left, right Node) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

func (*Binary) Kind() NodeKind { return NodeBinary }
func (b *Binary) String() string { return Format(b) }
func (*Binary) node() {}

// Unary is a prefix operator application.
type Unary struct {
	Op      *UnaryTokenType
	Operand Node
}

// NewUnary creates a unary node.
func NewUnary(op *UnaryTokenType, operand Node) *Unary {
	return &Unary{Op: op, Operand: operand}
}

func (*Unary) Kind() NodeKind { return NodeUnary }
func (u *Unary) String() string { return Format(u) }
func (*Unary) node() {}

// Condition is the ternary test ? ifTrue : ifFalse.
type Condition struct {
	Test    Node
	IfTrue  Node
	IfFalse Node
}

// NewCondition creates a ternary node.
func NewCondition(test, ifTrue, ifFalse Node) *Condition {
	return &Condition{Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (*Condition) Kind() NodeKind { return NodeCondition }
func (c *Condition) String() string { return Format(c) }
func (*Condition) node() {}

// Lambda is an anonymous function with positional parameters.
type Lambda struct {
	Body       Node
	Parameters []*Parameter
}

// NewLambda creates a lambda node.
func NewLambda(body Node, params []*Parameter) *Lambda {
	return &Lambda{Body: body, Parameters: slices.Clone(params)}
}

func (*Lambda) Kind() NodeKind { return NodeLambda }
func (l *Lambda) String() string { return Format(l) }
func (*Lambda) node() {}

// Parameter is a lambda parameter reference.
type Parameter struct {
	Name  string
	Index int
}

// NewParameter creates a parameter node.
func NewParameter(name string, index int) *Parameter {
	return &Parameter{Name: name, Index: index}
}

func (*Parameter) Kind() NodeKind { return NodeParameter }
func (p *Parameter) String() string { return Format(p) }
func (*Parameter) node() {}

// NullConditionalMember marks Target as the receiver of a null-conditional
// access: members, calls and indexers attached beneath it short-circuit when
// Target has no value.
type NullConditionalMember struct {
	Target Node
}

// NewNullConditionalMember creates a null-conditional marker node.
func NewNullConditionalMember(target Node) *NullConditionalMember {
	return &NullConditionalMember{Target: target}
}

func (*NullConditionalMember) Kind() NodeKind { return NodeNullConditionalMember }
func (n *NullConditionalMember) String() string { return Format(n) }
func (*NullConditionalMember) node() {}
