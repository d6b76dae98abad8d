package types

// BinaryTokenType describes a binary operator. Higher Priority binds tighter;
// operators of equal priority associate left to right.
type BinaryTokenType struct {
	Value    string
	Aliases  []string
	Priority int
}

// String returns the canonical operator text.
func (t *BinaryTokenType) String() string {
	return t.Value
}

// UnaryTokenType describes a prefix operator.
type UnaryTokenType struct {
	Value    string
	Aliases  []string
	Priority int
}

// String returns the canonical operator text.
func (t *UnaryTokenType) String() string {
	return t.Value
}

// IsMarker reports whether t is one of the static/dynamic expression markers.
// Marker operands bypass implicit static-context resolution and are parsed
// as a whole expression rather than a single operand.
func (t *UnaryTokenType) IsMarker() bool {
	return t == StaticExpression || t == DynamicExpression
}

// Operator priorities (binding strength).
const (
	UnaryPriority          = 1000
	MultiplicativePriority = 900
	AdditivePriority       = 800
	ShiftPriority          = 700
	RelationalPriority     = 600
	EqualityPriority       = 500
	BitwiseAndPriority     = 400
	ExclusiveOrPriority    = 390
	BitwiseOrPriority      = 380
	ConditionalAndPriority = 300
	ConditionalOrPriority  = 290
	NullCoalescingPriority = 200
	// ConditionPriority is the binding strength of the ternary operator.
	// Binary operators below it take the whole remaining expression as
	// their right operand.
	ConditionPriority  = 100
	AssignmentPriority = 50
)

// Binary operators.
var (
	Multiplication     = &BinaryTokenType{Value: "*", Priority: MultiplicativePriority}
	Division           = &BinaryTokenType{Value: "/", Priority: MultiplicativePriority}
	Remainder          = &BinaryTokenType{Value: "%", Priority: MultiplicativePriority}
	Addition           = &BinaryTokenType{Value: "+", Priority: AdditivePriority}
	Subtraction        = &BinaryTokenType{Value: "-", Priority: AdditivePriority}
	LeftShift          = &BinaryTokenType{Value: "<<", Priority: ShiftPriority}
	RightShift         = &BinaryTokenType{Value: ">>", Priority: ShiftPriority}
	LessThan           = &BinaryTokenType{Value: "<", Aliases: []string{"lt"}, Priority: RelationalPriority}
	GreaterThan        = &BinaryTokenType{Value: ">", Aliases: []string{"gt"}, Priority: RelationalPriority}
	LessThanOrEqual    = &BinaryTokenType{Value: "<=", Aliases: []string{"le"}, Priority: RelationalPriority}
	GreaterThanOrEqual = &BinaryTokenType{Value: ">=", Aliases: []string{"ge"}, Priority: RelationalPriority}
	Equality           = &BinaryTokenType{Value: "==", Aliases: []string{"eq"}, Priority: EqualityPriority}
	NotEqual           = &BinaryTokenType{Value: "!=", Aliases: []string{"ne"}, Priority: EqualityPriority}
	BitwiseAnd         = &BinaryTokenType{Value: "&", Priority: BitwiseAndPriority}
	ExclusiveOr        = &BinaryTokenType{Value: "^", Priority: ExclusiveOrPriority}
	BitwiseOr          = &BinaryTokenType{Value: "|", Priority: BitwiseOrPriority}
	ConditionalAnd     = &BinaryTokenType{Value: "&&", Aliases: []string{"and"}, Priority: ConditionalAndPriority}
	ConditionalOr      = &BinaryTokenType{Value: "||", Aliases: []string{"or"}, Priority: ConditionalOrPriority}
	NullCoalescing     = &BinaryTokenType{Value: "??", Priority: NullCoalescingPriority}
	Assignment         = &BinaryTokenType{Value: "=", Priority: AssignmentPriority}
)

// Unary operators.
var (
	Minus           = &UnaryTokenType{Value: "-", Priority: UnaryPriority}
	Plus            = &UnaryTokenType{Value: "+", Priority: UnaryPriority}
	BitwiseNegation = &UnaryTokenType{Value: "~", Priority: UnaryPriority}
	LogicalNegation = &UnaryTokenType{Value: "!", Priority: UnaryPriority}
	// StaticExpression marks an expression that must be resolved statically.
	StaticExpression = &UnaryTokenType{Value: "$", Priority: UnaryPriority}
	// DynamicExpression marks an expression that must be resolved dynamically.
	DynamicExpression = &UnaryTokenType{Value: "$$", Priority: UnaryPriority}
)

// BinaryTokens lists the default binary operators.
var BinaryTokens = []*BinaryTokenType{
	Multiplication, Division, Remainder,
	Addition, Subtraction,
	LeftShift, RightShift,
	LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual,
	Equality, NotEqual,
	BitwiseAnd, ExclusiveOr, BitwiseOr,
	ConditionalAnd, ConditionalOr,
	NullCoalescing,
	Assignment,
}

// UnaryTokens lists the default unary operators.
var UnaryTokens = []*UnaryTokenType{
	Minus, Plus, BitwiseNegation, LogicalNegation, StaticExpression, DynamicExpression,
}
