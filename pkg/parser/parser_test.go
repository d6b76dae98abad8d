package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/parser"
	"github.com/sandrolain/bindexpr/pkg/types"
)

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   types.Node
	}{
		{
			name:   "multiplication binds tighter",
			source: "1+2*3",
			want:   bin(types.Addition, i32(1), bin(types.Multiplication, i32(2), i32(3))),
		},
		{
			name:   "equal priority is left associative",
			source: "1-2+3",
			want:   bin(types.Addition, bin(types.Subtraction, i32(1), i32(2)), i32(3)),
		},
		{
			name:   "parentheses override precedence",
			source: "(1+2)*3",
			want:   bin(types.Multiplication, bin(types.Addition, i32(1), i32(2)), i32(3)),
		},
		{
			name:   "unary binds tighter than binary",
			source: "-1+2",
			want:   bin(types.Addition, un(types.Minus, i32(1)), i32(2)),
		},
		{
			name:   "long chain",
			source: "a || b && c == d + e * f",
			want: bin(types.ConditionalOr, root("a"),
				bin(types.ConditionalAnd, root("b"),
					bin(types.Equality, root("c"),
						bin(types.Addition, root("d"),
							bin(types.Multiplication, root("e"), root("f")))))),
		},
		{
			name:   "relational over equality",
			source: "a < b == c >= d",
			want: bin(types.Equality,
				bin(types.LessThan, root("a"), root("b")),
				bin(types.GreaterThanOrEqual, root("c"), root("d"))),
		},
		{
			name:   "shift and bitwise",
			source: "a << 2 | b & c ^ d",
			want: bin(types.BitwiseOr,
				bin(types.LeftShift, root("a"), i32(2)),
				bin(types.ExclusiveOr, bin(types.BitwiseAnd, root("b"), root("c")), root("d"))),
		},
		{
			name:   "null coalescing below logical or",
			source: "a ?? b || c",
			want:   bin(types.NullCoalescing, root("a"), bin(types.ConditionalOr, root("b"), root("c"))),
		},
		{
			name:   "word aliases",
			source: "a lt b and c ne d or e",
			want: bin(types.ConditionalOr,
				bin(types.ConditionalAnd,
					bin(types.LessThan, root("a"), root("b")),
					bin(types.NotEqual, root("c"), root("d"))),
				root("e")),
		},
		{
			name:   "postfix attaches to operands",
			source: "Items[0].Count * 2",
			want: bin(types.Multiplication,
				member(types.NewIndex(root("Items"), []types.Node{i32(0)}), "Count"),
				i32(2)),
		},
		{
			name:   "nested chain in parentheses",
			source: "a * (b + c * d) - e",
			want: bin(types.Subtraction,
				bin(types.Multiplication, root("a"),
					bin(types.Addition, root("b"), bin(types.Multiplication, root("c"), root("d")))),
				root("e")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAST(t, tt.want, tt.source)
		})
	}
}

func TestParseAssignment(t *testing.T) {
	t.Run("takes the whole remainder", func(t *testing.T) {
		assertAST(t,
			bin(types.Assignment, root("Text"),
				bin(types.Addition,
					member(root("Model"), "Value"),
					bin(types.Multiplication,
						member(types.NewIndex(root("Items"), []types.Node{i32(0)}), "Count"),
						i32(2)))),
			"Text = Model.Value + Items[0].Count * 2")
	})

	t.Run("ternary on the right", func(t *testing.T) {
		assertAST(t,
			bin(types.Assignment, root("A"), types.NewCondition(root("b"), root("c"), root("d"))),
			"A = b ? c : d")
	})

	t.Run("equality is not assignment", func(t *testing.T) {
		assertAST(t, bin(types.Equality, root("a"), root("b")), "a == b")
	})
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   types.Node
	}{
		{
			name:   "simple",
			source: "a ? b : c",
			want:   types.NewCondition(root("a"), root("b"), root("c")),
		},
		{
			name:   "nested in false branch",
			source: "a?b:c?d:e",
			want:   types.NewCondition(root("a"), root("b"), types.NewCondition(root("c"), root("d"), root("e"))),
		},
		{
			name:   "binary test",
			source: "x > 1 ? \"big\" : \"small\"",
			want:   types.NewCondition(bin(types.GreaterThan, root("x"), i32(1)), str("big"), str("small")),
		},
		{
			name:   "nested in true branch",
			source: "a ? b ? c : d : e",
			want:   types.NewCondition(root("a"), types.NewCondition(root("b"), root("c"), root("d")), root("e")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAST(t, tt.want, tt.source)
		})
	}
}

func TestParseUnary(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   types.Node
	}{
		{"minus", "-a", un(types.Minus, root("a"))},
		{"plus", "+a", un(types.Plus, root("a"))},
		{"bitwise negation", "~a", un(types.BitwiseNegation, root("a"))},
		{"logical negation", "!a.IsEnabled", un(types.LogicalNegation, member(root("a"), "IsEnabled"))},
		{"double negation", "!!a", un(types.LogicalNegation, un(types.LogicalNegation, root("a")))},
		{"operand binds before binary", "!a && b", bin(types.ConditionalAnd, un(types.LogicalNegation, root("a")), root("b"))},
		{"static marker takes whole expression", "$a + b", un(types.StaticExpression, bin(types.Addition, root("a"), root("b")))},
		{"dynamic marker", "$$Model.Value", un(types.DynamicExpression, member(root("Model"), "Value"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAST(t, tt.want, tt.source)
		})
	}
}

func TestParseMarkerRejectsConstant(t *testing.T) {
	for _, source := range []string{"$1", "$$null", "$true"} {
		t.Run(source, func(t *testing.T) {
			_, err := parser.Parse(source)
			require.Error(t, err)
			assert.True(t, types.HasCode(err, types.ErrCodeMalformedMarker), "error: %v", err)
		})
	}
}

func TestParseMembersAndCalls(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   types.Node
	}{
		{"root member", "Name", root("Name")},
		{"member path", "Model.Address.City", member(member(root("Model"), "Address"), "City")},
		{"whitespace around dot", "Model . Value", member(root("Model"), "Value")},
		{"root call", "Format(a, 1)", call(nil, "Format", root("a"), i32(1))},
		{"empty call", "Model.Reset()", call(root("Model"), "Reset")},
		{"chained calls", "a.B().C(d)", call(call(root("a"), "B"), "C", root("d"))},
		{"root indexer", "[0]", types.NewIndex(nil, []types.Node{i32(0)})},
		{"multi-argument indexer", "Grid[1, 2]", types.NewIndex(root("Grid"), []types.Node{i32(1), i32(2)})},
		{"indexer on call", "Get()[\"k\"]", types.NewIndex(call(nil, "Get"), []types.Node{str("k")})},
		{
			name:   "generic call",
			source: "Convert<int, List<string>>(x)",
			want:   types.NewMethodCall(nil, "Convert", []types.Node{root("x")}, []string{"int", "List<string>"}),
		},
		{
			name:   "generic call with array and nullable types",
			source: "a.Cast< System.Int32[] , int? >()",
			want:   types.NewMethodCall(root("a"), "Cast", nil, []string{"System.Int32[]", "int?"}),
		},
		{"call on number", "1.ToString()", call(i32(1), "ToString")},
		{"keyword prefix is a member", "nullable", root("nullable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAST(t, tt.want, tt.source)
		})
	}
}

func TestParseNullConditional(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   types.Node
	}{
		{
			name:   "member",
			source: "a?.b",
			want:   member(types.NewNullConditionalMember(root("a")), "b"),
		},
		{
			name:   "chain continues beneath marker",
			source: "a?.b.c",
			want:   member(member(types.NewNullConditionalMember(root("a")), "b"), "c"),
		},
		{
			name:   "indexer",
			source: "a?[0]",
			want:   types.NewIndex(types.NewNullConditionalMember(root("a")), []types.Node{i32(0)}),
		},
		{
			name:   "call",
			source: "a?.B()",
			want:   call(types.NewNullConditionalMember(root("a")), "B"),
		},
		{
			name:   "coalescing is not null-conditional",
			source: "a ?? b",
			want:   bin(types.NullCoalescing, root("a"), root("b")),
		},
		{
			name:   "combined with coalescing",
			source: "a?.b ?? c",
			want:   bin(types.NullCoalescing, member(types.NewNullConditionalMember(root("a")), "b"), root("c")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAST(t, tt.want, tt.source)
		})
	}
}

func TestParseConstants(t *testing.T) {
	assert.Same(t, types.NullConstant, parseAST(t, "null"))
	assert.Same(t, types.TrueConstant, parseAST(t, "true"))
	assert.Same(t, types.FalseConstant, parseAST(t, " false "))

	// Keywords are case sensitive.
	assertAST(t, root("True"), "True")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   types.ErrorCode
	}{
		{"empty", "", types.ErrCodeNoExpression},
		{"whitespace only", "   ", types.ErrCodeNoExpression},
		{"trailing operator", "1 +", types.ErrCodeMissingOperand},
		{"unbalanced paren", "(1 + 2", types.ErrCodeNoExpression},
		{"trailing token", "a b", types.ErrCodeUnexpectedToken},
		{"lone colon", "a : b", types.ErrCodeUnexpectedToken},
		{"unterminated string", `"abc`, types.ErrCodeUnterminatedString},
		{"missing ternary branch", "a ? b", types.ErrCodeUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := parser.Parse(tt.source)
			require.Error(t, err)
			assert.Nil(t, expr)
			assert.True(t, types.HasCode(err, tt.code), "want code %s in %v", tt.code, err)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := parser.Parse("a + b c")
	require.Error(t, err)

	var perr *types.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, types.ErrCodeUnexpectedToken, perr.Code)
	assert.Equal(t, 6, perr.Position)
	assert.Equal(t, "c", perr.Token)
}

func TestMaxDepth(t *testing.T) {
	source := ""
	for range 50 {
		source += "("
	}
	source += "1"
	for range 50 {
		source += ")"
	}

	assertAST(t, i32(1), source)

	_, err := parser.Parse(source, parser.WithMaxDepth(10))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeMaxDepth), "error: %v", err)
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { parser.MustParse("a.b") })
	assert.Panics(t, func() { parser.MustParse("a +") })
}

func TestParserIsReusable(t *testing.T) {
	p := parser.New()
	for range 3 {
		expr, err := p.Parse("(x) => x + 1")
		require.NoError(t, err)
		assert.Equal(t, types.NodeLambda, expr.AST().Kind())

		expr, err = p.Parse("x")
		require.NoError(t, err)
		assert.Equal(t, types.NodeMember, expr.AST().Kind())
	}
}

func TestRecognizerOrder(t *testing.T) {
	p := parser.New()
	prev := -1
	for _, r := range p.Recognizers() {
		assert.GreaterOrEqual(t, r.Priority(), prev)
		prev = r.Priority()
	}
}

type hashRecognizer struct{}

func (hashRecognizer) Priority() int { return parser.PriorityConstant + 1 }

func (hashRecognizer) TryParse(ctx *parser.Context, node types.Node) types.Node {
	if node != nil {
		return nil
	}
	ctx.SkipWhitespace()
	if !ctx.IsToken("#") {
		return nil
	}
	ctx.SetPosition(ctx.Position() + 1)
	return types.NewMethodCall(nil, "Resource", nil, nil)
}

func TestCustomRecognizer(t *testing.T) {
	opt := parser.WithRecognizer(hashRecognizer{})
	assertAST(t, bin(types.Addition, call(nil, "Resource"), i32(1)), "# + 1", opt)
	assertAST(t, member(call(nil, "Resource"), "Name"), "#.Name", opt)

	_, err := parser.Parse("#")
	require.Error(t, err)
}

func TestTryParseLeavesTrailingInput(t *testing.T) {
	p := parser.New()
	ctx := p.NewContext("a + b; rest", nil)
	node := p.TryParse(ctx)
	require.NotNil(t, node)
	assert.Equal(t, "; rest", ctx.Rest())
}
