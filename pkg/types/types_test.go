package types_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/types"
)

func i32(v int32) types.Node { return types.NewConstant(v, nil) }

func member(target types.Node, name string) types.Node { return types.NewMember(target, name) }

func TestFormat(t *testing.T) {
	a := member(nil, "a")
	x := types.NewParameter("x", 0)

	tests := []struct {
		name string
		node types.Node
		want string
	}{
		{"precedence", types.NewBinary(types.Addition, i32(1), types.NewBinary(types.Multiplication, i32(2), i32(3))), "1 + 2 * 3"},
		{"left parens", types.NewBinary(types.Multiplication, types.NewBinary(types.Addition, i32(1), i32(2)), i32(3)), "(1 + 2) * 3"},
		{"right associativity", types.NewBinary(types.Subtraction, i32(1), types.NewBinary(types.Subtraction, i32(2), i32(3))), "1 - (2 - 3)"},
		{"unary", types.NewUnary(types.Minus, a), "-a"},
		{"unary compound", types.NewUnary(types.LogicalNegation, types.NewBinary(types.Equality, a, i32(1))), "!(a == 1)"},
		{"condition", types.NewCondition(a, i32(1), i32(2)), "a ? 1 : 2"},
		{"member chain", member(member(nil, "Model"), "Name"), "Model.Name"},
		{"compound target", member(types.NewBinary(types.Addition, a, i32(1)), "Length"), "(a + 1).Length"},
		{"negative target", member(i32(-1), "Abs"), "(-1).Abs"},
		{"index", types.NewIndex(a, []types.Node{i32(0), i32(1)}), "a[0, 1]"},
		{"context index", types.NewIndex(nil, []types.Node{i32(0)}), "[0]"},
		{"call", types.NewMethodCall(a, "Get", []types.Node{i32(1)}, []string{"int", "string"}), "a.Get<int, string>(1)"},
		{"null conditional member", member(types.NewNullConditionalMember(a), "b"), "a?.b"},
		{"null conditional index", types.NewIndex(types.NewNullConditionalMember(a), []types.Node{i32(0)}), "a?[0]"},
		{"lambda", types.NewLambda(member(x, "Name"), []*types.Parameter{x}), "(x) => x.Name"},
		{"lambda argument", types.NewMethodCall(a, "Where", []types.Node{types.NewLambda(x, []*types.Parameter{x})}, nil), "a.Where((x) => x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types.Format(tt.node))
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestFormatConstant(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{true, "true"},
		{int32(42), "42"},
		{int64(42), "42L"},
		{uint32(7), "7U"},
		{uint64(7), "7UL"},
		{float32(1.5), "1.5F"},
		{float64(0.1), "0.1D"},
		{decimal.RequireFromString("1.50"), "1.5M"},
		{"plain", `"plain"`},
		{"say \"hi\"", `"say ""hi"""`},
		{"tab\there", `"tab\there"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, types.FormatConstant(types.NewConstant(tt.value, nil)))
		})
	}
}

func TestEqual(t *testing.T) {
	a := types.NewBinary(types.Addition, member(nil, "a"), i32(1))
	b := types.NewBinary(types.Addition, member(nil, "a"), i32(1))
	assert.True(t, types.Equal(a, b))
	assert.False(t, types.Equal(a, types.NewBinary(types.Subtraction, member(nil, "a"), i32(1))))

	assert.True(t, types.Equal(nil, nil))
	assert.False(t, types.Equal(a, nil))

	// Same value, different declared type.
	assert.False(t, types.Equal(i32(1), types.NewConstant(int64(1), nil)))

	assert.True(t, types.Equal(
		types.NewConstant(decimal.RequireFromString("1.50"), nil),
		types.NewConstant(decimal.RequireFromString("1.5"), nil),
	))

	assert.False(t, types.Equal(types.NewParameter("x", 0), types.NewParameter("x", 1)))

	info := &types.MemberInfo{Owner: reflect.TypeFor[struct{ A int }](), Name: "A"}
	assert.False(t, types.Equal(types.NewResolvedMember(nil, info), types.NewMember(nil, "A")))
	assert.True(t, types.Equal(types.NewResolvedMember(nil, info), types.NewResolvedMember(nil, info)))

	assert.True(t, types.Equal(types.TypeConstant(types.StringType), types.TypeConstant(types.StringType)))
	assert.False(t, types.Equal(types.TypeConstant(types.StringType), types.TypeConstant(types.Int32Type)))
}

func TestConstructorsCopyArguments(t *testing.T) {
	args := []types.Node{i32(1)}
	idx := types.NewIndex(nil, args)
	args[0] = i32(2)
	assert.True(t, types.Equal(i32(1), idx.Arguments[0]))
}

func TestSingletons(t *testing.T) {
	assert.Same(t, types.TrueConstant, types.BoolConstant(true))
	assert.Same(t, types.FalseConstant, types.BoolConstant(false))
	assert.Same(t, types.NullConstant, types.NewConstant(nil, nil))
	assert.Same(t, types.EmptyStringConstant, types.StringConstant(""))

	typ, ok := types.AsType(types.TypeConstant(types.StringType))
	require.True(t, ok)
	assert.Equal(t, types.StringType, typ)
	_, ok = types.AsType(types.StringConstant("x"))
	assert.False(t, ok)
}

func TestMarshalJSON(t *testing.T) {
	x := types.NewParameter("x", 0)
	node := types.NewMethodCall(
		member(nil, "Items"),
		"Where",
		[]types.Node{types.NewLambda(types.NewBinary(types.GreaterThan, member(x, "Count"), i32(1)), []*types.Parameter{x})},
		nil,
	)

	data, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "call",
		"name": "Where",
		"target": {"kind": "member", "name": "Items"},
		"arguments": [{
			"kind": "lambda",
			"parameters": [{"kind": "parameter", "name": "x", "index": 0}],
			"body": {
				"kind": "binary",
				"op": ">",
				"left": {"kind": "member", "name": "Count", "target": {"kind": "parameter", "name": "x", "index": 0}},
				"right": {"kind": "constant", "value": 1, "literal": "1", "type": "int32"}
			}
		}]
	}`, string(data))
}

func TestErrors(t *testing.T) {
	err := types.Errorf(types.ErrCodeUnexpectedToken, 3, "unexpected token %q", ")")
	assert.Equal(t, `B0102 at position 3: unexpected token ")"`, err.Error())
	assert.Equal(t, "C0101: boom", types.NewError(types.ErrCodeUnsupportedNode, "boom", -1).Error())

	cause := errors.New("root cause")
	wrapped := fmt.Errorf("outer: %w", types.NewError(types.ErrCodeNoExpression, "none", 0).WithCause(cause))
	assert.True(t, types.HasCode(wrapped, types.ErrCodeNoExpression))
	assert.False(t, types.HasCode(wrapped, types.ErrCodeMaxDepth))
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, types.HasCode(nil, types.ErrCodeNoExpression))

	diags := &types.Diagnostics{}
	require.NoError(t, diags.Err())
	diags.AddError(nil)
	diags.AddError(types.NewError(types.ErrCodeInvalidNumber, "bad", 1))
	diags.AddError(types.NewError(types.ErrCodeMaxDepth, "deep", 2))
	assert.Equal(t, 2, diags.Len())

	outer := types.NewError(types.ErrCodeNoExpression, "none", 0).WithCause(diags.Err())
	assert.True(t, types.HasCode(outer, types.ErrCodeInvalidNumber), "codes are found through joined causes")
	assert.True(t, types.HasCode(outer, types.ErrCodeMaxDepth))
}

func TestMemberFlags(t *testing.T) {
	assert.True(t, types.MemberDefault.Has(types.MemberInstance|types.MemberPublic))
	assert.False(t, types.MemberDefault.Has(types.MemberNonPublic))
	assert.True(t, types.MemberAll.Has(types.MemberDefault))

	m := &types.MethodInfo{In: []reflect.Type{types.StringType}}
	assert.Equal(t, 1, m.Arity())
	assert.Nil(t, m.ReturnType())
}
