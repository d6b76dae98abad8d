package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/types"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor("  foo_1.bar 42 é", nil)

	assert.Equal(t, 2, c.SkipWhitespace())
	end, ok := c.IsIdentifier()
	require.True(t, ok)
	assert.Equal(t, 7, end)
	assert.Equal(t, "foo_1", c.Value(2, end))

	assert.True(t, c.IsTokenAt(".", 7))
	assert.False(t, c.IsTokenAt("..", 7))
	assert.True(t, c.IsDigitAt(12))
	assert.False(t, c.IsDigitAt(11))

	r, size := c.TokenAt(15)
	assert.Equal(t, 'é', r)
	assert.Equal(t, 2, size)

	_, ok = c.IsIdentifierAt(12)
	assert.False(t, ok, "identifiers cannot start with a digit")
}

func TestCursorBounds(t *testing.T) {
	c := NewCursor("ab", nil)

	r, size := c.TokenAt(5)
	assert.Zero(t, r)
	assert.Zero(t, size)
	_, size = c.TokenAt(-1)
	assert.Zero(t, size)

	assert.False(t, c.IsTokenAt("b", 2))
	assert.False(t, c.IsTokenAt("abc", 0))
	assert.True(t, c.IsEOFAt(2))
	assert.Equal(t, "", c.Value(1, 0))
	assert.Equal(t, "b", c.Value(1, 10))

	c.SetPosition(10)
	assert.Equal(t, 2, c.Position())
	assert.True(t, c.IsEOF())
	c.SetPosition(-3)
	assert.Equal(t, 0, c.Position())
}

func TestCursorLimit(t *testing.T) {
	c := NewCursor("abc, def", nil)

	prev := c.SetLimit(3)
	assert.Equal(t, 8, prev)
	assert.Equal(t, 3, c.Limit())

	end, ok := c.IsIdentifier()
	require.True(t, ok)
	assert.Equal(t, 3, end)
	assert.True(t, c.IsEOFAt(3))
	assert.False(t, c.IsTokenAt(",", 3))
	assert.Equal(t, "abc", c.Rest())

	c.SetPosition(6)
	assert.Equal(t, 3, c.Position(), "position is clamped to the limit")

	assert.Equal(t, 3, c.SetLimit(-1))
	assert.Equal(t, 8, c.Limit())
	c.SetLimit(2)
	c.ClearLimit()
	assert.Equal(t, 8, c.Limit())
}

func TestCursorResetAndMetadata(t *testing.T) {
	diags := &types.Diagnostics{}
	c := NewCursor("abc", diags)
	c.SetPosition(2)
	c.SetLimit(2)
	c.Metadata()["k"] = 1

	c.AddError(types.NewError(types.ErrCodeNoExpression, "x", 0))
	assert.Equal(t, 1, diags.Len())
	assert.Same(t, diags, c.Errors())

	c.Reset("hello")
	assert.Equal(t, 0, c.Position())
	assert.Equal(t, 5, c.Limit())
	assert.Empty(t, c.Metadata())

	// A nil sink discards diagnostics.
	NewCursor("", nil).AddError(types.NewError(types.ErrCodeNoExpression, "x", 0))
}

func TestScratchStackNesting(t *testing.T) {
	var s scratchStack

	outer := s.acquire()
	outer.operands = append(outer.operands, types.NullConstant)

	inner := s.acquire()
	assert.NotSame(t, outer, inner)
	inner.operands = append(inner.operands, types.TrueConstant, types.FalseConstant)
	s.release()

	assert.Len(t, outer.operands, 1, "inner chain must not disturb the outer buffers")

	again := s.acquire()
	assert.Same(t, inner, again, "frames are reused at the same depth")
	assert.Empty(t, again.operands)
	s.release()
	s.release()
	assert.Equal(t, 0, s.depth)
}

func TestReduce(t *testing.T) {
	a, b, c, d := types.NewMember(nil, "a"), types.NewMember(nil, "b"), types.NewMember(nil, "c"), types.NewMember(nil, "d")

	got, err := reduce(
		[]types.Node{a, b, c, d},
		[]*types.BinaryTokenType{types.Addition, types.Multiplication, types.Subtraction},
		0,
	)
	require.NoError(t, err)
	want := types.NewBinary(types.Subtraction,
		types.NewBinary(types.Addition, a, types.NewBinary(types.Multiplication, b, c)),
		d)
	assert.True(t, types.Equal(want, got), "got %s", got)
}

func TestReduceOperandCount(t *testing.T) {
	a, b := types.NewMember(nil, "a"), types.NewMember(nil, "b")

	tests := []struct {
		name      string
		operands  []types.Node
		operators []*types.BinaryTokenType
	}{
		{"trailing operator", []types.Node{a, b}, []*types.BinaryTokenType{types.Addition, types.Multiplication}},
		{"missing operator", []types.Node{a, b}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reduce(tt.operands, tt.operators, 7)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, types.HasCode(err, types.ErrCodeOperandCount), "error: %v", err)

			var perr *types.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 7, perr.Position)
		})
	}
}
