package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/parser"
	"github.com/sandrolain/bindexpr/pkg/types"
)

var nodeComparer = cmp.Comparer(types.Equal)

func parseAST(t *testing.T, source string, opts ...parser.Option) types.Node {
	t.Helper()
	expr, err := parser.Parse(source, opts...)
	require.NoError(t, err, "parse %q", source)
	return expr.AST()
}

func assertAST(t *testing.T, want types.Node, source string, opts ...parser.Option) {
	t.Helper()
	got := parseAST(t, source, opts...)
	if diff := cmp.Diff(want, got, nodeComparer); diff != "" {
		t.Errorf("Parse(%q) mismatch (-want +got):\n%s\nwant: %s\ngot:  %s", source, diff, want, got)
	}
}

func i32(v int32) types.Node { return types.NewConstant(v, types.Int32Type) }

func str(s string) types.Node { return types.StringConstant(s) }

func root(name string) types.Node { return types.NewMember(nil, name) }

func member(target types.Node, name string) types.Node { return types.NewMember(target, name) }

func bin(op *types.BinaryTokenType, left, right types.Node) types.Node {
	return types.NewBinary(op, left, right)
}

func un(op *types.UnaryTokenType, operand types.Node) types.Node {
	return types.NewUnary(op, operand)
}

func call(target types.Node, name string, args ...types.Node) types.Node {
	return types.NewMethodCall(target, name, args, nil)
}

func param(name string, index int) *types.Parameter { return types.NewParameter(name, index) }
