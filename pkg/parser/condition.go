package parser

import "github.com/sandrolain/bindexpr/pkg/types"

// ConditionRecognizer recognizes the ternary `test ? ifTrue : ifFalse`.
// A nested ternary in the ifFalse branch is absorbed by its full parse,
// which makes the operator right-associative.
type ConditionRecognizer struct{}

// Priority implements Recognizer.
func (ConditionRecognizer) Priority() int { return PriorityCondition }

// TryParse implements Recognizer.
func (ConditionRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node == nil {
		return nil
	}
	pos := ctx.SkipWhitespace()
	if !ctx.IsToken("?") || ctx.IsTokenAt("?", pos+1) {
		return nil
	}
	ctx.advance(1)

	ifTrue := ctx.Parse(nil)
	if ifTrue == nil || !ctx.consume(":") {
		return nil
	}
	ifFalse := ctx.Parse(nil)
	if ifFalse == nil {
		return nil
	}
	return types.NewCondition(node, ifTrue, ifFalse)
}
