package parser

import "github.com/sandrolain/bindexpr/pkg/types"

// ConstantRecognizer recognizes the null, true and false keywords.
type ConstantRecognizer struct{}

// Priority implements Recognizer.
func (ConstantRecognizer) Priority() int { return PriorityConstant }

// TryParse implements Recognizer.
func (ConstantRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil {
		return nil
	}
	name, ok := ctx.identifier()
	if !ok {
		return nil
	}
	switch name {
	case "null":
		return types.NullConstant
	case "true":
		return types.TrueConstant
	case "false":
		return types.FalseConstant
	}
	return nil
}

// ParenRecognizer recognizes a parenthesized expression.
type ParenRecognizer struct{}

// Priority implements Recognizer.
func (ParenRecognizer) Priority() int { return PriorityParen }

// TryParse implements Recognizer.
func (ParenRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil || !ctx.consume("(") {
		return nil
	}
	inner := ctx.Parse(nil)
	if inner == nil || !ctx.consume(")") {
		return nil
	}
	return inner
}

// parseArguments parses a comma-separated expression list after its opening
// delimiter has been consumed, up to and including closer. An empty list
// yields nil.
func parseArguments(ctx *Context, closer string) ([]types.Node, bool) {
	if ctx.consume(closer) {
		return nil, true
	}

	var args []types.Node
	for {
		arg := ctx.Parse(nil)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)

		if ctx.consume(",") {
			continue
		}
		if ctx.consume(closer) {
			return args, true
		}
		return nil, false
	}
}
