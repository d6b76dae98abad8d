package parser

import (
	"github.com/sandrolain/bindexpr/pkg/scope"
	"github.com/sandrolain/bindexpr/pkg/types"
)

// LambdaRecognizer recognizes `() => body` and `(a, b) => body`.
//
// Parameters are bound in the context scope for the body parse only and
// are unbound on every exit path. A name repeated in the list, or one that
// shadows a parameter of an enclosing lambda, is reported as a diagnostic.
type LambdaRecognizer struct{}

// Priority implements Recognizer.
func (LambdaRecognizer) Priority() int { return PriorityLambda }

// TryParse implements Recognizer.
func (LambdaRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil || !ctx.consume("(") {
		return nil
	}
	names, ok := parseParameterNames(ctx)
	if !ok || !ctx.consume("=>") {
		return nil
	}

	params := make([]*types.Parameter, len(names))
	entries := make([]scope.Entry[string, *types.Parameter], len(names))
	for i, name := range names {
		params[i] = types.NewParameter(name, i)
		entries[i] = scope.Entry[string, *types.Parameter]{Key: name, Value: params[i]}
	}

	release, err := ctx.Scope().Push(entries...)
	if err != nil {
		ctx.AddError(types.NewError(types.ErrCodeDuplicateParameter, "duplicate lambda parameter", ctx.Position()).
			WithCause(err))
		return nil
	}
	defer release()

	body := ctx.Parse(nil)
	if body == nil {
		return nil
	}
	return types.NewLambda(body, params)
}

// parseParameterNames parses `a, b)` after the opening parenthesis.
func parseParameterNames(ctx *Context) ([]string, bool) {
	if ctx.consume(")") {
		return nil, true
	}
	var names []string
	for {
		name, ok := ctx.identifier()
		if !ok {
			return nil, false
		}
		names = append(names, name)

		if ctx.consume(",") {
			continue
		}
		if ctx.consume(")") {
			return names, true
		}
		return nil, false
	}
}
