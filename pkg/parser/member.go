package parser

import (
	"strings"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// MemberRecognizer recognizes `name` (a root member or lambda parameter)
// and `.name` after a node.
type MemberRecognizer struct{}

// Priority implements Recognizer.
func (MemberRecognizer) Priority() int { return PriorityMember }

// TryParse implements Recognizer.
func (MemberRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil && !ctx.consume(".") {
		return nil
	}
	name, ok := ctx.identifier()
	if !ok {
		return nil
	}
	if node == nil {
		if p, ok := ctx.Scope().Lookup(name); ok {
			return p
		}
	}
	return types.NewMember(node, name)
}

// MethodCallRecognizer recognizes `name(args)` and `name<T, ...>(args)`,
// preceded by `.` when a node is present.
type MethodCallRecognizer struct{}

// Priority implements Recognizer.
func (MethodCallRecognizer) Priority() int { return PriorityMethodCall }

// TryParse implements Recognizer.
func (MethodCallRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil && !ctx.consume(".") {
		return nil
	}
	name, ok := ctx.identifier()
	if !ok {
		return nil
	}

	var typeArgs []string
	if ctx.consume("<") {
		if typeArgs, ok = parseTypeArguments(ctx); !ok {
			return nil
		}
	}

	if !ctx.consume("(") {
		return nil
	}
	args, ok := parseArguments(ctx, ")")
	if !ok {
		return nil
	}
	return types.NewMethodCall(node, name, args, typeArgs)
}

// parseTypeArguments parses `T1, T2>` after the opening `<`.
func parseTypeArguments(ctx *Context) ([]string, bool) {
	var args []string
	for {
		name, ok := parseTypeName(ctx)
		if !ok {
			return nil, false
		}
		args = append(args, name)

		if ctx.consume(",") {
			continue
		}
		if ctx.consume(">") {
			return args, true
		}
		return nil, false
	}
}

// parseTypeName parses a dotted type name with optional generic arguments,
// array ranks and a nullable marker, and returns it normalized.
func parseTypeName(ctx *Context) (string, bool) {
	var b strings.Builder

	name, ok := ctx.identifier()
	if !ok {
		return "", false
	}
	b.WriteString(name)
	for {
		save := ctx.Position()
		if !ctx.consume(".") {
			break
		}
		part, ok := ctx.identifier()
		if !ok {
			ctx.SetPosition(save)
			break
		}
		b.WriteByte('.')
		b.WriteString(part)
	}

	if ctx.consume("<") {
		inner, ok := parseTypeArguments(ctx)
		if !ok {
			return "", false
		}
		b.WriteByte('<')
		b.WriteString(strings.Join(inner, ", "))
		b.WriteByte('>')
	}

	for {
		save := ctx.Position()
		if ctx.consume("[") && ctx.consume("]") {
			b.WriteString("[]")
			continue
		}
		ctx.SetPosition(save)
		break
	}

	save := ctx.Position()
	if ctx.consume("?") {
		b.WriteByte('?')
	} else {
		ctx.SetPosition(save)
	}
	return b.String(), true
}

// IndexerRecognizer recognizes `[args]`, either after a node or as an
// indexer on the implicit context.
type IndexerRecognizer struct{}

// Priority implements Recognizer.
func (IndexerRecognizer) Priority() int { return PriorityIndexer }

// TryParse implements Recognizer.
func (IndexerRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if !ctx.consume("[") {
		return nil
	}
	args, ok := parseArguments(ctx, "]")
	if !ok || len(args) == 0 {
		return nil
	}
	return types.NewIndex(node, args)
}

// NullConditionalRecognizer recognizes `?` followed by a member, call or
// indexer production, as in `a?.b` or `a?[0]`.
type NullConditionalRecognizer struct{}

// Priority implements Recognizer.
func (NullConditionalRecognizer) Priority() int { return PriorityNullConditional }

// TryParse implements Recognizer.
func (NullConditionalRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node == nil {
		return nil
	}
	pos := ctx.SkipWhitespace()
	if !ctx.IsToken("?") || ctx.IsTokenAt("?", pos+1) {
		return nil
	}
	ctx.advance(1)

	marker := types.NewNullConditionalMember(node)
	attached := ctx.ParseFrom(marker, PostfixThreshold)
	if attached == types.Node(marker) {
		return nil
	}
	return attached
}
