package parser

// Package parser implements the binding-expression parser.
//
// There is no separate lexer pass. Parsing is driven by an ordered set of
// recognizers, each of which tries to extend the current partial AST at the
// cursor position. The dispatch loop offers the current node to every
// recognizer in ascending priority order, takes the first match and repeats
// until nothing matches. Recognizers offered a nil node implement primary
// productions (literals, identifiers, parentheses, prefix operators,
// lambdas); recognizers offered a node implement postfix and infix
// productions (member access, indexers, calls, operators, ternaries).
//
// # Example
//
//	expr, err := parser.Parse("Text = Model.Value + Items[0].Count * 2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
//
// # Concurrency
//
// A Parser is immutable after New and may be shared. Each call creates its
// own Context holding the cursor, the binary-operator scratch stack and the
// lambda-parameter scope.

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// Parser parses binding expressions.
type Parser struct {
	recognizers []Recognizer
	opts        Options
	logger      *slog.Logger
}

// New creates a parser with the default recognizer set.
func New(opts ...Option) *Parser {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.MaxDepth <= 0 {
		options.MaxDepth = 256
	}

	recognizers := append(DefaultRecognizers(options), options.Recognizers...)
	slices.SortStableFunc(recognizers, func(a, b Recognizer) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})

	return &Parser{
		recognizers: recognizers,
		opts:        options,
		logger:      options.Logger,
	}
}

// DefaultRecognizers builds the default recognizer set for options.
func DefaultRecognizers(options Options) []Recognizer {
	converters := DefaultNumberConverters(options.FloatFallback)
	for suffix, conv := range options.NumberSuffixes {
		converters[suffix] = conv
	}

	return []Recognizer{
		ConditionRecognizer{},
		NewBinaryRecognizer(options.BinaryTokens...),
		NullConditionalRecognizer{},
		IndexerRecognizer{},
		LambdaRecognizer{},
		ParenRecognizer{},
		NewStringRecognizer(options.QuoteTokens, options.Escapes),
		NewNumberRecognizer(converters),
		ConstantRecognizer{},
		NewUnaryRecognizer(options.UnaryTokens...),
		MethodCallRecognizer{},
		MemberRecognizer{},
	}
}

// Recognizers returns the registered recognizers in dispatch order.
func (p *Parser) Recognizers() []Recognizer {
	return slices.Clone(p.recognizers)
}

// Options returns the parser configuration.
func (p *Parser) Options() Options {
	return p.opts
}

// NewContext creates a parse context over source. Diagnostics go to sink.
func (p *Parser) NewContext(source string, sink types.ErrorSink) *Context {
	return &Context{
		Cursor: NewCursor(source, sink),
		parser: p,
	}
}

// TryParse runs the dispatch loop once from the cursor position and
// returns the node built, or nil if nothing matched. Trailing input is left
// unread.
func (p *Parser) TryParse(ctx *Context) types.Node {
	return ctx.Parse(nil)
}

// Parse parses a complete binding expression.
//
// The whole input must be consumed. On failure the returned error is a
// *types.Error whose cause joins any diagnostics reported while parsing.
func (p *Parser) Parse(source string) (*types.Expression, error) {
	diags := &types.Diagnostics{}
	ctx := p.NewContext(source, diags)

	node := ctx.Parse(nil)
	ctx.SkipWhitespace()

	if node == nil {
		err := types.NewError(types.ErrCodeNoExpression, "no expression found", ctx.Position()).
			WithCause(diags.Err())
		p.logger.Debug("binding expression rejected", "source", source, "error", err)
		return nil, err
	}
	if !ctx.IsEOF() {
		rest := ctx.Rest()
		err := types.NewError(types.ErrCodeUnexpectedToken, fmt.Sprintf("unexpected token %q", snippet(rest)), ctx.Position()).
			WithToken(rest).
			WithCause(diags.Err())
		p.logger.Debug("binding expression rejected", "source", source, "error", err)
		return nil, err
	}

	expr := types.NewExpression(node, source)
	for _, err := range diags.Errors() {
		expr.AddError(err)
	}
	p.logger.Debug("binding expression parsed", "source", source, "kind", node.Kind())
	return expr, nil
}

// Parse parses a binding expression with a parser built from opts.
//
// Example:
//
//	expr, err := parser.Parse("Model.Value")
//	if err != nil {
//	    fmt.Printf("parse error: %v\n", err)
//	    return
//	}
func Parse(source string, opts ...Option) (*types.Expression, error) {
	return New(opts...).Parse(source)
}

// MustParse is like Parse but panics on error.
func MustParse(source string, opts ...Option) *types.Expression {
	expr, err := Parse(source, opts...)
	if err != nil {
		panic(fmt.Sprintf("parser: Parse(%q): %v", source, err))
	}
	return expr
}

func snippet(s string) string {
	const maxLen = 16
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
