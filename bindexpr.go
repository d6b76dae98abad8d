// Package bindexpr parses data-binding expressions into an immutable AST.
//
// A binding expression is the small language found in UI markup bindings:
// member paths, indexers, method calls, arithmetic and logical operators,
// the ternary operator, lambdas and interpolated strings. The same AST can
// also be produced from a host expression tree (package hostexpr), so a
// binding written in code and one written in markup compare equal.
//
// # Quick Start
//
//	// Parse text
//	expr, err := bindexpr.Parse("Model.Count > 0 ? Model.Items[0].Name : \"none\"")
//
//	// Reuse a configured engine with a cache
//	eng := bindexpr.New(bindexpr.WithCache(1024))
//	expr, err = eng.Parse("Model.Value")
//
//	// Convert a host expression tree
//	node, err := bindexpr.Convert(hostexpr.Add(hostexpr.Const(int32(1)), hostexpr.Const(int32(2))))
//
// # More Information
//
//   - Parser: github.com/sandrolain/bindexpr/pkg/parser
//   - Converter: github.com/sandrolain/bindexpr/pkg/converter
//   - Types: github.com/sandrolain/bindexpr/pkg/types
package bindexpr

import (
	"fmt"
	"log/slog"

	"github.com/sandrolain/bindexpr/pkg/cache"
	"github.com/sandrolain/bindexpr/pkg/config"
	"github.com/sandrolain/bindexpr/pkg/converter"
	"github.com/sandrolain/bindexpr/pkg/hostexpr"
	"github.com/sandrolain/bindexpr/pkg/parser"
	"github.com/sandrolain/bindexpr/pkg/types"
)

// Version returns the current version of bindexpr.
func Version() string {
	return "v0.1.0-dev"
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	parserOpts    []parser.Option
	converterOpts []converter.Option
	cacheSize     int
	logger        *slog.Logger
}

// WithParserOptions adds parser options.
func WithParserOptions(opts ...parser.Option) Option {
	return func(o *options) {
		o.parserOpts = append(o.parserOpts, opts...)
	}
}

// WithConverterOptions adds converter options.
func WithConverterOptions(opts ...converter.Option) Option {
	return func(o *options) {
		o.converterOpts = append(o.converterOpts, opts...)
	}
}

// WithCache enables an LRU cache of parsed expressions holding up to size
// entries. A size of zero disables caching.
func WithCache(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithLogger sets the logger of the engine, its parser and its converter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Engine bundles a parser, a converter and an optional expression cache.
// It is safe for concurrent use.
type Engine struct {
	parser    *parser.Parser
	converter *converter.Converter
	cache     *cache.Cache
	logger    *slog.Logger
}

// New creates an engine.
func New(opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	// The engine logger goes first so explicit parser and converter
	// options can still override it.
	parserOpts := append([]parser.Option{parser.WithLogger(o.logger)}, o.parserOpts...)
	converterOpts := append([]converter.Option{converter.WithLogger(o.logger)}, o.converterOpts...)

	e := &Engine{
		parser:    parser.New(parserOpts...),
		converter: converter.New(converterOpts...),
		logger:    o.logger,
	}
	if o.cacheSize > 0 {
		e.cache = cache.New(o.cacheSize)
	}
	return e
}

// NewFromConfig creates an engine from a loaded configuration. Options are
// applied after the configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) *Engine {
	base := []Option{
		WithParserOptions(cfg.ParserOptions()...),
		WithCache(cfg.Cache.Size),
	}
	return New(append(base, opts...)...)
}

// Parser returns the engine's parser.
func (e *Engine) Parser() *parser.Parser {
	return e.parser
}

// Cache returns the expression cache, or nil when caching is disabled.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// Parse parses a binding expression, consulting the cache when enabled.
func (e *Engine) Parse(source string) (*types.Expression, error) {
	if e.cache == nil {
		return e.parse(source)
	}
	hit := true
	expr, err := e.cache.GetOrParse(source, func(s string) (*types.Expression, error) {
		hit = false
		return e.parse(s)
	})
	if hit {
		e.logger.Debug("binding expression cache hit", "source", source)
	}
	return expr, err
}

func (e *Engine) parse(source string) (*types.Expression, error) {
	expr, err := e.parser.Parse(source)
	if err != nil {
		return nil, err
	}
	if diags := expr.Errors(); len(diags) > 0 {
		e.logger.Warn("binding expression parsed with diagnostics", "source", source, "count", len(diags))
	}
	return expr, nil
}

// ParseBindings parses a legacy "target source, params; ..." declaration
// list. Results are not cached.
func (e *Engine) ParseBindings(source string) ([]types.BindingDeclaration, error) {
	return e.parser.ParseBindings(source)
}

// Convert converts a host expression tree to an AST.
func (e *Engine) Convert(expr hostexpr.Expr) (types.Node, error) {
	return e.converter.Convert(expr)
}

// ConvertBinding converts a binding lambda whose first parameter is the
// implicit binding context.
func (e *Engine) ConvertBinding(lambda *hostexpr.LambdaExpr) (types.Node, error) {
	return e.converter.ConvertBinding(lambda)
}

// Parse parses a binding expression.
//
// Example:
//
//	expr, err := bindexpr.Parse("Model.Items[0].Name")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr.AST())
func Parse(source string, opts ...parser.Option) (*types.Expression, error) {
	return parser.Parse(source, opts...)
}

// MustParse is like Parse but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(source string, opts ...parser.Option) *types.Expression {
	expr, err := Parse(source, opts...)
	if err != nil {
		panic(fmt.Sprintf("bindexpr: Parse(%q): %v", source, err))
	}
	return expr
}

// ParseBindings parses a legacy binding declaration list.
func ParseBindings(source string, opts ...parser.Option) ([]types.BindingDeclaration, error) {
	return parser.ParseBindings(source, opts...)
}

// Convert converts a host expression tree to an AST.
func Convert(expr hostexpr.Expr, opts ...converter.Option) (types.Node, error) {
	return converter.New(opts...).Convert(expr)
}

// ConvertBinding converts a binding lambda whose first parameter is the
// implicit binding context.
func ConvertBinding(lambda *hostexpr.LambdaExpr, opts ...converter.Option) (types.Node, error) {
	return converter.New(opts...).ConvertBinding(lambda)
}
