package converter

// Package converter turns host expression trees (package hostexpr) into
// the binding AST produced by the textual parser, so typed and string-based
// binding declarations end up with the same representation.
//
// Conversion is dispatched on the node kind. Each kind has an ordered list
// of recognizers; the first that returns a node wins. Unlike text, a host
// tree is unambiguous, so nothing is backtracked: a recognizer either
// converts the node, declines it by returning (nil, nil), or fails the whole
// conversion with an error.
//
// # Example
//
//	m := hostexpr.Param("m", reflect.TypeFor[*Model]())
//	node, err := converter.New().ConvertBinding(
//	    hostexpr.NewLambda(hostexpr.Field(hostexpr.Field(m, "Address"), "City"), m),
//	)
//	// node is Address.City on the implicit binding context.

import (
	"errors"
	"log/slog"

	"github.com/sandrolain/bindexpr/pkg/hostexpr"
	"github.com/sandrolain/bindexpr/pkg/resolver"
	"github.com/sandrolain/bindexpr/pkg/scope"
	"github.com/sandrolain/bindexpr/pkg/types"
)

// Sentinel errors wrapped by conversion failures.
var (
	ErrUnsupportedExpression = errors.New("unsupported host expression")
	ErrUnboundParameter      = errors.New("unbound lambda parameter")
	ErrConstantCoercion      = errors.New("constant cannot be coerced to its declared type")
)

// Recognizer converts host expressions of the kinds it is registered for.
// It returns (nil, nil) to decline a node.
type Recognizer interface {
	TryConvert(ctx *Context, expr hostexpr.Expr) (types.Node, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx *Context, expr hostexpr.Expr) (types.Node, error)

// TryConvert implements Recognizer.
func (f RecognizerFunc) TryConvert(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	return f(ctx, expr)
}

// Option configures a Converter.
type Option func(*Options)

// Options holds converter configuration.
type Options struct {
	// Resolver resolves members and methods. Defaults to a reflection-based
	// resolver.
	Resolver types.MemberResolver
	// Flags selects the members the resolver may return.
	Flags types.MemberFlags
	// Logger for structured logging.
	Logger *slog.Logger

	custom map[hostexpr.Kind][]Recognizer
}

// WithResolver sets the member resolver.
func WithResolver(r types.MemberResolver) Option {
	return func(opts *Options) {
		opts.Resolver = r
	}
}

// WithMemberFlags sets the member lookup flags.
func WithMemberFlags(flags types.MemberFlags) Option {
	return func(opts *Options) {
		opts.Flags = flags
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithRecognizer registers r for kind ahead of the default recognizers.
func WithRecognizer(kind hostexpr.Kind, r Recognizer) Option {
	return func(opts *Options) {
		if opts.custom == nil {
			opts.custom = make(map[hostexpr.Kind][]Recognizer)
		}
		opts.custom[kind] = append(opts.custom[kind], r)
	}
}

// Converter converts host expression trees. It is safe for concurrent use.
type Converter struct {
	recognizers map[hostexpr.Kind][]Recognizer
	opts        Options
	logger      *slog.Logger
}

// New creates a converter with the default recognizers.
func New(opts ...Option) *Converter {
	options := Options{Flags: types.MemberDefault}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Resolver == nil {
		options.Resolver = resolver.New()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	recognizers := make(map[hostexpr.Kind][]Recognizer)
	for kind, list := range options.custom {
		recognizers[kind] = append(recognizers[kind], list...)
	}
	for kind, r := range defaultRecognizers() {
		recognizers[kind] = append(recognizers[kind], r)
	}

	return &Converter{
		recognizers: recognizers,
		opts:        options,
		logger:      options.Logger,
	}
}

// Convert converts expr.
func (c *Converter) Convert(expr hostexpr.Expr) (types.Node, error) {
	ctx := c.newContext()
	node, err := ctx.Convert(expr)
	if err != nil {
		c.logger.Debug("host expression rejected", "error", err)
		return nil, err
	}
	c.logger.Debug("host expression converted", "kind", node.Kind())
	return node, nil
}

// ConvertBinding converts the body of a binding lambda. The first
// parameter stands for the implicit binding context: members read from it
// become root members (Member with a nil target). Remaining parameters
// become Parameter nodes indexed from zero.
func (c *Converter) ConvertBinding(lambda *hostexpr.LambdaExpr) (types.Node, error) {
	if lambda == nil {
		return nil, unsupported(nil, "nil binding lambda")
	}
	ctx := c.newContext()

	params := lambda.Parameters
	if len(params) > 0 {
		ctx.implicit = params[0]
		params = params[1:]
	}
	release, err := ctx.bind(params)
	if err != nil {
		return nil, err
	}
	defer release()

	node, err := ctx.Convert(lambda.Body)
	if err != nil {
		c.logger.Debug("binding lambda rejected", "error", err)
		return nil, err
	}
	c.logger.Debug("binding lambda converted", "kind", node.Kind())
	return node, nil
}

func (c *Converter) newContext() *Context {
	return &Context{converter: c}
}

// Context is the per-conversion state.
type Context struct {
	converter *Converter
	params    scope.Table[*hostexpr.ParameterExpr, *types.Parameter]
	implicit  *hostexpr.ParameterExpr
}

// Resolver returns the member resolver.
func (ctx *Context) Resolver() types.MemberResolver {
	return ctx.converter.opts.Resolver
}

// Flags returns the member lookup flags.
func (ctx *Context) Flags() types.MemberFlags {
	return ctx.converter.opts.Flags
}

// Scope returns the lambda-parameter symbol table.
func (ctx *Context) Scope() *scope.Table[*hostexpr.ParameterExpr, *types.Parameter] {
	return &ctx.params
}

// Convert converts expr with the recognizers registered for its kind.
func (ctx *Context) Convert(expr hostexpr.Expr) (types.Node, error) {
	if expr == nil {
		return nil, unsupported(nil, "nil expression")
	}
	for _, r := range ctx.converter.recognizers[expr.Kind()] {
		node, err := r.TryConvert(ctx, expr)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	return nil, unsupported(expr, "no recognizer for %s", expr.Kind())
}

// ConvertTarget converts the receiver of a member, call or indexer. The
// implicit binding context converts to nil.
func (ctx *Context) ConvertTarget(expr hostexpr.Expr) (types.Node, error) {
	if p, ok := expr.(*hostexpr.ParameterExpr); ok && ctx.implicit != nil && p == ctx.implicit {
		return nil, nil
	}
	return ctx.Convert(expr)
}

// ConvertAll converts a list of expressions.
func (ctx *Context) ConvertAll(exprs []hostexpr.Expr) ([]types.Node, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	nodes := make([]types.Node, len(exprs))
	for i, e := range exprs {
		n, err := ctx.Convert(e)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// bind registers params in a new scope. The returned function unbinds them.
func (ctx *Context) bind(params []*hostexpr.ParameterExpr) (func(), error) {
	entries := make([]scope.Entry[*hostexpr.ParameterExpr, *types.Parameter], len(params))
	for i, p := range params {
		entries[i] = scope.Entry[*hostexpr.ParameterExpr, *types.Parameter]{
			Key:   p,
			Value: types.NewParameter(p.Name, i),
		}
	}
	release, err := ctx.params.Push(entries...)
	if err != nil {
		return nil, types.NewError(types.ErrCodeUnsupportedNode, "lambda parameter bound twice", -1).
			WithCause(errors.Join(ErrUnsupportedExpression, err))
	}
	return release, nil
}
