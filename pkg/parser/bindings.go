package parser

import (
	"fmt"
	"unicode"

	"github.com/sandrolain/bindexpr/pkg/types"
)

// ParseBindings parses the legacy declaration list
//
//	target[ source][, param]*[;] ...
//
// The target ends at the first top-level whitespace, `,` or `;`; the source
// and each parameter end at the next top-level `,` or `;`. Delimiters inside
// brackets and string literals do not end a segment. Each segment is parsed
// with the cursor limited to its range and must be consumed entirely.
func (p *Parser) ParseBindings(source string) ([]types.BindingDeclaration, error) {
	diags := &types.Diagnostics{}
	ctx := p.NewContext(source, diags)

	var decls []types.BindingDeclaration
	for {
		if ctx.SkipWhitespace(); ctx.IsEOF() {
			break
		}

		target, err := p.parseSegment(ctx, true, diags)
		if err != nil {
			return nil, err
		}
		decl := types.BindingDeclaration{Target: target}

		ctx.SkipWhitespace()
		if !ctx.IsEOF() && !ctx.IsToken(",") && !ctx.IsToken(";") {
			if decl.Source, err = p.parseSegment(ctx, false, diags); err != nil {
				return nil, err
			}
		}
		for ctx.consume(",") {
			param, err := p.parseSegment(ctx, false, diags)
			if err != nil {
				return nil, err
			}
			decl.Parameters = append(decl.Parameters, param)
		}
		decls = append(decls, decl)

		if ctx.consume(";") {
			continue
		}
		if ctx.SkipWhitespace(); !ctx.IsEOF() {
			rest := ctx.Rest()
			return nil, types.NewError(types.ErrCodeUnexpectedToken, fmt.Sprintf("unexpected token %q", snippet(rest)), ctx.Position()).
				WithToken(rest).
				WithCause(diags.Err())
		}
	}

	p.logger.Debug("binding declarations parsed", "source", source, "count", len(decls))
	return decls, nil
}

// parseSegment parses one bounded segment starting at the cursor and leaves
// the cursor at its end.
func (p *Parser) parseSegment(ctx *Context, target bool, diags *types.Diagnostics) (types.Node, error) {
	start := ctx.SkipWhitespace()
	end := p.segmentEnd(ctx, start, target)

	prev := ctx.SetLimit(end)
	node := ctx.Parse(nil)
	ctx.SkipWhitespace()
	pos, complete := ctx.Position(), ctx.IsEOF()
	rest := ctx.Rest()
	ctx.SetLimit(prev)
	ctx.SetPosition(end)

	switch {
	case node == nil:
		return nil, types.NewError(types.ErrCodeNoExpression, "no expression found", start).
			WithCause(diags.Err())
	case !complete:
		return nil, types.NewError(types.ErrCodeUnexpectedToken, fmt.Sprintf("unexpected token %q", snippet(rest)), pos).
			WithToken(rest).
			WithCause(diags.Err())
	}
	return node, nil
}

// segmentEnd returns the offset of the first top-level delimiter at or after
// pos, or the limit.
func (p *Parser) segmentEnd(ctx *Context, pos int, target bool) int {
	depth := 0
	for !ctx.IsEOFAt(pos) {
		if q := p.quoteAt(ctx, pos); q != "" {
			pos = skipQuoted(ctx, pos, q)
			continue
		}
		r, size := ctx.TokenAt(pos)
		switch {
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth = max(0, depth-1)
		case depth == 0 && (r == ',' || r == ';'):
			return pos
		case depth == 0 && target && unicode.IsSpace(r):
			return pos
		}
		pos += size
	}
	return pos
}

func (p *Parser) quoteAt(ctx *Context, pos int) string {
	for _, q := range p.opts.QuoteTokens {
		if q != "" && ctx.IsTokenAt(q, pos) {
			return q
		}
	}
	return ""
}

// skipQuoted returns the offset just past the string literal opened by quote
// at pos. A doubled quote is skipped as a closing and an opening quote.
func skipQuoted(ctx *Context, pos int, quote string) int {
	pos += len(quote)
	for !ctx.IsEOFAt(pos) {
		if ctx.IsTokenAt(quote, pos) {
			return pos + len(quote)
		}
		if ctx.IsTokenAt(`\`, pos) {
			pos++
		}
		_, size := ctx.TokenAt(pos)
		pos += max(size, 1)
	}
	return pos
}

// ParseBindings parses a legacy declaration list with a parser built from
// opts.
func ParseBindings(source string, opts ...Option) ([]types.BindingDeclaration, error) {
	return New(opts...).ParseBindings(source)
}
