package parser

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/sandrolain/bindexpr/pkg/types"
)

type unaryCandidate struct {
	text  string
	token *types.UnaryTokenType
	word  bool
}

// UnaryRecognizer recognizes prefix operators.
//
// Ordinary operators bind a single operand parsed with the loop restricted
// to PostfixThreshold. The static and dynamic expression markers take the
// whole following expression, which must not be a bare constant.
type UnaryRecognizer struct {
	candidates map[rune][]unaryCandidate
}

// NewUnaryRecognizer creates a unary recognizer for tokens.
func NewUnaryRecognizer(tokens ...*types.UnaryTokenType) *UnaryRecognizer {
	r := &UnaryRecognizer{candidates: make(map[rune][]unaryCandidate)}
	add := func(text string, token *types.UnaryTokenType) {
		first, _ := utf8.DecodeRuneInString(text)
		end, ok := NewCursor(text, nil).IsIdentifier()
		r.candidates[first] = append(r.candidates[first], unaryCandidate{
			text:  text,
			token: token,
			word:  ok && end == len(text),
		})
	}
	for _, t := range tokens {
		add(t.Value, t)
		for _, alias := range t.Aliases {
			add(alias, t)
		}
	}
	for _, list := range r.candidates {
		slices.SortStableFunc(list, func(a, b unaryCandidate) int {
			return cmp.Compare(len(b.text), len(a.text))
		})
	}
	return r
}

// Priority implements Recognizer.
func (*UnaryRecognizer) Priority() int { return PriorityUnary }

// TryParse implements Recognizer.
func (r *UnaryRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil {
		return nil
	}
	start := ctx.SkipWhitespace()
	op, ok := r.match(ctx, start)
	if !ok {
		return nil
	}

	ctx.advance(len(op.text))

	if op.token.IsMarker() {
		operand := ctx.Parse(nil)
		if operand == nil {
			return nil
		}
		if _, isConst := operand.(*types.Constant); isConst {
			ctx.AddError(types.Errorf(types.ErrCodeMalformedMarker, start,
				"expression marker %q cannot be applied to a constant", op.text))
			return nil
		}
		return types.NewUnary(op.token, operand)
	}

	operand := ctx.ParseFrom(nil, PostfixThreshold)
	if operand == nil {
		return nil
	}
	return types.NewUnary(op.token, operand)
}

func (r *UnaryRecognizer) match(ctx *Context, pos int) (unaryCandidate, bool) {
	first, size := ctx.TokenAt(pos)
	if size == 0 {
		return unaryCandidate{}, false
	}
	for _, c := range r.candidates[first] {
		if !ctx.IsTokenAt(c.text, pos) {
			continue
		}
		if c.word {
			if next, size := ctx.TokenAt(pos + len(c.text)); size > 0 && isIdentPart(next) {
				continue
			}
		}
		return c, true
	}
	return unaryCandidate{}, false
}
