package parser

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/sandrolain/bindexpr/pkg/types"
)

type binaryCandidate struct {
	text  string
	token *types.BinaryTokenType
	word  bool
}

// BinaryRecognizer recognizes a chain of binary operators following a node.
//
// The chain is collected into an operand buffer and an operator buffer and
// then reduced by repeatedly combining around the leftmost operator of
// highest priority, so equal priorities associate left to right. Operands
// are parsed with the loop restricted to PostfixThreshold, which keeps the
// ternary and the recognizer itself out of an operand. An operator that
// binds looser than the ternary takes the whole remaining expression as
// its right operand and ends the chain.
type BinaryRecognizer struct {
	candidates map[rune][]binaryCandidate
}

// NewBinaryRecognizer creates a binary recognizer for tokens.
func NewBinaryRecognizer(tokens ...*types.BinaryTokenType) *BinaryRecognizer {
	r := &BinaryRecognizer{candidates: make(map[rune][]binaryCandidate)}
	add := func(text string, token *types.BinaryTokenType) {
		first, _ := utf8.DecodeRuneInString(text)
		end, ok := NewCursor(text, nil).IsIdentifier()
		r.candidates[first] = append(r.candidates[first], binaryCandidate{
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
		slices.SortStableFunc(list, func(a, b binaryCandidate) int {
			return cmp.Compare(len(b.text), len(a.text))
		})
	}
	return r
}

// Priority implements Recognizer.
func (*BinaryRecognizer) Priority() int { return PriorityBinary }

// TryParse implements Recognizer.
func (r *BinaryRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node == nil {
		return nil
	}
	op, end, ok := r.match(ctx, ctx.Position())
	if !ok {
		return nil
	}

	frame := ctx.scratch.acquire()
	defer ctx.scratch.release()

	frame.operands = append(frame.operands, node)
	for ok {
		frame.operators = append(frame.operators, op)
		ctx.SetPosition(end)

		var operand types.Node
		if op.Priority < types.ConditionPriority {
			operand = ctx.Parse(nil)
		} else {
			operand = ctx.ParseFrom(nil, PostfixThreshold)
		}
		if operand == nil {
			ctx.AddError(types.Errorf(types.ErrCodeMissingOperand, ctx.Position(), "operator %q has no right operand", op.Value))
			return nil
		}
		frame.operands = append(frame.operands, operand)

		if op.Priority < types.ConditionPriority {
			break
		}
		op, end, ok = r.match(ctx, ctx.Position())
	}

	reduced, err := reduce(frame.operands, frame.operators, ctx.Position())
	if err != nil {
		ctx.AddError(err)
		return nil
	}
	return reduced
}

// match reports the operator starting at the first non-whitespace offset at
// or after pos, and the offset just past it. The cursor is not moved.
func (r *BinaryRecognizer) match(ctx *Context, pos int) (*types.BinaryTokenType, int, bool) {
	pos = ctx.SkipWhitespaceAt(pos)
	first, size := ctx.TokenAt(pos)
	if size == 0 {
		return nil, pos, false
	}
	for _, c := range r.candidates[first] {
		if !ctx.IsTokenAt(c.text, pos) {
			continue
		}
		end := pos + len(c.text)
		if c.word {
			if next, size := ctx.TokenAt(end); size > 0 && isIdentPart(next) {
				continue
			}
		}
		// `=` must not swallow the first half of `==` or `=>`.
		if c.token == types.Assignment && (ctx.IsTokenAt("=", end) || ctx.IsTokenAt(">", end)) {
			continue
		}
		return c.token, end, true
	}
	return nil, pos, false
}

// reduce folds operands and operators into a single tree. It consumes the
// slices. There must be exactly one more operand than operators; otherwise
// an ErrCodeOperandCount error located at pos is returned.
func reduce(operands []types.Node, operators []*types.BinaryTokenType, pos int) (types.Node, error) {
	if len(operands) != len(operators)+1 {
		return nil, types.Errorf(types.ErrCodeOperandCount, pos,
			"%d operands for %d binary operators", len(operands), len(operators))
	}
	for len(operators) > 0 {
		best := 0
		for i := 1; i < len(operators); i++ {
			if operators[i].Priority > operators[best].Priority {
				best = i
			}
		}
		operands[best] = types.NewBinary(operators[best], operands[best], operands[best+1])
		operands = slices.Delete(operands, best+1, best+2)
		operators = slices.Delete(operators, best, best+1)
	}
	return operands[0], nil
}
