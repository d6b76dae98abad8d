package parser

import (
	"github.com/sandrolain/bindexpr/pkg/scope"
	"github.com/sandrolain/bindexpr/pkg/types"
)

// Recognizer priorities. Lower values are offered the current node first.
const (
	PriorityCondition       = 0
	PriorityBinary          = 10
	PriorityNullConditional = 20
	PriorityIndexer         = 30
	PriorityLambda          = 40
	PriorityParen           = 50
	PriorityString          = 60
	PriorityNumber          = 70
	PriorityConstant        = 80
	PriorityUnary           = 90
	PriorityMethodCall      = 100
	PriorityMember          = 110
)

// PostfixThreshold is the minimum priority used when parsing a single
// operand: it admits primary and postfix productions and excludes the
// binary and ternary recognizers, which bind outside an operand.
const PostfixThreshold = PriorityNullConditional

// Recognizer tries to extend node with a production starting at the
// cursor position.
//
// TryParse returns the extended node, or nil if the production does not
// match. A recognizer that returns nil must leave the cursor at its entry
// position; a non-nil result must have consumed input. The dispatch loop
// restores the position after a failed candidate as well, so a third-party
// recognizer that forgets cannot corrupt its siblings.
type Recognizer interface {
	Priority() int
	TryParse(ctx *Context, node types.Node) types.Node
}

// Context is the per-parse state: the cursor plus the structures that must
// not be shared between concurrent parses.
type Context struct {
	*Cursor
	parser        *Parser
	params        scope.Table[string, *types.Parameter]
	scratch       scratchStack
	depth         int
	depthReported bool
}

// Parser returns the parser that owns the context.
func (c *Context) Parser() *Parser {
	return c.parser
}

// Scope returns the lambda-parameter symbol table.
func (c *Context) Scope() *scope.Table[string, *types.Parameter] {
	return &c.params
}

// Parse runs the full dispatch loop starting from node.
func (c *Context) Parse(node types.Node) types.Node {
	return c.ParseFrom(node, PriorityCondition)
}

// ParseFrom runs the dispatch loop starting from node, offering it only to
// recognizers whose priority is at least minPriority. It returns the last
// node built, which is node itself when nothing matched.
func (c *Context) ParseFrom(node types.Node, minPriority int) types.Node {
	if c.depth >= c.parser.opts.MaxDepth {
		if !c.depthReported {
			c.depthReported = true
			c.AddError(types.Errorf(types.ErrCodeMaxDepth, c.Position(), "expression nesting exceeds %d levels", c.parser.opts.MaxDepth))
		}
		return node
	}
	c.depth++
	defer func() { c.depth-- }()

	for {
		var best types.Node
		for _, r := range c.parser.recognizers {
			if r.Priority() < minPriority {
				continue
			}
			save := c.Position()
			candidate := r.TryParse(c, node)
			// A match that consumed nothing would never terminate.
			if candidate != nil && c.Position() > save {
				best = candidate
				break
			}
			c.SetPosition(save)
		}
		if best == nil {
			return node
		}
		node = best
	}
}

// rewind restores the cursor to save when *result is nil. Recognizers defer
// it on entry.
func (c *Context) rewind(save int, result *types.Node) {
	if *result == nil {
		c.SetPosition(save)
	}
}

// advance moves the cursor forward by n bytes.
func (c *Context) advance(n int) {
	c.SetPosition(c.Position() + n)
}

// consume skips whitespace and then literal, reporting whether it matched.
// On mismatch only the whitespace is consumed.
func (c *Context) consume(literal string) bool {
	c.SkipWhitespace()
	if !c.IsToken(literal) {
		return false
	}
	c.advance(len(literal))
	return true
}

// identifier skips whitespace and reads an identifier.
func (c *Context) identifier() (string, bool) {
	start := c.SkipWhitespace()
	end, ok := c.IsIdentifier()
	if !ok {
		return "", false
	}
	c.SetPosition(end)
	return c.Value(start, end), true
}

// binaryFrame holds the operand and operator buffers of one binary chain.
type binaryFrame struct {
	operands  []types.Node
	operators []*types.BinaryTokenType
}

// scratchStack hands out one binaryFrame per nesting level, reusing the
// buffers across chains at the same level. A chain that parses a
// parenthesized operand containing another chain gets the next frame, so
// the outer buffers are never disturbed.
type scratchStack struct {
	frames []*binaryFrame
	depth  int
}

func (s *scratchStack) acquire() *binaryFrame {
	if s.depth == len(s.frames) {
		s.frames = append(s.frames, &binaryFrame{})
	}
	f := s.frames[s.depth]
	s.depth++
	f.operands = f.operands[:0]
	f.operators = f.operators[:0]
	return f
}

func (s *scratchStack) release() {
	s.depth--
	f := s.frames[s.depth]
	clear(f.operands[:cap(f.operands)])
	clear(f.operators[:cap(f.operators)])
	f.operands = f.operands[:0]
	f.operators = f.operators[:0]
}
