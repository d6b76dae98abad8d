package parser

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sandrolain/bindexpr/pkg/types"
)

var braceUnescaper = strings.NewReplacer("{{", "{", "}}", "}")

// StringRecognizer recognizes string literals.
//
// A literal may be prefixed by `$` (interpolated) and `@` (verbatim) in
// either order. Inside the quotes a doubled quote token stands for the
// quote itself. Non-verbatim strings also decode backslash escapes; an
// escape missing from the table is kept as written.
//
// Interpolated strings contain holes of the form {expr}, {expr:format} or
// {expr,alignment[:format]}; literal braces are written {{ and }}. A string
// without holes yields a string constant, otherwise a call to
// string.Format with a composite format and the hole expressions:
//
//	$"{a} of {b,5:N2}"  =>  MethodCall(string, "Format", ["{0} of {1,5:N2}", a, b])
type StringRecognizer struct {
	quotes  []string
	escapes map[rune]string
}

// NewStringRecognizer creates a string recognizer. Quote tokens are tried
// longest first.
func NewStringRecognizer(quotes []string, escapes map[rune]string) *StringRecognizer {
	quotes = slices.Clone(quotes)
	slices.SortStableFunc(quotes, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	quotes = slices.DeleteFunc(quotes, func(q string) bool { return q == "" })
	return &StringRecognizer{quotes: quotes, escapes: maps.Clone(escapes)}
}

// Priority implements Recognizer.
func (*StringRecognizer) Priority() int { return PriorityString }

// TryParse implements Recognizer.
func (r *StringRecognizer) TryParse(ctx *Context, node types.Node) (result types.Node) {
	defer ctx.rewind(ctx.Position(), &result)

	if node != nil {
		return nil
	}
	start := ctx.SkipWhitespace()
	pos := start

	var interpolated, verbatim bool
	for {
		if !interpolated && ctx.IsTokenAt("$", pos) {
			interpolated = true
			pos++
			continue
		}
		if !verbatim && ctx.IsTokenAt("@", pos) {
			verbatim = true
			pos++
			continue
		}
		break
	}

	quote := ""
	for _, q := range r.quotes {
		if ctx.IsTokenAt(q, pos) {
			quote = q
			break
		}
	}
	if quote == "" {
		return nil
	}
	pos += len(quote)

	var (
		text  strings.Builder
		holes []types.Node
	)
	for {
		if ctx.IsEOFAt(pos) {
			ctx.AddError(types.Errorf(types.ErrCodeUnterminatedString, start, "unterminated string literal"))
			return nil
		}

		if ctx.IsTokenAt(quote, pos) {
			if ctx.IsTokenAt(quote, pos+len(quote)) {
				text.WriteString(quote)
				pos += 2 * len(quote)
				continue
			}
			pos += len(quote)
			break
		}

		if !verbatim && ctx.IsTokenAt(`\`, pos) {
			next, size := ctx.TokenAt(pos + 1)
			if size == 0 {
				ctx.AddError(types.Errorf(types.ErrCodeUnterminatedString, start, "unterminated string literal"))
				return nil
			}
			if esc, ok := r.escapes[next]; ok {
				text.WriteString(esc)
			} else {
				text.WriteByte('\\')
				text.WriteRune(next)
			}
			pos += 1 + size
			continue
		}

		if interpolated {
			switch {
			case ctx.IsTokenAt("{{", pos), ctx.IsTokenAt("}}", pos):
				text.WriteString(ctx.Value(pos, pos+2))
				pos += 2
				continue
			case ctx.IsTokenAt("}", pos):
				ctx.AddError(types.Errorf(types.ErrCodeUnterminatedFormat, pos, "unexpected '}' in interpolated string"))
				return nil
			case ctx.IsTokenAt("{", pos):
				hole, end, ok := r.parseHole(ctx, pos, len(holes))
				if !ok {
					return nil
				}
				text.WriteString(hole.format)
				holes = append(holes, hole.expr)
				pos = end
				continue
			}
		}

		ch, size := ctx.TokenAt(pos)
		text.WriteRune(ch)
		pos += size
	}

	ctx.SetPosition(pos)
	if len(holes) == 0 {
		s := text.String()
		if interpolated {
			s = braceUnescaper.Replace(s)
		}
		return types.StringConstant(s)
	}

	args := make([]types.Node, 0, len(holes)+1)
	args = append(args, types.StringConstant(text.String()))
	args = append(args, holes...)
	return types.NewMethodCall(types.TypeConstant(types.StringType), "Format", args, nil)
}

type interpolationHole struct {
	expr   types.Node
	format string
}

// parseHole parses the hole starting at the `{` at pos and returns it with
// the offset just past its closing brace.
func (r *StringRecognizer) parseHole(ctx *Context, pos, index int) (interpolationHole, int, bool) {
	ctx.SetPosition(pos + 1)
	expr := ctx.Parse(nil)
	if expr == nil {
		ctx.AddError(types.Errorf(types.ErrCodeUnterminatedFormat, pos, "missing expression in interpolation hole"))
		return interpolationHole{}, 0, false
	}

	specStart := ctx.SkipWhitespace()
	end := specStart
	if ctx.IsTokenAt(",", end) || ctx.IsTokenAt(":", end) {
		for !ctx.IsEOFAt(end) && !ctx.IsTokenAt("}", end) {
			_, size := ctx.TokenAt(end)
			end += size
		}
	}
	if !ctx.IsTokenAt("}", end) {
		ctx.AddError(types.Errorf(types.ErrCodeUnterminatedFormat, pos, "unterminated interpolation hole"))
		return interpolationHole{}, 0, false
	}

	format := "{" + strconv.Itoa(index) + ctx.Value(specStart, end) + "}"
	return interpolationHole{expr: expr, format: format}, end + 1, true
}
