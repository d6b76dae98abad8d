package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/parser"
	"github.com/sandrolain/bindexpr/pkg/types"
)

var propertyInputs = []string{
	"",
	"a",
	"1 + 2 * 3",
	"a ? b : c",
	"a?.b?[0]",
	"a ?? b",
	"(x, y) => x + y",
	"(x,x)=>x",
	"(1 + ",
	"Foo<int, List<string>>(1, 2)",
	"Foo<int",
	"a.b(c",
	"[1, 2",
	`$"{a,5:N2} and {{b}}"`,
	`$"{a`,
	`@"unterminated`,
	"&amp;x&amp;",
	"1.5e",
	"1.5e-3f",
	"12px",
	"$1",
	"$$a.b",
	"-~!a",
	"a and b or c",
	"a = b = c",
	"a => b",
	"? : ,;",
}

// Every recognizer, offered any node at any position, either consumes input
// and returns a node, or returns nil and leaves the cursor where it was.
func TestRecognizersRestorePosition(t *testing.T) {
	p := parser.New()
	nodes := []types.Node{nil, root("a"), i32(1)}

	for _, source := range propertyInputs {
		for pos := 0; pos <= len(source); pos++ {
			for _, node := range nodes {
				for _, r := range p.Recognizers() {
					ctx := p.NewContext(source, &types.Diagnostics{})
					ctx.SetPosition(pos)

					got := r.TryParse(ctx, node)
					if got != nil {
						assert.Greater(t, ctx.Position(), pos,
							"%T on %q at %d returned %s without consuming", r, source, pos, got)
					} else {
						assert.Equal(t, pos, ctx.Position(),
							"%T on %q at %d failed without restoring", r, source, pos)
					}
				}
			}
		}
	}
}

func TestFormatReparses(t *testing.T) {
	sources := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"1 - (2 - 3)",
		"1 - 2 - 3",
		"-a.b + ~c",
		"-(a + b)",
		"a ? b : c ? d : e",
		"(a ? b : c) ? d : e",
		"a ?? b ?? c",
		"Text = a ? b : c",
		"Items.Where((x) => x.Count > 1).Select((x, i) => x[i])",
		"a?.b.c?[0]?.D()",
		`Format("{0}: ""{1}""", Name, 1.5m)`,
		"Convert<int, List<string[]>>(x, 2UL, 3L, 4U, 5F, 6D)",
		"$(a + b)",
		"$$Model.Value",
		"!(a && b) || c",
		"[0] + this[1, 2]",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			first := parseAST(t, source)
			text := types.Format(first)
			second, err := parser.Parse(text)
			require.NoError(t, err, "reparse of %q", text)
			assert.True(t, types.Equal(first, second.AST()), "%q rendered as %q parsed to %s", source, text, second.AST())
		})
	}
}

func FuzzParse(f *testing.F) {
	for _, s := range propertyInputs {
		f.Add(s)
	}
	f.Add("Text = Model.Value + Items[0].Count * 2")
	f.Add("Text Model.Value, Mode=TwoWay;")

	p := parser.New(parser.WithMaxDepth(64))
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := p.Parse(input)
		if err == nil && expr.AST() == nil {
			t.Fatalf("Parse(%q) returned no AST and no error", input)
		}
		_, _ = p.ParseBindings(input)
	})
}
