package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) []Node {
	t.Helper()

	nodes, err := Parse("t", src, DefaultSyntax)
	require.NoError(t, err)

	return nodes
}

func parseErr(t *testing.T, src string) *ParseError {
	t.Helper()

	_, err := Parse("t", src, DefaultSyntax)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	return perr
}

func TestParse_Raw(t *testing.T) {
	assert.Empty(t, parseOK(t, ""))

	nodes := parseOK(t, "just text")
	require.Len(t, nodes, 1)

	raw, ok := nodes[0].(*Raw)
	require.True(t, ok)
	assert.Equal(t, "just text", raw.Text)
	assert.Equal(t, Span{0, 9}, raw.Pos)
}

func TestParse_Access(t *testing.T) {
	nodes := parseOK(t, `a {{ colors.primary."dark".hex }} b`)
	require.Len(t, nodes, 3)

	acc, ok := nodes[1].(*Access)
	require.True(t, ok)
	assert.Equal(t, []string{"colors", "primary", "dark", "hex"}, acc.Path())
	assert.True(t, acc.Segments[2].Quoted)

	src := `a {{ colors.primary."dark".hex }} b`
	assert.Equal(t, `colors.primary."dark".hex`, acc.Pos.Text(src))
	assert.Equal(t, `"dark"`, acc.Segments[2].Pos.Text(src))
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"{{ 42 }}", IntValue(42)},
		{"{{ -3 }}", IntValue(-3)},
		{"{{ 2.5 }}", FloatValue(2.5)},
		{"{{ true }}", BoolValue(true)},
		{`{{ "a \"q\" \\ b" }}`, IdentValue(`a "q" \ b`)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			nodes := parseOK(t, tt.src)
			require.Len(t, nodes, 1)

			lit, ok := nodes[0].(*Literal)
			require.True(t, ok)
			assert.Equal(t, tt.want, lit.Value.Value)
		})
	}
}

func TestParse_Filters(t *testing.T) {
	src := `{{ colors.primary.dark.hex | lighten: 5 | replace: "#", x | to_upper }}`

	nodes := parseOK(t, src)
	require.Len(t, nodes, 1)

	awf, ok := nodes[0].(*AccessWithFilters)
	require.True(t, ok)
	require.Len(t, awf.Filters, 3)

	assert.Equal(t, "lighten", awf.Filters[0].Name)
	assert.Equal(t, "lighten: 5", awf.Filters[0].Pos.Text(src))
	assert.Equal(t, "lighten", awf.Filters[0].NamePos.Text(src))

	replace := awf.Filters[1]
	require.Len(t, replace.Args, 2)
	assert.Equal(t, `"#"`, replace.Args[0].Span().Text(src))

	bare, ok := replace.Args[1].(*Literal)
	require.True(t, ok)
	assert.Equal(t, IdentValue("x"), bare.Value.Value)

	assert.Empty(t, awf.Filters[2].Args)
}

func TestParse_BinaryOp(t *testing.T) {
	src := "{{ n * 2 }}"

	nodes := parseOK(t, src)
	require.Len(t, nodes, 1)

	op, ok := nodes[0].(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, OpMul, op.Op)
	assert.Equal(t, "n * 2", op.Pos.Text(src))
}

func TestParse_Blocks(t *testing.T) {
	src := "<* for k, v in m *>{{ k }}<* endfor *>" +
		"<* if x *>a<* else *>b<* endif *>" +
		"<* for i in 0..3 *><* endfor *>" +
		"<* include other.conf *>"

	nodes := parseOK(t, src)
	require.Len(t, nodes, 4)

	loop, ok := nodes[0].(*ForLoop)
	require.True(t, ok)
	require.Len(t, loop.Vars, 2)
	assert.Equal(t, "k", loop.Vars[0].Name)
	assert.Equal(t, "v", loop.Vars[1].Name)
	assert.Len(t, loop.Body, 1)
	assert.Equal(t, "<* for k, v in m *>{{ k }}<* endfor *>", loop.Pos.Text(src))

	cond, ok := nodes[1].(*If)
	require.True(t, ok)
	assert.Len(t, cond.Then, 1)
	assert.Len(t, cond.Else, 1)

	rng, ok := nodes[2].(*ForLoop)
	require.True(t, ok)

	r, ok := rng.Iterable.(*Range)
	require.True(t, ok)
	assert.Equal(t, int64(0), r.Start)
	assert.Equal(t, int64(3), r.End)

	inc, ok := nodes[3].(*Include)
	require.True(t, ok)
	assert.Equal(t, "other.conf", inc.Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		msg      string
		text     string
		expected []string
	}{
		{
			name:     "unterminated expression",
			src:      "{{ colors.primary",
			msg:      "unexpected end of input",
			text:     "",
			expected: []string{"}}", "|"},
		},
		{
			name:     "unterminated string",
			src:      `{{ "abc }}`,
			msg:      "unterminated string",
			text:     `"abc }}`,
			expected: []string{`"`},
		},
		{
			name: "unterminated block",
			src:  "<* for x in items *>body",
			msg:  "unterminated block",
			text: "<* for x in items *>",
		},
		{
			name:     "too many loop variables",
			src:      "<* for a, b, c, d in x *><* endfor *>",
			msg:      "too many loop variables: a loop binds at most 2",
			text:     "c, d",
			expected: []string{"in"},
		},
		{
			name: "stray endif",
			src:  "text<* endif *>",
			msg:  `unexpected "endif"`,
			text: "endif",
		},
		{
			name: "else inside for",
			src:  "<* for x in y *><* else *><* endfor *>",
			msg:  `unexpected "else"`,
			text: "else",
		},
		{
			name: "unknown keyword",
			src:  "<* while x *>",
			msg:  "unexpected 'w'",
			text: "w",
		},
		{
			name: "missing filter name",
			src:  "{{ a | }}",
			msg:  "unexpected '}'",
			text: "}",
		},
		{
			name: "missing in",
			src:  "<* for x of y *><* endfor *>",
			msg:  "unexpected 'o'",
			text: "o",
		},
		{
			name: "float range",
			src:  "<* for x in 0..2.5 *><* endfor *>",
			msg:  "range bounds must be integers",
			text: "2.5",
		},
		{
			name: "empty include",
			src:  "<* include *>",
			msg:  "unexpected '*'",
			text: "*",
		},
		{
			name: "empty expression",
			src:  "{{ }}",
			msg:  "unexpected '}'",
			text: "}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.src)
			assert.Equal(t, tt.msg, perr.Message())
			assert.Equal(t, tt.text, perr.Span.Text(tt.src))

			if tt.expected != nil {
				assert.Equal(t, tt.expected, perr.Expected)
			}
		})
	}
}

func TestParse_UnterminatedBlockExpectsCloser(t *testing.T) {
	perr := parseErr(t, "<* if x *>a<* else *>b")
	assert.Equal(t, []string{"<* endif *>"}, perr.Expected)
	assert.Equal(t, "end of input", perr.Found)
}

func TestParseError_Error(t *testing.T) {
	perr := parseErr(t, "ok\n{{ a | }}")

	want := "parse error in \"t\" at line 2, column 8: unexpected '}'\n" +
		"  2 | {{ a | }}\n" +
		"             ^\n" +
		"\texpected: \"filter name\""

	assert.Equal(t, want, perr.Error())
}

func TestSyntax_Validate(t *testing.T) {
	assert.NoError(t, DefaultSyntax.Validate())

	assert.ErrorIs(t, Syntax{ExprLeft: "{{", ExprRight: "}}", BlockLeft: "", BlockRight: "*>"}.Validate(), ErrParse)
	assert.ErrorIs(t, Syntax{ExprLeft: "{{", ExprRight: "}}", BlockLeft: "{{%", BlockRight: "%}}"}.Validate(), ErrParse)
	assert.NoError(t, Syntax{ExprLeft: "[[", ExprRight: "]]", BlockLeft: "[%", BlockRight: "%]"}.Validate())
}

func TestLocate(t *testing.T) {
	src := "ab\ncéd"

	loc := Locate(src, len(src)-1)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 3, loc.Column)
	assert.Equal(t, "céd", loc.Text)

	loc = Locate(src, 0)
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 1, loc.Column)
	assert.Equal(t, "ab", loc.Text)

	loc = Locate(src, 1000)
	assert.Equal(t, 2, loc.Line)
}

func TestSpan(t *testing.T) {
	s := Span{2, 5}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "cde", s.Text("abcdefg"))
	assert.Equal(t, "cd", s.Text("abcd"))
	assert.Equal(t, Span{1, 5}, s.Join(Span{1, 3}))
}
