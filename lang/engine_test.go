package lang

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/InioX/matugen-sub000/color"
	"github.com/InioX/matugen-sub000/log"
)

func testSchemes() Schemes {
	return Schemes{
		Light: map[string]color.Color{
			"primary": color.MustParseHex("#6750a4"),
			"surface": color.MustParseHex("#ffffff"),
			"black":   color.MustParseHex("#000000"),
		},
		Dark: map[string]color.Color{
			"primary": color.MustParseHex("#d0bcff"),
			"surface": color.MustParseHex("#141218"),
			"black":   color.MustParseHex("#000000"),
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	return New(testSchemes(), opts...)
}

// render registers src as "t" and renders it.
func render(t *testing.T, e *Engine, src string) (string, error) {
	t.Helper()

	require.NoError(t, e.AddTemplate("t", src))

	return e.Render("t")
}

// diagnostics returns the individual diagnostics combined in err.
func diagnostics(t *testing.T, err error) []*Diagnostic {
	t.Helper()

	var out []*Diagnostic

	for _, e := range multierr.Errors(err) {
		var d *Diagnostic
		require.True(t, errors.As(e, &d), "not a diagnostic: %v", e)

		out = append(out, d)
	}

	return out
}

func TestEngine_Templates(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddTemplate("b", "b"))
	require.NoError(t, e.AddTemplate("a", "a"))
	assert.Equal(t, []string{"a", "b"}, e.Templates())

	src, ok := e.Source("a")
	assert.True(t, ok)
	assert.Equal(t, "a", src)

	assert.True(t, e.RemoveTemplate("a"))
	assert.False(t, e.RemoveTemplate("a"))
	assert.Equal(t, []string{"b"}, e.Templates())

	_, ok = e.Source("a")
	assert.False(t, ok)
}

func TestEngine_RenderUnknownTemplate(t *testing.T) {
	e := newTestEngine(t)

	out, err := e.Render("nope")
	assert.Empty(t, out)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestEngine_RenderUnparsedTemplate(t *testing.T) {
	e := newTestEngine(t)

	err := e.AddTemplate("bad", "{{ colors.primary")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	// The template stays registered but refuses to render.
	assert.Equal(t, []string{"bad"}, e.Templates())

	out, err := e.Render("bad")
	assert.Empty(t, out)
	assert.ErrorIs(t, err, ErrParse)
}

func TestEngine_RawRoundTrip(t *testing.T) {
	e := newTestEngine(t)

	src := "plain text\n\twith tabs, } braces { and * stars *\n"

	out, err := render(t, e, src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestEngine_Formats(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"hex", "{{ colors.primary.dark.hex }}", "#d0bcff"},
		{"hex_stripped", "{{ colors.primary.dark.hex_stripped }}", "d0bcff"},
		{"light", "{{ colors.primary.light.hex }}", "#6750a4"},
		{"default is dark", "{{ colors.primary.default.hex }}", "#d0bcff"},
		{"rgb", "{{ colors.primary.light.rgb }}", "rgb(103, 80, 164)"},
		{"rgba", "{{ colors.black.dark.rgba }}", "rgba(0, 0, 0, 1)"},
		{"channel", "{{ colors.primary.light.red }}", "103"},
		{"surrounded", "a {{ colors.surface.light.hex }} b", "a #ffffff b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := render(t, newTestEngine(t), tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEngine_DefaultScheme(t *testing.T) {
	e := newTestEngine(t, WithDefaultScheme(SchemeLight))
	assert.Equal(t, SchemeLight, e.DefaultScheme())

	out, err := render(t, e, "{{ colors.primary.default.hex }}")
	require.NoError(t, err)
	assert.Equal(t, "#6750a4", out)

	// An invalid choice keeps the dark default.
	e = newTestEngine(t, WithDefaultScheme(SchemeDefault))
	assert.Equal(t, SchemeDark, e.DefaultScheme())
}

func TestEngine_MutationCache(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddTemplate("t", "{{ colors.black.dark.hex | lighten: 10 }}"))

	out, err := e.Render("t")
	require.NoError(t, err)
	assert.Equal(t, "#1a1a1a", out)

	// Rendering again reads the mutated color back from the cache.
	out, err = e.Render("t")
	require.NoError(t, err)
	assert.Equal(t, "#333333", out)

	c, ok := e.CachedColor("black", SchemeDark)
	require.True(t, ok)
	assert.Equal(t, "#333333", c.Hex())

	_, ok = e.CachedColor("black", SchemeLight)
	assert.False(t, ok)

	// Other templates see the mutation; the light scheme does not.
	out, err = e.Compile("{{ colors.black.dark.hex }} {{ colors.black.light.hex }}")
	require.NoError(t, err)
	assert.Equal(t, "#333333 #000000", out)

	// A fresh engine starts from the scheme colors.
	out, err = render(t, newTestEngine(t), "{{ colors.black.dark.hex | lighten: 10 }}")
	require.NoError(t, err)
	assert.Equal(t, "#1a1a1a", out)
}

func TestEngine_MutationCacheDefaultScheme(t *testing.T) {
	e := newTestEngine(t)

	_, err := render(t, e, "{{ colors.black.default.hex | lighten: 10 }}")
	require.NoError(t, err)

	c, ok := e.CachedColor("black", SchemeDefault)
	require.True(t, ok)
	assert.Equal(t, "#1a1a1a", c.Hex())

	c, ok = e.CachedColor("black", SchemeDark)
	require.True(t, ok)
	assert.Equal(t, "#1a1a1a", c.Hex())
}

func TestEngine_MutationCacheInLoop(t *testing.T) {
	e := newTestEngine(t)

	src := "<* for name, value in colors *>" +
		"{{ colors.black.dark.hex | lighten: 10 }};" +
		"<* endfor *>"

	out, err := render(t, e, src)
	require.NoError(t, err)

	// One iteration per role, each compounding the previous mutation.
	assert.Equal(t, "#1a1a1a;#333333;#4d4d4d;", out)
}

func TestEngine_StringChainDoesNotCache(t *testing.T) {
	e := newTestEngine(t)

	out, err := render(t, e, "{{ colors.primary.dark.hex | lighten: 10 | to_upper }}")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, ok := e.CachedColor("primary", SchemeDark)
	assert.False(t, ok)
}

func TestEngine_FailedChainDoesNotCache(t *testing.T) {
	e := newTestEngine(t)

	_, err := render(t, e, "{{ colors.black.dark.hex | lighten: 10 | nope }}")
	require.ErrorIs(t, err, ErrFilterNotFound)

	_, ok := e.CachedColor("black", SchemeDark)
	assert.False(t, ok)
}

func TestEngine_Compile(t *testing.T) {
	e := newTestEngine(t)

	out, err := e.Compile("{{ colors.surface.dark.hex }}")
	require.NoError(t, err)
	assert.Equal(t, "#141218", out)
	assert.Empty(t, e.Templates())

	// A template registered under the transient name survives.
	require.NoError(t, e.AddTemplate(compileName, "kept"))

	_, err = e.Compile("{{")
	require.ErrorIs(t, err, ErrParse)

	src, ok := e.Source(compileName)
	require.True(t, ok)
	assert.Equal(t, "kept", src)
}

func TestEngine_Roles(t *testing.T) {
	schemes := testSchemes()
	schemes.Light["light_only"] = color.MustParseHex("#010203")

	e := New(schemes)
	assert.Equal(t, []string{"black", "light_only", "primary", "surface"}, e.Roles())

	out, err := e.Compile("{{ colors.light_only.light.hex }}")
	require.NoError(t, err)
	assert.Equal(t, "#010203", out)

	_, err = e.Compile("{{ colors.light_only.dark.hex }}")
	assert.ErrorIs(t, err, ErrColorDoesNotExist)
}

func TestEngine_SchemesAreCopied(t *testing.T) {
	schemes := testSchemes()
	e := New(schemes)

	schemes.Dark["primary"] = color.MustParseHex("#123456")

	out, err := e.Compile("{{ colors.primary.dark.hex }}")
	require.NoError(t, err)
	assert.Equal(t, "#d0bcff", out)
}

func TestEngine_AddContext(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddContext(map[string]any{
		"theme": map[string]any{"name": "dark"},
	}))
	require.NoError(t, e.AddContext([]byte("theme:\n  size: 12\nitems: [a, b]\n")))

	out, err := e.Compile("{{ theme.name }} {{ theme.size }} {{ items._1 }}")
	require.NoError(t, err)
	assert.Equal(t, "dark 12 b", out)
	assert.Equal(t, []string{"items", "theme"}, e.Context().Keys())

	require.NoError(t, e.AddContext([]byte(`{"theme": {"name": "light"}}`)))

	out, err = e.Compile("{{ theme.name }} {{ theme.size }}")
	require.NoError(t, err)
	assert.Equal(t, "light 12", out)
}

func TestEngine_AddContextErrors(t *testing.T) {
	e := newTestEngine(t)

	assert.ErrorIs(t, e.AddContext([]any{1, 2}), ErrInvalidContext)
	assert.ErrorIs(t, e.AddContext("scalar"), ErrInvalidContext)
	assert.ErrorIs(t, e.AddContext([]byte("a: [unclosed")), ErrInvalidContext)
	assert.ErrorIs(t, e.AddContext(map[string]any{"ch": make(chan int)}), ErrInvalidContext)
	assert.Empty(t, e.Context().Keys())
}

func TestEngine_Filters(t *testing.T) {
	e := newTestEngine(t)

	names := e.Filters()
	assert.Contains(t, names, "lighten")
	assert.Contains(t, names, "to_upper")
	assert.IsIncreasing(t, names)

	shout := func(path []string, _ []SpannedValue, in FilterValue, _ *Engine) (FilterValue, error) {
		return StringValue(formatFilterValue(path, in) + "!"), nil
	}

	assert.Nil(t, e.AddFilter("shout", shout))
	assert.NotNil(t, e.AddFilter("shout", shout))

	out, err := e.Compile(`{{ "hi" | shout }} {{ colors.black.dark.hex_stripped | shout }}`)
	require.NoError(t, err)
	assert.Equal(t, "hi! 000000!", out)

	assert.NotNil(t, e.RemoveFilter("shout"))
	assert.Nil(t, e.RemoveFilter("shout"))

	_, err = e.Compile(`{{ "hi" | shout }}`)
	assert.ErrorIs(t, err, ErrFilterNotFound)
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
	)

	e := newTestEngine(t, WithLogger(logger))

	_, err := render(t, e, "{{ colors.black.dark.hex | lighten: 10 }}{{ missing }}")
	require.Error(t, err)

	logged := buf.String()
	assert.Contains(t, logged, `"msg":"template registered"`)
	assert.Contains(t, logged, `"msg":"color cached"`)
	assert.Contains(t, logged, `"msg":"diagnostic"`)
	assert.Contains(t, logged, `"msg":"template rendered"`)
}

func TestEngine_Report(t *testing.T) {
	e := newTestEngine(t)

	_, err := render(t, e, "{{ colors.prim.dark.hex }}")
	require.Error(t, err)

	var buf bytes.Buffer

	e.Report(&buf, err)

	want := "error: color does not exist\n" +
		" --> t:1:11\n" +
		"  |\n" +
		"1 | {{ colors.prim.dark.hex }}\n" +
		"  |           ^^^^ no color named \"prim\"\n" +
		"  = help: did you mean \"primary\"?\n"

	assert.Equal(t, want, buf.String())
}

func TestReport_ParseError(t *testing.T) {
	e := newTestEngine(t)

	err := e.AddTemplate("t", "line one\n{{ a | }}")
	require.Error(t, err)

	var buf bytes.Buffer

	Report(&buf, err)

	want := "error: parse error: unexpected '}'\n" +
		" --> t:2:8\n" +
		"  |\n" +
		"2 | {{ a | }}\n" +
		"  |        ^\n" +
		"  = help: expected \"filter name\"\n"

	assert.Equal(t, want, buf.String())
}

func TestReport_PlainError(t *testing.T) {
	var buf bytes.Buffer

	Report(&buf, nil)
	assert.Empty(t, buf.String())

	Report(&buf, errors.New("boom"))
	assert.Equal(t, "error: boom\n", buf.String())
}
