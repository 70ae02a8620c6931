package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InioX/matugen-sub000/color"
	"github.com/InioX/matugen-sub000/lang"
)

const schemeYAML = `light:
  primary: "#6750a4"
  surface: "#ffffff"
dark:
  primary: "#d0bcff"
  surface: "#141218"
`

// testEnv returns an Env over an in-memory filesystem holding files, with
// buffered output streams and the given environment variables.
func testEnv(
	t *testing.T,
	files map[string]string,
	vars map[string]string,
) (Env, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, data := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(data), 0o644))
	}

	var stdout, stderr bytes.Buffer

	return Env{
		FS:     fs,
		Stdin:  &bytes.Buffer{},
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
	}, &stdout, &stderr
}

func hex(t *testing.T, m map[string]color.Color, role string) string {
	t.Helper()

	c, ok := m[role]
	require.True(t, ok, role)

	return c.Hex()
}

func TestLoadSchemes(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
	}{
		{name: "by scheme", path: "/s.yaml", data: schemeYAML},
		{
			name: "nested under colors",
			path: "/s.yml",
			data: "colors:\n  light:\n    primary: '#6750a4'\n    surface: '#ffffff'\n" +
				"  dark:\n    primary: '#d0bcff'\n    surface: '#141218'\n",
		},
		{
			name: "by role",
			path: "/s.json",
			data: `{"colors": {
				"primary": {"light": "#6750a4", "dark": {"color": "#d0bcff"}},
				"surface": {"light": {"hex": "#ffffff"}, "dark": "141218"}
			}}`,
		},
		{
			name: "toml",
			path: "/s.toml",
			data: "[light]\nprimary = \"#6750a4\"\nsurface = \"#ffffff\"\n" +
				"[dark]\nprimary = \"#d0bcff\"\nsurface = \"#141218\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, _ := testEnv(t, map[string]string{tt.path: tt.data}, nil)

			s, err := loadSchemes(env.FS, tt.path)
			require.NoError(t, err)

			assert.Equal(t, "#6750a4", hex(t, s.Light, "primary"))
			assert.Equal(t, "#ffffff", hex(t, s.Light, "surface"))
			assert.Equal(t, "#d0bcff", hex(t, s.Dark, "primary"))
			assert.Equal(t, "#141218", hex(t, s.Dark, "surface"))
		})
	}
}

func TestLoadSchemes_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad hex", data: "light:\n  primary: '#zzzzzz'\n"},
		{name: "not a string", data: "light:\n  primary: [1, 2]\n"},
		{name: "role without schemes", data: "primary: '#ffffff'\n"},
		{name: "malformed", data: "light: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, _ := testEnv(t, map[string]string{"/s.yaml": tt.data}, nil)

			_, err := loadSchemes(env.FS, "/s.yaml")
			assert.ErrorIs(t, err, ErrSchemeLoad)
		})
	}

	env, _, _ := testEnv(t, nil, nil)

	_, err := loadSchemes(env.FS, "/missing.yaml")
	assert.ErrorIs(t, err, ErrSchemeLoad)
}

func TestLoadContext(t *testing.T) {
	env, _, _ := testEnv(t, map[string]string{
		"/a.yaml": "name: Theme\nwm:\n  gap: 4\n",
		"/b.json": `{"wm": {"border": 2}}`,
		"/c.toml": "[wm]\ngap = 8\n",
	}, nil)

	eng := lang.New(lang.Schemes{})

	for _, p := range []string{"/a.yaml", "/b.json", "/c.toml"} {
		require.NoError(t, loadContext(env.FS, p, eng), p)
	}

	name, ok := eng.Context().Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "Theme", name.String())

	wm, ok := eng.Context().Lookup("wm")
	require.True(t, ok)
	assert.Equal(t, "{border: 2, gap: 8}", wm.String())
}

func TestLoadContext_Errors(t *testing.T) {
	env, _, _ := testEnv(t, map[string]string{
		"/list.yaml": "- a\n- b\n",
		"/bad.toml":  "= nope",
	}, nil)

	eng := lang.New(lang.Schemes{})

	for _, p := range []string{"/list.yaml", "/bad.toml", "/missing.yaml"} {
		assert.ErrorIs(t, loadContext(env.FS, p, eng), ErrContextLoad, p)
	}
}

func TestSearchPath(t *testing.T) {
	env, _, _ := testEnv(t, map[string]string{
		"/a/x.txt": "",
		"/b/y.txt": "",
	}, map[string]string{
		"MATUGEN_TEMPLATE_PATH": "/b:/a:/nope",
	})

	assert.Equal(t, []string{"/a", "/b"}, searchPath(env, []string{"/a", "/missing"}))
	assert.Equal(t, []string{"/b", "/a"}, searchPath(env, nil))
}

func TestExpand(t *testing.T) {
	env, _, _ := testEnv(t, map[string]string{
		"/t/a.conf":      "",
		"/t/b.conf":      "",
		"/t/sub/c.conf":  "",
		"/t/sub/d.ini":   "",
		"/other/a.conf":  "",
		"/other/z.theme": "",
	}, nil)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "literal", args: []string{"/t/a.conf"}, want: []string{"/t/a.conf"}},
		{name: "star", args: []string{"/t/*.conf"}, want: []string{"/t/a.conf", "/t/b.conf"}},
		{
			name: "double star",
			args: []string{"/t/**/*.conf"},
			want: []string{"/t/a.conf", "/t/b.conf", "/t/sub/c.conf"},
		},
		{
			name: "repeats dropped",
			args: []string{"/t/b.conf", "/t/*.conf"},
			want: []string{"/t/b.conf", "/t/a.conf"},
		},
		{
			name: "alternatives",
			args: []string{"/other/*.{conf,theme}"},
			want: []string{"/other/a.conf", "/other/z.theme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expand(env.FS, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := expand(env.FS, []string{"/t/*.nothing"})
	assert.ErrorIs(t, err, ErrNoTemplates)

	_, err = expand(env.FS, nil)
	assert.ErrorIs(t, err, ErrNoTemplates)
}

func TestInputs_Syntax(t *testing.T) {
	in := Inputs{}

	syn, err := in.syntax()
	require.NoError(t, err)
	assert.Equal(t, lang.DefaultSyntax, syn)

	in = Inputs{ExprDelims: []string{"[[", "]]"}, BlockDelims: []string{"[%", "%]"}}

	syn, err = in.syntax()
	require.NoError(t, err)
	assert.Equal(t, lang.Syntax{ExprLeft: "[[", ExprRight: "]]", BlockLeft: "[%", BlockRight: "%]"}, syn)

	for _, bad := range []Inputs{
		{ExprDelims: []string{"[["}},
		{BlockDelims: []string{"<", "*", ">"}},
		{ExprDelims: []string{"<*", "*>"}},
	} {
		_, err := bad.syntax()
		assert.ErrorIs(t, err, ErrSyntax)
	}
}

func TestInputs_Load(t *testing.T) {
	env, _, _ := testEnv(t, map[string]string{
		"/scheme.yaml":       schemeYAML,
		"/inc/head.txt":      "first",
		"/inc/sub/part.txt":  "nested",
		"/more/head.txt":     "shadowed",
		"/more/extra.txt":    "extra",
		"/work/one/app.conf": "{{ colors.primary.default.hex }}",
		"/work/two/app.conf": "{{ colors.surface.default.hex }}",
	}, map[string]string{"MATUGEN_TEMPLATE_PATH": "/more"})

	in := Inputs{Scheme: "/scheme.yaml", Mode: "light", IncludeDir: []string{"/inc"}}

	eng, names, err := in.load(context.Background(), env, []string{"/work/**/*.conf"})
	require.NoError(t, err)

	assert.Equal(t, []string{"app.conf"}, names)
	assert.Equal(t, lang.SchemeLight, eng.DefaultScheme())

	src, ok := eng.Source("head.txt")
	require.True(t, ok)
	assert.Equal(t, "first", src)

	_, ok = eng.Source("sub/part.txt")
	assert.True(t, ok)

	_, ok = eng.Source("extra.txt")
	assert.True(t, ok)

	// The last file registered under a base name wins.
	out, err := eng.Render("app.conf")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", out)
}
