package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColors_JSON(t *testing.T) {
	env, stdout, _ := testEnv(t, map[string]string{"/scheme.yaml": schemeYAML}, nil)

	c := Colors{Scheme: "/scheme.yaml", Format: "hex", Encoding: "json", Indent: 2}
	require.NoError(t, c.Run(WithEnv(context.Background(), env)))

	want := `{
  "colors": {
    "primary": {
      "dark": "#d0bcff",
      "light": "#6750a4"
    },
    "surface": {
      "dark": "#141218",
      "light": "#ffffff"
    }
  }
}
`
	assert.Equal(t, want, stdout.String())
}

func TestColors_Format(t *testing.T) {
	env, stdout, _ := testEnv(t, map[string]string{"/scheme.yaml": schemeYAML}, nil)

	c := Colors{Scheme: "/scheme.yaml", Format: "rgb", Encoding: "json", Indent: 0}
	require.NoError(t, c.Run(WithEnv(context.Background(), env)))

	assert.Contains(t, stdout.String(), `"light": "rgb(103, 80, 164)"`)
}

func TestColors_RoundTrip(t *testing.T) {
	for _, enc := range []string{"yaml", "toml", "json"} {
		t.Run(enc, func(t *testing.T) {
			env, stdout, _ := testEnv(t, map[string]string{"/scheme.yaml": schemeYAML}, nil)

			c := Colors{Scheme: "/scheme.yaml", Format: "hex", Encoding: enc, Indent: 2}
			require.NoError(t, c.Run(WithEnv(context.Background(), env)))

			path := "/out." + enc
			env, _, _ = testEnv(t, map[string]string{path: stdout.String()}, nil)

			s, err := loadSchemes(env.FS, path)
			require.NoError(t, err)

			assert.Equal(t, "#6750a4", hex(t, s.Light, "primary"))
			assert.Equal(t, "#141218", hex(t, s.Dark, "surface"))
		})
	}
}

func TestColors_Errors(t *testing.T) {
	env, _, _ := testEnv(t, map[string]string{"/scheme.yaml": schemeYAML}, nil)
	ctx := WithEnv(context.Background(), env)

	c := Colors{Scheme: "/scheme.yaml", Format: "cmyk", Encoding: "json"}
	assert.ErrorIs(t, c.Run(ctx), ErrUnknownColor)

	c = Colors{Scheme: "/nope.yaml", Format: "hex", Encoding: "json"}
	assert.ErrorIs(t, c.Run(ctx), ErrSchemeLoad)
}
