package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/InioX/matugen-sub000/cli/cmd"
)

func TestUserDirs(t *testing.T) {
	vars := map[string]string{
		"XDG_CONFIG_HOME": "/xdg/config",
		"XDG_CACHE_HOME":  "relative/cache",
	}
	env := cmd.Env{Getenv: func(k string) string { return vars[k] }}

	d := userDirs(env)

	if want := "/xdg/config/matugen"; d.config != want {
		t.Errorf("config = %q, want %q", d.config, want)
	}

	if want := "/xdg/config/matugen/config.yaml"; d.configFile() != want {
		t.Errorf("configFile = %q, want %q", d.configFile(), want)
	}

	if !filepath.IsAbs(d.cache) && d.cache != filepath.Join(".", "matugen") {
		t.Errorf("cache = %q, expected platform default", d.cache)
	}

	fs := afero.NewMemMapFs()
	if err := d.mkdirAll(fs); err != nil {
		t.Fatalf("mkdirAll: %v", err)
	}

	for _, dir := range []string{d.config, d.cache} {
		if ok, _ := afero.DirExists(fs, dir); !ok {
			t.Errorf("%s not created", dir)
		}
	}
}
