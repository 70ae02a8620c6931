package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/InioX/matugen-sub000/cli/cmd"
	"github.com/InioX/matugen-sub000/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode of created runtime directories.
const defaultDirMode os.FileMode = 0o700

// dirs are the per-user directories holding the configuration file and
// transient files such as the repl history.
type dirs struct {
	config string
	cache  string
}

// userDirs resolves the runtime directories, preferring the XDG variables in
// env over the platform defaults.
func userDirs(env cmd.Env) dirs {
	return dirs{
		config: userDir(env, "XDG_CONFIG_HOME", os.UserConfigDir, ".config"),
		cache:  userDir(env, "XDG_CACHE_HOME", os.UserCacheDir, ".cache"),
	}
}

func userDir(
	env cmd.Env,
	xdg string,
	platform func() (string, error),
	fallback string,
) string {
	dir := env.Getenv(xdg)

	// Relative XDG paths are invalid and ignored.
	if !filepath.IsAbs(dir) {
		var err error
		if dir, err = platform(); err != nil {
			dir = "."
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, fallback)
			}
		}
	}

	return filepath.Join(dir, pkg.Name)
}

func (d dirs) configFile() string { return filepath.Join(d.config, baseConfig) }

// mkdirAll creates every runtime directory.
func (d dirs) mkdirAll(fs afero.Fs) error {
	for _, dir := range []string{d.config, d.cache} {
		if err := fs.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
