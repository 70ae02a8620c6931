package cmd

import (
	"context"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/InioX/matugen-sub000/color"
	"github.com/InioX/matugen-sub000/lang"
	"github.com/InioX/matugen-sub000/log"
	"github.com/InioX/matugen-sub000/pkg"
)

// templatePathVar is the environment variable, without the project prefix,
// listing extra include directories.
const templatePathVar = "TEMPLATE_PATH"

// Inputs are the flags shared by every command that builds an engine.
type Inputs struct {
	Scheme      string   `help:"Color scheme file (YAML, JSON or TOML)."                   required:"" short:"s"`
	Mode        string   `help:"Scheme used by default color paths."                 default:"dark"    enum:"light,dark" short:"m"`
	Context     []string `help:"Context file merged into the template context (repeatable)."                                    short:"c"`
	IncludeDir  []string `help:"Directory searched for included templates (repeatable)."                                        short:"I" name:"include-dir"`
	ExprDelims  []string `help:"Expression delimiters."                                    default:"{{,}}"                     sep:","`
	BlockDelims []string `help:"Block delimiters."                                         default:"<*,*>"                     sep:","`
}

// syntax returns the delimiters selected by the flags.
func (in *Inputs) syntax() (lang.Syntax, error) {
	syn := lang.DefaultSyntax

	if len(in.ExprDelims) > 0 {
		if len(in.ExprDelims) != 2 {
			return syn, ErrSyntax.With(slog.Any("expr-delims", in.ExprDelims))
		}

		syn.ExprLeft, syn.ExprRight = in.ExprDelims[0], in.ExprDelims[1]
	}

	if len(in.BlockDelims) > 0 {
		if len(in.BlockDelims) != 2 {
			return syn, ErrSyntax.With(slog.Any("block-delims", in.BlockDelims))
		}

		syn.BlockLeft, syn.BlockRight = in.BlockDelims[0], in.BlockDelims[1]
	}

	if err := syn.Validate(); err != nil {
		return syn, ErrSyntax.Wrap(err)
	}

	return syn, nil
}

// engine builds an Engine from the scheme, context and include flags.
func (in *Inputs) engine(ctx context.Context, env Env) (*lang.Engine, error) {
	syn, err := in.syntax()
	if err != nil {
		return nil, err
	}

	schemes, err := loadSchemes(env.FS, in.Scheme)
	if err != nil {
		return nil, err
	}

	mode, ok := lang.ParseScheme(in.Mode)
	if !ok || mode == lang.SchemeDefault {
		mode = lang.SchemeDark
	}

	eng := lang.New(schemes,
		lang.WithSyntax(syn),
		lang.WithDefaultScheme(mode),
		lang.WithLogger(log.Default()),
	)

	for _, path := range in.Context {
		if err := loadContext(env.FS, path, eng); err != nil {
			return nil, err
		}
	}

	for _, dir := range searchPath(env, in.IncludeDir) {
		if err := registerDir(ctx, env.FS, dir, eng); err != nil {
			return nil, err
		}
	}

	return eng, nil
}

// decode unmarshals a YAML, JSON or TOML document into a generic map. JSON is
// read by the YAML decoder.
func decode(path string, data []byte) (map[string]any, error) {
	var doc map[string]any

	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}

	return doc, err
}

// loadSchemes reads a scheme file. Two layouts are accepted, optionally
// nested under a top-level "colors" key:
//
//	light: {primary: "#6750a4", ...}
//	dark:  {primary: "#d0bcff", ...}
//
// and the per-role layout written by color exporters:
//
//	primary: {light: "#6750a4", dark: "#d0bcff"}
//
// A color is either a hex string or a map with a "color" or "hex" entry.
func loadSchemes(fs afero.Fs, path string) (lang.Schemes, error) {
	schemes := lang.Schemes{
		Light: map[string]color.Color{},
		Dark:  map[string]color.Color{},
	}

	fail := func(err error) (lang.Schemes, error) {
		return lang.Schemes{}, ErrSchemeLoad.
			With(slog.String("file", path)).
			Wrap(err)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fail(err)
	}

	doc, err := decode(path, data)
	if err != nil {
		return fail(err)
	}

	if nested, ok := doc["colors"].(map[string]any); ok {
		doc = nested
	}

	add := func(dst map[string]color.Color, role string, v any) error {
		s, ok := hexOf(v)
		if !ok {
			return NewError("color is not a string").
				With(slog.String("role", role))
		}

		c, err := color.ParseHex(s)
		if err != nil {
			return err
		}

		dst[role] = c

		return nil
	}

	light, lok := doc[string(lang.SchemeLight)].(map[string]any)
	dark, dok := doc[string(lang.SchemeDark)].(map[string]any)

	if lok || dok {
		for role, v := range light {
			if err := add(schemes.Light, role, v); err != nil {
				return fail(err)
			}
		}

		for role, v := range dark {
			if err := add(schemes.Dark, role, v); err != nil {
				return fail(err)
			}
		}

		return schemes, nil
	}

	for role, v := range doc {
		m, ok := v.(map[string]any)
		if !ok {
			return fail(NewError("role has no light or dark color").
				With(slog.String("role", role)))
		}

		if lv, ok := m[string(lang.SchemeLight)]; ok {
			if err := add(schemes.Light, role, lv); err != nil {
				return fail(err)
			}
		}

		if dv, ok := m[string(lang.SchemeDark)]; ok {
			if err := add(schemes.Dark, role, dv); err != nil {
				return fail(err)
			}
		}
	}

	return schemes, nil
}

func hexOf(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true

	case map[string]any:
		for _, k := range []string{"color", "hex"} {
			if s, ok := v[k].(string); ok {
				return s, true
			}
		}
	}

	return "", false
}

// loadContext merges one context file into eng.
func loadContext(fs afero.Fs, path string, eng *lang.Engine) error {
	fail := func(err error) error {
		return ErrContextLoad.
			With(slog.String("file", path)).
			Wrap(err)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fail(err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fail(err)
		}

		err = eng.AddContext(doc)
	} else {
		err = eng.AddContext(data)
	}

	if err != nil {
		return fail(err)
	}

	return nil
}

// searchPath returns the include directories: the --include-dir values
// followed by the entries of $MATUGEN_TEMPLATE_PATH, keeping only existing
// directories, each once.
func searchPath(env Env, dirs []string) []string {
	isDir := func(p string) bool {
		ok, err := afero.DirExists(env.FS, p)

		return err == nil && ok
	}

	joined := mung.Make(
		mung.WithSubjectItems(env.Getenv(pkg.EnvPrefix()+templatePathVar)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var out []string

	for _, p := range filepath.SplitList(joined) {
		if p == "" || !isDir(p) || slices.Contains(out, p) {
			continue
		}

		out = append(out, p)
	}

	return out
}

// globFS returns base as an io/fs filesystem for doublestar.
func globFS(fs afero.Fs, base string) iofs.FS {
	if base == "." {
		return afero.NewIOFS(fs)
	}

	return afero.NewIOFS(afero.NewBasePathFs(fs, base))
}

// registerDir adds every file below dir to eng, named by its path relative
// to dir. Names already registered by an earlier directory are kept.
func registerDir(
	ctx context.Context,
	fs afero.Fs,
	dir string,
	eng *lang.Engine,
) error {
	names, err := doublestar.Glob(globFS(fs, dir), "**",
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		return ErrNoTemplates.With(slog.String("dir", dir)).Wrap(err)
	}

	for _, name := range names {
		if _, ok := eng.Source(name); ok {
			continue
		}

		if err := addFile(fs, filepath.Join(dir, name), name, eng); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "include directory registered",
		slog.String("dir", dir),
		slog.Int("templates", len(names)),
	)

	return nil
}

// addFile registers the file at path under name. A template that fails to
// parse is still registered, and its error surfaces when it is rendered.
func addFile(fs afero.Fs, path, name string, eng *lang.Engine) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return ErrNoTemplates.With(slog.String("file", path)).Wrap(err)
	}

	_ = eng.AddTemplate(name, string(data))

	return nil
}

// expand resolves template arguments, each a path or a doublestar pattern,
// into file paths in argument order without repeats.
func expand(fs afero.Fs, args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))

		matches, err := doublestar.Glob(globFS(fs, base), pattern,
			doublestar.WithFilesOnly(),
		)
		if err != nil {
			return nil, ErrNoTemplates.With(slog.String("pattern", arg)).Wrap(err)
		}

		if len(matches) == 0 {
			return nil, ErrNoTemplates.With(slog.String("pattern", arg))
		}

		slices.Sort(matches)

		for _, m := range matches {
			p := filepath.Join(base, m)
			if !slices.Contains(files, p) {
				files = append(files, p)
			}
		}
	}

	if len(files) == 0 {
		return nil, ErrNoTemplates
	}

	return files, nil
}

// load builds the engine and registers the templates named by args under
// their base names. It returns the names to render in order.
func (in *Inputs) load(
	ctx context.Context,
	env Env,
	args []string,
) (*lang.Engine, []string, error) {
	eng, err := in.engine(ctx, env)
	if err != nil {
		return nil, nil, err
	}

	files, err := expand(env.FS, args)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(files))

	for _, f := range files {
		name := filepath.Base(f)
		if err := addFile(env.FS, f, name, eng); err != nil {
			return nil, nil, err
		}

		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return eng, names, nil
}
