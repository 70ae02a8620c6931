package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/InioX/matugen-sub000/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := EnvFrom(ctx)

	confPath, ok := kongVar(ctx, ConfigIdentifier)
	if !ok {
		panic("internal error: config path undefined")
	}

	exists, err := afero.Exists(env.FS, confPath)
	if err == nil && exists && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		configValues(kongContextFrom(ctx)),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = env.FS.MkdirAll(filepath.Dir(confPath), defaultDirMode)
	if err == nil {
		err = afero.WriteFile(env.FS, confPath, data, defaultFileMode)
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configIgnore lists flag name prefixes never written to the configuration.
var configIgnore = []string{"help", "pprof", "version"}

// configValues returns the global flag values keyed by flag name. Unset
// values are omitted and numbers are written as strings, the form kong
// resolvers expect.
func configValues(ktx *kong.Context) map[string]any {
	values := map[string]any{}

	if ktx == nil || ktx.Model == nil {
		return values
	}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(configIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values[flag.Name] = v
		}
	}

	return values
}

func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	default:
		if s := fmt.Sprint(v); s != "" {
			return s
		}

		return nil
	}
}
