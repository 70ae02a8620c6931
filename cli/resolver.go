package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/InioX/matugen-sub000/log"
)

// resolve returns a [kong.ConfigurationLoader] reading YAML configuration
// files, such as the one written by the init command:
//
//	log-level: debug
//	mode: light
//	include-dir: [~/.config/matugen/templates]
//
// Nested maps are flattened by joining keys with '-', so the following is
// equivalent to the first line above:
//
//	log:
//	  level: debug
//
// Keys may use '_' in place of '-'. Command-line flags override config file
// values. A file that fails to parse is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring malformed configuration",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened configuration file.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, val := range doc {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if m, ok := val.(map[string]any); ok {
			c.flatten(key, m)

			continue
		}

		c[key] = flagValue(val)
	}
}

// flagValue converts a decoded YAML value into the form kong parses. Kong
// requires numbers as strings.
func flagValue(val any) any {
	switch v := val.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[strings.ReplaceAll(flag.Name, "_", "-")]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}
