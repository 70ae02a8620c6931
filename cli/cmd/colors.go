package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/InioX/matugen-sub000/color"
	"github.com/InioX/matugen-sub000/lang"
)

// Colors prints every role of a scheme file in one color format.
//
// The output uses the per-role layout accepted by --scheme, so hex output can
// be fed back as a scheme.
type Colors struct {
	Scheme   string `help:"Color scheme file (YAML, JSON or TOML)."   required:"" short:"s"`
	Format   string `help:"Color format of each value."               default:"hex"               short:"f"`
	Encoding string `help:"Output encoding."                          default:"json" enum:"json,yaml,toml" short:"e"`
	Indent   int    `help:"Indent width for JSON and YAML output."    default:"2"                 short:"i"`
}

// Run executes the colors command.
func (c *Colors) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := EnvFrom(ctx)

	if !color.IsFormat(c.Format) {
		return ErrUnknownColor.With(slog.String("format", c.Format))
	}

	schemes, err := loadSchemes(env.FS, c.Scheme)
	if err != nil {
		return err
	}

	doc := map[string]map[string]map[string]string{
		"colors": table(schemes, c.Format),
	}

	data, err := c.marshal(doc)
	if err != nil {
		return ErrMarshal.
			With(slog.String("encoding", c.Encoding)).
			Wrap(err)
	}

	_, err = env.Stdout.Write(data)

	return err
}

func (c *Colors) marshal(doc any) ([]byte, error) {
	switch c.Encoding {
	case "yaml":
		return yaml.MarshalWithOptions(doc, yaml.Indent(max(c.Indent, 1)))

	case "toml":
		return toml.Marshal(doc)

	default:
		data, err := json.MarshalIndent(doc, "", strings.Repeat(" ", max(c.Indent, 0)))
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	}
}

// table maps each role to its rendering in every scheme that defines it.
func table(s lang.Schemes, format string) map[string]map[string]string {
	out := map[string]map[string]string{}

	put := func(scheme lang.Scheme, roles map[string]color.Color) {
		for role, c := range roles {
			v, _ := c.Format(format)

			if out[role] == nil {
				out[role] = map[string]string{}
			}

			out[role][string(scheme)] = v
		}
	}

	put(lang.SchemeLight, s.Light)
	put(lang.SchemeDark, s.Dark)

	return out
}
