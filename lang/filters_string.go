package lang

import (
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stringFilter adapts a text transform into a [FilterFunc]. A color input is
// first formatted using the trailing segment of the access path.
func stringFilter(
	fn func(s string, args []SpannedValue) string,
	want ...param,
) FilterFunc {
	return func(path []string, args []SpannedValue, in FilterValue, _ *Engine) (FilterValue, error) {
		if err := expectArgs(args, want...); err != nil {
			return nil, err
		}

		return StringValue(fn(formatFilterValue(path, in), args)), nil
	}
}

func transform(fn func(string) string) FilterFunc {
	return stringFilter(func(s string, _ []SpannedValue) string { return fn(s) })
}

func replace(s string, args []SpannedValue) string {
	return strings.ReplaceAll(s, stringArg(args[0]), stringArg(args[1]))
}

func stringFilters() map[string]FilterFunc {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	return map[string]FilterFunc{
		"to_upper":    transform(upper.String),
		"to_lower":    transform(lower.String),
		"lower_case":  transform(lower.String),
		"replace":     stringFilter(replace, paramString, paramString),
		"camel_case":  transform(strcase.ToLowerCamel),
		"pascal_case": transform(strcase.ToCamel),
		"snake_case":  transform(strcase.ToSnake),
		"kebab_case":  transform(strcase.ToKebab),
	}
}

// builtinFilters returns a fresh table of every built-in filter.
func builtinFilters() map[string]FilterFunc {
	m := colorFilters()

	for name, fn := range stringFilters() {
		m[name] = fn
	}

	return m
}
