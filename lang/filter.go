package lang

import (
	"fmt"
	"strconv"

	"github.com/InioX/matugen-sub000/color"
)

// FilterValue is the value threaded through a filter chain. It is either a
// [StringValue] or a [ColorValue].
type FilterValue interface {
	filterValue()
}

// StringValue is text in a filter chain.
type StringValue string

// ColorValue is a color in a filter chain.
type ColorValue struct {
	Color color.Color
}

func (StringValue) filterValue() {}
func (ColorValue) filterValue()  {}

// FilterFunc transforms the value in a filter chain.
//
// Path holds the segments of the access the chain started from, or nil when
// it started from a literal. Args are the evaluated filter arguments.
// An error that implements ErrSpan() Span is reported at that span, and any
// other error at the filter invocation.
type FilterFunc func(
	path []string,
	args []SpannedValue,
	input FilterValue,
	e *Engine,
) (FilterValue, error)

type param uint8

const (
	paramFloat param = iota
	paramString
)

func (p param) String() string {
	switch p {
	case paramFloat:
		return "float"
	case paramString:
		return "string"
	default:
		return "param(" + strconv.Itoa(int(p)) + ")"
	}
}

func (p param) accepts(v Value) bool {
	switch p {
	case paramFloat:
		_, ok := v.Number()

		return ok
	case paramString:
		_, ok := v.Ident()

		return ok
	default:
		return false
	}
}

// expectArgs checks args positionally against want. Extra arguments are
// ignored.
func expectArgs(args []SpannedValue, want ...param) error {
	if len(args) < len(want) {
		return ErrNotEnoughArguments.Wrap(errString(
			"expected " + strconv.Itoa(len(want)) + ", found " + strconv.Itoa(len(args)),
		))
	}

	for i, p := range want {
		if !p.accepts(args[i].Value) {
			return &ArgumentTypeError{
				Span:     args[i].Span,
				Index:    i,
				Expected: p.String(),
				Actual:   args[i].Kind().String(),
			}
		}
	}

	return nil
}

func floatArg(a SpannedValue) float64 {
	f, _ := a.Number()

	return f
}

func stringArg(a SpannedValue) string {
	s, _ := a.Ident()

	return s
}

// pathFormat returns the trailing segment of path when it names a format,
// and hex otherwise.
func pathFormat(path []string) string {
	if n := len(path); n > 0 && color.IsFormat(path[n-1]) {
		return path[n-1]
	}

	return color.FormatHex
}

// formatFilterValue renders v as text, using the format named by path for
// colors.
func formatFilterValue(path []string, v FilterValue) string {
	switch v := v.(type) {
	case StringValue:
		return string(v)
	case ColorValue:
		s, _ := v.Color.Format(pathFormat(path))

		return s
	default:
		panic("lang: unknown FilterValue " + strconv.Quote(typeName(v)))
	}
}

func filterValueToValue(v FilterValue) Value {
	switch v := v.(type) {
	case StringValue:
		return IdentValue(string(v))
	case ColorValue:
		return ColorOf(v.Color)
	default:
		panic("lang: unknown FilterValue " + strconv.Quote(typeName(v)))
	}
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
