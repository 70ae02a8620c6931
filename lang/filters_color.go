package lang

import (
	"github.com/InioX/matugen-sub000/color"
)

// colorFilter adapts a color mutation into a [FilterFunc]. The input must
// already be a color.
func colorFilter(
	fn func(c color.Color, args []SpannedValue) (color.Color, error),
	want ...param,
) FilterFunc {
	return func(_ []string, args []SpannedValue, in FilterValue, _ *Engine) (FilterValue, error) {
		switch in := in.(type) {
		case StringValue:
			return nil, ErrColorFilterOnString
		case ColorValue:
			if err := expectArgs(args, want...); err != nil {
				return nil, err
			}

			c, err := fn(in.Color, args)
			if err != nil {
				return nil, err
			}

			return ColorValue{Color: c}, nil
		default:
			return nil, ErrColorFilterOnString
		}
	}
}

// amount adapts a mutation taking one float argument.
func amount(fn func(color.Color, float64) color.Color) FilterFunc {
	return colorFilter(func(c color.Color, args []SpannedValue) (color.Color, error) {
		return fn(c, floatArg(args[0])), nil
	}, paramFloat)
}

func unary(fn func(color.Color) color.Color) FilterFunc {
	return colorFilter(func(c color.Color, _ []SpannedValue) (color.Color, error) {
		return fn(c), nil
	})
}

var spaces = []string{"hsl", "hsv"}

// saturate takes an amount and an optional color space, hsl by default.
func saturate(c color.Color, args []SpannedValue) (color.Color, error) {
	space := color.SpaceHSL

	if len(args) > 1 {
		name, ok := args[1].Ident()
		if !ok {
			return c, &ArgumentTypeError{
				Span:     args[1].Span,
				Index:    1,
				Expected: paramString.String(),
				Actual:   args[1].Kind().String(),
			}
		}

		if space, ok = color.ParseSpace(name); !ok {
			return c, &UnexpectedValueError{
				Span:     args[1].Span,
				Expected: spaces,
				Actual:   name,
			}
		}
	}

	return c.Saturate(floatArg(args[0]), space), nil
}

func colorFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"lighten":        amount(color.Color.Lighten),
		"darken":         amount(color.Color.Darken),
		"auto_lighten":   amount(color.Color.AutoLighten),
		"auto_lightness": amount(color.Color.AutoLighten),
		"saturate":       colorFilter(saturate, paramFloat),
		"set_red":        amount(color.Color.SetRed),
		"set_green":      amount(color.Color.SetGreen),
		"set_blue":       amount(color.Color.SetBlue),
		"set_alpha":      amount(color.Color.SetAlpha),
		"set_hue":        amount(color.Color.SetHue),
		"set_saturation": amount(color.Color.SetSaturation),
		"set_lightness":  amount(color.Color.SetLightness),
		"invert":         unary(color.Color.Invert),
		"grayscale":      unary(color.Color.Grayscale),
	}
}
