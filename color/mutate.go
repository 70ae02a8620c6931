package color

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Space selects the color model used by [Color.Saturate].
type Space int

const (
	SpaceHSL Space = iota
	SpaceHSV
)

// ParseSpace parses "hsl" or "hsv", ignoring case.
func ParseSpace(s string) (Space, bool) {
	switch {
	case strings.EqualFold(s, "hsl"):
		return SpaceHSL, true
	case strings.EqualFold(s, "hsv"):
		return SpaceHSV, true
	}

	return SpaceHSL, false
}

// AutoLightenThreshold is the lightness (percent) below which
// [Color.AutoLighten] lightens instead of darkens.
const AutoLightenThreshold = 50.0

// Lighten adds amount percentage points of HSL lightness.
func (c Color) Lighten(amount float64) Color {
	h, s, l := c.rgb.Clamped().Hsl()

	return c.with(colorful.Hsl(h, s, clampUnit(l+amount/100)))
}

// Darken subtracts amount percentage points of HSL lightness.
func (c Color) Darken(amount float64) Color { return c.Lighten(-amount) }

// AutoLighten lightens dark colors and darkens light ones by amount.
func (c Color) AutoLighten(amount float64) Color {
	if _, _, l := c.HSL(); l < AutoLightenThreshold {
		return c.Lighten(amount)
	}

	return c.Darken(amount)
}

// Saturate adds amount percentage points of saturation in the given space.
func (c Color) Saturate(amount float64, space Space) Color {
	if space == SpaceHSV {
		h, s, v := c.rgb.Clamped().Hsv()

		return c.with(colorful.Hsv(h, clampUnit(s+amount/100), v))
	}

	h, s, l := c.rgb.Clamped().Hsl()

	return c.with(colorful.Hsl(h, clampUnit(s+amount/100), l))
}

// SetRed replaces the red channel with v in 0..255.
func (c Color) SetRed(v float64) Color {
	rgb := c.rgb
	rgb.R = clampUnit(v / 255)

	return c.with(rgb)
}

// SetGreen replaces the green channel with v in 0..255.
func (c Color) SetGreen(v float64) Color {
	rgb := c.rgb
	rgb.G = clampUnit(v / 255)

	return c.with(rgb)
}

// SetBlue replaces the blue channel with v in 0..255.
func (c Color) SetBlue(v float64) Color {
	rgb := c.rgb
	rgb.B = clampUnit(v / 255)

	return c.with(rgb)
}

// SetAlpha replaces the alpha channel with v in 0..1.
func (c Color) SetAlpha(v float64) Color {
	c.alpha = clampUnit(v)

	return c
}

// SetHue replaces the HSL hue with v degrees.
func (c Color) SetHue(v float64) Color {
	_, s, l := c.rgb.Clamped().Hsl()

	return c.with(colorful.Hsl(wrapHue(v), s, l))
}

// SetSaturation replaces the HSL saturation with v percent.
func (c Color) SetSaturation(v float64) Color {
	h, _, l := c.rgb.Clamped().Hsl()

	return c.with(colorful.Hsl(h, clampUnit(v/100), l))
}

// SetLightness replaces the HSL lightness with v percent.
func (c Color) SetLightness(v float64) Color {
	h, s, _ := c.rgb.Clamped().Hsl()

	return c.with(colorful.Hsl(h, s, clampUnit(v/100)))
}

// Invert returns the RGB complement of c. Alpha is unchanged.
func (c Color) Invert() Color {
	rgb := c.rgb.Clamped()

	return c.with(colorful.Color{R: 1 - rgb.R, G: 1 - rgb.G, B: 1 - rgb.B})
}

// Grayscale replaces each channel with the mean of all three.
func (c Color) Grayscale() Color {
	rgb := c.rgb.Clamped()
	mean := (rgb.R + rgb.G + rgb.B) / 3

	return c.with(colorful.Color{R: mean, G: mean, B: mean})
}

func (c Color) with(rgb colorful.Color) Color {
	c.rgb = rgb.Clamped()

	return c
}
