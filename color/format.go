package color

import (
	"math"
	"slices"
	"strconv"
)

// Format names, in the order they are enumerated by [Formats].
const (
	FormatHex         = "hex"
	FormatHexStripped = "hex_stripped"
	FormatRGB         = "rgb"
	FormatRGBA        = "rgba"
	FormatHSL         = "hsl"
	FormatHSLA        = "hsla"
	FormatRed         = "red"
	FormatGreen       = "green"
	FormatBlue        = "blue"
	FormatAlpha       = "alpha"
	FormatHue         = "hue"
	FormatSaturation  = "saturation"
	FormatLightness   = "lightness"
)

var formats = []string{
	FormatHex,
	FormatHexStripped,
	FormatRGB,
	FormatRGBA,
	FormatHSL,
	FormatHSLA,
	FormatRed,
	FormatGreen,
	FormatBlue,
	FormatAlpha,
	FormatHue,
	FormatSaturation,
	FormatLightness,
}

// Formats returns the names of all supported formats.
func Formats() []string { return slices.Clone(formats) }

// IsFormat reports whether name is a supported format.
func IsFormat(name string) bool { return slices.Contains(formats, name) }

// Format renders c using the named format.
// It returns false if name is not a supported format.
func (c Color) Format(name string) (string, bool) {
	r, g, b := c.RGB255()

	switch name {
	case FormatHex:
		return c.Hex(), true

	case FormatHexStripped:
		return c.Hex()[1:], true

	case FormatRGB:
		return "rgb(" + itoa(r) + ", " + itoa(g) + ", " + itoa(b) + ")", true

	case FormatRGBA:
		return "rgba(" + itoa(r) + ", " + itoa(g) + ", " + itoa(b) + ", " +
			ftoa(c.alpha) + ")", true

	case FormatHSL:
		h, s, l := c.HSL()

		return "hsl(" + rtoa(h) + ", " + rtoa(s) + "%, " + rtoa(l) + "%)", true

	case FormatHSLA:
		h, s, l := c.HSL()

		return "hsla(" + rtoa(h) + ", " + rtoa(s) + "%, " + rtoa(l) + "%, " +
			ftoa(c.alpha) + ")", true

	case FormatRed:
		return itoa(r), true

	case FormatGreen:
		return itoa(g), true

	case FormatBlue:
		return itoa(b), true

	case FormatAlpha:
		return itoa(c.alpha255()), true

	case FormatHue:
		h, _, _ := c.HSL()

		return ftoa(h), true

	case FormatSaturation:
		_, s, _ := c.HSL()

		return ftoa(s), true

	case FormatLightness:
		_, _, l := c.HSL()

		return ftoa(l), true
	}

	return "", false
}

// All renders c in every supported format, calling yield in [Formats]
// order until yield returns false.
func (c Color) All(yield func(name, value string) bool) {
	for _, name := range formats {
		value, _ := c.Format(name)
		if !yield(name, value) {
			return
		}
	}
}

func itoa(v uint8) string { return strconv.Itoa(int(v)) }

// rtoa rounds to an integer.
func rtoa(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// ftoa rounds to two decimals and drops trailing zeros.
func ftoa(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
