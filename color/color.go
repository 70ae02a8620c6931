package color

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an immutable RGBA color.
//
// The zero value is opaque-less black; use [New] or [ParseHex] to construct
// meaningful values.
type Color struct {
	rgb   colorful.Color
	alpha float64
}

// White is the opaque color #ffffff.
var White = New(0xff, 0xff, 0xff)

// New returns an opaque color from 8-bit channels.
func New(r, g, b uint8) Color {
	return NewRGBA(r, g, b, 0xff)
}

// NewRGBA returns a color from 8-bit channels including alpha.
func NewRGBA(r, g, b, a uint8) Color {
	return Color{
		rgb: colorful.Color{
			R: float64(r) / 255.0,
			G: float64(g) / 255.0,
			B: float64(b) / 255.0,
		},
		alpha: float64(a) / 255.0,
	}
}

// FromHSL returns an opaque color from a hue in degrees and saturation and
// lightness in percent.
func FromHSL(h, s, l float64) Color {
	return Color{
		rgb:   colorful.Hsl(wrapHue(h), clampUnit(s/100), clampUnit(l/100)),
		alpha: 1,
	}
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is
// optional.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := 1.0

	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, ErrInvalidHex.With(s)
		}

		alpha = float64(a) / 255.0
		hex = hex[:6]
	}

	if len(hex) != 3 && len(hex) != 6 {
		return Color{}, ErrInvalidHex.With(s)
	}

	rgb, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, ErrInvalidHex.With(s)
	}

	return Color{rgb: rgb, alpha: alpha}, nil
}

// MustParseHex is like [ParseHex] but panics on malformed input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}

	return c
}

// RGB255 returns the red, green and blue channels rounded to 8 bits.
func (c Color) RGB255() (r, g, b uint8) {
	return c.rgb.Clamped().RGB255()
}

// Alpha returns the alpha channel in [0,1].
func (c Color) Alpha() float64 { return c.alpha }

// HSL returns the hue in degrees and saturation and lightness in percent.
func (c Color) HSL() (h, s, l float64) {
	h, s, l = c.rgb.Clamped().Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return h, s * 100, l * 100
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return c.rgb.Clamped().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// Equal reports whether two colors render identically at 8 bits per channel.
func (c Color) Equal(o Color) bool {
	r1, g1, b1 := c.RGB255()
	r2, g2, b2 := o.RGB255()

	return r1 == r2 && g1 == g2 && b1 == b2 && c.alpha255() == o.alpha255()
}

func (c Color) alpha255() uint8 {
	return uint8(math.Round(clampUnit(c.alpha) * 255))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	return h
}
