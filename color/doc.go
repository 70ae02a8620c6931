// Package color implements the color token consumed by the template engine.
//
// A [Color] is an immutable RGBA value. Every mutation returns a new Color,
// so a value captured in a template context never changes underneath its
// holder.
//
// # Formats
//
// A Color renders to each of the named formats listed in [Formats]:
//
//	hex           #rrggbb
//	hex_stripped  rrggbb
//	rgb           rgb(r, g, b)
//	rgba          rgba(r, g, b, a)
//	hsl           hsl(h, s%, l%)
//	hsla          hsla(h, s%, l%, a)
//	red           0..255
//	green         0..255
//	blue          0..255
//	alpha         0..255
//	hue           0..360
//	saturation    0..100
//	lightness     0..100
//
// # Mutations
//
// Lightness, saturation and hue adjustments are computed in HSL (or HSV for
// [SpaceHSV]) using [github.com/lucasb-eyer/go-colorful]. Amounts are given
// in the same units the formats use: percent for saturation and lightness,
// degrees for hue, and 0..255 for RGB channels.
package color
