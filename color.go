package mosaic

import (
	"image/color"
	"math"
)

// sqrt3 is the length of the diagonal of the unit RGB cube, the largest
// possible distance between two in-range colors.
const sqrt3 = 1.7320508075688772

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// RGBA implements the color.Color interface.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.Color().RGBA()
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Distance returns the Euclidean distance between the RGB components of a
// and b, normalized by √3 so that in-range colors yield a value in [0, 1].
// Alpha does not participate. Values outside [0, 1] are not clamped.
func Distance(a, b RGBA) float64 {
	dr := a.R - b.R
	dg := a.G - b.G
	db := a.B - b.B
	return math.Sqrt(dr*dr+dg*dg+db*db) / sqrt3
}

// Over composites applied on top of base using the source-over operator on
// straight (non-premultiplied) colors:
//
//	C = min(Cb*(1-Aa) + Ca*Aa, 1)
//	A = min(Ab + Aa, 1)
func Over(base, applied RGBA) RGBA {
	inv := 1 - applied.A
	return RGBA{
		R: math.Min(base.R*inv+applied.R*applied.A, 1),
		G: math.Min(base.G*inv+applied.G*applied.A, 1),
		B: math.Min(base.B*inv+applied.B*applied.A, 1),
		A: math.Min(base.A+applied.A, 1),
	}
}

// to8 converts a [0, 1] channel to 8 bits, clamping out-of-range values.
func to8(x float64) uint8 {
	return uint8(clamp255(x*255 + 0.5))
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = RGBA{}
)
