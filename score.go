package mosaic

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle with a floating-point origin and extent.
type Rect struct {
	X, Y, W, H float64
}

// Bounds returns the pixel region covered by r: the origin and extent are
// each rounded down, so a rectangle narrower than one pixel covers nothing.
func (r Rect) Bounds() image.Rectangle {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	return image.Rect(x0, y0, x0+int(math.Floor(r.W)), y0+int(math.Floor(r.H)))
}

// Origin returns the rounded-down top-left pixel of r.
func (r Rect) Origin() image.Point {
	return r.Bounds().Min
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Bounds().Empty()
}

// mustMatch panics unless a and b share dimensions.
func mustMatch(a, b *Pixmap) {
	if a.width != b.width || a.height != b.height {
		panic(fmt.Sprintf("mosaic: dimension mismatch %dx%d vs %dx%d", a.width, a.height, b.width, b.height))
	}
}

// RegionDistance returns the per-pixel Distance between target and canvas
// summed over the pixels of region.Bounds() and divided by the nominal area
// region.W*region.H. Both pixmaps must have the same size and region must
// lie inside them; a region covering no pixels scores 0.
func RegionDistance(target, canvas *Pixmap, region Rect) float64 {
	mustMatch(target, canvas)
	b := region.Bounds()
	if !b.In(target.Bounds()) {
		panic(fmt.Sprintf("mosaic: region %v outside %v", b, target.Bounds()))
	}
	if b.Empty() {
		return 0
	}

	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := y * target.width
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += Distance(target.pix[off+x], canvas.pix[off+x])
		}
	}
	return sum / (region.W * region.H)
}

// MutationDistance returns the mean per-pixel Distance between target and
// the canvas as it would look after compositing patch at origin with Over.
// Neither pixmap is modified.
//
// Patch pixels that land outside the canvas are cropped and the mean is
// taken over the pixels that were sampled. A patch with no pixels on the
// canvas scores 0.
func MutationDistance(target, canvas, patch *Pixmap, origin image.Point) float64 {
	mustMatch(target, canvas)
	if patch == nil {
		return 0
	}
	b := patchBounds(canvas, patch, origin)
	if b.Empty() {
		return 0
	}

	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := y * target.width
		poff := (y-origin.Y)*patch.width - origin.X
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += Distance(target.pix[off+x], Over(canvas.pix[off+x], patch.pix[poff+x]))
		}
	}
	return sum / float64(b.Dx()*b.Dy())
}

// TotalDistance returns the mean per-pixel Distance between target and
// canvas over the whole image.
func TotalDistance(target, canvas *Pixmap) float64 {
	mustMatch(target, canvas)
	var sum float64
	for i := range target.pix {
		sum += Distance(target.pix[i], canvas.pix[i])
	}
	return sum / float64(len(target.pix))
}

// composite draws patch onto canvas at origin with Over, cropping to the
// canvas.
func composite(canvas, patch *Pixmap, origin image.Point) {
	b := patchBounds(canvas, patch, origin)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := y * canvas.width
		poff := (y-origin.Y)*patch.width - origin.X
		for x := b.Min.X; x < b.Max.X; x++ {
			canvas.pix[off+x] = Over(canvas.pix[off+x], patch.pix[poff+x])
		}
	}
}

// patchBounds returns the canvas pixels covered by patch placed at origin.
func patchBounds(canvas, patch *Pixmap, origin image.Point) image.Rectangle {
	r := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(patch.width, patch.height))}
	return r.Intersect(canvas.Bounds())
}
