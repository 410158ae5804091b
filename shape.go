package mosaic

import "math/rand/v2"

// SizeRatio is the largest patch extent relative to the canvas, per axis.
const SizeRatio = 0.20

// Patch is a candidate mutation: a solid-color rectangle and where it lands.
type Patch struct {
	// Rect is the placement on the canvas.
	Rect Rect

	// Color is the patch color, replicated across every pixel.
	Color RGBA

	// Pixels holds the patch image, Rect.Bounds() sized. It is nil for
	// degenerate patches.
	Pixels *Pixmap
}

// Degenerate reports whether the patch covers no pixels.
func (p Patch) Degenerate() bool {
	return p.Pixels == nil
}

// ShapeGenerator proposes random rectangular patches.
//
// ShapeGenerator is not safe for concurrent use; give each goroutine its own.
type ShapeGenerator struct {
	rng *rand.Rand
}

// NewShapeGenerator returns a generator drawing from rng.
// A nil rng uses a randomly seeded source.
func NewShapeGenerator(rng *rand.Rand) *ShapeGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ShapeGenerator{rng: rng}
}

// Generate returns a patch for a canvas of the given size. Extents are drawn
// from [0, SizeRatio*dim) and the origin from [0, (1-SizeRatio)*dim) on each
// axis, so the rectangle always fits on the canvas. Each color channel,
// alpha included, is uniform in [0, 1).
func (g *ShapeGenerator) Generate(width, height int) Patch {
	w, h := float64(width), float64(height)
	r := Rect{
		X: g.rng.Float64() * w * (1 - SizeRatio),
		Y: g.rng.Float64() * h * (1 - SizeRatio),
		W: g.rng.Float64() * w * SizeRatio,
		H: g.rng.Float64() * h * SizeRatio,
	}
	c := RGBA{
		R: g.rng.Float64(),
		G: g.rng.Float64(),
		B: g.rng.Float64(),
		A: g.rng.Float64(),
	}
	return NewPatch(r, c)
}

// NewPatch builds a solid patch of color c covering r.
func NewPatch(r Rect, c RGBA) Patch {
	p := Patch{Rect: r, Color: c}
	if b := r.Bounds(); !b.Empty() {
		p.Pixels = NewPixmap(b.Dx(), b.Dy(), c)
	}
	return p
}
