package mosaic

import (
	"fmt"
	"image"
	"image/color"
)

// Pixmap represents a rectangular buffer of floating-point RGBA pixels.
//
// Pixels are stored row-major. Pixel access outside the buffer is a
// programming error and panics. A Pixmap never changes size after creation.
type Pixmap struct {
	width  int
	height int
	pix    []RGBA
}

// NewPixmap creates a new pixmap with the given dimensions, every pixel set
// to fill. It panics if width or height is not positive.
func NewPixmap(width, height int, fill RGBA) *Pixmap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("mosaic: invalid pixmap dimensions %dx%d", width, height))
	}
	p := &Pixmap{
		width:  width,
		height: height,
		pix:    make([]RGBA, width*height),
	}
	p.Clear(fill)
	return p
}

// FromImage creates a pixmap from an image. Colors are converted to straight
// alpha with channels in [0, 1].
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy(), Transparent)

	for y := 0; y < pm.height; y++ {
		row := pm.pix[y*pm.width : (y+1)*pm.width]
		for x := range row {
			row[x] = FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	return pm
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// index returns the slice offset of (x, y), panicking when out of bounds.
func (p *Pixmap) index(x, y int) int {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		panic(fmt.Sprintf("mosaic: pixel (%d, %d) out of bounds %dx%d", x, y, p.width, p.height))
	}
	return y*p.width + x
}

// GetPixel returns the color of a single pixel.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	return p.pix[p.index(x, y)]
}

// SetPixel sets the color of a single pixel.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	p.pix[p.index(x, y)] = c
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	for i := range p.pix {
		p.pix[i] = c
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	pix := make([]RGBA, len(p.pix))
	copy(pix, p.pix)
	return &Pixmap{width: p.width, height: p.height, pix: pix}
}

// WriteRGBA encodes the pixmap as 8-bit premultiplied RGBA into dst, which
// must hold at least 4*Width()*Height() bytes. The layout matches
// image.RGBA.Pix and is what GPU texture uploads expect.
func (p *Pixmap) WriteRGBA(dst []byte) {
	if len(dst) < len(p.pix)*4 {
		panic(fmt.Sprintf("mosaic: WriteRGBA buffer too small: %d < %d", len(dst), len(p.pix)*4))
	}
	for i, c := range p.pix {
		a := clamp01(c.A)
		dst[i*4+0] = to8(clamp01(c.R) * a)
		dst[i*4+1] = to8(clamp01(c.G) * a)
		dst[i*4+2] = to8(clamp01(c.B) * a)
		dst[i*4+3] = to8(a)
	}
}

// ToImage converts the pixmap to an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i, c := range p.pix {
		n := c.Color()
		img.Pix[i*4+0] = n.R
		img.Pix[i*4+1] = n.G
		img.Pix[i*4+2] = n.B
		img.Pix[i*4+3] = n.A
	}
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Bounds()) {
		return color.NRGBA{}
	}
	return p.pix[y*p.width+x].Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
