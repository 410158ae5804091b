// Package display presents an evolving mosaic canvas in a desktop window.
//
// Window is an ebiten.Game. Each Update advances the engine by one
// completed generation and each Draw shows the latest canvas scaled to fill
// the window. Closing the window, pressing Escape, or cancelling the context
// ends the run.
package display

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // basicfont faces need the v1 text API
	"golang.org/x/image/font/basicfont"

	"github.com/gogpu/mosaic"
)

// Stepper is the part of mosaic.Engine the window drives.
type Stepper interface {
	Advance(ctx context.Context) (mosaic.Stats, error)
	Canvas() *mosaic.Pixmap
	Distance() float64
}

var background = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}

// Window renders a canvas as it converges.
type Window struct {
	ctx     context.Context
	engine  Stepper
	texture *ebiten.Image
	pixels  []byte
	dirty   bool

	stats     mosaic.Stats
	commits   int
	distance  float64
	showStats bool
}

// New returns a window driving engine until ctx is done.
func New(ctx context.Context, engine Stepper) *Window {
	c := engine.Canvas()
	return &Window{
		ctx:       ctx,
		engine:    engine,
		texture:   ebiten.NewImage(c.Width(), c.Height()),
		pixels:    make([]byte, 4*c.Width()*c.Height()),
		showStats: true,
	}
}

// Update advances the engine by one generation that changed the canvas.
func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if ebiten.IsKeyPressed(ebiten.KeyH) {
		w.showStats = false
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		w.showStats = true
	}

	st, err := w.engine.Advance(w.ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ebiten.Termination
		}
		return fmt.Errorf("display: advance: %w", err)
	}

	w.stats = st
	w.commits += st.Committed
	w.dirty = true
	return nil
}

// Draw uploads the canvas if it changed and draws it stretched over screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.dirty {
		w.engine.Canvas().WriteRGBA(w.pixels)
		w.texture.WritePixels(w.pixels)
		w.distance = w.engine.Distance()
		w.dirty = false
	}

	screen.Fill(background)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	tw, th := w.texture.Bounds().Dx(), w.texture.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(tw), float64(sh)/float64(th))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(w.texture, op)

	if w.showStats {
		line := fmt.Sprintf("gen %d  commits %d  distance %.4f  fps %.0f",
			w.stats.Generation, w.commits, w.distance, ebiten.ActualFPS())
		text.Draw(screen, line, basicfont.Face7x13, 6, 16, color.White)
	}
}

// Layout makes the logical screen match the window, so the canvas is
// scaled to fill whatever size the window has.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a window of the given size and blocks until it is closed.
func Run(ctx context.Context, engine Stepper, title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	mosaic.Logger().Info("display: window opened", "width", width, "height", height)
	if err := ebiten.RunGame(New(ctx, engine)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
