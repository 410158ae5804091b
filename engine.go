package mosaic

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/gogpu/mosaic/internal/parallel"
)

// BatchSize is the number of candidate patches proposed per generation.
const BatchSize = 1024

// ErrEmptyTarget is returned by NewEngine for a nil or zero-sized target.
var ErrEmptyTarget = errors.New("mosaic: empty target image")

// Stats describes one generation.
type Stats struct {
	// Generation is the 1-based number of the generation.
	Generation uint64

	// Proposed is the number of candidates generated.
	Proposed int

	// Committed is the number of candidates composited into the canvas.
	Committed int

	// Degenerate is the number of candidates skipped because they covered
	// no pixels.
	Degenerate int
}

// Presenter receives the canvas after every generation that changed it.
// The canvas must not be retained or modified after Present returns.
type Presenter interface {
	Present(canvas *Pixmap, stats Stats) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(canvas *Pixmap, stats Stats) error

// Present calls f(canvas, stats).
func (f PresenterFunc) Present(canvas *Pixmap, stats Stats) error {
	return f(canvas, stats)
}

// Engine approximates a target image by greedily compositing random
// rectangular patches onto a canvas.
//
// Within a generation candidates are evaluated in the order they were
// generated, each against the canvas as left by the commits before it.
// Engine is not safe for concurrent use.
type Engine struct {
	target *Pixmap
	canvas *Pixmap

	seed       uint64
	generation uint64
	batch      []Patch
	pool       *parallel.WorkerPool
}

// NewEngine creates an engine for target with a canvas of the same size
// filled with the background color (opaque black by default).
// The target is read but never modified.
func NewEngine(target *Pixmap, opts ...Option) (*Engine, error) {
	if target == nil || target.width <= 0 || target.height <= 0 {
		return nil, ErrEmptyTarget
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = rand.Uint64()
	}

	e := &Engine{
		target: target,
		canvas: NewPixmap(target.width, target.height, o.background),
		seed:   o.seed,
		batch:  make([]Patch, BatchSize),
	}
	if o.workers != 1 {
		e.pool = parallel.NewWorkerPool(o.workers)
	}

	workers := 1
	if e.pool != nil {
		workers = e.pool.Workers()
	}
	Logger().Info("mosaic: engine created",
		slog.Int("width", target.width),
		slog.Int("height", target.height),
		slog.Uint64("seed", o.seed),
		slog.Int("workers", workers))

	return e, nil
}

// Close releases the generator goroutines. The engine must not be used
// afterwards.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// Target returns the image being approximated.
func (e *Engine) Target() *Pixmap { return e.target }

// Canvas returns the working image. Only Step and Consider modify it.
func (e *Engine) Canvas() *Pixmap { return e.canvas }

// Generation returns the number of generations run so far.
func (e *Engine) Generation() uint64 { return e.generation }

// Distance returns the mean per-pixel distance between canvas and target.
func (e *Engine) Distance() float64 {
	return TotalDistance(e.target, e.canvas)
}

// Step runs one generation: it proposes BatchSize candidates and commits,
// in order, each one whose projected distance is strictly lower than the
// current distance of the region it covers.
func (e *Engine) Step() Stats {
	e.generation++
	e.propose()

	st := Stats{Generation: e.generation, Proposed: len(e.batch)}
	for i := range e.batch {
		p := &e.batch[i]
		if p.Degenerate() {
			st.Degenerate++
			continue
		}
		if e.Consider(*p) {
			st.Committed++
		}
		p.Pixels = nil
	}

	Logger().Debug("mosaic: generation",
		slog.Uint64("generation", st.Generation),
		slog.Int("committed", st.Committed),
		slog.Int("degenerate", st.Degenerate))

	return st
}

// Consider scores p against the current canvas and commits it if its
// projected distance is strictly lower than the current distance of the
// region it covers. It reports whether p was committed. Degenerate patches
// are never committed. p.Rect must lie on the canvas.
func (e *Engine) Consider(p Patch) bool {
	if p.Degenerate() {
		return false
	}
	before := RegionDistance(e.target, e.canvas, p.Rect)
	after := MutationDistance(e.target, e.canvas, p.Pixels, p.Rect.Origin())
	if after >= before {
		return false
	}
	composite(e.canvas, p.Pixels, p.Rect.Origin())
	return true
}

// propose fills e.batch with fresh candidates. Candidate i of generation g
// draws from its own stream, so the batch is independent of scheduling.
func (e *Engine) propose() {
	w, h := e.target.width, e.target.height
	gen := func(i int) {
		stream := e.generation<<32 | uint64(i)
		g := NewShapeGenerator(rand.New(rand.NewPCG(e.seed, stream)))
		e.batch[i] = g.Generate(w, h)
	}

	if e.pool == nil {
		for i := range e.batch {
			gen(i)
		}
		return
	}
	e.pool.For(len(e.batch), gen)
}

// Advance runs generations until one commits at least one patch and returns
// its stats. Generations that change nothing are not reported. The context
// is checked before every generation.
func (e *Engine) Advance(ctx context.Context) (Stats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		if st := e.Step(); st.Committed > 0 {
			return st, nil
		}
	}
}

// Run advances the engine until ctx is done, handing the canvas to p after
// every generation that changed it. It returns nil when ctx ends the run and
// the presenter's error if presentation fails.
func (e *Engine) Run(ctx context.Context, p Presenter) error {
	Logger().Info("mosaic: run started", slog.Uint64("generation", e.generation))
	defer func() {
		Logger().Info("mosaic: run stopped", slog.Uint64("generation", e.generation))
	}()

	for {
		st, err := e.Advance(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := p.Present(e.canvas, st); err != nil {
			return err
		}
	}
}
