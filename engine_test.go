package mosaic

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
)

// gradient returns a smooth opaque w×h test target.
func gradient(w, h int) *Pixmap {
	pm := NewPixmap(w, h, Black)
	for y := range h {
		for x := range w {
			fx, fy := float64(x)/float64(w-1), float64(y)/float64(h-1)
			pm.SetPixel(x, y, RGB(fx, fy, 1-fx*fy))
		}
	}
	return pm
}

func newTestEngine(t *testing.T, target *Pixmap, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(target, opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestNewEngine(t *testing.T) {
	target := gradient(8, 6)
	e := newTestEngine(t, target)

	if e.Target() != target {
		t.Error("Target() is not the supplied pixmap")
	}
	c := e.Canvas()
	if c.Width() != 8 || c.Height() != 6 {
		t.Fatalf("canvas %dx%d, want 8x6", c.Width(), c.Height())
	}
	if c.GetPixel(3, 3) != Black {
		t.Errorf("canvas starts %v, want opaque black", c.GetPixel(3, 3))
	}
	if e.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0", e.Generation())
	}
}

func TestNewEngine_EmptyTarget(t *testing.T) {
	for _, target := range []*Pixmap{nil, {}} {
		if _, err := NewEngine(target); !errors.Is(err, ErrEmptyTarget) {
			t.Errorf("NewEngine(%v) error = %v, want ErrEmptyTarget", target, err)
		}
	}
}

func TestWithBackground_Opaque(t *testing.T) {
	e := newTestEngine(t, gradient(4, 4), WithBackground(RGBA{0.2, 0.3, 0.4, 0.1}))
	if got := e.Canvas().GetPixel(0, 0); got != (RGBA{0.2, 0.3, 0.4, 1}) {
		t.Errorf("canvas = %v, want background with alpha 1", got)
	}
}

func TestNewEngine_TargetUntouched(t *testing.T) {
	target := gradient(32, 32)
	orig := target.Clone()
	e := newTestEngine(t, target, WithSeed(3))

	for range 5 {
		e.Step()
	}

	for y := range 32 {
		for x := range 32 {
			if target.GetPixel(x, y) != orig.GetPixel(x, y) {
				t.Fatalf("target modified at (%d, %d)", x, y)
			}
		}
	}
}

// =============================================================================
// Consider Tests
// =============================================================================

func TestConsider_FullMatchAccepted(t *testing.T) {
	target := NewPixmap(4, 4, Red)
	e := newTestEngine(t, target)
	full := Rect{0, 0, 4, 4}

	if before := RegionDistance(target, e.Canvas(), full); before <= 0 {
		t.Fatalf("initial distance = %v, want > 0", before)
	}
	if !e.Consider(NewPatch(full, Red)) {
		t.Fatal("opaque red patch over black canvas was rejected")
	}
	if d := RegionDistance(target, e.Canvas(), full); d != 0 {
		t.Errorf("distance after commit = %v, want 0", d)
	}
}

func TestConsider_NoChangeRejected(t *testing.T) {
	target := NewPixmap(4, 4, Red)
	e := newTestEngine(t, target)
	full := Rect{0, 0, 4, 4}
	e.Consider(NewPatch(full, Red))

	tests := []struct {
		name  string
		color RGBA
	}{
		// Compositing red over red leaves the region unchanged: after == before.
		{"same color", RGBA{1, 0, 0, 0.5}},
		{"fully transparent", RGBA{0, 1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e.Consider(NewPatch(Rect{1, 1, 2, 2}, tt.color)) {
				t.Error("patch with no effect was committed")
			}
			if d := RegionDistance(target, e.Canvas(), full); d != 0 {
				t.Errorf("distance = %v, want 0", d)
			}
		})
	}
}

func TestConsider_WorseRejected(t *testing.T) {
	target := NewPixmap(8, 8, White)
	e := newTestEngine(t, target, WithBackground(White))

	if e.Consider(NewPatch(Rect{2, 2, 3, 3}, RGBA{0, 0, 0, 0.5})) {
		t.Error("darkening a matching region was committed")
	}
	if e.Canvas().GetPixel(3, 3) != White {
		t.Error("rejected patch modified the canvas")
	}
}

func TestConsider_FractionalRegionRejected(t *testing.T) {
	target := NewPixmap(10, 10, Red)
	e := newTestEngine(t, target)

	// One covered pixel scored against a 1.9×1.9 area: before ≈ 0.160, the
	// half-red pixel scores ≈ 0.289 on its own.
	if e.Consider(NewPatch(Rect{2, 2, 1.9, 1.9}, RGBA{1, 0, 0, 0.5})) {
		t.Error("patch scoring above the area-normalised region distance was committed")
	}
	if got := e.Canvas().GetPixel(2, 2); got != Black {
		t.Errorf("pixel (2,2) = %v, want black", got)
	}
}

func TestConsider_Degenerate(t *testing.T) {
	e := newTestEngine(t, NewPixmap(4, 4, Red))

	for _, r := range []Rect{{1, 1, 0, 2}, {1, 1, 2, 0}, {0, 0, 0.5, 0.5}} {
		if e.Consider(NewPatch(r, Red)) {
			t.Errorf("degenerate patch %v committed", r)
		}
	}
}

// TestConsider_NeverIncreases commits random patches and checks the region
// distance recomputed after each commit.
func TestConsider_NeverIncreases(t *testing.T) {
	target := noise(40, 30, 11)
	e := newTestEngine(t, target)
	g := NewShapeGenerator(rand.New(rand.NewPCG(5, 5)))

	commits := 0
	for range 3000 {
		p := g.Generate(40, 30)
		before := RegionDistance(target, e.Canvas(), p.Rect)
		snapshot := e.Canvas().Clone()

		if !e.Consider(p) {
			if TotalDistance(snapshot, e.Canvas()) != 0 {
				t.Fatal("rejected patch modified the canvas")
			}
			continue
		}
		commits++
		if after := RegionDistance(target, e.Canvas(), p.Rect); after > before {
			t.Fatalf("commit raised region distance %v -> %v", before, after)
		}
	}
	if commits == 0 {
		t.Fatal("no patch was ever committed")
	}
}

// =============================================================================
// Step Tests
// =============================================================================

func TestStep_Stats(t *testing.T) {
	e := newTestEngine(t, gradient(64, 48), WithSeed(1))

	st := e.Step()
	if st.Generation != 1 || e.Generation() != 1 {
		t.Errorf("generation = %d / %d, want 1", st.Generation, e.Generation())
	}
	if st.Proposed != BatchSize {
		t.Errorf("Proposed = %d, want %d", st.Proposed, BatchSize)
	}
	if st.Committed == 0 {
		t.Error("first generation on a black canvas committed nothing")
	}
	if st.Committed+st.Degenerate > st.Proposed {
		t.Errorf("inconsistent stats %+v", st)
	}
}

func TestStep_AllDegenerate(t *testing.T) {
	// Patches on a 4x4 canvas are narrower than a pixel.
	e := newTestEngine(t, NewPixmap(4, 4, Red), WithSeed(2))

	st := e.Step()
	if st.Degenerate != BatchSize || st.Committed != 0 {
		t.Errorf("stats = %+v, want every candidate degenerate", st)
	}
	if e.Canvas().GetPixel(0, 0) != Black {
		t.Error("canvas changed")
	}
}

func TestStep_MonotonicDistance(t *testing.T) {
	e := newTestEngine(t, gradient(48, 48), WithSeed(99))

	prev := e.Distance()
	for i := range 25 {
		e.Step()
		d := e.Distance()
		if d > prev+1e-12 {
			t.Fatalf("generation %d: distance rose %v -> %v", i+1, prev, d)
		}
		prev = d
	}

	if first := TotalDistance(e.Target(), NewPixmap(48, 48, Black)); prev >= first {
		t.Errorf("distance did not improve: start %v, end %v", first, prev)
	}
}

func TestStep_DeterministicAcrossWorkers(t *testing.T) {
	target := gradient(40, 40)
	seq := newTestEngine(t, target, WithSeed(17), WithWorkers(1))
	par := newTestEngine(t, target, WithSeed(17), WithWorkers(4))

	for range 5 {
		a, b := seq.Step(), par.Step()
		if a != b {
			t.Fatalf("stats differ: %+v vs %+v", a, b)
		}
	}
	if d := TotalDistance(seq.Canvas(), par.Canvas()); d != 0 {
		t.Errorf("canvases differ by %v", d)
	}
}

// =============================================================================
// Advance and Run Tests
// =============================================================================

func TestAdvance(t *testing.T) {
	e := newTestEngine(t, gradient(32, 32), WithSeed(4))

	st, err := e.Advance(context.Background())
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if st.Committed == 0 {
		t.Error("Advance returned a generation without commits")
	}
}

func TestAdvance_Cancelled(t *testing.T) {
	e := newTestEngine(t, gradient(32, 32))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Advance(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Advance() error = %v, want context.Canceled", err)
	}
	if e.Generation() != 0 {
		t.Errorf("ran %d generations after cancellation", e.Generation())
	}
}

func TestRun(t *testing.T) {
	e := newTestEngine(t, gradient(32, 32), WithSeed(5))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var presented []Stats
	err := e.Run(ctx, PresenterFunc(func(canvas *Pixmap, st Stats) error {
		if canvas != e.Canvas() {
			t.Error("presenter got a different canvas")
		}
		presented = append(presented, st)
		if len(presented) == 3 {
			cancel()
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(presented) != 3 {
		t.Fatalf("presented %d frames, want 3", len(presented))
	}
	for i, st := range presented {
		if st.Committed == 0 {
			t.Errorf("frame %d presented a no-op generation", i)
		}
		if i > 0 && st.Generation <= presented[i-1].Generation {
			t.Errorf("generations not increasing: %d then %d", presented[i-1].Generation, st.Generation)
		}
	}
}

func TestRun_PresenterError(t *testing.T) {
	e := newTestEngine(t, gradient(32, 32), WithSeed(6))
	errBoom := errors.New("boom")

	err := e.Run(context.Background(), PresenterFunc(func(*Pixmap, Stats) error {
		return errBoom
	}))
	if !errors.Is(err, errBoom) {
		t.Errorf("Run() error = %v, want %v", err, errBoom)
	}
}

func BenchmarkStep(b *testing.B) {
	e, err := NewEngine(gradient(256, 256), WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step()
	}
}
