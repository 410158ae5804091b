package mosaic

// Option configures an Engine during creation.
//
// Example:
//
//	// Reproducible run on a white canvas using four generator goroutines
//	e, err := mosaic.NewEngine(target,
//	    mosaic.WithSeed(42),
//	    mosaic.WithBackground(mosaic.White),
//	    mosaic.WithWorkers(4))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	seed       uint64
	seeded     bool
	background RGBA
	workers    int
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		background: Black,
		workers:    1, // candidate generation on the calling goroutine
	}
}

// WithSeed makes candidate generation deterministic. Two engines built from
// the same target and seed produce the same canvas generation by generation,
// regardless of the worker count.
func WithSeed(seed uint64) Option {
	return func(o *engineOptions) {
		o.seed = seed
		o.seeded = true
	}
}

// WithBackground sets the initial canvas color. Alpha is forced to 1: the
// canvas always starts fully opaque.
func WithBackground(c RGBA) Option {
	return func(o *engineOptions) {
		c.A = 1
		o.background = c
	}
}

// WithWorkers sets the number of goroutines used to generate candidates.
// Values below 1 use GOMAXPROCS. Evaluation and commits always run on the
// goroutine calling Step.
func WithWorkers(n int) Option {
	return func(o *engineOptions) {
		o.workers = n
	}
}
