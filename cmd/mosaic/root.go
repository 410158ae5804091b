package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/mosaic"
	"github.com/gogpu/mosaic/internal/cli"
	mimage "github.com/gogpu/mosaic/internal/image"
)

var (
	seed       uint64
	workers    int
	maxSize    int
	background string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Approximate an image with random semi-transparent rectangles",
	Long: `mosaic repeatedly proposes batches of random rectangles and keeps each one
that brings the canvas closer to the target image in the area it covers.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		mosaic.SetLogger(logger)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Uint64Var(&seed, "seed", 0, "Seed for reproducible runs (random when unset)")
	pf.IntVarP(&workers, "workers", "j", 1, "Goroutines generating candidates (0 = GOMAXPROCS)")
	pf.IntVar(&maxSize, "max-size", 256, "Downsample the target so neither side exceeds this (0 = keep)")
	pf.StringVar(&background, "background", "#000000", "Initial canvas color as hex")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log every generation")
}

// newEngine loads the target at path and builds an engine from the
// persistent flags.
func newEngine(cmd *cobra.Command, path string) (*mosaic.Engine, error) {
	img, format, err := mimage.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}
	src := img.Bounds()
	img = mimage.Fit(img, maxSize)
	dst := img.Bounds()
	slog.Info("target loaded",
		"path", path,
		"format", format,
		"source", fmt.Sprintf("%dx%d", src.Dx(), src.Dy()),
		"size", fmt.Sprintf("%dx%d", dst.Dx(), dst.Dy()))

	bg, err := cli.ParseBackground(background)
	if err != nil {
		return nil, err
	}

	opts := []mosaic.Option{
		mosaic.WithBackground(bg),
		mosaic.WithWorkers(workers),
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, mosaic.WithSeed(seed))
	}
	return mosaic.NewEngine(mosaic.FromImage(img), opts...)
}
