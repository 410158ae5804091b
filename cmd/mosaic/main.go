// Command mosaic approximates an image with semi-transparent rectangles.
//
// Usage:
//
//	mosaic run images/fern.png
//	mosaic headless images/fern.png --generations 500 --seed 7
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
