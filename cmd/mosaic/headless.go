package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/mosaic/internal/cli"
)

var (
	generations uint64
	reportEvery uint64
)

// headlessCmd represents the headless command
var headlessCmd = &cobra.Command{
	Use:   "headless <image>",
	Short: "Approximate an image without a window and log progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd, args[0])
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		r := cli.NewReporter(e, reportEvery, generations, cancel, slog.Default())
		if err := e.Run(ctx, r); err != nil {
			return err
		}
		r.Summary()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headlessCmd)

	headlessCmd.Flags().Uint64VarP(&generations, "generations", "n", 1000, "Stop after this many generations (0 = until interrupted)")
	headlessCmd.Flags().Uint64Var(&reportEvery, "report", 100, "Log progress every N generations")
}
