package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/mosaic/display"
)

var windowSize int

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Approximate an image and watch it converge in a window",
	Long: `Open a window that shows the canvas after every generation that changed it.

Controls:
  H   - Hide the status line
  S   - Show the status line
  ESC - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd, args[0])
		if err != nil {
			return err
		}
		defer e.Close()

		return display.Run(cmd.Context(), e, "Mosaic: "+filepath.Base(args[0]), windowSize, windowSize)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&windowSize, "window", 600, "Initial window width and height")
}
