// byuview renders BYU and glTF meshes with a software Z-buffer and Phong
// shading, to image files or straight to the terminal.
//
// Usage:
//
//	byuview render [flags] <scene.byu>   render one frame to --out
//	byuview watch  [flags] <scene.byu>   re-render whenever an input changes
//	byuview view   [flags] <scene.byu>   interactive terminal viewer
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/byuview/pkg/render"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "byuview",
		Short: "Software Z-buffer renderer for BYU meshes",
		Long: "byuview projects a triangle mesh through a pinhole camera and draws it as\n" +
			"points, a wireframe, or Z-buffered Phong-shaded faces.",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-frame render statistics")

	root.AddCommand(newRenderCmd(), newWatchCmd(), newViewCmd())
	return root
}

// setupLogging routes the process and render package logs to stderr.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger.With(slog.String("component", "render")))
}
