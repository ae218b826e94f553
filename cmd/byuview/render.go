package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/taigrr/byuview/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		flags renderFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render one frame to an image file",
		Long: "Render a .byu/.txt scene or a .glb/.gltf mesh to a PNG, BMP or TIFF image,\n" +
			"chosen by the extension of --out.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := renderToFile(&flags, args[0], out)
			return err
		},
	}
	flags.bindSize(cmd, 640, 480)
	flags.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "out.png", "output image (.png, .bmp, .tif)")
	return cmd
}

// renderToFile loads the scene at path, renders it and writes the frame
// to out.
func renderToFile(flags *renderFlags, path, out string) (render.Stats, error) {
	opts, err := flags.options()
	if err != nil {
		return render.Stats{}, err
	}
	s, err := flags.loadScene(path, flags.width, flags.height)
	if err != nil {
		return render.Stats{}, err
	}

	r := render.NewRasterizer(flags.width, flags.height, opts)
	if err := r.RenderScene(s); err != nil {
		return render.Stats{}, err
	}
	if err := render.Save(out, r.ZBuffer()); err != nil {
		return render.Stats{}, fmt.Errorf("save %s: %w", out, err)
	}

	stats := r.Stats()
	slog.Info("rendered",
		slog.String("out", out),
		slog.String("mode", opts.Mode().String()),
		slog.Int("triangles", stats.Triangles),
		slog.Int("pixels", stats.Writes),
	)
	return stats, nil
}
