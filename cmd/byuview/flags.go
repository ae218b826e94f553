package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/taigrr/byuview/pkg/render"
	"github.com/taigrr/byuview/pkg/scene"
)

// renderFlags are the flags shared by every subcommand.
type renderFlags struct {
	width, height int
	cameraPath    string
	lightPath     string
	vertices      bool
	edges         bool
	faces         bool
	labels        bool
	bg            string
	workers       int
}

// bindSize adds --width and --height for commands that write images.
func (f *renderFlags) bindSize(cmd *cobra.Command, width, height int) {
	fs := cmd.Flags()
	fs.IntVar(&f.width, "width", width, "output width in pixels")
	fs.IntVar(&f.height, "height", height, "output height in pixels")
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.cameraPath, "camera", "", "camera file (overrides a camera in the scene file)")
	fs.StringVar(&f.lightPath, "light", "", "light file; without one, faces render black")
	fs.BoolVar(&f.vertices, "vertices", true, "draw projected vertices")
	fs.BoolVar(&f.edges, "edges", true, "draw wireframe edges")
	fs.BoolVar(&f.faces, "faces", true, "draw filled, shaded faces")
	fs.BoolVar(&f.labels, "labels", false, "label vertices in points mode")
	fs.StringVar(&f.bg, "bg", "0,0,0", "background color (R,G,B)")
	fs.IntVar(&f.workers, "workers", runtime.GOMAXPROCS(0), "horizontal bands rendered in parallel")
}

// options converts the flags into render options.
func (f *renderFlags) options() (render.Options, error) {
	bg, err := parseRGB(f.bg)
	if err != nil {
		return render.Options{}, err
	}
	if f.width <= 0 || f.height <= 0 {
		return render.Options{}, fmt.Errorf("invalid size %dx%d", f.width, f.height)
	}

	opts := render.DefaultOptions()
	opts.ShowVertices = f.vertices
	opts.ShowEdges = f.edges
	opts.ShowFaces = f.faces
	opts.ShowLabels = f.labels
	opts.Background = bg
	opts.Workers = max(f.workers, 1)
	return opts, nil
}

// loadScene loads the mesh and any camera and light files. A scene without
// a camera gets one framing the whole mesh.
func (f *renderFlags) loadScene(path string, width, height int) (*scene.Scene, error) {
	s, err := scene.Load(path, scene.Options{CameraPath: f.cameraPath, LightPath: f.lightPath})
	if err != nil {
		return nil, err
	}
	slog.Debug("scene loaded",
		slog.String("path", path),
		slog.Int("vertices", s.Mesh.VertexCount()),
		slog.Int("triangles", s.Mesh.TriangleCount()),
		slog.Bool("camera", s.Camera() != nil),
		slog.Bool("light", s.Light() != nil),
	)

	if s.Camera() == nil {
		cam, err := scene.DefaultCamera(s.Mesh, float64(width)/float64(height))
		if err != nil {
			return nil, fmt.Errorf("frame mesh: %w", err)
		}
		slog.Info("no camera in scene, framing the mesh", slog.String("camera", cam.String()))
		s.SetCamera(cam)
	}
	return s, nil
}

// parseRGB parses "R,G,B" with each channel in 0..255.
func parseRGB(s string) (color.RGBA, error) {
	var r, g, b int
	if n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want R,G,B", s)
	}
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return color.RGBA{}, fmt.Errorf("invalid color %q: channels are 0..255", s)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}
