package render

import (
	"errors"
	"image"
	"image/color"
	"log/slog"

	"github.com/taigrr/byuview/pkg/math3d"
	"golang.org/x/sync/errgroup"
)

// ErrNoCamera is returned when a scene without a camera is rendered.
var ErrNoCamera = errors.New("scene has no camera")

// MeshRenderer is imported from models to avoid circular deps.
// This interface allows drawing meshes without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// LabeledMesh extends MeshRenderer with per-vertex labels.
type LabeledMesh interface {
	MeshRenderer
	VertexLabel(i int) string
}

// Scene is the read-only view of a scene the rasterizer needs.
type Scene interface {
	Geometry() MeshRenderer
	Camera() *Camera
	Light() *Light
}

// Mode is the drawing mode selected by Options.
type Mode int

const (
	ModeNone      Mode = iota // nothing enabled, only the background is drawn
	ModePoints                // projected vertices as single pixels
	ModeWireframe             // triangle edges with Bresenham lines
	ModeFill                  // scanline fill with Z-buffered Phong shading
)

func (m Mode) String() string {
	switch m {
	case ModePoints:
		return "points"
	case ModeWireframe:
		return "wireframe"
	case ModeFill:
		return "fill"
	}
	return "none"
}

// Options controls what a render pass draws.
type Options struct {
	ShowVertices bool // draw projected vertices
	ShowEdges    bool // draw wireframe edges
	ShowFaces    bool // draw filled, shaded triangles
	ShowLabels   bool // annotate vertices with their labels in points mode

	Background  color.RGBA
	VertexColor color.RGBA
	EdgeColor   color.RGBA

	// Workers > 1 splits the buffer into that many horizontal bands
	// rendered concurrently.
	Workers int
}

// DefaultOptions enables every mode, so the fill pass is drawn.
func DefaultOptions() Options {
	return Options{
		ShowVertices: true,
		ShowEdges:    true,
		ShowFaces:    true,
		Background:   ColorBlack,
		VertexColor:  ColorWhite,
		EdgeColor:    ColorWhite,
		Workers:      1,
	}
}

// Mode resolves the enabled flags by precedence: faces hide edges and
// vertices, edges hide vertices.
func (o Options) Mode() Mode {
	switch {
	case o.ShowFaces:
		return ModeFill
	case o.ShowEdges:
		return ModeWireframe
	case o.ShowVertices:
		return ModePoints
	}
	return ModeNone
}

// Stats records what the last render pass did.
type Stats struct {
	Triangles     int // triangles in the scene
	Unprojectable int // skipped because a vertex lies on the focal plane
	Degenerate    int // skipped in fill mode because they project to a line
	Fragments     int // pixels produced by scan conversion
	Writes        int // Z-buffer cells that took a new closest surface
}

func (s *Stats) add(o Stats) {
	s.Fragments += o.Fragments
	s.Writes += o.Writes
}

// Rasterizer draws scenes into a Z-buffer it owns.
type Rasterizer struct {
	zb    *ZBuffer
	opts  Options
	stats Stats
}

// NewRasterizer creates a rasterizer with a width×height buffer.
func NewRasterizer(width, height int, opts Options) *Rasterizer {
	return &Rasterizer{
		zb:   NewZBuffer(width, height),
		opts: opts,
	}
}

// Resize changes the output dimensions. The buffer is cleared on the next render.
func (r *Rasterizer) Resize(width, height int) {
	r.zb.Resize(width, height)
}

// Width returns the buffer width.
func (r *Rasterizer) Width() int {
	return r.zb.Width
}

// Height returns the buffer height.
func (r *Rasterizer) Height() int {
	return r.zb.Height
}

// Options returns the current render options.
func (r *Rasterizer) Options() Options {
	return r.opts
}

// SetOptions replaces the render options used by later passes.
func (r *Rasterizer) SetOptions(opts Options) {
	r.opts = opts
}

// ZBuffer returns the buffer holding the last rendered frame.
func (r *Rasterizer) ZBuffer() *ZBuffer {
	return r.zb
}

// Stats returns statistics for the last render pass.
func (r *Rasterizer) Stats() Stats {
	return r.stats
}

// RenderScene renders s. See Render.
func (r *Rasterizer) RenderScene(s Scene) error {
	return r.Render(s.Geometry(), s.Camera(), s.Light())
}

// triangle is a mesh triangle with its vertices already projected.
type triangle struct {
	pts    [3]image.Point
	screen [3]math3d.Vec2
	pos    [3]math3d.Vec3
	normal [3]math3d.Vec3
}

// Render clears the buffer to the background color and draws every
// triangle of mesh as seen from cam. light may be nil, which shades all
// faces black. Triangles with a vertex on the camera's focal plane are
// skipped. The only error is ErrNoCamera, returned after clearing.
func (r *Rasterizer) Render(mesh MeshRenderer, cam *Camera, light *Light) error {
	r.zb.Clear(r.opts.Background)
	r.stats = Stats{}

	if cam == nil {
		Logger().Warn("render skipped", slog.Any("err", ErrNoCamera))
		return ErrNoCamera
	}
	if mesh == nil {
		return nil
	}

	mode := r.opts.Mode()
	w, h := r.zb.Width, r.zb.Height

	// Project each shared vertex once.
	nv := mesh.VertexCount()
	proj := make([]image.Point, nv)
	projOK := make([]bool, nv)
	for i := range nv {
		pos, _ := mesh.GetVertex(i)
		proj[i], projOK[i] = cam.ProjectToDevice(pos, w, h)
	}

	r.stats.Triangles = mesh.TriangleCount()

	tris := make([]triangle, 0, r.stats.Triangles)
	for i := range r.stats.Triangles {
		face := mesh.GetFace(i)
		if !projOK[face[0]] || !projOK[face[1]] || !projOK[face[2]] {
			r.stats.Unprojectable++
			Logger().Debug("triangle unprojectable", slog.Int("triangle", i))
			continue
		}

		var t triangle
		for k, vi := range face {
			t.pts[k] = proj[vi]
			t.screen[k] = math3d.V2FromPoint(proj[vi])
			t.pos[k], t.normal[k] = mesh.GetVertex(vi)
		}

		if mode == ModeFill && t.screen[1].Sub(t.screen[0]).Cross(t.screen[2].Sub(t.screen[0])) == 0 {
			r.stats.Degenerate++
			continue
		}
		tris = append(tris, t)
	}

	p := &pass{
		zb:    r.zb,
		opts:  r.opts,
		mode:  mode,
		focus: cam.Focus(),
		light: light,
		tris:  tris,
	}

	workers := r.opts.Workers
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		r.stats.add(p.draw(band{0, h}))
	} else {
		bandStats := make([]Stats, workers)
		var g errgroup.Group
		for i := range workers {
			b := band{h * i / workers, h * (i + 1) / workers}
			g.Go(func() error {
				bandStats[i] = p.draw(b)
				return nil
			})
		}
		// Bands never fail, Wait only joins them.
		_ = g.Wait()
		for _, s := range bandStats {
			r.stats.add(s)
		}
	}

	if mode == ModePoints && r.opts.ShowLabels {
		if lm, ok := mesh.(LabeledMesh); ok {
			drawLabels(r.zb, lm, proj, projOK, r.opts.VertexColor)
		}
	}

	Logger().Debug("render pass",
		slog.String("mode", mode.String()),
		slog.Int("width", w),
		slog.Int("height", h),
		slog.Int("triangles", r.stats.Triangles),
		slog.Int("unprojectable", r.stats.Unprojectable),
		slog.Int("degenerate", r.stats.Degenerate),
		slog.Int("fragments", r.stats.Fragments),
		slog.Int("writes", r.stats.Writes),
	)
	return nil
}

// pass holds the read-only state of one render pass. draw may run
// concurrently for disjoint bands.
type pass struct {
	zb    *ZBuffer
	opts  Options
	mode  Mode
	focus math3d.Vec3
	light *Light
	tris  []triangle
}

// draw renders every triangle, in scene order, restricted to rows in b.
func (p *pass) draw(b band) Stats {
	var s Stats
	clip := image.Rect(0, b.y0, p.zb.Width, b.y1)

	for i := range p.tris {
		t := &p.tris[i]
		switch p.mode {
		case ModePoints:
			for _, pt := range t.pts {
				if b.contains(pt.Y) {
					p.zb.SetPixel(pt.X, pt.Y, p.opts.VertexColor)
				}
			}
		case ModeWireframe:
			for k := range 3 {
				drawLine(p.zb, t.pts[k], t.pts[(k+1)%3], p.opts.EdgeColor, b)
			}
		case ModeFill:
			FillTriangle(t.pts, clip, func(x, y int) {
				s.Fragments++
				if p.shadePixel(t, x, y) {
					s.Writes++
				}
			})
		}
	}
	return s
}

// shadePixel resolves depth at (x, y) for t and shades the pixel if t is
// the closest surface so far.
func (p *pass) shadePixel(t *triangle, x, y int) bool {
	w, err := math3d.Barycentric(math3d.V2(float64(x), float64(y)), t.screen[0], t.screen[1], t.screen[2])
	if err != nil {
		return false
	}

	pt := math3d.Interpolate(t.pos[0], t.pos[1], t.pos[2], w)
	depth := p.focus.Distance(pt)

	return p.zb.Update(x, y, depth, func() color.RGBA {
		n := math3d.Interpolate(t.normal[0], t.normal[1], t.normal[2], w).Normalize()
		return Shade(pt, n, p.focus, p.light)
	})
}
