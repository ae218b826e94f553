package render

import (
	"image/color"
	"math"

	"github.com/taigrr/byuview/pkg/math3d"
)

// Axis colors used by DrawAxes.
var (
	ColorAxisX = color.RGBA{255, 0, 0, 255}
	ColorAxisY = color.RGBA{0, 255, 0, 255}
	ColorAxisZ = color.RGBA{0, 0, 255, 255}
)

// Overlay draws world-space guides over a rendered frame. Guides ignore
// and do not update depth. Unlike mesh geometry they are clipped to the
// view volume, so nothing behind the camera shows up mirrored.
type Overlay struct {
	camera  *Camera
	zb      *ZBuffer
	frustum Frustum
	near    float64
}

// NewOverlay creates an overlay drawing into zb as seen from camera.
func NewOverlay(camera *Camera, zb *ZBuffer) *Overlay {
	return &Overlay{
		camera:  camera,
		zb:      zb,
		frustum: camera.Frustum(),
		near:    1e-3 * math.Abs(camera.Distance()),
	}
}

// DrawLine3D draws the visible part of a line in 3D space.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, c color.RGBA) {
	p1, p2, ok := o.frustum.ClipSegment(p1, p2, o.near)
	if !ok {
		return
	}
	a, ok1 := o.camera.ProjectToDevice(p1, o.zb.Width, o.zb.Height)
	b, ok2 := o.camera.ProjectToDevice(p2, o.zb.Width, o.zb.Height)
	if !ok1 || !ok2 {
		return
	}
	drawLine(o.zb, a, b, c, band{0, o.zb.Height})
}

// DrawBox draws the twelve edges of an axis-aligned box.
func (o *Overlay) DrawBox(box AABB, c color.RGBA) {
	if !o.frustum.IntersectAABB(box) {
		return
	}
	lo, hi := box.Min, box.Max
	corners := [8]math3d.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}

	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		o.DrawLine3D(corners[e[0]], corners[e[1]], c)
	}
}

// DrawAxes draws the world axes from origin.
func (o *Overlay) DrawAxes(origin math3d.Vec3, length float64) {
	o.DrawLine3D(origin, origin.Add(math3d.V3(length, 0, 0)), ColorAxisX)
	o.DrawLine3D(origin, origin.Add(math3d.V3(0, length, 0)), ColorAxisY)
	o.DrawLine3D(origin, origin.Add(math3d.V3(0, 0, length)), ColorAxisZ)
}

// DrawPoint draws a point as a small cross, e.g. to mark the light.
// Points outside the view volume are skipped.
func (o *Overlay) DrawPoint(pos math3d.Vec3, size float64, c color.RGBA) {
	if !o.frustum.ContainsPoint(pos) {
		return
	}
	h := size / 2
	o.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	o.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	o.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), c)
}
