package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/taigrr/byuview/pkg/math3d"
)

var (
	// ErrDegenerateBasis is returned when the view direction is zero or
	// parallel to the up vector.
	ErrDegenerateBasis = errors.New("camera direction and up vector are parallel")

	// ErrInvalidCamera is returned for a zero distance or window half-extent.
	ErrInvalidCamera = errors.New("invalid camera parameters")
)

// maxDevice bounds the pixel offset of a projected point from the buffer
// center. Larger offsets are scaled down as a whole, so a vertex far off
// screen keeps its direction from the center without overflowing int.
const maxDevice = 1 << 24

// Camera is a pinhole camera described by a focal point, a view direction,
// an up hint and a view window at distance D from the focus.
//
// The view basis is derived once in NewCamera; a Camera is immutable and
// safe to share between concurrent renders.
type Camera struct {
	focus math3d.Vec3
	dir   math3d.Vec3 // as given, not normalized
	up    math3d.Vec3
	d     float64
	hx    float64
	hy    float64

	basis math3d.Mat3 // rows U, V', N
}

// NewCamera builds a camera at focus looking along dir with the given up
// hint. d is the distance to the view plane and hx, hy its half-extents.
func NewCamera(focus, dir, up math3d.Vec3, d, hx, hy float64) (*Camera, error) {
	if d == 0 || hx == 0 || hy == 0 || !finite(d, hx, hy) {
		return nil, fmt.Errorf("%w: d=%v hx=%v hy=%v", ErrInvalidCamera, d, hx, hy)
	}
	if !focus.IsFinite() || !dir.IsFinite() || !up.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite vector", ErrInvalidCamera)
	}

	n := dir.Normalize()
	u := up.Cross(n).Normalize()
	if n.IsZero() || u.IsZero() {
		return nil, fmt.Errorf("%w: N=%v V=%v", ErrDegenerateBasis, dir, up)
	}
	v := n.Cross(u)

	return &Camera{
		focus: focus,
		dir:   dir,
		up:    up,
		d:     d,
		hx:    hx,
		hy:    hy,
		basis: math3d.Mat3FromRows(u, v, n),
	}, nil
}

// LookAt builds a camera at eye looking at target.
func LookAt(eye, target, up math3d.Vec3, d, hx, hy float64) (*Camera, error) {
	return NewCamera(eye, target.Sub(eye), up, d, hx, hy)
}

// Focus returns the focal point C.
func (c *Camera) Focus() math3d.Vec3 { return c.focus }

// Direction returns the view direction N as given at construction.
func (c *Camera) Direction() math3d.Vec3 { return c.dir }

// UpHint returns the up vector V as given at construction.
func (c *Camera) UpHint() math3d.Vec3 { return c.up }

// Distance returns the view plane distance d.
func (c *Camera) Distance() float64 { return c.d }

// HalfExtents returns the view window half-extents hx, hy.
func (c *Camera) HalfExtents() (hx, hy float64) { return c.hx, c.hy }

// Basis returns the orthonormal view basis vectors U, V', N.
func (c *Camera) Basis() (u, v, n math3d.Vec3) {
	return c.basis.Row(0), c.basis.Row(1), c.basis.Row(2)
}

// ToView maps a world point into view coordinates relative to the focus.
func (c *Camera) ToView(p math3d.Vec3) math3d.Vec3 {
	return c.basis.MulVec3(p.Sub(c.focus))
}

// Project maps a world point to normalized screen coordinates, where the
// view window spans [-1, 1] on both axes. ok is false when the point lies
// on the focal plane (view z == 0) or the result is not finite.
func (c *Camera) Project(p math3d.Vec3) (xs, ys float64, ok bool) {
	w := c.ToView(p)
	if w.Z == 0 {
		return 0, 0, false
	}

	xs = c.d * w.X / w.Z
	ys = c.d * w.Y / w.Z
	xs /= c.hx
	ys /= c.hy

	if !finite(xs, ys) {
		return 0, 0, false
	}
	return xs, ys, true
}

// ToDevice maps normalized screen coordinates to pixel coordinates in a
// width×height buffer, rounding to nearest. Row 0 is the top of the buffer.
func ToDevice(xs, ys float64, width, height int) image.Point {
	w, h := float64(width), float64(height)

	// Keep xs*w finite before measuring the offset.
	if m := math.Max(math.Abs(xs), math.Abs(ys)); m > maxDevice {
		xs, ys = xs*maxDevice/m, ys*maxDevice/m
	}

	ox, oy := xs*w/2, -ys*h/2
	if m := math.Max(math.Abs(ox), math.Abs(oy)); m > maxDevice {
		ox, oy = ox*maxDevice/m, oy*maxDevice/m
		return image.Pt(int(math.Floor(w/2+ox+0.5)), int(math.Floor(h/2+oy+0.5)))
	}

	px := math.Floor((xs+1)/2*w + 0.5)
	py := math.Floor(h - (ys+1)/2*h + 0.5)
	return image.Pt(int(px), int(py))
}

// ProjectToDevice projects a world point straight to pixel coordinates.
func (c *Camera) ProjectToDevice(p math3d.Vec3, width, height int) (image.Point, bool) {
	xs, ys, ok := c.Project(p)
	if !ok {
		return image.Point{}, false
	}
	return ToDevice(xs, ys, width, height), true
}

// String describes the camera the way it is written in scene files.
func (c *Camera) String() string {
	return fmt.Sprintf("C=%v N=%v V=%v d=%v hx=%v hy=%v", c.focus, c.dir, c.up, c.d, c.hx, c.hy)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
