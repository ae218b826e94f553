package render

import (
	"math"

	"github.com/taigrr/byuview/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the offset from the origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// planeThrough builds the plane with the given normal containing p.
func planeThrough(normal, p math3d.Vec3) Plane {
	pl := Plane{Normal: normal, D: -normal.Dot(p)}
	pl.Normalize()
	return pl
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the infinite pyramid seen through a camera's view window.
// Planes are ordered: Left, Right, Bottom, Top, Near. Each normal points
// inward. The near plane passes through the focus.
type Frustum struct {
	Planes [5]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
)

// Frustum returns the camera's view volume in world space.
func (c *Camera) Frustum() Frustum {
	u, v, n := c.Basis()
	d := math.Abs(c.d)
	hx, hy := math.Abs(c.hx), math.Abs(c.hy)

	// A view point (x, y, z) is inside horizontally when hx*z ± d*x >= 0.
	var f Frustum
	f.Planes[FrustumLeft] = planeThrough(n.Scale(hx).Add(u.Scale(d)), c.focus)
	f.Planes[FrustumRight] = planeThrough(n.Scale(hx).Sub(u.Scale(d)), c.focus)
	f.Planes[FrustumBottom] = planeThrough(n.Scale(hy).Add(v.Scale(d)), c.focus)
	f.Planes[FrustumTop] = planeThrough(n.Scale(hy).Sub(v.Scale(d)), c.focus)
	f.Planes[FrustumNear] = planeThrough(n, c.focus)
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Returns true if any part of the AABB may be visible.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The corner furthest along the normal is the last to leave the plane.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ClipSegment clips the segment ab to the frustum, with the near plane
// moved forward by near so the result never touches the focal plane.
// ok is false when no part of the segment is inside.
func (f Frustum) ClipSegment(a, b math3d.Vec3, near float64) (math3d.Vec3, math3d.Vec3, bool) {
	for i := range f.Planes {
		off := 0.0
		if i == FrustumNear {
			off = near
		}
		da := f.Planes[i].DistanceToPoint(a) - off
		db := f.Planes[i].DistanceToPoint(b) - off
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			a = a.Add(b.Sub(a).Scale(da / (da - db)))
		case db < 0:
			b = b.Add(a.Sub(b).Scale(db / (db - da)))
		}
	}
	return a, b, true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
