package render

import (
	"image"
	"math"
)

// spanEpsilon absorbs rounding in edge intercepts so that a pixel center
// lying exactly on an edge is not lost.
const spanEpsilon = 1e-9

// band is a half-open row range [y0, y1).
type band struct {
	y0, y1 int
}

func (b band) contains(y int) bool {
	return y >= b.y0 && y < b.y1
}

type fpoint struct {
	x, y float64
}

func fpt(p image.Point) fpoint {
	return fpoint{float64(p.X), float64(p.Y)}
}

// FillTriangle scan-converts the triangle pts and calls fragment for every
// pixel inside clip whose center lies within the triangle.
//
// The vertices are sorted by y. A triangle with a horizontal edge is filled
// directly; any other triangle is split at the middle vertex's row into a
// bottom-flat and a top-flat half. Rows and spans outside clip are skipped
// without calling fragment. A triangle whose vertices share one row covers
// nothing.
func FillTriangle(pts [3]image.Point, clip image.Rectangle, fragment func(x, y int)) {
	v0, v1, v2 := sortByY(pts)
	if v0.Y == v2.Y {
		return
	}

	f := filler{clip: clip, fragment: fragment}
	switch {
	case v1.Y == v2.Y:
		f.bottomFlat(fpt(v0), fpt(v1), fpt(v2), v0.Y, v2.Y)
	case v0.Y == v1.Y:
		f.topFlat(fpt(v0), fpt(v1), fpt(v2), v0.Y, v2.Y)
	default:
		// Split along the long edge v0→v2 at the middle row.
		t := float64(v1.Y-v0.Y) / float64(v2.Y-v0.Y)
		v4 := fpoint{float64(v0.X) + t*float64(v2.X-v0.X), float64(v1.Y)}
		f.bottomFlat(fpt(v0), fpt(v1), v4, v0.Y, v1.Y)
		f.topFlat(fpt(v1), v4, fpt(v2), v1.Y+1, v2.Y)
	}
}

// sortByY returns the points ordered by ascending y, stable for ties.
func sortByY(p [3]image.Point) (a, b, c image.Point) {
	a, b, c = p[0], p[1], p[2]
	if b.Y < a.Y {
		a, b = b, a
	}
	if c.Y < b.Y {
		b, c = c, b
		if b.Y < a.Y {
			a, b = b, a
		}
	}
	return a, b, c
}

type filler struct {
	clip     image.Rectangle
	fragment func(x, y int)
}

// bottomFlat fills rows yFrom..yTo of a triangle with apex top and a
// horizontal bottom edge b1–b2.
func (f filler) bottomFlat(top, b1, b2 fpoint, yFrom, yTo int) {
	inv1 := (b1.x - top.x) / (b1.y - top.y)
	inv2 := (b2.x - top.x) / (b2.y - top.y)
	f.walk(top, inv1, top, inv2, yFrom, yTo)
}

// topFlat fills rows yFrom..yTo of a triangle with a horizontal top edge
// t1–t2 and apex bottom.
func (f filler) topFlat(t1, t2, bottom fpoint, yFrom, yTo int) {
	inv1 := (bottom.x - t1.x) / (bottom.y - t1.y)
	inv2 := (bottom.x - t2.x) / (bottom.y - t2.y)
	f.walk(t1, inv1, t2, inv2, yFrom, yTo)
}

// walk visits rows yFrom..yTo (inclusive, clipped) between the edges
// starting at e1 and e2 with inverse slopes inv1 and inv2 (Δx per row).
// Intercepts are derived from the row offset rather than a running sum,
// so the result for a row does not depend on where the walk started.
func (f filler) walk(e1 fpoint, inv1 float64, e2 fpoint, inv2 float64, yFrom, yTo int) {
	lo := max(yFrom, f.clip.Min.Y)
	hi := min(yTo, f.clip.Max.Y-1)

	for y := lo; y <= hi; y++ {
		x1 := e1.x + inv1*(float64(y)-e1.y)
		x2 := e2.x + inv2*(float64(y)-e2.y)
		if x1 > x2 {
			x1, x2 = x2, x1
		}

		left := math.Ceil(x1 - spanEpsilon)
		right := math.Floor(x2 + spanEpsilon)
		if right < float64(f.clip.Min.X) || left >= float64(f.clip.Max.X) {
			continue
		}
		xa := max(int(left), f.clip.Min.X)
		xb := min(int(right), f.clip.Max.X-1)
		for x := xa; x <= xb; x++ {
			f.fragment(x, y)
		}
	}
}
