package render

import (
	"image"
	"image/color"
)

// Bresenham calls plot for every pixel on the line from (x1, y1) to
// (x2, y2), endpoints included, stepping one pixel along the dominant
// axis each iteration. It emits exactly max(|dx|, |dy|)+1 pixels.
func Bresenham(x1, y1, x2, y2 int, plot func(x, y int)) {
	x, y := x1, y1
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := sign(x2-x1), sign(y2-y1)

	// When y dominates, walk y and treat x as the minor axis.
	changed := dy > dx
	if changed {
		dx, dy = dy, dx
	}

	e := 2*dy - dx
	for range dx + 1 {
		plot(x, y)
		if e >= 0 {
			if changed {
				x += sx
			} else {
				y += sy
			}
			e -= 2 * dx
		}
		if changed {
			y += sy
		} else {
			x += sx
		}
		e += 2 * dy
	}
}

// drawLine rasterizes a line into the color plane. Only rows inside b are
// written.
func drawLine(z *ZBuffer, p, q image.Point, c color.RGBA, b band) {
	clip := image.Rect(0, b.y0, z.Width, b.y1)
	bresenhamClipped(p.X, p.Y, q.X, q.Y, clip, func(x, y int) {
		z.SetPixel(x, y, c)
	})
}

// bresenhamClipped plots the pixels of Bresenham(x1, y1, x2, y2) that fall
// inside clip, visiting only the major-axis steps that cross it. After i
// major steps the minor axis has advanced (2*dy*i + dx) / (2*dx) pixels,
// so the walk can start at any step with the same pixels as a full walk.
func bresenhamClipped(x1, y1, x2, y2 int, clip image.Rectangle, plot func(x, y int)) {
	if clip.Empty() {
		return
	}
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := sign(x2-x1), sign(y2-y1)

	// major/minor start, direction and clip range.
	a0, b0, sa, sb := x1, y1, sx, sy
	lo, hi := clip.Min.X, clip.Max.X-1
	changed := dy > dx
	if changed {
		dx, dy = dy, dx
		a0, b0, sa, sb = y1, x1, sy, sx
		lo, hi = clip.Min.Y, clip.Max.Y-1
	}

	iLo, iHi := 0, dx
	switch {
	case sa > 0:
		iLo, iHi = max(iLo, lo-a0), min(iHi, hi-a0)
	case sa < 0:
		iLo, iHi = max(iLo, a0-hi), min(iHi, a0-lo)
	}

	for i := iLo; i <= iHi; i++ {
		m := 0
		if dx > 0 {
			m = (2*dy*i + dx) / (2 * dx)
		}
		x, y := a0+sa*i, b0+sb*m
		if changed {
			x, y = y, x
		}
		if image.Pt(x, y).In(clip) {
			plot(x, y)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
