package math3d

import "errors"

// ErrDegenerateTriangle is returned when a triangle has zero area.
var ErrDegenerateTriangle = errors.New("degenerate triangle")

// Barycentric returns the weights (α, β, γ) of q relative to the 2D
// triangle (a, b, c), packed into a Vec3 as X=α, Y=β, Z=γ, so that
// q = αa + βb + γc and α+β+γ = 1.
//
// Collinear a, b, c return ErrDegenerateTriangle.
func Barycentric(q, a, b, c Vec2) (Vec3, error) {
	area := b.Sub(a).Cross(c.Sub(a))
	if area == 0 {
		return Vec3{}, ErrDegenerateTriangle
	}

	alpha := b.Sub(q).Cross(c.Sub(q)) / area
	beta := c.Sub(q).Cross(a.Sub(q)) / area
	return Vec3{alpha, beta, 1 - alpha - beta}, nil
}

// Interpolate blends three per-vertex attributes with barycentric weights w.
func Interpolate(a, b, c, w Vec3) Vec3 {
	return Vec3{
		a.X*w.X + b.X*w.Y + c.X*w.Z,
		a.Y*w.X + b.Y*w.Y + c.Y*w.Z,
		a.Z*w.X + b.Z*w.Y + c.Z*w.Z,
	}
}
