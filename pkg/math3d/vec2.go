package math3d

import "image"

// Vec2 represents a 2D vector, typically a projected screen position.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// V2FromPoint converts an integer pixel position to a Vec2.
func V2FromPoint(p image.Point) Vec2 {
	return Vec2{float64(p.X), float64(p.Y)}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Cross returns the z component of the 3D cross product of a and b,
// which is twice the signed area of the triangle (0, a, b).
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
