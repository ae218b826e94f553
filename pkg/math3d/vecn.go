package math3d

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimension is returned when vectors of different sizes are combined.
var ErrDimension = errors.New("dimension mismatch")

// VecN is a vector with an arbitrary number of components.
// Scene files describe points, colors and coefficients as rows of
// floats, and VecN is how those rows are handled before they are
// narrowed to a Vec3.
type VecN []float64

// Len returns the number of components.
func (v VecN) Len() int {
	return len(v)
}

// Sub returns v - w.
func (v VecN) Sub(w VecN) (VecN, error) {
	if len(v) != len(w) {
		return nil, fmt.Errorf("sub %d and %d components: %w", len(v), len(w), ErrDimension)
	}
	out := make(VecN, len(v))
	for i := range v {
		out[i] = v[i] - w[i]
	}
	return out, nil
}

// Scale returns v * s.
func (v VecN) Scale(s float64) VecN {
	out := make(VecN, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

// Dot returns v · w.
func (v VecN) Dot(w VecN) (float64, error) {
	if len(v) != len(w) {
		return 0, fmt.Errorf("dot %d and %d components: %w", len(v), len(w), ErrDimension)
	}
	var sum float64
	for i := range v {
		sum += v[i] * w[i]
	}
	return sum, nil
}

// Norm returns the Euclidean length of v.
func (v VecN) Norm() float64 {
	var sum float64
	for _, c := range v {
		sum += c * c
	}
	return math.Sqrt(sum)
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v VecN) Normalize() VecN {
	n := v.Norm()
	if n == 0 {
		return append(VecN(nil), v...)
	}
	return v.Scale(1 / n)
}

// Broadcast returns an n-component vector. A single component is
// repeated n times; a vector that already has n components is copied.
func (v VecN) Broadcast(n int) (VecN, error) {
	switch len(v) {
	case n:
		return append(VecN(nil), v...), nil
	case 1:
		out := make(VecN, n)
		for i := range out {
			out[i] = v[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("broadcast %d components to %d: %w", len(v), n, ErrDimension)
	}
}

// Vec3 narrows v to a Vec3. v must have exactly three components.
func (v VecN) Vec3() (Vec3, error) {
	if len(v) != 3 {
		return Vec3{}, fmt.Errorf("expected 3 components, got %d: %w", len(v), ErrDimension)
	}
	return Vec3{v[0], v[1], v[2]}, nil
}
