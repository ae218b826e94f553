package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4NormalMatrix(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 1, 2)))

	for b.Loop() {
		_ = m.NormalMatrix()
	}
}

func BenchmarkMat3MulVec3(b *testing.B) {
	m := Mat3FromRows(V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkBarycentric(b *testing.B) {
	a, bb, c := V2(0, 0), V2(100, 0), V2(50, 80)
	q := V2(40, 30)

	for b.Loop() {
		_, _ = Barycentric(q, a, bb, c)
	}
}

func BenchmarkVecNNormalize(b *testing.B) {
	v := VecN{1, 2, 3, 4, 5}

	for b.Loop() {
		_ = v.Normalize()
	}
}
